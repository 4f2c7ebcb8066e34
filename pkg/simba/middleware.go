package simba

import (
	"context"
	"sync"
)

// Middleware is one named stage in the dispatch pipeline.
//
// ProcessRequest runs before the transport call and may rewrite the request.
// Returning a non-nil Response short-circuits the chain: later request hooks
// are skipped and the transport is never invoked. ProcessResponse runs after
// the transport call (or after a short-circuit) and may replace the response
// by returning a non-nil one; returning nil keeps the current response.
//
// An error from either hook aborts the chain and reaches the caller exactly
// as returned.
type Middleware interface {
	Name() string
	ProcessRequest(ctx context.Context, req *Request) (*Response, error)
	ProcessResponse(ctx context.Context, req *Request, resp *Response) (*Response, error)
}

// Manager applies an ordered middleware sequence around a single transport
// call. Registration order is the only ordering guarantee; there is no
// priority system. Manager is safe for concurrent use.
type Manager struct {
	mu     sync.RWMutex
	stages []Middleware
}

// NewManager creates an empty middleware manager.
func NewManager() *Manager {
	return &Manager{
		stages: make([]Middleware, 0),
	}
}

// Add appends a middleware stage. Its position in the chain is fixed by the
// order of Add calls.
func (m *Manager) Add(mw Middleware) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stages = append(m.stages, mw)
}

// Remove drops the named stage and reports whether it was present.
func (m *Manager) Remove(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, stage := range m.stages {
		if stage.Name() == name {
			m.stages = append(m.stages[:i], m.stages[i+1:]...)

			return true
		}
	}

	return false
}

// Get returns the named stage.
func (m *Manager) Get(name string) (Middleware, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, stage := range m.stages {
		if stage.Name() == name {
			return stage, true
		}
	}

	return nil, false
}

// Names returns the stage names in execution order.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.stages))
	for _, stage := range m.stages {
		names = append(names, stage.Name())
	}

	return names
}

// Send runs the request hooks in registration order, performs the physical
// call through the supplied transport unless a stage short-circuited, then
// runs every response hook in the same order. Each stage is invoked at most
// once per phase per request. A short-circuit response still passes through
// all response hooks so observing stages account for it. Stage errors
// propagate unwrapped.
func (m *Manager) Send(ctx context.Context, req *Request, transport Transport) (*Response, error) {
	m.mu.RLock()
	stages := make([]Middleware, len(m.stages))
	copy(stages, m.stages)
	m.mu.RUnlock()

	var resp *Response

	for _, stage := range stages {
		short, err := stage.ProcessRequest(ctx, req)
		if err != nil {
			return nil, err
		}

		if short != nil {
			resp = short

			break
		}
	}

	if resp == nil {
		var err error

		resp, err = transport.Do(ctx, req)
		if err != nil {
			return nil, err
		}
	}

	for _, stage := range stages {
		next, err := stage.ProcessResponse(ctx, req, resp)
		if err != nil {
			return nil, err
		}

		if next != nil {
			resp = next
		}
	}

	return resp, nil
}
