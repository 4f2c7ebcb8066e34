package simba

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Names of the middleware stages shipped with the SDK.
const (
	MiddlewareRequestID = "requestid"
	MiddlewareLogging   = "logging"
	MiddlewareRetry     = "retry"
	MiddlewareMetrics   = "metrics"
)

// MiddlewareDeps carries the client-owned collaborators a factory may use.
// Transport is the client's own transport; a stage that dispatches directly
// (such as retry) keeps the reference it receives here.
type MiddlewareDeps struct {
	Transport Transport
	Logger    Logger
	Retry     *RetryConfig
	Metrics   prometheus.Registerer
}

// Factory builds a configured middleware instance.
type Factory func(deps MiddlewareDeps) Middleware

// Registry maps middleware names to factories while preserving registration
// order, so "all registered middleware" is a deterministic chain. A Registry
// is passed into New explicitly; there is no process-wide table.
type Registry struct {
	mu        sync.RWMutex
	order     []string
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		order:     make([]string, 0),
		factories: make(map[string]Factory),
	}
}

// Register associates a factory with a middleware name. Registering an
// existing name replaces its factory but keeps its original position.
func (r *Registry) Register(name string, factory Factory) {
	if name == "" || factory == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; !exists {
		r.order = append(r.order, name)
	}

	r.factories[name] = factory
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)

	return names
}

// Build instantiates the named stages in the order given. A nil selection
// means every registered factory in registration order. An unknown name fails
// with ErrUnknownMiddleware.
func (r *Registry) Build(names []string, deps MiddlewareDeps) ([]Middleware, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if names == nil {
		names = r.order
	}

	stages := make([]Middleware, 0, len(names))

	for _, name := range names {
		factory, ok := r.factories[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownMiddleware, name)
		}

		stages = append(stages, factory(deps))
	}

	return stages, nil
}

// DefaultRegistry returns a registry with the built-in stages in their
// default order: requestid, logging, retry, metrics.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register(MiddlewareRequestID, func(MiddlewareDeps) Middleware {
		return newRequestIDMiddleware()
	})
	r.Register(MiddlewareLogging, func(deps MiddlewareDeps) Middleware {
		return newLoggingMiddleware(deps.Logger)
	})
	r.Register(MiddlewareRetry, func(deps MiddlewareDeps) Middleware {
		return newRetryMiddleware(deps.Transport, deps.Retry)
	})
	r.Register(MiddlewareMetrics, func(deps MiddlewareDeps) Middleware {
		return newMetricsMiddleware(deps.Metrics)
	})

	return r
}
