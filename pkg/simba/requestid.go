package simba

import (
	"context"

	"github.com/google/uuid"
)

// RequestIDHeader is the header carrying the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// requestIDMiddleware stamps a fresh UUID on every outgoing request that does
// not already carry one, so server-side logs can be correlated with SDK logs.
type requestIDMiddleware struct{}

func newRequestIDMiddleware() *requestIDMiddleware {
	return &requestIDMiddleware{}
}

func (m *requestIDMiddleware) Name() string {
	return MiddlewareRequestID
}

func (m *requestIDMiddleware) ProcessRequest(_ context.Context, req *Request) (*Response, error) {
	if req.Headers == nil {
		req.Headers = make(map[string]string)
	}

	if _, ok := headerValue(req.Headers, RequestIDHeader); !ok {
		req.Headers[RequestIDHeader] = uuid.NewString()
	}

	return nil, nil
}

func (m *requestIDMiddleware) ProcessResponse(context.Context, *Request, *Response) (*Response, error) {
	return nil, nil
}
