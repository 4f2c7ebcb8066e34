package simba

import (
	"context"
	"time"
)

const loggingStartKey = "logging_start_time"

// loggingMiddleware debug-logs every request on the way out and every
// response on the way back, including the elapsed time between the two.
type loggingMiddleware struct {
	logger Logger
}

func newLoggingMiddleware(logger Logger) *loggingMiddleware {
	if logger == nil {
		logger = NewNoopLogger()
	}

	return &loggingMiddleware{logger: logger}
}

func (m *loggingMiddleware) Name() string {
	return MiddlewareLogging
}

func (m *loggingMiddleware) ProcessRequest(_ context.Context, req *Request) (*Response, error) {
	if req.Metadata == nil {
		req.Metadata = make(map[string]interface{})
	}

	req.Metadata[loggingStartKey] = time.Now()

	m.logger.Debug("HTTP Request", map[string]interface{}{
		"method": req.Method,
		"url":    req.URL,
	})

	return nil, nil
}

func (m *loggingMiddleware) ProcessResponse(_ context.Context, req *Request, resp *Response) (*Response, error) {
	fields := map[string]interface{}{
		"method":      req.Method,
		"url":         req.URL,
		"status_code": resp.StatusCode,
	}

	if start, ok := req.Metadata[loggingStartKey].(time.Time); ok {
		fields["duration_ms"] = time.Since(start).Milliseconds()
	}

	m.logger.Debug("HTTP Response", fields)

	return nil, nil
}
