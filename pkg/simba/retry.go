package simba

import (
	"context"
	"time"

	"github.com/SIMBAChain/simba-sdk-go/internal/constants"
)

// RetryConfig controls the retry middleware stage.
type RetryConfig struct {
	// MaxRetries is the maximum number of retry attempts after the initial try.
	MaxRetries int
	// RetryDelay is the base delay between retries, doubled each attempt.
	RetryDelay time.Duration
	// MaxDelay caps the backoff delay between retries.
	MaxDelay time.Duration
	// RetryOnCodes lists HTTP status codes that trigger a retry.
	RetryOnCodes []int
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:   constants.LowRetryMax,
		RetryDelay:   1 * time.Second,
		MaxDelay:     constants.ExtendedRetryWaitMax,
		RetryOnCodes: []int{429, 500, 502, 503, 504},
	}
}

// retryMiddleware re-dispatches a request through its own transport reference
// when the response status is retryable, replacing the chain's response with
// the final attempt's. It runs in the response phase, so stages ordered after
// it observe the outcome of the last attempt.
type retryMiddleware struct {
	transport Transport
	config    *RetryConfig
}

func newRetryMiddleware(transport Transport, config *RetryConfig) *retryMiddleware {
	if config == nil {
		config = DefaultRetryConfig()
	}

	return &retryMiddleware{
		transport: transport,
		config:    config,
	}
}

func (m *retryMiddleware) Name() string {
	return MiddlewareRetry
}

func (m *retryMiddleware) ProcessRequest(context.Context, *Request) (*Response, error) {
	return nil, nil
}

func (m *retryMiddleware) ProcessResponse(ctx context.Context, req *Request, resp *Response) (*Response, error) {
	if m.transport == nil || !m.shouldRetry(resp.StatusCode) {
		return nil, nil
	}

	current := resp

	for attempt := 1; attempt <= m.config.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(m.backoff(attempt)):
		}

		next, err := m.transport.Do(ctx, req)
		if err != nil {
			return nil, err
		}

		current = next

		if !m.shouldRetry(current.StatusCode) {
			break
		}
	}

	return current, nil
}

func (m *retryMiddleware) shouldRetry(statusCode int) bool {
	for _, code := range m.config.RetryOnCodes {
		if statusCode == code {
			return true
		}
	}

	return false
}

func (m *retryMiddleware) backoff(attempt int) time.Duration {
	delay := m.config.RetryDelay * time.Duration(1<<(attempt-1))
	if delay > m.config.MaxDelay {
		delay = m.config.MaxDelay
	}

	return delay
}
