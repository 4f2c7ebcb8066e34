package simba

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/SIMBAChain/simba-sdk-go/internal/constants"
)

// Transport executes one fully built request and returns the raw response.
// One logical call maps to one invocation; status-based retry policy lives in
// the retry middleware stage, not here. Close releases pooled connections.
type Transport interface {
	Do(ctx context.Context, req *Request) (*Response, error)
	Close() error
}

// httpTransport is the default Transport: a retryablehttp client over a
// pooled cleanhttp client. It retries connection-level failures only and
// returns every HTTP response, whatever its status, to the caller.
type httpTransport struct {
	client *retryablehttp.Client
}

func newHTTPTransport(timeout time.Duration, skipTLSVerify bool) *httpTransport {
	if timeout <= 0 {
		timeout = constants.DefaultRequestTimeout
	}

	pooled := cleanhttp.DefaultPooledTransport()
	if skipTLSVerify {
		pooled.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} // #nosec G402 -- opt-in via Config.SkipTLSVerify for development endpoints
	}

	client := retryablehttp.NewClient()
	client.HTTPClient = &http.Client{
		Transport: pooled,
		Timeout:   timeout,
	}
	client.Logger = nil
	client.RetryMax = constants.DefaultTransportRetryMax
	client.RetryWaitMin = constants.DefaultRetryWaitMin
	client.RetryWaitMax = constants.DefaultRetryWaitMax
	client.CheckRetry = retryConnectionFailuresOnly

	return &httpTransport{client: client}
}

// retryConnectionFailuresOnly keeps transport retries below the middleware
// chain's visibility: a request that reached the server and produced any
// status code is returned, never replayed here.
func retryConnectionFailuresOnly(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	if err != nil {
		return true, nil
	}

	return false, nil
}

// Do sends the request and reads the full response body.
func (t *httpTransport) Do(ctx context.Context, req *Request) (*Response, error) {
	httpReq, err := req.httpRequest(ctx)
	if err != nil {
		return nil, err
	}

	retryReq, err := retryablehttp.FromRequest(httpReq)
	if err != nil {
		return nil, fmt.Errorf("preparing request for transport: %w", err)
	}

	resp, err := t.client.Do(retryReq)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}, nil
}

// Close releases idle connections held by the pool.
func (t *httpTransport) Close() error {
	t.client.HTTPClient.CloseIdleConnections()

	return nil
}
