package simba_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SIMBAChain/simba-sdk-go/pkg/simba"
)

func newMetricsStage(t *testing.T, registerer prometheus.Registerer) simba.Middleware {
	t.Helper()

	stages, err := simba.DefaultRegistry().Build([]string{simba.MiddlewareMetrics}, simba.MiddlewareDeps{
		Metrics: registerer,
	})
	require.NoError(t, err)
	require.Len(t, stages, 1)

	return stages[0]
}

//nolint:funlen
func TestMetricsMiddleware(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewRegistry()
	stage := newMetricsStage(t, registry)

	req := &simba.Request{
		Method:   http.MethodGet,
		URL:      "https://api.example.com/v2/info?page=2",
		Metadata: map[string]interface{}{},
	}

	short, err := stage.ProcessRequest(context.Background(), req)
	require.NoError(t, err)
	assert.Nil(t, short)

	inFlight := `
# HELP simba_requests_in_flight Number of API requests currently in flight
# TYPE simba_requests_in_flight gauge
simba_requests_in_flight{endpoint="/v2/info",method="GET"} 1
`
	require.NoError(t, testutil.GatherAndCompare(registry, strings.NewReader(inFlight),
		"simba_requests_in_flight"))

	next, err := stage.ProcessResponse(context.Background(), req, &simba.Response{StatusCode: http.StatusOK})
	require.NoError(t, err)
	assert.Nil(t, next)

	settled := `
# HELP simba_requests_in_flight Number of API requests currently in flight
# TYPE simba_requests_in_flight gauge
simba_requests_in_flight{endpoint="/v2/info",method="GET"} 0
# HELP simba_requests_total Total number of API requests made
# TYPE simba_requests_total counter
simba_requests_total{endpoint="/v2/info",method="GET",status_code="200"} 1
`
	require.NoError(t, testutil.GatherAndCompare(registry, strings.NewReader(settled),
		"simba_requests_in_flight", "simba_requests_total"))

	count, err := testutil.GatherAndCount(registry, "simba_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestClientExportsMetrics(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	registry := prometheus.NewRegistry()

	client := newTestClient(t, server.URL,
		simba.WithTokenStore(NewMockTokenStore()),
		simba.WithMetricsRegisterer(registry))

	_, err := client.Get(context.Background(), "/v2/info", nil)
	require.NoError(t, err)

	expected := `
# HELP simba_requests_total Total number of API requests made
# TYPE simba_requests_total counter
simba_requests_total{endpoint="/v2/info",method="GET",status_code="200"} 1
`
	require.NoError(t, testutil.GatherAndCompare(registry, strings.NewReader(expected),
		"simba_requests_total"))
}
