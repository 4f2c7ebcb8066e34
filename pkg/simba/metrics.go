package simba

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsStartKey = "metrics_start_time"

// metricsMiddleware exports Prometheus metrics for the request lifecycle.
// With no registerer configured it collects into a private registry, so
// embedding applications never hit duplicate-registration panics; pass your
// own registerer through WithMetricsRegisterer to scrape the values.
type metricsMiddleware struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight *prometheus.GaugeVec
}

func newMetricsMiddleware(registerer prometheus.Registerer) *metricsMiddleware {
	if registerer == nil {
		registerer = prometheus.NewRegistry()
	}

	return &metricsMiddleware{
		requestsTotal: promauto.With(registerer).NewCounterVec(
			prometheus.CounterOpts{
				Name: "simba_requests_total",
				Help: "Total number of API requests made",
			},
			[]string{"method", "status_code", "endpoint"},
		),
		requestDuration: promauto.With(registerer).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "simba_request_duration_seconds",
				Help:    "Duration of API requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "status_code", "endpoint"},
		),
		requestsInFlight: promauto.With(registerer).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "simba_requests_in_flight",
				Help: "Number of API requests currently in flight",
			},
			[]string{"method", "endpoint"},
		),
	}
}

func (m *metricsMiddleware) Name() string {
	return MiddlewareMetrics
}

func (m *metricsMiddleware) ProcessRequest(_ context.Context, req *Request) (*Response, error) {
	if req.Metadata == nil {
		req.Metadata = make(map[string]interface{})
	}

	req.Metadata[metricsStartKey] = time.Now()

	m.requestsInFlight.WithLabelValues(req.Method, endpointLabel(req)).Inc()

	return nil, nil
}

func (m *metricsMiddleware) ProcessResponse(_ context.Context, req *Request, resp *Response) (*Response, error) {
	endpoint := endpointLabel(req)
	statusCode := strconv.Itoa(resp.StatusCode)

	m.requestsInFlight.WithLabelValues(req.Method, endpoint).Dec()
	m.requestsTotal.WithLabelValues(req.Method, statusCode, endpoint).Inc()

	if start, ok := req.Metadata[metricsStartKey].(time.Time); ok {
		m.requestDuration.WithLabelValues(req.Method, statusCode, endpoint).Observe(time.Since(start).Seconds())
	}

	return nil, nil
}

// endpointLabel reduces the request URL to its path to keep label cardinality
// bounded by the API surface rather than by query values.
func endpointLabel(req *Request) string {
	parsed, err := url.Parse(req.URL)
	if err != nil || parsed.Path == "" {
		return req.URL
	}

	return parsed.Path
}
