package simba

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Config carries the resolved construction values for a Client. The SDK does
// not read environments, flags, or files; callers hand in final values.
type Config struct {
	// BaseURL is the API root every request path is resolved against. It must
	// be an absolute http or https URL. Required.
	BaseURL string

	// ClientID identifies this client to the token endpoint and keys the
	// stored token. Required for Authorize.
	ClientID string
	// ClientSecret is used with ClientID in the client-credentials grant.
	ClientSecret string
	// TokenURL is the OAuth2 token endpoint used when Authorize is called
	// with an empty URL. It is used as given, never resolved against BaseURL.
	TokenURL string

	// Headers are default headers merged into every request at build time.
	// Per-call headers win on conflict.
	Headers map[string]string
	// Cookies are default cookies merged into every request at build time.
	Cookies map[string]string

	// Timeout bounds each physical transport call. Defaults to 100 seconds.
	Timeout time.Duration
	// SkipTLSVerify disables certificate verification. Development only.
	SkipTLSVerify bool
	// UserAgent overrides the default User-Agent header.
	UserAgent string
	// Debug is consumed by pkg/simbaclient to wire a debug-level logger; the
	// core only stores it.
	Debug bool
}

// Option adjusts client construction beyond the plain Config values.
type Option func(*options)

type options struct {
	logger           Logger
	store            TokenStore
	transport        Transport
	registry         *Registry
	middleware       []string
	retry            *RetryConfig
	metrics          prometheus.Registerer
	mergeAuthHeaders bool
}

// WithLogger sets the logger used by the client and the logging stage.
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithTokenStore registers the token store that backs authentication. A
// client without a store cannot send requests or persist an authorization.
func WithTokenStore(store TokenStore) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithTransport replaces the default HTTP transport. The caller keeps
// ownership of configuration but the client takes over Close.
func WithTransport(transport Transport) Option {
	return func(o *options) {
		o.transport = transport
	}
}

// WithRegistry replaces the default middleware registry.
func WithRegistry(registry *Registry) Option {
	return func(o *options) {
		o.registry = registry
	}
}

// WithMiddleware selects which registered stages make up the chain, in the
// order given. Without this option every registered stage is enabled in
// registration order.
func WithMiddleware(names ...string) Option {
	return func(o *options) {
		o.middleware = names
	}
}

// WithRetryConfig tunes the retry middleware stage.
func WithRetryConfig(config *RetryConfig) Option {
	return func(o *options) {
		o.retry = config
	}
}

// WithMetricsRegisterer directs the metrics stage at the given registerer
// instead of its private registry.
func WithMetricsRegisterer(registerer prometheus.Registerer) Option {
	return func(o *options) {
		o.metrics = registerer
	}
}

// WithMergedAuthHeaders makes bearer injection merge into the caller's
// headers instead of replacing them. The default replace behavior mirrors
// the historical contract: on authenticated calls, per-call headers are
// dropped in favor of the Authorization header.
func WithMergedAuthHeaders() Option {
	return func(o *options) {
		o.mergeAuthHeaders = true
	}
}
