package simba

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"
)

// Client is the dispatch facade every generated endpoint method delegates to.
// It owns the transport, the middleware chain, and optionally a token store.
// One Client serves one logical API session and is safe for concurrent use;
// call Close when done so pooled connections are released.
type Client struct {
	baseURL          string
	clientID         string
	clientSecret     string
	tokenURL         string
	userAgent        string
	defaultHeaders   map[string]string
	defaultCookies   map[string]string
	mergeAuthHeaders bool

	logger    Logger
	store     TokenStore
	transport Transport
	manager   *Manager

	closed atomic.Bool
}

// New creates a client from resolved configuration values. The base URL is
// validated here and fixed for the client's lifetime.
func New(config *Config, opts ...Option) (*Client, error) {
	if config == nil {
		return nil, ErrConfigRequired
	}

	if config.BaseURL == "" {
		return nil, ErrBaseURLRequired
	}

	parsed, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, config.BaseURL)
	}

	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, config.BaseURL)
	}

	options := &options{}
	for _, opt := range opts {
		opt(options)
	}

	logger := options.logger
	if logger == nil {
		logger = NewNoopLogger()
	}

	transport := options.transport
	if transport == nil {
		transport = newHTTPTransport(config.Timeout, config.SkipTLSVerify)
	}

	registry := options.registry
	if registry == nil {
		registry = DefaultRegistry()
	}

	stages, err := registry.Build(options.middleware, MiddlewareDeps{
		Transport: transport,
		Logger:    logger,
		Retry:     options.retry,
		Metrics:   options.metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("building middleware chain: %w", err)
	}

	manager := NewManager()
	for _, stage := range stages {
		manager.Add(stage)
	}

	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent()
	}

	client := &Client{
		baseURL:          config.BaseURL,
		clientID:         config.ClientID,
		clientSecret:     config.ClientSecret,
		tokenURL:         config.TokenURL,
		userAgent:        userAgent,
		defaultHeaders:   copyStringMap(config.Headers),
		defaultCookies:   copyStringMap(config.Cookies),
		mergeAuthHeaders: options.mergeAuthHeaders,
		logger:           logger,
		store:            options.store,
		transport:        transport,
		manager:          manager,
	}

	return client, nil
}

// BaseURL returns the API root the client was constructed with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Middleware returns the client's middleware manager for by-name lookup,
// removal, or appending custom stages.
func (c *Client) Middleware() *Manager {
	return c.manager
}

// BuildURL normalizes a path to begin with a single leading separator and
// concatenates it onto the base URL. Pure; BuildURL("x") and BuildURL("/x")
// produce the same absolute URL.
func (c *Client) BuildURL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return c.baseURL + path
}

// Get sends a GET request for the given path.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, URL: path, Query: query})
}

// Delete sends a DELETE request for the given path.
func (c *Client) Delete(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, URL: path, Query: query})
}

// Post sends a POST request with a pre-serialized body and/or file uploads.
// It fails with ErrMissingRequestBody, before any transport call, when both
// are empty.
func (c *Client) Post(ctx context.Context, path string, body []byte, files ...FileUpload) (*Response, error) {
	if len(body) == 0 && len(files) == 0 {
		return nil, ErrMissingRequestBody
	}

	return c.Do(ctx, &Request{Method: http.MethodPost, URL: path, Body: body, Files: files})
}

// Put sends a PUT request with an optional body and/or file uploads.
func (c *Client) Put(ctx context.Context, path string, body []byte, files ...FileUpload) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, URL: path, Body: body, Files: files})
}

// Patch sends a PATCH request with an optional body and/or file uploads.
func (c *Client) Patch(ctx context.Context, path string, body []byte, files ...FileUpload) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPatch, URL: path, Body: body, Files: files})
}

// Do dispatches a request through the middleware chain.
//
// The stored bearer token is resolved first: a client without a token store
// cannot dispatch at all (ErrNoTokenStore), while a registered store with no
// token for this client id lets the request proceed unauthenticated. When a
// token is present, the Authorization header replaces the caller-supplied
// headers map entirely unless the client was built with
// WithMergedAuthHeaders; construction-time default headers apply either way.
//
// Responses with status below 300 are returned as-is. Anything else is
// classified into a *RequestError, returned together with the raw response.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if c.closed.Load() {
		return nil, ErrClientClosed
	}

	if req == nil {
		return nil, ErrRequestRequired
	}

	req.normalize()

	token, err := c.lookupToken(ctx)
	if err != nil {
		return nil, err
	}

	if token != "" {
		if c.mergeAuthHeaders {
			req.Headers["Authorization"] = "Bearer " + token
		} else {
			req.Headers = map[string]string{"Authorization": "Bearer " + token}
		}
	}

	c.prepare(req)

	resp, err := c.manager.Send(ctx, req, c.transport)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 300 {
		return resp, newRequestError(resp)
	}

	return resp, nil
}

// Authorize performs the OAuth2 client-credentials grant against tokenURL
// (or Config.TokenURL when empty) and persists the returned token in the
// token store keyed by the client id. The exchange travels through the same
// middleware chain as every other request, without bearer injection. The
// client does not call this on its own: there is no automatic refresh on
// expiry and no retry after a 401.
func (c *Client) Authorize(ctx context.Context, tokenURL string, headers map[string]string) error {
	if c.closed.Load() {
		return ErrClientClosed
	}

	if tokenURL == "" {
		tokenURL = c.tokenURL
	}

	if tokenURL == "" {
		return ErrTokenURLRequired
	}

	if c.clientID == "" || c.clientSecret == "" {
		return ErrCredentialsRequired
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)

	req := &Request{
		Method:  http.MethodPost,
		URL:     tokenURL,
		Headers: headers,
		Body:    []byte(form.Encode()),
	}
	req.normalize()

	if _, ok := headerValue(req.Headers, "Content-Type"); !ok {
		req.Headers["Content-Type"] = "application/x-www-form-urlencoded"
	}

	c.prepare(req)

	resp, err := c.manager.Send(ctx, req, c.transport)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return &AuthorizationError{StatusCode: resp.StatusCode, Body: resp.Text()}
	}

	if c.store == nil {
		return ErrNoTokenStore
	}

	var grant struct {
		AccessToken string `json:"access_token"`
		ExpiresAt   int64  `json:"expires_at"`
		ExpiresIn   int64  `json:"expires_in"`
	}

	err = json.Unmarshal(resp.Body, &grant)
	if err != nil {
		return fmt.Errorf("parsing token response: %w", err)
	}

	if grant.AccessToken == "" {
		return ErrMissingAccessToken
	}

	var expiresAt time.Time

	switch {
	case grant.ExpiresAt > 0:
		expiresAt = time.Unix(grant.ExpiresAt, 0)
	case grant.ExpiresIn > 0:
		expiresAt = time.Now().Add(time.Duration(grant.ExpiresIn) * time.Second)
	}

	err = c.store.SetToken(ctx, c.clientID, grant.AccessToken, expiresAt)
	if err != nil {
		return fmt.Errorf("storing token: %w", err)
	}

	return nil
}

// Close releases the transport's connection resources. It is safe to call
// more than once; requests dispatched after Close fail with ErrClientClosed.
func (c *Client) Close() error {
	if c.closed.Swap(true) {
		return nil
	}

	return c.transport.Close()
}

// lookupToken resolves the stored bearer token for this client id. No
// registered store is a configuration error; an absent token is not.
func (c *Client) lookupToken(ctx context.Context) (string, error) {
	if c.store == nil {
		return "", ErrNoTokenStore
	}

	token, err := c.store.GetToken(ctx, c.clientID)
	if err != nil {
		return "", fmt.Errorf("reading token from store: %w", err)
	}

	return token, nil
}

// prepare finishes the request for the wire: resolves the URL against the
// base, merges construction-time defaults under per-call values, and stamps
// User-Agent and Content-Type when absent.
func (c *Client) prepare(req *Request) {
	if !strings.Contains(req.URL, "://") {
		req.URL = c.BuildURL(req.URL)
	}

	for key, value := range c.defaultHeaders {
		if _, ok := headerValue(req.Headers, key); !ok {
			req.Headers[key] = value
		}
	}

	if _, ok := headerValue(req.Headers, "User-Agent"); !ok {
		req.Headers["User-Agent"] = c.userAgent
	}

	if len(req.Body) > 0 && len(req.Files) == 0 {
		if _, ok := headerValue(req.Headers, "Content-Type"); !ok {
			req.Headers["Content-Type"] = "application/json"
		}
	}

	for name, value := range c.defaultCookies {
		if _, ok := req.Cookies[name]; !ok {
			req.Cookies[name] = value
		}
	}
}

func copyStringMap(src map[string]string) map[string]string {
	dst := make(map[string]string, len(src))
	for key, value := range src {
		dst[key] = value
	}

	return dst
}
