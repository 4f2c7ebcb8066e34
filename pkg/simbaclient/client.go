package simbaclient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/SIMBAChain/simba-sdk-go/internal/logger"
	"github.com/SIMBAChain/simba-sdk-go/pkg/simba"
	"github.com/SIMBAChain/simba-sdk-go/pkg/tokenstore"
)

// New creates a client from the given configuration with the package's
// defaults applied: normalized URLs, an in-memory token store, and a zap
// debug logger when config.Debug is set. Options given here run after the
// defaults, so they can replace any of them.
func New(config *simba.Config, opts ...simba.Option) (*simba.Client, error) {
	if config == nil {
		return nil, simba.ErrConfigRequired
	}

	normalized := *config
	normalized.BaseURL = normalizeURL(config.BaseURL)
	normalized.TokenURL = ensureScheme(config.TokenURL)

	defaults := []simba.Option{
		simba.WithTokenStore(tokenstore.NewInMemory()),
	}

	if config.Debug {
		zapLogger, err := logger.New("debug")
		if err != nil {
			return nil, fmt.Errorf("building logger: %w", err)
		}

		defaults = append(defaults, simba.WithLogger(logger.NewAdapter(zapLogger)))
	}

	return simba.New(&normalized, append(defaults, opts...)...)
}

// NewWithClientCredentials creates a client ready for the client-credentials
// grant: call Authorize with an empty token URL to exchange the credentials
// against tokenURL.
func NewWithClientCredentials(baseURL, tokenURL, clientID, clientSecret string, opts ...simba.Option) (*simba.Client, error) {
	return New(&simba.Config{
		BaseURL:      baseURL,
		TokenURL:     tokenURL,
		ClientID:     clientID,
		ClientSecret: clientSecret,
	}, opts...)
}

// NewWithToken creates a client around an existing bearer token, seeding the
// in-memory store so the first request is already authenticated. The token is
// stored without an expiry.
func NewWithToken(baseURL, clientID, token string, opts ...simba.Option) (*simba.Client, error) {
	store := tokenstore.NewInMemory()

	err := store.SetToken(context.Background(), clientID, token, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("seeding token store: %w", err)
	}

	return New(&simba.Config{
		BaseURL:  baseURL,
		ClientID: clientID,
	}, append([]simba.Option{simba.WithTokenStore(store)}, opts...)...)
}

// normalizeURL assumes https for schemeless URLs and trims a trailing slash,
// so path concatenation never produces a double separator.
func normalizeURL(raw string) string {
	return strings.TrimSuffix(ensureScheme(raw), "/")
}

// ensureScheme assumes https for schemeless URLs. The token URL keeps its
// trailing slash: it is posted to as given, and token endpoints routinely
// live behind slash-sensitive routers.
func ensureScheme(raw string) string {
	if raw == "" {
		return ""
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	return raw
}
