package tokenstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/SIMBAChain/simba-sdk-go/internal/constants"
	"github.com/SIMBAChain/simba-sdk-go/pkg/simba"
)

// DefaultNATSBucket is the key-value bucket tokens live in when the
// configuration does not name one.
const DefaultNATSBucket = "simba-tokens"

// NATSConfig configures the connection behind a NATS token store.
type NATSConfig struct {
	// URL is the server address. Defaults to nats.DefaultURL.
	URL string

	// Bucket is the JetStream key-value bucket holding the tokens. It is
	// created when it does not exist. Defaults to DefaultNATSBucket.
	Bucket string

	// Username and Password authenticate the connection when set.
	Username string
	Password string

	// ConnectTimeout bounds the initial connection. Defaults to 10 seconds.
	ConnectTimeout time.Duration
}

// NATS persists tokens in a NATS JetStream key-value bucket. It is the shared
// store: every process holding the same client credentials reuses one grant
// instead of each performing its own exchange. Records are the same JSON
// documents the bbolt store writes, keyed by client identifier, so
// identifiers must be valid key-value keys (letters, digits, `-`, `_`, `=`,
// `.` and `/`).
type NATS struct {
	conn *nats.Conn
	kv   nats.KeyValue
}

var _ simba.TokenStore = (*NATS)(nil)

// NewNATS connects to the configured server and opens the token bucket,
// creating it when absent. A nil config connects to the default local server.
func NewNATS(config *NATSConfig) (*NATS, error) {
	if config == nil {
		config = &NATSConfig{}
	}

	url := config.URL
	if url == "" {
		url = nats.DefaultURL
	}

	bucket := config.Bucket
	if bucket == "" {
		bucket = DefaultNATSBucket
	}

	timeout := config.ConnectTimeout
	if timeout <= 0 {
		timeout = constants.ShortHTTPTimeout
	}

	opts := []nats.Option{
		nats.Name("simba-sdk token store"),
		nats.Timeout(timeout),
	}
	if config.Username != "" {
		opts = append(opts, nats.UserInfo(config.Username, config.Password))
	}

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()

		return nil, fmt.Errorf("opening JetStream context: %w", err)
	}

	kv, err := js.KeyValue(bucket)
	if errors.Is(err, nats.ErrBucketNotFound) {
		kv, err = js.CreateKeyValue(&nats.KeyValueConfig{
			Bucket:      bucket,
			Description: "simba-sdk bearer tokens",
		})
	}

	if err != nil {
		conn.Close()

		return nil, fmt.Errorf("opening token bucket: %w", err)
	}

	return &NATS{conn: conn, kv: kv}, nil
}

// GetToken returns the stored access token for the identifier, or an empty
// string when no process has stored one yet.
func (s *NATS) GetToken(_ context.Context, identifier string) (string, error) {
	entry, err := s.kv.Get(identifier)
	if errors.Is(err, nats.ErrKeyNotFound) {
		return "", nil
	}

	if err != nil {
		return "", fmt.Errorf("reading token record: %w", err)
	}

	var record simba.Token
	if err := json.Unmarshal(entry.Value(), &record); err != nil {
		return "", fmt.Errorf("reading token record: %w", err)
	}

	return record.AccessToken, nil
}

// SetToken stores a token record for the identifier, replacing any previous one.
func (s *NATS) SetToken(_ context.Context, identifier, token string, expiresAt time.Time) error {
	data, err := json.Marshal(simba.Token{AccessToken: token, ExpiresAt: expiresAt})
	if err != nil {
		return fmt.Errorf("encoding token record: %w", err)
	}

	if _, err := s.kv.Put(identifier, data); err != nil {
		return fmt.Errorf("writing token record: %w", err)
	}

	return nil
}

// Close drains the underlying connection.
func (s *NATS) Close() error {
	return s.conn.Drain()
}
