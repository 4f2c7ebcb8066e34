package tokenstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/SIMBAChain/simba-sdk-go/internal/constants"
	"github.com/SIMBAChain/simba-sdk-go/pkg/simba"
)

var tokenBucket = []byte("tokens")

// Bolt persists tokens in a bbolt database, for daemons that keep credentials
// across restarts. Records are JSON documents in a single bucket keyed by
// client identifier. bbolt holds an exclusive file lock, so one process owns
// the store at a time; Close releases the lock.
type Bolt struct {
	db *bbolt.DB
}

var _ simba.TokenStore = (*Bolt)(nil)

// NewBolt opens (or creates) a bbolt-backed token store at path. Opening
// waits up to a short timeout for the file lock before failing.
func NewBolt(path string) (*Bolt, error) {
	if path == "" {
		return nil, ErrPathRequired
	}

	err := os.MkdirAll(filepath.Dir(path), constants.TokenDirPerm)
	if err != nil {
		return nil, fmt.Errorf("creating token directory: %w", err)
	}

	db, err := bbolt.Open(path, constants.TokenFilePerm, &bbolt.Options{Timeout: constants.StoreOpenTimeout})
	if err != nil {
		return nil, fmt.Errorf("opening token database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(tokenBucket)

		return err
	})
	if err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("creating token bucket: %w", err)
	}

	return &Bolt{db: db}, nil
}

// GetToken returns the stored access token for the identifier, or an empty
// string when no record exists.
func (s *Bolt) GetToken(_ context.Context, identifier string) (string, error) {
	var token simba.Token

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(tokenBucket).Get([]byte(identifier))
		if data == nil {
			return nil
		}

		return json.Unmarshal(data, &token)
	})
	if err != nil {
		return "", fmt.Errorf("reading token record: %w", err)
	}

	return token.AccessToken, nil
}

// SetToken stores a token record for the identifier, replacing any previous one.
func (s *Bolt) SetToken(_ context.Context, identifier, token string, expiresAt time.Time) error {
	data, err := json.Marshal(simba.Token{AccessToken: token, ExpiresAt: expiresAt})
	if err != nil {
		return fmt.Errorf("encoding token record: %w", err)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(tokenBucket).Put([]byte(identifier), data)
	})
	if err != nil {
		return fmt.Errorf("writing token record: %w", err)
	}

	return nil
}

// Close closes the underlying database and releases its file lock.
func (s *Bolt) Close() error {
	return s.db.Close()
}
