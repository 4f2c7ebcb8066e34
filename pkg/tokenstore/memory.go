package tokenstore

import (
	"context"
	"sync"
	"time"

	"github.com/SIMBAChain/simba-sdk-go/pkg/simba"
)

// InMemory keeps tokens in a process-local map. It is the default store for
// clients without configured persistence; tokens vanish with the process.
type InMemory struct {
	mu     sync.RWMutex
	tokens map[string]simba.Token
}

var _ simba.TokenStore = (*InMemory)(nil)

// NewInMemory creates an empty in-memory token store.
func NewInMemory() *InMemory {
	return &InMemory{
		tokens: make(map[string]simba.Token),
	}
}

// GetToken returns the stored access token for the identifier, or an empty
// string when none is stored.
func (s *InMemory) GetToken(_ context.Context, identifier string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.tokens[identifier].AccessToken, nil
}

// SetToken stores a token for the identifier, replacing any previous one.
func (s *InMemory) SetToken(_ context.Context, identifier, token string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokens[identifier] = simba.Token{AccessToken: token, ExpiresAt: expiresAt}

	return nil
}

// Token returns the full stored record for the identifier, including expiry.
func (s *InMemory) Token(identifier string) (simba.Token, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	token, ok := s.tokens[identifier]

	return token, ok
}
