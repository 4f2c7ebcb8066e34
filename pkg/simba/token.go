package simba

import (
	"context"
	"time"

	"github.com/SIMBAChain/simba-sdk-go/internal/constants"
)

// Token is a stored bearer credential and its expiry.
type Token struct {
	AccessToken string    `json:"access_token" yaml:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"   yaml:"expires_at"`
}

// Valid reports whether the token exists and will remain usable for at least
// a short buffer. A zero expiry means the token never expires. The dispatch
// pipeline never consults this itself; it is for callers that want to decide
// when to re-authorize.
func (t *Token) Valid() bool {
	if t == nil || t.AccessToken == "" {
		return false
	}

	if t.ExpiresAt.IsZero() {
		return true
	}

	return time.Now().Add(constants.TokenExpirationBuffer).Before(t.ExpiresAt)
}

// TokenStore persists bearer tokens keyed by a client identifier. The client
// reads the store on every request and writes it during Authorize, so
// implementations must be safe for concurrent use; a concurrent reader sees
// either the previous token or the new one, never a partial value.
//
// GetToken returns an empty string and a nil error for an identifier with no
// stored token; absence is not an error. SetToken overwrites any previous
// token for the identifier. Expiry is stored as given and never evicted by
// the store.
type TokenStore interface {
	GetToken(ctx context.Context, identifier string) (string, error)
	SetToken(ctx context.Context, identifier, token string, expiresAt time.Time) error
}
