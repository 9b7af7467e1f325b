package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Resolver maps a token to a user id. A missing, unknown or expired token is
// reported as ok=false with a nil error.
type Resolver interface {
	Resolve(ctx context.Context, token string) (userID string, ok bool, err error)
}

// Store is a Resolver that can also issue and revoke sessions. Issuing and
// revoking belong to the login flow; the file service only resolves.
type Store interface {
	Resolver

	// Create issues a new token bound to userID that expires after ttl.
	Create(ctx context.Context, userID string, ttl time.Duration) (token string, err error)

	// Delete revokes a token. Deleting an unknown token is not an error.
	Delete(ctx context.Context, token string) error
}

// Key returns the storage key for a token.
func Key(token string) string {
	return KeyPrefix + token
}

func newToken() string {
	return uuid.NewString()
}
