package session

import "errors"

var (
	// ErrSessionNotFound indicates no session token was supplied or found.
	ErrSessionNotFound = errors.New("session.not_found")

	// ErrInvalidUserID indicates an empty user id was passed to Create.
	ErrInvalidUserID = errors.New("session.invalid_user_id")

	// ErrInvalidTTL indicates a non-positive session lifetime.
	ErrInvalidTTL = errors.New("session.invalid_ttl")

	// ErrStoreUnavailable wraps backend failures.
	ErrStoreUnavailable = errors.New("session.store_unavailable")
)
