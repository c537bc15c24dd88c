package domain

import "errors"

var (
	// ErrInvalidCredential is returned when the submitted password does not
	// match the shared secret. The message never says which part was wrong.
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrCapacityExceeded is returned when a login is rejected because the
	// concurrent-session cap is reached.
	ErrCapacityExceeded = errors.New("session capacity exceeded")

	// ErrBadSignature is returned for any token whose signature was not
	// produced by the shared secret.
	ErrBadSignature = errors.New("session token signature mismatch")

	// ErrSessionExpired is returned when the session id is known but its
	// last activity is older than the session TTL.
	ErrSessionExpired = errors.New("session expired")

	// ErrSessionNotRegistered is returned when the signature verifies but the
	// session id is absent from the registry, e.g. after logout or an
	// administrative reset.
	ErrSessionNotRegistered = errors.New("session not registered")

	ErrUnknownMode  = errors.New("unknown chat mode")
	ErrEmptyMessage = errors.New("empty message")
)
