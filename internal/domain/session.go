package domain

import (
	"fmt"
	"strings"
	"time"
)

// Session is an authenticated, time-bounded access grant. A session is active
// iff it is present in the registry and now - LastActiveAt is within the TTL.
type Session struct {
	ID           string
	CreatedAt    time.Time
	LastActiveAt time.Time
}

// SessionToken is the credential handed to the browser: a random session id
// plus an HMAC signature over it. The token carries no embedded expiry;
// expiry is enforced purely through the registry's timestamps.
type SessionToken struct {
	ID        string
	Signature string
}

// Bearer encodes the token as a single opaque value for the
// Authorization header.
func (t SessionToken) Bearer() string {
	return t.ID + "." + t.Signature
}

// ParseBearerToken splits an "<id>.<signature>" bearer value.
func ParseBearerToken(raw string) (SessionToken, error) {
	id, signature, ok := strings.Cut(raw, ".")
	if !ok || id == "" || signature == "" {
		return SessionToken{}, fmt.Errorf("malformed session token: %w", ErrBadSignature)
	}
	return SessionToken{ID: id, Signature: signature}, nil
}
