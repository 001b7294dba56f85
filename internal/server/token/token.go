// Package token implements the compact bearer token used by gophauth:
//
//	base64url(header).base64url(claims).base64url(HMAC-SHA256(header.claims))
//
// Every part is base64url without padding. Issue and Verify are pure
// functions of their arguments: the signing secret and the current time are
// always passed in explicitly, so they are safe for concurrent use and need
// no locks.
package token

import "time"

const (
	// Algorithm is the only signing algorithm accepted in a header.
	Algorithm = "HS256"
	// Type tags the claims schema carried by the token.
	Type = "AUTH"

	// DefaultTTL is the validity window of a freshly issued token.
	DefaultTTL = time.Hour
)

// Header is the first token part. Field order is the wire order.
type Header struct {
	Alg string `json:"alg"`
	Typ string `json:"typ"`
}

// Claims is the payload for Type "AUTH". Adding a field is a schema change
// and needs a new Type.
type Claims struct {
	UserID    int64 `json:"userId"`
	ExpiresAt int64 `json:"exp"`
}

// ExpiresAtTime returns the expiry as a time.Time.
func (c Claims) ExpiresAtTime() time.Time {
	return time.Unix(c.ExpiresAt, 0)
}

// expired reports whether the claims are no longer valid at now. The
// instant of expiry itself already counts as expired.
func (c Claims) expired(now time.Time) bool {
	return c.ExpiresAt <= now.Unix()
}

var authHeader = Header{Alg: Algorithm, Typ: Type}
