package token

import "errors"

var (
	ErrMalformedToken = errors.New("malformed token")
	ErrBadSignature   = errors.New("token signature mismatch")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenRevoked   = errors.New("token revoked")

	ErrEmptySecret   = errors.New("empty signing secret")
	ErrTokenIssuance = errors.New("token issuance failed")
)

// Reason says why a token was rejected. The zero value means it was not.
type Reason string

const (
	ReasonNone         Reason = ""
	ReasonMalformed    Reason = "malformed"
	ReasonBadSignature Reason = "bad_signature"
	ReasonExpired      Reason = "expired"
	ReasonRevoked      Reason = "revoked"
)

// Err maps the reason to its sentinel error, or nil for ReasonNone.
func (r Reason) Err() error {
	switch r {
	case ReasonNone:
		return nil
	case ReasonMalformed:
		return ErrMalformedToken
	case ReasonBadSignature:
		return ErrBadSignature
	case ReasonExpired:
		return ErrTokenExpired
	case ReasonRevoked:
		return ErrTokenRevoked
	default:
		return ErrMalformedToken
	}
}
