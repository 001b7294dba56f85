package token

import (
	"fmt"
	"strings"
	"time"
)

// Issue builds a signed token for userID that expires ttl after now
// (truncated to whole seconds). Issue is deterministic: the same user,
// secret and second produce the same token.
//
// Failures are wrapped in ErrTokenIssuance and never come with a partial
// token.
func Issue(userID int64, secret []byte, now time.Time, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID:    userID,
		ExpiresAt: now.Unix() + int64(ttl/time.Second),
	}

	header, err := EncodePart(authHeader)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenIssuance, err)
	}
	payload, err := EncodePart(claims)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenIssuance, err)
	}
	signature, err := Sign(header, payload, secret)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTokenIssuance, err)
	}

	return strings.Join([]string{header, payload, signature}, separator), nil
}
