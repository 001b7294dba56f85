package token

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var signingMethod = jwt.SigningMethodHS256

// Sign returns the encoded HMAC-SHA256 signature of header.payload.
func Sign(header, payload string, secret []byte) (string, error) {
	if len(secret) == 0 {
		return "", ErrEmptySecret
	}
	sig, err := signingMethod.Sign(signingInput(header, payload), secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return segmentEncoder.EncodeSegment(sig), nil
}

// VerifySignature checks the encoded signature of header.payload in
// constant time. Any mismatch, including a signature that is not valid
// base64url, is ErrBadSignature.
func VerifySignature(header, payload, signature string, secret []byte) error {
	if len(secret) == 0 {
		return ErrEmptySecret
	}
	sig, err := segmentDecoder.DecodeSegment(signature)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadSignature, err)
	}
	if err := signingMethod.Verify(signingInput(header, payload), sig, secret); err != nil {
		if errors.Is(err, jwt.ErrSignatureInvalid) {
			return ErrBadSignature
		}
		return fmt.Errorf("verify token signature: %w", err)
	}
	return nil
}
