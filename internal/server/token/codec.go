package token

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

const separator = "."

// segments does the base64url work. Strict decoding rejects padding and
// non-zero trailing bits, so every part has exactly one valid spelling.
var (
	segmentEncoder = &jwt.Token{}
	segmentDecoder = jwt.NewParser(jwt.WithStrictDecoding())
)

// EncodePart serializes v as JSON and encodes it as unpadded base64url.
// v should be a struct: struct fields marshal in declaration order, which
// keeps the output byte-for-byte stable for the signer.
func EncodePart(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode token part: %w", err)
	}
	return segmentEncoder.EncodeSegment(b), nil
}

// DecodePart reverses EncodePart into v. Invalid base64url, invalid JSON,
// unknown fields and trailing data all yield ErrMalformedToken.
func DecodePart(part string, v any) error {
	raw, err := segmentDecoder.DecodeSegment(part)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data", ErrMalformedToken)
	}
	return nil
}

// SplitToken splits s into its header, payload and signature parts.
// Anything but exactly three non-empty parts is ErrMalformedToken.
func SplitToken(s string) (header, payload, signature string, err error) {
	parts := strings.Split(s, separator)
	if len(parts) != 3 {
		return "", "", "", fmt.Errorf("%w: want 3 parts, got %d", ErrMalformedToken, len(parts))
	}
	for _, p := range parts {
		if p == "" {
			return "", "", "", fmt.Errorf("%w: empty part", ErrMalformedToken)
		}
	}
	return parts[0], parts[1], parts[2], nil
}

func signingInput(header, payload string) string {
	return header + separator + payload
}
