package token

import "github.com/dmitrijs2005/gophauth/internal/common"

// SecretSize is the length of generated signing secrets, matching the
// HMAC-SHA256 block output.
const SecretSize = 32

// NewSecret returns a fresh random signing secret. Tokens signed with it
// stop verifying once the process that generated it exits.
func NewSecret() []byte {
	return common.GenerateRandByteArray(SecretSize)
}

// SecretFromConfig returns the configured secret, or a generated one when
// configured is empty. The returned slice must be treated as read-only.
func SecretFromConfig(configured string) []byte {
	if configured == "" {
		return NewSecret()
	}
	return []byte(configured)
}
