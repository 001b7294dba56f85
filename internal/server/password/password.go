// Package password hashes and verifies user passwords.
//
// Digests are self-describing: bcrypt digests carry their "$2a$cost$" prefix
// and argon2id digests use the PHC string format, so Verify picks the
// algorithm and parameters from the digest itself. Switching the configured
// algorithm therefore never locks out users with older digests.
package password

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"golang.org/x/crypto/bcrypt"
)

type Algorithm string

const (
	Bcrypt   Algorithm = "bcrypt"
	Argon2id Algorithm = "argon2id"

	DefaultBcryptCost = 10

	// bcrypt ignores input past 72 bytes; x/crypto refuses it instead.
	maxBcryptPasswordBytes = 72
)

var (
	ErrUnknownAlgorithm = errors.New("unknown password hash algorithm")
	ErrPasswordTooLong  = errors.New("password too long")
)

// Config selects the algorithm used for new digests.
type Config struct {
	Algorithm  Algorithm
	BcryptCost int
	Argon2     Argon2Params
}

func DefaultConfig() Config {
	return Config{
		Algorithm:  Bcrypt,
		BcryptCost: DefaultBcryptCost,
		Argon2:     DefaultArgon2Params(),
	}
}

// Hasher is safe for concurrent use.
type Hasher struct {
	cfg   Config
	dummy string
}

func New(cfg Config) (*Hasher, error) {
	switch cfg.Algorithm {
	case Bcrypt:
		if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
			return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cfg.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost)
		}
	case Argon2id:
		if err := cfg.Argon2.validate(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, cfg.Algorithm)
	}

	h := &Hasher{cfg: cfg}

	dummy, err := h.Hash("gophauth-dummy-password")
	if err != nil {
		return nil, err
	}
	h.dummy = dummy

	return h, nil
}

// Hash returns a salted digest of plaintext with the configured algorithm.
// Errors wrap common.ErrHashing, except for over-long bcrypt input which is
// common.ErrorValidation.
func (h *Hasher) Hash(plaintext string) (string, error) {
	switch h.cfg.Algorithm {
	case Argon2id:
		digest, err := hashArgon2id(plaintext, h.cfg.Argon2)
		if err != nil {
			return "", fmt.Errorf("%w: %v", common.ErrHashing, err)
		}
		return digest, nil
	default:
		if len(plaintext) > maxBcryptPasswordBytes {
			return "", fmt.Errorf("%w: %w", common.ErrorValidation, ErrPasswordTooLong)
		}
		digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cfg.BcryptCost)
		if err != nil {
			return "", fmt.Errorf("%w: %v", common.ErrHashing, err)
		}
		return string(digest), nil
	}
}

// Verify reports whether plaintext matches digest. Unknown or corrupt
// digests are a mismatch, never an error.
func (h *Hasher) Verify(plaintext, digest string) bool {
	switch {
	case isBcrypt(digest):
		return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
	case strings.HasPrefix(digest, argon2Prefix):
		return verifyArgon2id(plaintext, digest)
	default:
		return false
	}
}

// DummyVerify costs as much as a real Verify and always fails. Run it when
// the user does not exist so response times don't reveal that.
func (h *Hasher) DummyVerify(plaintext string) {
	_ = h.Verify(plaintext+"\x00", h.dummy)
}

// NeedsRehash reports whether digest was produced with a different
// algorithm or weaker parameters than the current configuration.
func (h *Hasher) NeedsRehash(digest string) bool {
	switch h.cfg.Algorithm {
	case Argon2id:
		p, err := parseArgon2id(digest)
		if err != nil {
			return true
		}
		return p.params.Memory < h.cfg.Argon2.Memory || p.params.Time < h.cfg.Argon2.Time ||
			p.params.Parallelism < h.cfg.Argon2.Parallelism || p.params.KeyLength != h.cfg.Argon2.KeyLength
	default:
		cost, err := bcrypt.Cost([]byte(digest))
		return err != nil || cost < h.cfg.BcryptCost
	}
}

func isBcrypt(digest string) bool {
	return strings.HasPrefix(digest, "$2a$") || strings.HasPrefix(digest, "$2b$") || strings.HasPrefix(digest, "$2y$")
}
