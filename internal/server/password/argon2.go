package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/argon2"
)

const argon2Prefix = "$argon2id$"

// Argon2Params are the argon2id cost parameters. Memory is in KiB.
type Argon2Params struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

func DefaultArgon2Params() Argon2Params {
	return Argon2Params{
		Memory:      64 * 1024,
		Time:        1,
		Parallelism: 4,
		SaltLength:  16,
		KeyLength:   32,
	}
}

func (p Argon2Params) validate() error {
	switch {
	case p.Memory < 8*1024:
		return errors.New("argon2 memory must be at least 8 MiB")
	case p.Time < 1:
		return errors.New("argon2 time must be at least 1")
	case p.Parallelism < 1:
		return errors.New("argon2 parallelism must be at least 1")
	case p.SaltLength < 16:
		return errors.New("argon2 salt must be at least 16 bytes")
	case p.KeyLength < 16:
		return errors.New("argon2 key must be at least 16 bytes")
	}
	return nil
}

type argon2Digest struct {
	params Argon2Params
	salt   []byte
	key    []byte
}

func hashArgon2id(plaintext string, p Argon2Params) (string, error) {
	salt := make([]byte, p.SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", err
	}

	key := argon2.IDKey([]byte(plaintext), salt, p.Time, p.Memory, p.Parallelism, p.KeyLength)

	return fmt.Sprintf("%sv=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2Prefix, argon2.Version, p.Memory, p.Time, p.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func verifyArgon2id(plaintext, digest string) bool {
	d, err := parseArgon2id(digest)
	if err != nil {
		return false
	}
	key := argon2.IDKey([]byte(plaintext), d.salt, d.params.Time, d.params.Memory, d.params.Parallelism, d.params.KeyLength)
	return subtle.ConstantTimeCompare(key, d.key) == 1
}

// parseArgon2id reads "$argon2id$v=19$m=65536,t=1,p=4$<salt>$<key>".
func parseArgon2id(digest string) (*argon2Digest, error) {
	parts := strings.Split(digest, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return nil, errors.New("invalid argon2id digest")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return nil, errors.New("unsupported argon2 version")
	}

	var p Argon2Params
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Time, &p.Parallelism); err != nil {
		return nil, fmt.Errorf("invalid argon2 params: %w", err)
	}
	if p.Memory == 0 || p.Time == 0 || p.Parallelism == 0 {
		return nil, errors.New("invalid argon2 params")
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return nil, errors.New("invalid argon2 salt")
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return nil, errors.New("invalid argon2 key")
	}
	p.SaltLength = uint32(len(salt))
	p.KeyLength = uint32(len(key))

	return &argon2Digest{params: p, salt: salt, key: key}, nil
}
