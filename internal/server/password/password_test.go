package password_test

import (
	"strings"
	"testing"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/password"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func fastBcrypt(t *testing.T) *password.Hasher {
	t.Helper()
	h, err := password.New(password.Config{Algorithm: password.Bcrypt, BcryptCost: bcrypt.MinCost})
	require.NoError(t, err)
	return h
}

func fastArgon2(t *testing.T) *password.Hasher {
	t.Helper()
	h, err := password.New(password.Config{
		Algorithm: password.Argon2id,
		Argon2:    password.Argon2Params{Memory: 8 * 1024, Time: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32},
	})
	require.NoError(t, err)
	return h
}

func TestDefaultConfig(t *testing.T) {
	cfg := password.DefaultConfig()
	assert.Equal(t, password.Bcrypt, cfg.Algorithm)
	assert.Equal(t, 10, cfg.BcryptCost)
}

func TestNew_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  password.Config
	}{
		{name: "bcrypt cost too low", cfg: password.Config{Algorithm: password.Bcrypt, BcryptCost: 1}},
		{name: "bcrypt cost too high", cfg: password.Config{Algorithm: password.Bcrypt, BcryptCost: 40}},
		{name: "argon2 zero params", cfg: password.Config{Algorithm: password.Argon2id}},
		{name: "unknown algorithm", cfg: password.Config{Algorithm: "md5"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := password.New(tt.cfg)
			assert.Error(t, err)
		})
	}
}

func TestHashAndVerify(t *testing.T) {
	hashers := map[string]*password.Hasher{"bcrypt": fastBcrypt(t), "argon2id": fastArgon2(t)}

	for name, h := range hashers {
		t.Run(name, func(t *testing.T) {
			digest, err := h.Hash("pw1")
			require.NoError(t, err)
			assert.NotContains(t, digest, "pw1")

			assert.True(t, h.Verify("pw1", digest))
			assert.False(t, h.Verify("pw2", digest))
			assert.False(t, h.Verify("", digest))

			again, err := h.Hash("pw1")
			require.NoError(t, err)
			assert.NotEqual(t, digest, again, "digests must be salted")
		})
	}
}

func TestHash_Prefixes(t *testing.T) {
	d, err := fastBcrypt(t).Hash("secret")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(d, "$2a$04$"), d)

	d, err = fastArgon2(t).Hash("secret")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(d, "$argon2id$v=19$m=8192,t=1,p=1$"), d)
}

func TestVerify_CrossAlgorithm(t *testing.T) {
	b, a := fastBcrypt(t), fastArgon2(t)

	bd, err := b.Hash("pw")
	require.NoError(t, err)
	ad, err := a.Hash("pw")
	require.NoError(t, err)

	assert.True(t, a.Verify("pw", bd), "argon2 hasher must still verify bcrypt digests")
	assert.True(t, b.Verify("pw", ad), "bcrypt hasher must still verify argon2 digests")
}

func TestVerify_GarbageDigestIsFalse(t *testing.T) {
	h := fastBcrypt(t)
	for _, d := range []string{
		"", "plaintext", "$2a$", "$2a$10$short",
		"$argon2id$", "$argon2id$v=18$m=8192,t=1,p=1$c2FsdHNhbHRzYWx0c2FsdA$a2V5",
		"$argon2id$v=19$m=x,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$m=8192,t=1,p=1$!!!$a2V5",
		"$argon2id$v=19$m=0,t=0,p=0$c2FsdA$a2V5",
	} {
		assert.False(t, h.Verify("pw", d), "digest %q", d)
	}
}

func TestHash_TooLongForBcrypt(t *testing.T) {
	_, err := fastBcrypt(t).Hash(strings.Repeat("x", 73))
	require.ErrorIs(t, err, common.ErrorValidation)
	require.ErrorIs(t, err, password.ErrPasswordTooLong)

	_, err = fastArgon2(t).Hash(strings.Repeat("x", 73))
	require.NoError(t, err)
}

func TestDummyVerify_DoesNotPanic(t *testing.T) {
	fastBcrypt(t).DummyVerify("anything")
	fastArgon2(t).DummyVerify("anything")
}

func TestNeedsRehash(t *testing.T) {
	weak := fastBcrypt(t)
	weakDigest, err := weak.Hash("pw")
	require.NoError(t, err)

	strong, err := password.New(password.Config{Algorithm: password.Bcrypt, BcryptCost: bcrypt.MinCost + 1})
	require.NoError(t, err)
	assert.True(t, strong.NeedsRehash(weakDigest))
	assert.False(t, weak.NeedsRehash(weakDigest))

	a := fastArgon2(t)
	assert.True(t, a.NeedsRehash(weakDigest))
	ad, err := a.Hash("pw")
	require.NoError(t, err)
	assert.False(t, a.NeedsRehash(ad))
	assert.True(t, weak.NeedsRehash(ad))
}
