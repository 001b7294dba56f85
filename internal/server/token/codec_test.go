package token

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodePart_KnownVectors(t *testing.T) {
	h, err := EncodePart(Header{Alg: "HS256", Typ: "AUTH"})
	require.NoError(t, err)
	assert.Equal(t, "eyJhbGciOiJIUzI1NiIsInR5cCI6IkFVVEgifQ", h)

	p, err := EncodePart(Claims{UserID: 42, ExpiresAt: 1700003600})
	require.NoError(t, err)
	assert.Equal(t, "eyJ1c2VySWQiOjQyLCJleHAiOjE3MDAwMDM2MDB9", p)
}

func TestEncodePart_Deterministic(t *testing.T) {
	c := Claims{UserID: 7, ExpiresAt: 1234567890}
	a, err := EncodePart(c)
	require.NoError(t, err)
	b, err := EncodePart(c)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestEncodePart_NoPaddingURLAlphabet(t *testing.T) {
	// lengths chosen so padded base64 would need one or two '='
	for id := int64(0); id < 300; id++ {
		p, err := EncodePart(Claims{UserID: id, ExpiresAt: id * 1000003})
		require.NoError(t, err)
		assert.NotContains(t, p, "=")
		assert.NotContains(t, p, "+")
		assert.NotContains(t, p, "/")
	}
}

func TestEncodePart_Unserializable(t *testing.T) {
	_, err := EncodePart(func() {})
	require.Error(t, err)
}

func TestDecodePart_RoundTrip(t *testing.T) {
	headers := []Header{{Alg: "HS256", Typ: "AUTH"}, {Alg: "none", Typ: ""}, {Alg: "ü", Typ: "x.y"}}
	for _, h := range headers {
		s, err := EncodePart(h)
		require.NoError(t, err)
		var got Header
		require.NoError(t, DecodePart(s, &got))
		assert.Equal(t, h, got)
	}

	claims := []Claims{{}, {UserID: 1, ExpiresAt: 1}, {UserID: -5, ExpiresAt: 1 << 40}, {UserID: 1<<63 - 1, ExpiresAt: -1}}
	for _, c := range claims {
		s, err := EncodePart(c)
		require.NoError(t, err)
		var got Claims
		require.NoError(t, DecodePart(s, &got))
		assert.Equal(t, c, got)
	}
}

func TestDecodePart_Malformed(t *testing.T) {
	tests := []struct {
		name string
		part string
	}{
		{name: "standard alphabet", part: "eyJ1c2VySWQiOjF9+/"},
		{name: "padded", part: "eyJhIjoxfQ=="},
		{name: "not json", part: segmentEncoder.EncodeSegment([]byte("hello"))},
		{name: "unknown field", part: segmentEncoder.EncodeSegment([]byte(`{"userId":1,"exp":2,"admin":true}`))},
		{name: "trailing data", part: segmentEncoder.EncodeSegment([]byte(`{"userId":1,"exp":2}{}`))},
		{name: "wrong type", part: segmentEncoder.EncodeSegment([]byte(`{"userId":"1","exp":2}`))},
		{name: "garbage", part: "!!!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Claims
			err := DecodePart(tt.part, &c)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedToken), "got %v", err)
		})
	}
}

func TestSplitToken(t *testing.T) {
	h, p, s, err := SplitToken("a.b.c")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, []string{h, p, s})

	for _, bad := range []string{"", "a", "a.b", "a.b.c.d", "..", "a..c", ".b.c", "a.b.", strings.Repeat(".", 5)} {
		_, _, _, err := SplitToken(bad)
		assert.ErrorIs(t, err, ErrMalformedToken, "input %q", bad)
	}
}
