package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fastParams keeps scrypt cheap in tests.
var fastParams = Params{N: 1024, R: 8, P: 1, KeyLen: 64, SaltLen: 16}

func TestHasher_RoundTrip(t *testing.T) {
	h := NewHasher(fastParams)

	for _, pw := range []string{"longenough1", "", "pässwörd with spaces", strings.Repeat("x", 200)} {
		encoded, err := h.Hash(pw)
		require.NoError(t, err)

		ok, err := h.Verify(pw, encoded)
		require.NoError(t, err)
		assert.True(t, ok, "password %q should verify", pw)

		ok, err = h.Verify(pw+"!", encoded)
		require.NoError(t, err)
		assert.False(t, ok)
	}
}

func TestHasher_SaltIsRandom(t *testing.T) {
	h := NewHasher(fastParams)

	a, err := h.Hash("same-password")
	require.NoError(t, err)
	b, err := h.Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "$scrypt$N=1024,r=8,p=1$"))
}

func TestHasher_VerifyUsesEmbeddedParams(t *testing.T) {
	encoded, err := NewHasher(fastParams).Hash("secret-pass")
	require.NoError(t, err)

	ok, err := NewHasher(DefaultParams).Verify("secret-pass", encoded)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, NewHasher(DefaultParams).NeedsRehash(encoded))
	assert.False(t, NewHasher(fastParams).NeedsRehash(encoded))
}

func TestHasher_MalformedFailsClosed(t *testing.T) {
	h := NewHasher(fastParams)

	malformed := []string{
		"",
		"plaintext",
		"abcdef0123.saltsalt",
		"$scrypt$N=1024,r=8,p=1$onlysalt",
		"$argon2id$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA",
		"$scrypt$garbage$c2FsdA$aGFzaA",
		"$scrypt$N=1024,r=8,p=1$!!!$aGFzaA",
		"$scrypt$N=1000,r=8,p=1$c2FsdA$aGFzaA", // N not a power of two
	}
	for _, m := range malformed {
		ok, err := h.Verify("anything", m)
		assert.False(t, ok, "hash %q must not match", m)
		assert.ErrorIs(t, err, ErrMalformedHash, "hash %q", m)
	}
}
