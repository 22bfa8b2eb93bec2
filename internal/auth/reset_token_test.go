package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResetTokenIssuer_IssueAndParse(t *testing.T) {
	issuer := NewResetTokenIssuer("test-secret")

	token, expiresAt, err := issuer.Issue("a@b.com", time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", claims.Email)
	assert.NotEmpty(t, claims.ID)
}

func TestResetTokenIssuer_TokensAreUnique(t *testing.T) {
	issuer := NewResetTokenIssuer("test-secret")

	a, _, err := issuer.Issue("a@b.com", time.Hour)
	require.NoError(t, err)
	b, _, err := issuer.Issue("a@b.com", time.Hour)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestResetTokenIssuer_Rejects(t *testing.T) {
	issuer := NewResetTokenIssuer("test-secret")

	t.Run("wrong secret", func(t *testing.T) {
		token, _, err := NewResetTokenIssuer("other-secret").Issue("a@b.com", time.Hour)
		require.NoError(t, err)
		_, err = issuer.Parse(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		past := NewResetTokenIssuer("test-secret")
		past.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, _, err := past.Issue("a@b.com", time.Hour)
		require.NoError(t, err)
		_, err = issuer.Parse(token)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := issuer.Parse("not-a-token")
		assert.Error(t, err)
	})
}
