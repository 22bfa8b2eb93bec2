package session

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DevMode(t *testing.T) {
	sm := New(NewMemoryStore(), 0, true)

	assert.Equal(t, DefaultLifetime, sm.Lifetime)
	assert.Zero(t, sm.IdleTimeout)
	assert.Equal(t, CookieName, sm.Cookie.Name)
	assert.True(t, sm.Cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, sm.Cookie.SameSite)
	assert.False(t, sm.Cookie.Secure)
}

func TestNew_ProductionMode(t *testing.T) {
	sm := New(NewMemoryStore(), 2*time.Hour, false)

	assert.Equal(t, 2*time.Hour, sm.Lifetime)
	assert.True(t, sm.Cookie.Secure)
}

func TestManager_CommitAndLoad(t *testing.T) {
	sm := New(NewMemoryStore(), time.Hour, true)

	ctx, err := sm.Load(context.Background(), "")
	require.NoError(t, err)
	sm.Put(ctx, KeyAdminID, "0b7f6a3c-1111-4222-8333-944445555666")

	token, expiry, err := sm.Commit(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiry, 5*time.Second)

	loaded, err := sm.Load(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "0b7f6a3c-1111-4222-8333-944445555666", sm.GetString(loaded, KeyAdminID))

	require.NoError(t, sm.Destroy(loaded))
	reloaded, err := sm.Load(context.Background(), token)
	require.NoError(t, err)
	assert.Empty(t, sm.GetString(reloaded, KeyAdminID))
}
