// Package session configures the server-side admin session manager.
package session

import (
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
)

// CookieName is the name of the session cookie.
const CookieName = "agency_session"

// KeyAdminID is the session key holding the authenticated admin's ID.
const KeyAdminID = "admin_id"

// DefaultLifetime is the absolute lifetime of an admin session.
const DefaultLifetime = 24 * time.Hour

// New creates a session manager backed by store. Sessions expire lifetime after creation;
// activity does not extend them.
func New(store scs.Store, lifetime time.Duration, isDev bool) *scs.SessionManager {
	sm := scs.New()
	sm.Store = store

	if lifetime <= 0 {
		lifetime = DefaultLifetime
	}
	sm.Lifetime = lifetime
	sm.IdleTimeout = 0

	sm.Cookie.Name = CookieName
	sm.Cookie.HttpOnly = true
	sm.Cookie.Path = "/"
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev // Secure cookies in production only

	return sm
}

// NewMemoryStore returns a process-local store for development and tests.
func NewMemoryStore() scs.Store {
	return memstore.New()
}
