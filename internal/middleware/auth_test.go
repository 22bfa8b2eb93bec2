package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agencysite/internal/auth"
	apperrors "agencysite/internal/errors"
	"agencysite/internal/model"
	"agencysite/internal/session"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func TestRequireRole(t *testing.T) {
	forms := []model.Role{model.RoleFormManager}
	posts := []model.Role{model.RoleEditor}

	tests := []struct {
		name     string
		allowed  []model.Role
		role     model.Role
		anon     bool
		expected error
	}{
		{"editor denied on forms", forms, model.RoleEditor, false, apperrors.ErrForbidden},
		{"editor admitted on posts", posts, model.RoleEditor, false, nil},
		{"admin admitted on forms", forms, model.RoleAdmin, false, nil},
		{"admin admitted on posts", posts, model.RoleAdmin, false, nil},
		{"form manager admitted on forms", forms, model.RoleFormManager, false, nil},
		{"form manager denied on posts", posts, model.RoleFormManager, false, apperrors.ErrForbidden},
		{"unknown role denied", posts, model.Role("viewer"), false, apperrors.ErrForbidden},
		{"admin-only route denies editor", []model.Role{model.RoleAdmin}, model.RoleEditor, false, apperrors.ErrForbidden},
		{"anonymous is unauthenticated, not forbidden", forms, "", true, apperrors.ErrUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/api/admin/test", nil)
			if !tt.anon {
				req = req.WithContext(auth.WithIdentity(req.Context(), auth.Identity{AdminID: uuid.New(), Role: tt.role}))
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := RequireRole(tt.allowed...)(okHandler)(c)
			if tt.expected != nil {
				assert.ErrorIs(t, err, tt.expected)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}

func TestRequireAuth(t *testing.T) {
	e := echo.New()

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.ErrorIs(t, RequireAuth()(okHandler)(c), apperrors.ErrUnauthenticated)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(auth.WithIdentity(req.Context(), auth.Identity{Role: model.RoleEditor}))
	c = e.NewContext(req, httptest.NewRecorder())
	assert.NoError(t, RequireAuth()(okHandler)(c))
}

type stubLoader struct {
	admins map[uuid.UUID]*model.AdminUser
}

func (s *stubLoader) CurrentAdmin(_ context.Context, id uuid.UUID) (*model.AdminUser, error) {
	a, ok := s.admins[id]
	if !ok || !a.IsActive {
		return nil, apperrors.ErrUnauthenticated
	}
	return a, nil
}

func TestLoadAdmin(t *testing.T) {
	active := &model.AdminUser{ID: uuid.New(), Email: "a@b.com", Role: model.RoleFormManager, IsActive: true}
	inactive := &model.AdminUser{ID: uuid.New(), Email: "x@b.com", Role: model.RoleAdmin, IsActive: false}
	loader := &stubLoader{admins: map[uuid.UUID]*model.AdminUser{active.ID: active, inactive.ID: inactive}}

	tests := []struct {
		name      string
		sessionID string
		wantRole  model.Role
		wantAuth  bool
	}{
		{"no session", "", "", false},
		{"active admin", active.ID.String(), model.RoleFormManager, true},
		{"inactive admin", inactive.ID.String(), "", false},
		{"deleted admin", uuid.NewString(), "", false},
		{"malformed id", "not-a-uuid", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sm := session.New(session.NewMemoryStore(), 0, true)
			e := echo.New()

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			ctx, err := sm.Load(req.Context(), "")
			require.NoError(t, err)
			if tt.sessionID != "" {
				sm.Put(ctx, session.KeyAdminID, tt.sessionID)
			}
			c := e.NewContext(req.WithContext(ctx), httptest.NewRecorder())

			var (
				got    auth.Identity
				authed bool
			)
			err = LoadAdmin(sm, loader, discardLogger())(func(c echo.Context) error {
				got, authed = auth.IdentityFrom(c.Request().Context())
				return nil
			})(c)
			require.NoError(t, err)

			assert.Equal(t, tt.wantAuth, authed)
			if tt.wantAuth {
				assert.Equal(t, tt.wantRole, got.Role)
				admin, ok := CurrentAdmin(c)
				require.True(t, ok)
				assert.Equal(t, active.Email, admin.Email)
			} else if tt.sessionID != "" {
				assert.Empty(t, sm.GetString(ctx, session.KeyAdminID), "stale session is destroyed")
			}
		})
	}
}
