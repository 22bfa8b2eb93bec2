package middleware

import (
	"context"
	"errors"
	"log/slog"

	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"agencysite/internal/auth"
	apperrors "agencysite/internal/errors"
	"agencysite/internal/model"
	"agencysite/internal/session"
)

// ContextKeyAdmin is the echo context key holding the loaded *model.AdminUser.
const ContextKeyAdmin = "admin"

// AdminLoader resolves the admin a session belongs to. It returns
// errors.ErrUnauthenticated for admins that no longer exist or are inactive.
type AdminLoader interface {
	CurrentAdmin(ctx context.Context, id uuid.UUID) (*model.AdminUser, error)
}

// LoadAdmin reloads the session's admin on every request and binds its identity to the
// request context. Sessions of deleted or deactivated admins are destroyed.
func LoadAdmin(sm *scs.SessionManager, loader AdminLoader, logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			raw := sm.GetString(ctx, session.KeyAdminID)
			if raw == "" {
				return next(c)
			}

			id, err := uuid.Parse(raw)
			if err != nil {
				logger.WarnContext(ctx, "discarding session with malformed admin id")
				_ = sm.Destroy(ctx)
				return next(c)
			}

			admin, err := loader.CurrentAdmin(ctx, id)
			if errors.Is(err, apperrors.ErrUnauthenticated) {
				_ = sm.Destroy(ctx)
				return next(c)
			}
			if err != nil {
				return err
			}

			identity := auth.Identity{
				SessionToken: sm.Token(ctx),
				AdminID:      admin.ID,
				Email:        admin.Email,
				Role:         admin.Role,
			}
			c.SetRequest(c.Request().WithContext(auth.WithIdentity(ctx, identity)))
			c.Set(ContextKeyAdmin, admin)
			return next(c)
		}
	}
}

// RequireAuth rejects requests without an authenticated admin with ErrUnauthenticated.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := auth.IdentityFrom(c.Request().Context()); !ok {
				return apperrors.ErrUnauthenticated
			}
			return next(c)
		}
	}
}

// RequireRole admits an authenticated admin whose role grants any of roles. The admin
// role is granted everything. Anonymous requests get ErrUnauthenticated, others
// ErrForbidden.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	allowed := model.NewRoleSet(roles...)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := auth.IdentityFrom(c.Request().Context())
			if !ok {
				return apperrors.ErrUnauthenticated
			}
			if !identity.Role.Grants(allowed) {
				return apperrors.ErrForbidden
			}
			return next(c)
		}
	}
}

// CurrentAdmin returns the admin loaded by LoadAdmin.
func CurrentAdmin(c echo.Context) (*model.AdminUser, bool) {
	admin, ok := c.Get(ContextKeyAdmin).(*model.AdminUser)
	return admin, ok
}
