// Package middleware provides the echo middleware that loads admin sessions and enforces
// authentication and role checks.
package middleware

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/labstack/echo/v4"
)

// Sessions loads the session named by the request cookie into the request context and
// commits it before the response headers are written.
func Sessions(sm *scs.SessionManager, logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			var token string
			if cookie, err := req.Cookie(sm.Cookie.Name); err == nil {
				token = cookie.Value
			}

			ctx, err := sm.Load(req.Context(), token)
			if err != nil {
				return fmt.Errorf("load session: %w", err)
			}
			c.SetRequest(req.WithContext(ctx))

			res := c.Response()
			res.Header().Add("Vary", "Cookie")
			res.Before(func() {
				switch sm.Status(ctx) {
				case scs.Modified:
					token, expiry, err := sm.Commit(ctx)
					if err != nil {
						logger.ErrorContext(ctx, "commit session", "error", err)
						return
					}
					sm.WriteSessionCookie(ctx, res.Writer, token, expiry)
				case scs.Destroyed:
					sm.WriteSessionCookie(ctx, res.Writer, "", time.Time{})
				}
			})

			return next(c)
		}
	}
}
