package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	"agencysite/internal/config"
	apperrors "agencysite/internal/errors"
	"agencysite/internal/handler"
	appmw "agencysite/internal/middleware"
	"agencysite/internal/model"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	logger *slog.Logger,
	sessions *scs.SessionManager,
	admins appmw.AdminLoader,
	authHandler *handler.AuthHandler,
	adminUserHandler *handler.AdminUserHandler,
	formHandler *handler.FormConfigHandler,
	blogHandler *handler.BlogHandler,
	submissionHandler *handler.SubmissionHandler,
) error {
	v, err := NewValidator()
	if err != nil {
		return err
	}
	e.Validator = v
	e.HTTPErrorHandler = NewHTTPErrorHandler(logger)

	e.Use(middleware.RequestID())
	e.Use(requestLogger(logger))
	e.Use(middleware.Recover())

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public blog and lead forms
	api.GET("/blog/posts", blogHandler.ListPublishedPosts)
	api.GET("/blog/posts/:slug", blogHandler.GetPublishedPost)
	api.POST("/contact", submissionHandler.SubmitContact)
	api.POST("/discovery-calls", submissionHandler.SubmitDiscoveryCall)
	api.POST("/talk-growth", submissionHandler.SubmitTalkGrowth)

	// Admin panel, session aware
	admin := api.Group("/admin",
		appmw.Sessions(sessions, logger),
		appmw.LoadAdmin(sessions, admins, logger),
	)

	limited := authRateLimiter(cfg.LoginRateLimit)
	admin.POST("/login", authHandler.Login, limited)
	admin.POST("/logout", authHandler.Logout)
	admin.POST("/create", authHandler.CreateAdmin)
	admin.POST("/password-reset", authHandler.RequestPasswordReset, limited)
	admin.POST("/password-reset/confirm", authHandler.ConfirmPasswordReset, limited)

	requireAuth := appmw.RequireAuth()
	admin.GET("/me", authHandler.Me, requireAuth)
	admin.POST("/change-password", authHandler.ChangePassword, requireAuth)
	admin.PUT("/profile", authHandler.UpdateProfile, requireAuth)
	admin.GET("/analytics/submissions", submissionHandler.Stats, requireAuth)

	adminsOnly := appmw.RequireRole(model.RoleAdmin)
	admin.GET("/users", adminUserHandler.ListAdmins, adminsOnly)
	admin.GET("/users/:id", adminUserHandler.GetAdmin, adminsOnly)
	admin.PUT("/users/:id", adminUserHandler.UpdateAdmin, adminsOnly)
	admin.DELETE("/users/:id", adminUserHandler.DeleteAdmin, adminsOnly)

	formManagers := appmw.RequireRole(model.RoleFormManager)
	admin.GET("/forms", formHandler.ListForms, formManagers)
	admin.GET("/forms/:id", formHandler.GetForm, formManagers)
	admin.POST("/forms", formHandler.CreateForm, formManagers)
	admin.PUT("/forms/:id", formHandler.UpdateForm, formManagers)
	admin.DELETE("/forms/:id", formHandler.DeleteForm, formManagers)

	editors := appmw.RequireRole(model.RoleEditor)
	admin.GET("/posts", blogHandler.ListPosts, editors)
	admin.GET("/posts/:id", blogHandler.GetPost, editors)
	admin.POST("/posts", blogHandler.CreatePost, editors)
	admin.PUT("/posts/:id", blogHandler.UpdatePost, editors)
	admin.DELETE("/posts/:id", blogHandler.DeletePost, editors)

	return nil
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.LogAttrs(c.Request().Context(), level, "request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
				slog.String("remote_ip", v.RemoteIP),
			)
			return nil
		},
	})
}

// authRateLimiter allows perMinute requests per client IP, with an equal burst. A
// non-positive limit disables it.
func authRateLimiter(perMinute int) echo.MiddlewareFunc {
	if perMinute <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(float64(perMinute) / time.Minute.Seconds()),
		Burst:     perMinute,
		ExpiresIn: 3 * time.Minute,
	})
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusForbidden, apperrors.ErrorResponse{
				Error: "unable to identify client",
				Code:  "FORBIDDEN",
			}).SetInternal(err)
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, apperrors.ErrorResponse{
				Error: "too many attempts, try again later",
				Code:  "RATE_LIMITED",
			})
		},
	})
}
