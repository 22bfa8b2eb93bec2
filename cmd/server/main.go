package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm/logger"

	"agencysite/docs"
	"agencysite/internal/auth"
	"agencysite/internal/config"
	"agencysite/internal/db"
	"agencysite/internal/handler"
	"agencysite/internal/repository"
	"agencysite/internal/router"
	"agencysite/internal/service"
	"agencysite/internal/session"
)

const driverMemory = "memory"

// @title Agency Site API
// @version 1.0
// @description Public blog and lead forms plus the session-authenticated admin panel.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey SessionCookie
// @in header
// @name Cookie
func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("load .env", "error", err)
	}
	cfg := config.Load()
	log := newLogger(cfg)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.IsDevelopment() {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStorage(cfg, log)
	if err != nil {
		return err
	}

	sessionStore, closeStore, err := openSessionStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()
	sm := session.New(sessionStore, cfg.SessionLifetime, cfg.IsDevelopment())

	hasher := auth.NewHasher(auth.DefaultParams)
	resetTokens := auth.NewResetTokenIssuer(cfg.ResetTokenSecret)
	notifier := auth.NewLogNotifier(log, cfg.PublicBaseURL, cfg.IsDevelopment())

	// Initialize services
	authService := service.NewAuthService(store, hasher, resetTokens, notifier, cfg.AdminBootstrap, log)
	adminUserService := service.NewAdminUserService(store)
	formService := service.NewFormConfigService(store)
	blogService := service.NewBlogService(store)
	submissionService := service.NewSubmissionService(store, log)

	e := echo.New()
	e.HideBanner = true
	if err := router.Register(
		e,
		cfg,
		log,
		sm,
		authService,
		handler.NewAuthHandler(authService, sm),
		handler.NewAdminUserHandler(adminUserService),
		handler.NewFormConfigHandler(formService),
		handler.NewBlogHandler(blogService),
		handler.NewSubmissionHandler(submissionService),
	); err != nil {
		return err
	}

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "https://"), "http://")
	}
	log.Info("swagger documentation available", "url", swaggerURL(cfg))

	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Start(":" + cfg.ServerPort)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func openStorage(cfg *config.Config, log *slog.Logger) (repository.Storage, error) {
	if cfg.DBDriver == driverMemory {
		log.Warn("using in-memory storage, data is lost on restart")
		return repository.NewMemoryStorage(), nil
	}

	level := logger.Warn
	if cfg.IsDevelopment() {
		level = logger.Info
	}
	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN, level)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(gormDB, repository.Models()...); err != nil {
		return nil, err
	}
	log.Info("database ready", "driver", cfg.DBDriver)
	return repository.NewGormStorage(gormDB), nil
}

func openSessionStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (scs.Store, func(), error) {
	if cfg.SessionStore != "redis" {
		log.Warn("using in-memory session store, sessions are lost on restart")
		return session.NewMemoryStore(), func() {}, nil
	}

	client, err := session.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := client.Close(); err != nil {
			log.Warn("close redis", "error", err)
		}
	}
	return session.NewRedisStore(client), closeFn, nil
}

func swaggerURL(cfg *config.Config) string {
	host := cfg.SwaggerHost
	switch {
	case host == "":
		host = "http://localhost:" + cfg.ServerPort
	case !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://"):
		host = "http://" + host
	}
	return host + "/swagger/index.html"
}
