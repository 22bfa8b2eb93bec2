package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gorm.io/gorm/logger"

	"agencysite/internal/auth"
	"agencysite/internal/config"
	"agencysite/internal/db"
	apperrors "agencysite/internal/errors"
	"agencysite/internal/model"
	"agencysite/internal/repository"
	"agencysite/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("load .env", "error", err)
	}
	cfg := config.Load()
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("seed failed", "error", err)
		os.Exit(1)
	}
	log.Info("seed completed")
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	if cfg.SeedAdminEmail == "" || cfg.SeedAdminPassword == "" {
		return errors.New("SEED_ADMIN_EMAIL and SEED_ADMIN_PASSWORD are required")
	}

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN, logger.Warn)
	if err != nil {
		return err
	}
	if err := db.Migrate(gormDB, repository.Models()...); err != nil {
		return err
	}
	log.Info("database migrations completed", "driver", cfg.DBDriver)

	return seed(ctx, repository.NewGormStorage(gormDB), auth.NewHasher(auth.DefaultParams), cfg, log)
}

// seed is idempotent: records that already exist are skipped.
func seed(ctx context.Context, store repository.Storage, hasher *auth.Hasher, cfg *config.Config, log *slog.Logger) error {
	cfg.SeedAdminEmail = strings.ToLower(strings.TrimSpace(cfg.SeedAdminEmail))
	if err := seedAdmin(ctx, store, hasher, cfg, log); err != nil {
		return err
	}
	if err := seedForms(ctx, service.NewFormConfigService(store), cfg.SeedAdminEmail, log); err != nil {
		return err
	}
	return seedUser(ctx, service.NewUserService(store, hasher), cfg, log)
}

func seedUser(ctx context.Context, users service.UserService, cfg *config.Config, log *slog.Logger) error {
	if cfg.SeedUserUsername == "" {
		return nil
	}
	user, err := users.Register(ctx, cfg.SeedUserUsername, cfg.SeedUserPassword)
	switch {
	case errors.Is(err, apperrors.ErrConflict):
		log.Info("site user already exists, skipping", "username", cfg.SeedUserUsername)
		return nil
	case err != nil:
		return fmt.Errorf("register site user: %w", err)
	}
	log.Info("site user created", "username", user.Username, "id", user.ID)
	return nil
}

func seedAdmin(ctx context.Context, store repository.Storage, hasher *auth.Hasher, cfg *config.Config, log *slog.Logger) error {
	_, err := store.FindAdminUserByEmail(ctx, cfg.SeedAdminEmail)
	switch {
	case err == nil:
		log.Info("admin already exists, skipping", "email", cfg.SeedAdminEmail)
		return nil
	case !errors.Is(err, apperrors.ErrNotFound):
		return fmt.Errorf("find admin: %w", err)
	}

	hashed, err := hasher.Hash(cfg.SeedAdminPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	admin := &model.AdminUser{
		Email:     cfg.SeedAdminEmail,
		Password:  hashed,
		Role:      model.RoleAdmin,
		FirstName: "Site",
		LastName:  "Admin",
		IsActive:  true,
	}
	if err := store.CreateAdminUser(ctx, admin); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	log.Info("admin created", "email", admin.Email, "id", admin.ID)
	return nil
}

// defaultForms are the popup forms the public site renders.
var defaultForms = []struct {
	name, display, button, location string
}{
	{"contact", "Contact Us", "Send Message", "contact page"},
	{"discovery-call", "Book a Discovery Call", "Book a Call", "home page hero"},
	{"talk-growth", "Let's Talk Growth", "Talk Growth", "services page"},
}

func seedForms(ctx context.Context, forms service.FormConfigService, recipient string, log *slog.Logger) error {
	for _, f := range defaultForms {
		button := f.button
		_, err := forms.CreateForm(ctx, service.FormConfigInput{
			FormName:        f.name,
			DisplayName:     f.display,
			ButtonName:      &button,
			Location:        f.location,
			RecipientEmails: []string{recipient},
		})
		switch {
		case errors.Is(err, apperrors.ErrConflict):
			log.Info("form already configured, skipping", "form", f.name)
		case err != nil:
			return fmt.Errorf("create form %s: %w", f.name, err)
		default:
			log.Info("form configured", "form", f.name)
		}
	}
	return nil
}
