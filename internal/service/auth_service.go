package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"agencysite/internal/auth"
	apperrors "agencysite/internal/errors"
	"agencysite/internal/model"
	"agencysite/internal/repository"
)

// ResetRequestedMessage is returned for every password reset request, whether or not the
// email belongs to an account.
const ResetRequestedMessage = "If an account exists for that email, a reset link has been sent."

// CreateAdminInput is the body of an admin account creation.
type CreateAdminInput struct {
	Email     string     `json:"email" validate:"required,email,max=255"`
	Password  string     `json:"password" validate:"required,min=8,max=128"`
	FirstName string     `json:"firstName" validate:"required,max=100"`
	LastName  string     `json:"lastName" validate:"required,max=100"`
	Role      model.Role `json:"role" validate:"omitempty,oneof=admin editor form_manager"`
}

// UpdateProfileInput is a partial update of the caller's own profile.
type UpdateProfileInput struct {
	FirstName *string `json:"firstName" validate:"omitnil,min=1,max=100"`
	LastName  *string `json:"lastName" validate:"omitnil,min=1,max=100"`
	Email     *string `json:"email" validate:"omitnil,email,max=255"`
}

// AuthService handles admin authentication, account bootstrap and password management.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*model.AdminUser, error)
	CurrentAdmin(ctx context.Context, id uuid.UUID) (*model.AdminUser, error)
	CreateAdmin(ctx context.Context, in CreateAdminInput) (*model.AdminUser, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, token, newPassword string) error
	ChangePassword(ctx context.Context, id uuid.UUID, currentPassword, newPassword string) error
	UpdateProfile(ctx context.Context, id uuid.UUID, in UpdateProfileInput) (*model.AdminUser, error)
}

type authService struct {
	store          repository.Storage
	hasher         *auth.Hasher
	resetTokens    *auth.ResetTokenIssuer
	notifier       auth.ResetNotifier
	allowBootstrap bool
	logger         *slog.Logger
	now            func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService creates a new authentication service. When allowBootstrap is true the first
// admin account may be created without a session.
func NewAuthService(
	store repository.Storage,
	hasher *auth.Hasher,
	resetTokens *auth.ResetTokenIssuer,
	notifier auth.ResetNotifier,
	allowBootstrap bool,
	logger *slog.Logger,
) AuthService {
	return &authService{
		store:          store,
		hasher:         hasher,
		resetTokens:    resetTokens,
		notifier:       notifier,
		allowBootstrap: allowBootstrap,
		logger:         logger,
		now:            time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// burnVerify runs one verification against a fixed hash so that unknown and inactive
// accounts take as long to reject as a wrong password.
func (s *authService) burnVerify(password string) {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash(uuid.NewString())
		if err != nil {
			s.logger.Error("generate dummy password hash", "error", err)
			return
		}
		s.dummyHash = h
	})
	if s.dummyHash != "" {
		_, _ = s.hasher.Verify(password, s.dummyHash)
	}
}

// Login authenticates an admin. Unknown email, inactive account and wrong password all
// return ErrInvalidCredentials.
func (s *authService) Login(ctx context.Context, email, password string) (*model.AdminUser, error) {
	admin, err := s.store.FindAdminUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.burnVerify(password)
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find admin: %w", err)
	}
	if !admin.IsActive {
		s.burnVerify(password)
		return nil, apperrors.ErrInvalidCredentials
	}

	ok, err := s.hasher.Verify(password, admin.Password)
	if err != nil {
		s.logger.WarnContext(ctx, "stored password hash is unreadable", "admin_id", admin.ID, "error", err)
	}
	if !ok {
		return nil, apperrors.ErrInvalidCredentials
	}

	now := s.now()
	if err := s.store.TouchAdminLastLogin(ctx, admin.ID, now); err != nil {
		return nil, fmt.Errorf("record last login: %w", err)
	}
	admin.LastLoginAt = &now

	if s.hasher.NeedsRehash(admin.Password) {
		if hashed, err := s.hasher.Hash(password); err == nil {
			if err := s.store.UpdateAdminPassword(ctx, admin.ID, hashed); err != nil {
				s.logger.WarnContext(ctx, "rehash password", "admin_id", admin.ID, "error", err)
			}
		}
	}

	return admin, nil
}

// CurrentAdmin returns the admin a session belongs to. A deleted or deactivated admin is
// reported as unauthenticated.
func (s *authService) CurrentAdmin(ctx context.Context, id uuid.UUID) (*model.AdminUser, error) {
	admin, err := s.store.FindAdminUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthenticated
		}
		return nil, fmt.Errorf("find admin: %w", err)
	}
	if !admin.IsActive {
		return nil, apperrors.ErrUnauthenticated
	}
	return admin, nil
}

// authorizeCreate decides whether the caller in ctx may create an admin account. bootstrap
// is true for an anonymous caller that may only succeed while no admin exists.
func (s *authService) authorizeCreate(ctx context.Context) (bootstrap bool, err error) {
	if id, ok := auth.IdentityFrom(ctx); ok {
		if !id.Role.Grants(model.NewRoleSet(model.RoleAdmin)) {
			return false, apperrors.ErrForbidden
		}
		return false, nil
	}

	count, err := s.store.CountAdminUsers(ctx)
	if err != nil {
		return false, fmt.Errorf("count admins: %w", err)
	}
	switch {
	case count > 0:
		return false, apperrors.ErrUnauthenticated
	case !s.allowBootstrap:
		return false, apperrors.ErrBootstrapClosed
	default:
		return true, nil
	}
}

// CreateAdmin creates an admin account. Without a session this only succeeds while bootstrap
// is enabled and no admin exists; otherwise the caller must hold the admin role.
func (s *authService) CreateAdmin(ctx context.Context, in CreateAdminInput) (*model.AdminUser, error) {
	bootstrap, err := s.authorizeCreate(ctx)
	if err != nil {
		return nil, err
	}

	role := in.Role
	if role == "" {
		role = model.RoleEditor
	}
	if !role.Valid() {
		return nil, apperrors.NewValidationError("role", "role must be one of [admin editor form_manager]")
	}

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	admin := &model.AdminUser{
		Email:     normalizeEmail(in.Email),
		Password:  hashed,
		Role:      role,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		IsActive:  true,
	}
	create := s.store.CreateAdminUser
	if bootstrap {
		create = s.store.CreateFirstAdminUser
	}
	if err := create(ctx, admin); err != nil {
		switch {
		case errors.Is(err, repository.ErrAdminsExist):
			// Another anonymous caller bootstrapped first.
			return nil, apperrors.ErrUnauthenticated
		case errors.Is(err, apperrors.ErrConflict):
			return nil, err
		}
		return nil, fmt.Errorf("create admin: %w", err)
	}

	s.logger.InfoContext(ctx, "admin created", "admin_id", admin.ID, "role", admin.Role)
	return admin, nil
}

// RequestPasswordReset mints a reset token when email belongs to an active admin. The result
// is the same for unknown addresses; only lookup failures are returned.
func (s *authService) RequestPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	admin, err := s.store.FindAdminUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.DebugContext(ctx, "password reset for unknown email")
			return nil
		}
		return fmt.Errorf("find admin: %w", err)
	}
	if !admin.IsActive {
		return nil
	}

	token, expiresAt, err := s.resetTokens.Issue(admin.Email, model.PasswordResetTokenTTL)
	if err != nil {
		s.logger.ErrorContext(ctx, "issue reset token", "error", err)
		return nil
	}
	if err := s.store.CreateResetToken(ctx, &model.PasswordResetToken{
		Email:     admin.Email,
		Token:     token,
		ExpiresAt: expiresAt,
	}); err != nil {
		s.logger.ErrorContext(ctx, "store reset token", "error", err)
		return nil
	}
	if err := s.notifier.NotifyReset(ctx, admin.Email, token); err != nil {
		s.logger.ErrorContext(ctx, "deliver reset token", "error", err)
	}
	return nil
}

// ConfirmPasswordReset redeems token and sets newPassword. Unknown, used and expired tokens
// all return ErrInvalidResetToken. The token is consumed in the same transaction as the
// password update, so concurrent redemptions have exactly one winner.
func (s *authService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	claims, err := s.resetTokens.Parse(token)
	if err != nil {
		return apperrors.ErrInvalidResetToken
	}

	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Storage) error {
		row, err := tx.ConsumeResetToken(ctx, token, s.now())
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.ErrInvalidResetToken
			}
			return fmt.Errorf("consume reset token: %w", err)
		}
		if row.Email != claims.Email {
			return apperrors.ErrInvalidResetToken
		}

		admin, err := tx.FindAdminUserByEmail(ctx, row.Email)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.ErrInvalidResetToken
			}
			return fmt.Errorf("find admin: %w", err)
		}
		if err := tx.UpdateAdminPassword(ctx, admin.ID, hashed); err != nil {
			return fmt.Errorf("update password: %w", err)
		}
		s.logger.InfoContext(ctx, "password reset completed", "admin_id", admin.ID)
		return nil
	})
}

// ChangePassword replaces the password of admin id after checking currentPassword.
func (s *authService) ChangePassword(ctx context.Context, id uuid.UUID, currentPassword, newPassword string) error {
	admin, err := s.store.FindAdminUserByID(ctx, id)
	if err != nil {
		return err
	}

	ok, err := s.hasher.Verify(currentPassword, admin.Password)
	if err != nil {
		s.logger.WarnContext(ctx, "stored password hash is unreadable", "admin_id", admin.ID, "error", err)
	}
	if !ok {
		return apperrors.ErrIncorrectPassword
	}

	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.store.UpdateAdminPassword(ctx, admin.ID, hashed); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// UpdateProfile changes the caller's own name or email. Role and active state are never
// touched here.
func (s *authService) UpdateProfile(ctx context.Context, id uuid.UUID, in UpdateProfileInput) (*model.AdminUser, error) {
	admin, err := s.store.FindAdminUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.FirstName != nil {
		admin.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		admin.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Email != nil {
		admin.Email = normalizeEmail(*in.Email)
	}

	if err := s.store.UpdateAdminUser(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}
