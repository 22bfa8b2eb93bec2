package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"agencysite/internal/auth"
	apperrors "agencysite/internal/errors"
	"agencysite/internal/model"
	"agencysite/internal/repository"
)

// UserService manages site user accounts. No HTTP route exposes it; cmd/seed registers the
// optional SEED_USER_USERNAME account through it.
type UserService interface {
	Register(ctx context.Context, username, password string) (*model.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)
	Authenticate(ctx context.Context, username, password string) (*model.User, error)
	ChangePassword(ctx context.Context, id uuid.UUID, newPassword string) error
}

type userService struct {
	repo   repository.UserRepository
	hasher *auth.Hasher
}

// NewUserService builds a UserService.
func NewUserService(repo repository.UserRepository, hasher *auth.Hasher) UserService {
	return &userService{repo: repo, hasher: hasher}
}

func (s *userService) Register(ctx context.Context, username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperrors.NewValidationError("username", "username is a required field")
	}
	if len(password) < 8 {
		return nil, apperrors.NewValidationError("password", "password must be at least 8 characters in length")
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &model.User{Username: username, Password: hashed}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.repo.FindUserByID(ctx, id)
}

func (s *userService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.repo.FindUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if ok, _ := s.hasher.Verify(password, user.Password); !ok {
		return nil, apperrors.ErrInvalidCredentials
	}
	return user, nil
}

func (s *userService) ChangePassword(ctx context.Context, id uuid.UUID, newPassword string) error {
	if len(newPassword) < 8 {
		return apperrors.NewValidationError("password", "password must be at least 8 characters in length")
	}
	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.repo.UpdateUserPassword(ctx, id, hashed)
}
