package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	apperrors "agencysite/internal/errors"
	"agencysite/internal/model"
	"agencysite/internal/repository"
)

// UpdateAdminInput is a partial update of an admin account by an administrator.
type UpdateAdminInput struct {
	Email     *string     `json:"email" validate:"omitnil,email,max=255"`
	FirstName *string     `json:"firstName" validate:"omitnil,min=1,max=100"`
	LastName  *string     `json:"lastName" validate:"omitnil,min=1,max=100"`
	Role      *model.Role `json:"role" validate:"omitnil,oneof=admin editor form_manager"`
	IsActive  *bool       `json:"isActive"`
}

// AdminUserService manages admin accounts on behalf of an administrator.
type AdminUserService interface {
	ListAdmins(ctx context.Context) ([]model.AdminUser, error)
	GetAdmin(ctx context.Context, id uuid.UUID) (*model.AdminUser, error)
	UpdateAdmin(ctx context.Context, actorID, id uuid.UUID, in UpdateAdminInput) (*model.AdminUser, error)
	DeleteAdmin(ctx context.Context, actorID, id uuid.UUID) error
}

type adminUserService struct {
	store repository.AdminUserRepository
}

// NewAdminUserService creates a new admin user service.
func NewAdminUserService(store repository.AdminUserRepository) AdminUserService {
	return &adminUserService{store: store}
}

func (s *adminUserService) ListAdmins(ctx context.Context) ([]model.AdminUser, error) {
	admins, err := s.store.ListAdminUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	return admins, nil
}

func (s *adminUserService) GetAdmin(ctx context.Context, id uuid.UUID) (*model.AdminUser, error) {
	return s.store.FindAdminUserByID(ctx, id)
}

// UpdateAdmin applies in to admin id. An actor may not demote or deactivate themselves.
func (s *adminUserService) UpdateAdmin(ctx context.Context, actorID, id uuid.UUID, in UpdateAdminInput) (*model.AdminUser, error) {
	admin, err := s.store.FindAdminUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if actorID == id {
		if in.Role != nil && *in.Role != admin.Role {
			return nil, apperrors.ErrSelfModification
		}
		if in.IsActive != nil && !*in.IsActive {
			return nil, apperrors.ErrSelfModification
		}
	}

	if in.Email != nil {
		admin.Email = normalizeEmail(*in.Email)
	}
	if in.FirstName != nil {
		admin.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		admin.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Role != nil {
		if !in.Role.Valid() {
			return nil, apperrors.NewValidationError("role", "role must be one of [admin editor form_manager]")
		}
		admin.Role = *in.Role
	}
	if in.IsActive != nil {
		admin.IsActive = *in.IsActive
	}

	if err := s.store.UpdateAdminUser(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

// DeleteAdmin removes admin id. An actor may not delete themselves.
func (s *adminUserService) DeleteAdmin(ctx context.Context, actorID, id uuid.UUID) error {
	if actorID == id {
		return apperrors.ErrSelfModification
	}
	return s.store.DeleteAdminUser(ctx, id)
}
