package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"agencysite/internal/model"
)

const (
	adminEntity    = "admin user"
	adminUniqueKey = "email"
	bootstrapName  = "first-admin"
)

type adminUserRepository struct {
	db *gorm.DB
}

// NewAdminUserRepository creates a new admin user repository.
func NewAdminUserRepository(db *gorm.DB) AdminUserRepository {
	return &adminUserRepository{db: db}
}

// CreateAdminUser inserts an admin. A taken email surfaces as a conflict from the unique index.
func (r *adminUserRepository) CreateAdminUser(ctx context.Context, admin *model.AdminUser) error {
	return translate(r.db.WithContext(ctx).Create(admin).Error, adminEntity, adminUniqueKey)
}

// FindAdminUserByID finds an admin by ID.
func (r *adminUserRepository) FindAdminUserByID(ctx context.Context, id uuid.UUID) (*model.AdminUser, error) {
	var admin model.AdminUser
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&admin).Error; err != nil {
		return nil, translate(err, adminEntity, adminUniqueKey)
	}
	return &admin, nil
}

// FindAdminUserByEmail finds an admin by email.
func (r *adminUserRepository) FindAdminUserByEmail(ctx context.Context, email string) (*model.AdminUser, error) {
	var admin model.AdminUser
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&admin).Error; err != nil {
		return nil, translate(err, adminEntity, adminUniqueKey)
	}
	return &admin, nil
}

// ListAdminUsers lists all admins, oldest first.
func (r *adminUserRepository) ListAdminUsers(ctx context.Context) ([]model.AdminUser, error) {
	var admins []model.AdminUser
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&admins).Error; err != nil {
		return nil, err
	}
	return admins, nil
}

// CountAdminUsers counts all admins.
func (r *adminUserRepository) CountAdminUsers(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.AdminUser{}).Count(&n).Error
	return n, err
}

// CreateFirstAdminUser inserts admin inside a transaction that also claims the bootstrap row.
// Concurrent callers serialize on that row's primary key.
func (r *adminUserRepository) CreateFirstAdminUser(ctx context.Context, admin *model.AdminUser) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.AdminUser{}).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrAdminsExist
		}
		if err := tx.Create(&model.AdminBootstrap{Name: bootstrapName}).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAdminsExist
			}
			return err
		}
		return translate(tx.Create(admin).Error, adminEntity, adminUniqueKey)
	})
}

// UpdateAdminUser saves every column of admin.
func (r *adminUserRepository) UpdateAdminUser(ctx context.Context, admin *model.AdminUser) error {
	res := r.db.WithContext(ctx).Model(admin).
		Select("email", "role", "first_name", "last_name", "is_active", "updated_at").
		Updates(admin)
	if res.Error != nil {
		return translate(res.Error, adminEntity, adminUniqueKey)
	}
	return rowsOrNotFound(res, adminEntity)
}

// UpdateAdminPassword replaces the password hash.
func (r *adminUserRepository) UpdateAdminPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	res := r.db.WithContext(ctx).Model(&model.AdminUser{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"password": passwordHash, "updated_at": time.Now()})
	return rowsOrNotFound(res, adminEntity)
}

// TouchAdminLastLogin records a successful login.
func (r *adminUserRepository) TouchAdminLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.AdminUser{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at)
	return rowsOrNotFound(res, adminEntity)
}

// DeleteAdminUser removes an admin permanently.
func (r *adminUserRepository) DeleteAdminUser(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.AdminUser{})
	return rowsOrNotFound(res, adminEntity)
}
