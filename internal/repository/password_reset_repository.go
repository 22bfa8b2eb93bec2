package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"agencysite/internal/model"
)

const (
	resetEntity    = "reset token"
	resetUniqueKey = "reset token"
)

type passwordResetRepository struct {
	db *gorm.DB
}

// NewPasswordResetRepository creates a new password reset token repository.
func NewPasswordResetRepository(db *gorm.DB) PasswordResetRepository {
	return &passwordResetRepository{db: db}
}

func (r *passwordResetRepository) CreateResetToken(ctx context.Context, token *model.PasswordResetToken) error {
	return translate(r.db.WithContext(ctx).Create(token).Error, resetEntity, resetUniqueKey)
}

func (r *passwordResetRepository) FindResetToken(ctx context.Context, token string) (*model.PasswordResetToken, error) {
	var t model.PasswordResetToken
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&t).Error; err != nil {
		return nil, translate(err, resetEntity, resetUniqueKey)
	}
	return &t, nil
}

// ConsumeResetToken sets used_at with a conditional UPDATE; the row lock taken by the
// database lets only one concurrent caller see an affected row.
func (r *passwordResetRepository) ConsumeResetToken(ctx context.Context, token string, now time.Time) (*model.PasswordResetToken, error) {
	res := r.db.WithContext(ctx).Model(&model.PasswordResetToken{}).
		Where("token = ? AND used_at IS NULL AND expires_at > ?", token, now).
		UpdateColumn("used_at", now)
	if err := rowsOrNotFound(res, resetEntity); err != nil {
		return nil, err
	}
	return r.FindResetToken(ctx, token)
}
