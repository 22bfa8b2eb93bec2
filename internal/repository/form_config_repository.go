package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"agencysite/internal/model"
)

const (
	formEntity    = "form config"
	formUniqueKey = "form name"
)

type formConfigRepository struct {
	db *gorm.DB
}

// NewFormConfigRepository creates a new form config repository.
func NewFormConfigRepository(db *gorm.DB) FormConfigRepository {
	return &formConfigRepository{db: db}
}

func (r *formConfigRepository) CreateFormConfig(ctx context.Context, cfg *model.FormConfig) error {
	return translate(r.db.WithContext(ctx).Create(cfg).Error, formEntity, formUniqueKey)
}

func (r *formConfigRepository) FindFormConfigByID(ctx context.Context, id uuid.UUID) (*model.FormConfig, error) {
	var cfg model.FormConfig
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&cfg).Error; err != nil {
		return nil, translate(err, formEntity, formUniqueKey)
	}
	return &cfg, nil
}

func (r *formConfigRepository) FindFormConfigByName(ctx context.Context, formName string) (*model.FormConfig, error) {
	var cfg model.FormConfig
	if err := r.db.WithContext(ctx).Where("form_name = ?", formName).First(&cfg).Error; err != nil {
		return nil, translate(err, formEntity, formUniqueKey)
	}
	return &cfg, nil
}

func (r *formConfigRepository) ListFormConfigs(ctx context.Context) ([]model.FormConfig, error) {
	var cfgs []model.FormConfig
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&cfgs).Error; err != nil {
		return nil, err
	}
	return cfgs, nil
}

func (r *formConfigRepository) UpdateFormConfig(ctx context.Context, cfg *model.FormConfig) error {
	res := r.db.WithContext(ctx).Model(cfg).
		Select("form_name", "display_name", "button_name", "location", "recipient_emails",
			"google_sheet_url", "is_active", "updated_at").
		Updates(cfg)
	if res.Error != nil {
		return translate(res.Error, formEntity, formUniqueKey)
	}
	return rowsOrNotFound(res, formEntity)
}

func (r *formConfigRepository) DeleteFormConfig(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.FormConfig{})
	return rowsOrNotFound(res, formEntity)
}
