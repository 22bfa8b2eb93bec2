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

// FormConfigInput is the full body of a form configuration.
type FormConfigInput struct {
	FormName        string   `json:"formName" validate:"required,max=100"`
	DisplayName     string   `json:"displayName" validate:"required,max=255"`
	ButtonName      *string  `json:"buttonName" validate:"omitnil,max=255"`
	Location        string   `json:"location" validate:"required"`
	RecipientEmails []string `json:"recipientEmails" validate:"required,min=1,dive,required,email"`
	GoogleSheetURL  *string  `json:"googleSheetUrl" validate:"omitempty,url"`
	IsActive        *bool    `json:"isActive"`
}

// FormConfigPatch is a partial update of a form configuration.
type FormConfigPatch struct {
	FormName        *string   `json:"formName" validate:"omitnil,min=1,max=100"`
	DisplayName     *string   `json:"displayName" validate:"omitnil,min=1,max=255"`
	ButtonName      *string   `json:"buttonName" validate:"omitnil,max=255"`
	Location        *string   `json:"location" validate:"omitnil,min=1"`
	RecipientEmails *[]string `json:"recipientEmails" validate:"omitnil,min=1,dive,required,email"`
	GoogleSheetURL  *string   `json:"googleSheetUrl" validate:"omitempty,url"`
	IsActive        *bool     `json:"isActive"`
}

// FormConfigService manages lead-capture form configurations.
type FormConfigService interface {
	ListForms(ctx context.Context) ([]model.FormConfig, error)
	GetForm(ctx context.Context, id uuid.UUID) (*model.FormConfig, error)
	CreateForm(ctx context.Context, in FormConfigInput) (*model.FormConfig, error)
	UpdateForm(ctx context.Context, id uuid.UUID, in FormConfigPatch) (*model.FormConfig, error)
	DeleteForm(ctx context.Context, id uuid.UUID) error
}

type formConfigService struct {
	store repository.FormConfigRepository
}

// NewFormConfigService creates a new form config service.
func NewFormConfigService(store repository.FormConfigRepository) FormConfigService {
	return &formConfigService{store: store}
}

func normalizeEmails(emails []string) []string {
	out := make([]string, 0, len(emails))
	for _, e := range emails {
		out = append(out, normalizeEmail(e))
	}
	return out
}

// blankToNil treats an empty optional string as absent.
func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func (s *formConfigService) ListForms(ctx context.Context) ([]model.FormConfig, error) {
	forms, err := s.store.ListFormConfigs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list form configs: %w", err)
	}
	return forms, nil
}

func (s *formConfigService) GetForm(ctx context.Context, id uuid.UUID) (*model.FormConfig, error) {
	return s.store.FindFormConfigByID(ctx, id)
}

// CreateForm stores a new form configuration. formName must be unique.
func (s *formConfigService) CreateForm(ctx context.Context, in FormConfigInput) (*model.FormConfig, error) {
	cfg := &model.FormConfig{
		FormName:        strings.TrimSpace(in.FormName),
		DisplayName:     strings.TrimSpace(in.DisplayName),
		ButtonName:      blankToNil(in.ButtonName),
		Location:        in.Location,
		RecipientEmails: normalizeEmails(in.RecipientEmails),
		GoogleSheetURL:  blankToNil(in.GoogleSheetURL),
		IsActive:        true,
	}
	if in.IsActive != nil {
		cfg.IsActive = *in.IsActive
	}

	if err := s.store.CreateFormConfig(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s *formConfigService) UpdateForm(ctx context.Context, id uuid.UUID, in FormConfigPatch) (*model.FormConfig, error) {
	cfg, err := s.store.FindFormConfigByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.FormName != nil {
		cfg.FormName = strings.TrimSpace(*in.FormName)
	}
	if in.DisplayName != nil {
		cfg.DisplayName = strings.TrimSpace(*in.DisplayName)
	}
	if in.ButtonName != nil {
		cfg.ButtonName = blankToNil(in.ButtonName)
	}
	if in.Location != nil {
		cfg.Location = *in.Location
	}
	if in.RecipientEmails != nil {
		if len(*in.RecipientEmails) == 0 {
			return nil, apperrors.NewValidationError("recipientEmails", "recipientEmails must contain at least 1 item")
		}
		cfg.RecipientEmails = normalizeEmails(*in.RecipientEmails)
	}
	if in.GoogleSheetURL != nil {
		cfg.GoogleSheetURL = blankToNil(in.GoogleSheetURL)
	}
	if in.IsActive != nil {
		cfg.IsActive = *in.IsActive
	}

	if err := s.store.UpdateFormConfig(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s *formConfigService) DeleteForm(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteFormConfig(ctx, id)
}
