package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "agencysite/internal/errors"
	"agencysite/internal/repository"
)

func TestFormConfigService_CRUD(t *testing.T) {
	svc := NewFormConfigService(repository.NewMemoryStorage())
	ctx := context.Background()

	sheet := ""
	cfg, err := svc.CreateForm(ctx, FormConfigInput{
		FormName:        "contact",
		DisplayName:     "Contact Us",
		Location:        "Footer and contact page",
		RecipientEmails: []string{"Ops@Agency.test"},
		GoogleSheetURL:  &sheet,
	})
	require.NoError(t, err)
	assert.True(t, cfg.IsActive, "forms are active by default")
	assert.Nil(t, cfg.GoogleSheetURL)
	assert.Equal(t, []string{"ops@agency.test"}, []string(cfg.RecipientEmails))

	_, err = svc.CreateForm(ctx, FormConfigInput{
		FormName: "contact", DisplayName: "Again", Location: "x", RecipientEmails: []string{"a@b.com"},
	})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	inactive := false
	updated, err := svc.UpdateForm(ctx, cfg.ID, FormConfigPatch{
		IsActive:        &inactive,
		RecipientEmails: &[]string{"a@b.com", "c@d.com"},
	})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Len(t, updated.RecipientEmails, 2)
	assert.Equal(t, "Contact Us", updated.DisplayName)

	forms, err := svc.ListForms(ctx)
	require.NoError(t, err)
	assert.Len(t, forms, 1)

	_, err = svc.UpdateForm(ctx, uuid.New(), FormConfigPatch{})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	require.NoError(t, svc.DeleteForm(ctx, cfg.ID))
	_, err = svc.GetForm(ctx, cfg.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestFormConfigService_UpdateRejectsEmptyRecipients(t *testing.T) {
	svc := NewFormConfigService(repository.NewMemoryStorage())
	ctx := context.Background()

	cfg, err := svc.CreateForm(ctx, FormConfigInput{
		FormName: "talk-growth", DisplayName: "Talk Growth", Location: "services", RecipientEmails: []string{"a@b.com"},
	})
	require.NoError(t, err)

	_, err = svc.UpdateForm(ctx, cfg.ID, FormConfigPatch{RecipientEmails: &[]string{}})
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "recipientEmails", verr.Fields[0].Field)

	stored, err := svc.GetForm(ctx, cfg.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a@b.com"}, []string(stored.RecipientEmails))
}
