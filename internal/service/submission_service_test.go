package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agencysite/internal/model"
	"agencysite/internal/repository"
)

func baseInput() SubmissionBaseInput {
	return SubmissionBaseInput{
		FullName:     "Jane Doe",
		BusinessName: "Doe Bakery",
		Email:        "Jane@Example.com",
		PhoneNumber:  "5551234567",
		Budget:       model.Budget1000to2500,
	}
}

func TestSubmissionService_RecordsEachKind(t *testing.T) {
	store := repository.NewMemoryStorage()
	svc := NewSubmissionService(store, discardLogger())
	ctx := context.Background()

	msg := "Hello there"
	contact, err := svc.SubmitContact(ctx, ContactInput{SubmissionBaseInput: baseInput(), Message: &msg, Services: []string{"social"}})
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", contact.Email)
	assert.Equal(t, model.SubmissionContact, contact.Kind())

	again, err := svc.SubmitContact(ctx, ContactInput{SubmissionBaseInput: baseInput()})
	require.NoError(t, err)
	assert.NotEqual(t, contact.ID, again.ID, "identical payloads are never merged")

	_, err = svc.SubmitDiscoveryCall(ctx, DiscoveryCallInput{SubmissionBaseInput: baseInput(), PrimaryGoal: "More leads"})
	require.NoError(t, err)

	_, err = svc.SubmitTalkGrowth(ctx, TalkGrowthInput{
		SubmissionBaseInput: baseInput(),
		SocialPlatforms:     []string{"instagram", "tiktok"},
		GrowthGoals:         "Double our followers",
	})
	require.NoError(t, err)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 4, stats.TotalSubmissions)
	assert.EqualValues(t, 4, stats.RecentSubmissions)
	assert.EqualValues(t, 2, stats.SubmissionsByForm[model.SubmissionContact])
}

func TestSubmissionService_RecentWindow(t *testing.T) {
	store := repository.NewMemoryStorage()
	svc := NewSubmissionService(store, discardLogger()).(*submissionService)
	ctx := context.Background()

	_, err := svc.SubmitContact(ctx, ContactInput{SubmissionBaseInput: baseInput()})
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(8 * 24 * time.Hour) }
	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.TotalSubmissions)
	assert.EqualValues(t, 0, stats.RecentSubmissions)
}
