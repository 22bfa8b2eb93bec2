package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "agencysite/internal/errors"
	"agencysite/internal/model"
)

func TestMemoryStorage_AdminEmailUnique(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	first := &model.AdminUser{Email: "a@b.com", Role: model.RoleEditor, IsActive: true}
	require.NoError(t, s.CreateAdminUser(ctx, first))
	assert.NotEqual(t, "", first.ID.String())

	err := s.CreateAdminUser(ctx, &model.AdminUser{Email: "a@b.com", Role: model.RoleAdmin})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	second := &model.AdminUser{Email: "c@d.com", Role: model.RoleEditor}
	require.NoError(t, s.CreateAdminUser(ctx, second))
	second.Email = "a@b.com"
	assert.ErrorIs(t, s.UpdateAdminUser(ctx, second), apperrors.ErrConflict)

	n, err := s.CountAdminUsers(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestMemoryStorage_CreateFirstAdminUserOnce(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	const workers = 8
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		wins   int
		closed int
	)
	for i := 0; i < workers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			admin := &model.AdminUser{Email: string(rune('a'+i)) + "@b.com", Role: model.RoleAdmin, IsActive: true}
			err := s.CreateFirstAdminUser(ctx, admin)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, ErrAdminsExist):
				closed++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	assert.Equal(t, workers-1, closed)
	n, err := s.CountAdminUsers(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestMemoryStorage_SlugUnique(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	a := &model.BlogPost{Title: "A", Slug: "already-used"}
	b := &model.BlogPost{Title: "B", Slug: "other"}
	require.NoError(t, s.CreateBlogPost(ctx, a))
	require.NoError(t, s.CreateBlogPost(ctx, b))

	assert.ErrorIs(t, s.CreateBlogPost(ctx, &model.BlogPost{Slug: "already-used"}), apperrors.ErrConflict)

	b.Slug = "already-used"
	assert.ErrorIs(t, s.UpdateBlogPost(ctx, b), apperrors.ErrConflict)

	a.Title = "A2"
	assert.NoError(t, s.UpdateBlogPost(ctx, a), "a post may keep its own slug")
}

func TestMemoryStorage_ListBlogPostsPublishedOnly(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	require.NoError(t, s.CreateBlogPost(ctx, &model.BlogPost{Slug: "draft"}))
	require.NoError(t, s.CreateBlogPost(ctx, &model.BlogPost{Slug: "live", IsPublished: true}))

	all, err := s.ListBlogPosts(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, "live", all[0].Slug, "newest first")

	published, err := s.ListBlogPosts(ctx, true)
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, "live", published[0].Slug)
}

func TestMemoryStorage_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	post := &model.BlogPost{Slug: "tags", Tags: []string{"go"}}
	require.NoError(t, s.CreateBlogPost(ctx, post))

	got, err := s.FindBlogPostBySlug(ctx, "tags")
	require.NoError(t, err)
	got.Tags[0] = "mutated"

	again, err := s.FindBlogPostByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "go", again.Tags[0])
}

func TestMemoryStorage_DeleteTwiceIsNotFound(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	cfg := &model.FormConfig{FormName: "contact", RecipientEmails: []string{"ops@agency.test"}}
	require.NoError(t, s.CreateFormConfig(ctx, cfg))
	require.NoError(t, s.DeleteFormConfig(ctx, cfg.ID))
	assert.ErrorIs(t, s.DeleteFormConfig(ctx, cfg.ID), apperrors.ErrNotFound)
}

func TestMemoryStorage_ConsumeResetTokenOnce(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()
	now := time.Now()

	require.NoError(t, s.CreateResetToken(ctx, &model.PasswordResetToken{
		Email:     "a@b.com",
		Token:     "tok",
		ExpiresAt: now.Add(time.Hour),
	}))

	const workers = 16
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.ConsumeResetToken(ctx, "tok", now); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)

	stored, err := s.FindResetToken(ctx, "tok")
	require.NoError(t, err)
	assert.NotNil(t, stored.UsedAt)
}

func TestMemoryStorage_ConsumeExpiredToken(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()
	now := time.Now()

	require.NoError(t, s.CreateResetToken(ctx, &model.PasswordResetToken{
		Email:     "a@b.com",
		Token:     "old",
		ExpiresAt: now.Add(-time.Minute),
	}))
	_, err := s.ConsumeResetToken(ctx, "old", now)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = s.ConsumeResetToken(ctx, "missing", now)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestMemoryStorage_FailedTransactionReleasesResetToken(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()
	now := time.Now()

	require.NoError(t, s.CreateResetToken(ctx, &model.PasswordResetToken{
		Email:     "a@b.com",
		Token:     "tok",
		ExpiresAt: now.Add(time.Hour),
	}))

	boom := errors.New("update failed")
	err := s.WithTransaction(ctx, func(ctx context.Context, tx Storage) error {
		if _, err := tx.ConsumeResetToken(ctx, "tok", now); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	stored, err := s.FindResetToken(ctx, "tok")
	require.NoError(t, err)
	assert.Nil(t, stored.UsedAt)

	err = s.WithTransaction(ctx, func(ctx context.Context, tx Storage) error {
		_, err := tx.ConsumeResetToken(ctx, "tok", now)
		return err
	})
	require.NoError(t, err)
	stored, err = s.FindResetToken(ctx, "tok")
	require.NoError(t, err)
	assert.NotNil(t, stored.UsedAt)
}

func TestMemoryStorage_SubmissionStats(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()
	now := time.Now()

	old := &model.ContactSubmission{}
	old.CreatedAt = now.Add(-30 * 24 * time.Hour)
	require.NoError(t, s.CreateSubmission(ctx, old))
	require.NoError(t, s.CreateSubmission(ctx, &model.ContactSubmission{}))
	require.NoError(t, s.CreateSubmission(ctx, &model.DiscoveryCallSubmission{PrimaryGoal: "grow"}))
	require.NoError(t, s.CreateSubmission(ctx, &model.TalkGrowthSubmission{GrowthGoals: "more followers"}))

	stats, err := s.SubmissionStats(ctx, now.Add(-7*24*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 4, stats.TotalSubmissions)
	assert.EqualValues(t, 3, stats.RecentSubmissions)
	assert.EqualValues(t, 2, stats.SubmissionsByForm[model.SubmissionContact])
	assert.EqualValues(t, 1, stats.SubmissionsByForm[model.SubmissionDiscoveryCall])
	assert.EqualValues(t, 1, stats.SubmissionsByForm[model.SubmissionTalkGrowth])
}

func TestMemoryStorage_SubmissionsGetDistinctIDs(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	a := &model.ContactSubmission{}
	b := &model.ContactSubmission{}
	require.NoError(t, s.CreateSubmission(ctx, a))
	require.NoError(t, s.CreateSubmission(ctx, b))
	assert.NotEqual(t, a.ID, b.ID)
}
