package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"agencysite/internal/model"
)

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository creates a new submission repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

// CreateSubmission appends a submission to the table of its kind.
func (r *submissionRepository) CreateSubmission(ctx context.Context, submission model.Submission) error {
	switch submission.(type) {
	case *model.ContactSubmission, *model.DiscoveryCallSubmission, *model.TalkGrowthSubmission:
	default:
		return fmt.Errorf("unsupported submission type %T", submission)
	}
	return r.db.WithContext(ctx).Create(submission).Error
}

// SubmissionStats counts submissions per kind, and those created at or after recentSince.
func (r *submissionRepository) SubmissionStats(ctx context.Context, recentSince time.Time) (*model.SubmissionStats, error) {
	tables := map[model.SubmissionKind]interface{}{
		model.SubmissionContact:       &model.ContactSubmission{},
		model.SubmissionDiscoveryCall: &model.DiscoveryCallSubmission{},
		model.SubmissionTalkGrowth:    &model.TalkGrowthSubmission{},
	}

	stats := &model.SubmissionStats{SubmissionsByForm: make(map[model.SubmissionKind]int64, len(tables))}
	for _, kind := range model.SubmissionKinds() {
		var total, recent int64
		if err := r.db.WithContext(ctx).Model(tables[kind]).Count(&total).Error; err != nil {
			return nil, fmt.Errorf("count %s submissions: %w", kind, err)
		}
		if err := r.db.WithContext(ctx).Model(tables[kind]).
			Where("created_at >= ?", recentSince).
			Count(&recent).Error; err != nil {
			return nil, fmt.Errorf("count recent %s submissions: %w", kind, err)
		}
		stats.SubmissionsByForm[kind] = total
		stats.TotalSubmissions += total
		stats.RecentSubmissions += recent
	}
	return stats, nil
}
