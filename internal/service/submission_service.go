package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"agencysite/internal/model"
	"agencysite/internal/repository"
)

// RecentWindow is how far back analytics counts a submission as recent.
const RecentWindow = 7 * 24 * time.Hour

// SubmissionBaseInput holds the fields every lead form collects.
type SubmissionBaseInput struct {
	FullName     string  `json:"fullName" validate:"required,min=2,max=255"`
	BusinessName string  `json:"businessName" validate:"required,max=255"`
	WebsiteURL   *string `json:"websiteUrl" validate:"omitempty,url"`
	Email        string  `json:"email" validate:"required,email,max=255"`
	PhoneNumber  string  `json:"phoneNumber" validate:"required,min=10,max=50"`
	Budget       string  `json:"budget" validate:"required,oneof=under-1000 1000-2500 2500-5000 5000-10000 10000-plus"`
}

// ContactInput is the body of the contact form.
type ContactInput struct {
	SubmissionBaseInput
	Message  *string  `json:"message" validate:"omitnil,max=5000"`
	Services []string `json:"services" validate:"omitempty,dive,required,max=100"`
}

// DiscoveryCallInput is the body of the discovery call form.
type DiscoveryCallInput struct {
	SubmissionBaseInput
	PreferredDate *string `json:"preferredDate" validate:"omitnil,max=50"`
	PreferredTime *string `json:"preferredTime" validate:"omitnil,max=50"`
	PrimaryGoal   string  `json:"primaryGoal" validate:"required,min=3"`
}

// TalkGrowthInput is the body of the growth consultation form.
type TalkGrowthInput struct {
	SubmissionBaseInput
	SocialPlatforms  []string `json:"socialPlatforms" validate:"required,min=1,dive,required,max=100"`
	CurrentFollowers *string  `json:"currentFollowers" validate:"omitnil,max=100"`
	GrowthGoals      string   `json:"growthGoals" validate:"required,min=10"`
}

// SubmissionService records public lead form submissions and reports on them.
type SubmissionService interface {
	SubmitContact(ctx context.Context, in ContactInput) (*model.ContactSubmission, error)
	SubmitDiscoveryCall(ctx context.Context, in DiscoveryCallInput) (*model.DiscoveryCallSubmission, error)
	SubmitTalkGrowth(ctx context.Context, in TalkGrowthInput) (*model.TalkGrowthSubmission, error)
	Stats(ctx context.Context) (*model.SubmissionStats, error)
}

type submissionService struct {
	store  repository.SubmissionRepository
	logger *slog.Logger
	now    func() time.Time
}

// NewSubmissionService creates a new submission service.
func NewSubmissionService(store repository.SubmissionRepository, logger *slog.Logger) SubmissionService {
	return &submissionService{store: store, logger: logger, now: time.Now}
}

func (in SubmissionBaseInput) toModel() model.SubmissionBase {
	return model.SubmissionBase{
		FullName:     strings.TrimSpace(in.FullName),
		BusinessName: strings.TrimSpace(in.BusinessName),
		WebsiteURL:   blankToNil(in.WebsiteURL),
		Email:        normalizeEmail(in.Email),
		PhoneNumber:  strings.TrimSpace(in.PhoneNumber),
		Budget:       in.Budget,
	}
}

func (s *submissionService) record(ctx context.Context, sub model.Submission) error {
	if err := s.store.CreateSubmission(ctx, sub); err != nil {
		return fmt.Errorf("create %s submission: %w", sub.Kind(), err)
	}
	s.logger.InfoContext(ctx, "submission received", "kind", sub.Kind(), "id", sub.Base().ID)
	return nil
}

func (s *submissionService) SubmitContact(ctx context.Context, in ContactInput) (*model.ContactSubmission, error) {
	sub := &model.ContactSubmission{
		SubmissionBase: in.SubmissionBaseInput.toModel(),
		Message:        blankToNil(in.Message),
		Services:       append([]string{}, in.Services...),
	}
	if err := s.record(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *submissionService) SubmitDiscoveryCall(ctx context.Context, in DiscoveryCallInput) (*model.DiscoveryCallSubmission, error) {
	sub := &model.DiscoveryCallSubmission{
		SubmissionBase: in.SubmissionBaseInput.toModel(),
		PreferredDate:  blankToNil(in.PreferredDate),
		PreferredTime:  blankToNil(in.PreferredTime),
		PrimaryGoal:    strings.TrimSpace(in.PrimaryGoal),
	}
	if err := s.record(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *submissionService) SubmitTalkGrowth(ctx context.Context, in TalkGrowthInput) (*model.TalkGrowthSubmission, error) {
	sub := &model.TalkGrowthSubmission{
		SubmissionBase:   in.SubmissionBaseInput.toModel(),
		SocialPlatforms:  append([]string{}, in.SocialPlatforms...),
		CurrentFollowers: blankToNil(in.CurrentFollowers),
		GrowthGoals:      strings.TrimSpace(in.GrowthGoals),
	}
	if err := s.record(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// Stats aggregates submission counts across all three forms.
func (s *submissionService) Stats(ctx context.Context) (*model.SubmissionStats, error) {
	stats, err := s.store.SubmissionStats(ctx, s.now().Add(-RecentWindow))
	if err != nil {
		return nil, fmt.Errorf("submission stats: %w", err)
	}
	return stats, nil
}
