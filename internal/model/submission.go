package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SubmissionKind identifies which public form produced a submission.
type SubmissionKind string

const (
	SubmissionContact       SubmissionKind = "contact"
	SubmissionDiscoveryCall SubmissionKind = "discovery-call"
	SubmissionTalkGrowth    SubmissionKind = "talk-growth"
)

// SubmissionKinds lists every kind in display order.
func SubmissionKinds() []SubmissionKind {
	return []SubmissionKind{SubmissionContact, SubmissionDiscoveryCall, SubmissionTalkGrowth}
}

// Budget tiers accepted by the lead forms.
const (
	BudgetUnder1000  = "under-1000"
	Budget1000to2500 = "1000-2500"
	Budget2500to5000 = "2500-5000"
	Budget5000to10k  = "5000-10000"
	Budget10kPlus    = "10000-plus"
)

// Submission is one of ContactSubmission, DiscoveryCallSubmission or TalkGrowthSubmission.
// Each kind lives in its own table; rows are never updated or deleted.
type Submission interface {
	Kind() SubmissionKind
	Base() *SubmissionBase
}

// SubmissionBase holds the fields shared by every lead form.
type SubmissionBase struct {
	ID           uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	FullName     string    `json:"fullName" gorm:"size:255;not null"`
	BusinessName string    `json:"businessName" gorm:"size:255;not null"`
	WebsiteURL   *string   `json:"websiteUrl" gorm:"column:website_url;type:text"`
	Email        string    `json:"email" gorm:"size:255;not null;index"`
	PhoneNumber  string    `json:"phoneNumber" gorm:"size:50;not null"`
	Budget       string    `json:"budget" gorm:"size:50;not null"`
	CreatedAt    time.Time `json:"createdAt" gorm:"index"`
}

// Base returns the shared fields.
func (b *SubmissionBase) Base() *SubmissionBase { return b }

// BeforeCreate sets UUID before creating the record.
func (b *SubmissionBase) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// ContactSubmission is a general enquiry from the contact page.
type ContactSubmission struct {
	SubmissionBase
	Message  *string                     `json:"message" gorm:"type:text"`
	Services datatypes.JSONSlice[string] `json:"services"`
}

// Kind implements Submission.
func (*ContactSubmission) Kind() SubmissionKind { return SubmissionContact }

// DiscoveryCallSubmission is a request to book a discovery call.
type DiscoveryCallSubmission struct {
	SubmissionBase
	PreferredDate *string `json:"preferredDate" gorm:"size:50"`
	PreferredTime *string `json:"preferredTime" gorm:"size:50"`
	PrimaryGoal   string  `json:"primaryGoal" gorm:"type:text;not null"`
}

// Kind implements Submission.
func (*DiscoveryCallSubmission) Kind() SubmissionKind { return SubmissionDiscoveryCall }

// TalkGrowthSubmission is a growth-consultation request.
type TalkGrowthSubmission struct {
	SubmissionBase
	SocialPlatforms  datatypes.JSONSlice[string] `json:"socialPlatforms" gorm:"not null"`
	CurrentFollowers *string                     `json:"currentFollowers" gorm:"size:100"`
	GrowthGoals      string                      `json:"growthGoals" gorm:"type:text;not null"`
}

// Kind implements Submission.
func (*TalkGrowthSubmission) Kind() SubmissionKind { return SubmissionTalkGrowth }

// SubmissionStats is the aggregate returned by the analytics endpoint.
type SubmissionStats struct {
	TotalSubmissions  int64                    `json:"totalSubmissions"`
	RecentSubmissions int64                    `json:"recentSubmissions"`
	SubmissionsByForm map[SubmissionKind]int64 `json:"submissionsByForm"`
}
