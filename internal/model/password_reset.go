package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PasswordResetTokenTTL is how long a reset token stays redeemable.
const PasswordResetTokenTTL = time.Hour

// PasswordResetToken is a single-use credential for setting a new admin password.
type PasswordResetToken struct {
	ID        uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	Email     string     `json:"email" gorm:"size:255;not null;index"`
	Token     string     `json:"-" gorm:"uniqueIndex;size:512;not null"`
	ExpiresAt time.Time  `json:"expiresAt" gorm:"not null"`
	UsedAt    *time.Time `json:"usedAt"`
	CreatedAt time.Time  `json:"createdAt"`
}

// BeforeCreate sets UUID before creating the record.
func (t *PasswordResetToken) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// Redeemable reports whether the token is unused and unexpired at now.
func (t *PasswordResetToken) Redeemable(now time.Time) bool {
	return t.UsedAt == nil && now.Before(t.ExpiresAt)
}
