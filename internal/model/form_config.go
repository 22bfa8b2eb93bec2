package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// FormConfig describes where a lead-capture form is shown and who is notified of its
// submissions. It is descriptive metadata; submissions do not reference it.
type FormConfig struct {
	ID              uuid.UUID                   `json:"id" gorm:"type:char(36);primaryKey"`
	FormName        string                      `json:"formName" gorm:"uniqueIndex;size:100;not null"`
	DisplayName     string                      `json:"displayName" gorm:"size:255;not null"`
	ButtonName      *string                     `json:"buttonName" gorm:"size:255"`
	Location        string                      `json:"location" gorm:"type:text;not null"`
	RecipientEmails datatypes.JSONSlice[string] `json:"recipientEmails" gorm:"not null"`
	GoogleSheetURL  *string                     `json:"googleSheetUrl" gorm:"column:google_sheet_url;type:text"`
	IsActive        bool                        `json:"isActive" gorm:"not null;default:true"`
	CreatedAt       time.Time                   `json:"createdAt"`
	UpdatedAt       time.Time                   `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (f *FormConfig) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
