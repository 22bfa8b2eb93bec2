package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdminUser is an account that can sign in to the admin panel.
type AdminUser struct {
	ID          uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	Email       string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Password    string     `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role        Role       `json:"role" gorm:"type:varchar(20);not null;default:'editor';index"`
	FirstName   string     `json:"firstName" gorm:"size:100;not null"`
	LastName    string     `json:"lastName" gorm:"size:100;not null"`
	IsActive    bool       `json:"isActive" gorm:"not null;default:true"`
	LastLoginAt *time.Time `json:"lastLoginAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// AdminBootstrap is the single row claimed by the unauthenticated creation of the first
// admin. Its primary key makes a second claim fail even when both saw an empty table.
type AdminBootstrap struct {
	Name      string `gorm:"primaryKey;size:32"`
	CreatedAt time.Time
}

// BeforeCreate sets UUID before creating the record.
func (a *AdminUser) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// AdminProfile is the sanitized view of an AdminUser returned to clients.
type AdminProfile struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	Role        Role       `json:"role"`
	IsActive    bool       `json:"isActive"`
	LastLoginAt *time.Time `json:"lastLoginAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Profile returns the sanitized view of a.
func (a *AdminUser) Profile() AdminProfile {
	return AdminProfile{
		ID:          a.ID,
		Email:       a.Email,
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		Role:        a.Role,
		IsActive:    a.IsActive,
		LastLoginAt: a.LastLoginAt,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}
