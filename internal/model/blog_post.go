package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// BlogPost is an article on the public blog. Only published posts are visible publicly.
type BlogPost struct {
	ID            uuid.UUID                   `json:"id" gorm:"type:char(36);primaryKey"`
	Title         string                      `json:"title" gorm:"size:255;not null"`
	Slug          string                      `json:"slug" gorm:"uniqueIndex;size:255;not null"`
	Excerpt       string                      `json:"excerpt" gorm:"type:text;not null"`
	Content       string                      `json:"content" gorm:"not null"`
	FeaturedImage *string                     `json:"featuredImage"`
	Author        string                      `json:"author" gorm:"size:255;not null"`
	Category      string                      `json:"category" gorm:"size:100;not null;index"`
	Tags          datatypes.JSONSlice[string] `json:"tags"`
	ReadTime      string                      `json:"readTime" gorm:"size:50;not null"`
	IsPublished   bool                        `json:"isPublished" gorm:"not null;default:false;index"`
	PublishedAt   *time.Time                  `json:"publishedAt"`
	CreatedAt     time.Time                   `json:"createdAt"`
	UpdatedAt     time.Time                   `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (p *BlogPost) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
