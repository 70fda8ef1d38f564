package model

import (
	"time"

	"gorm.io/gorm"
)

type TeachingCategory string

const (
	TeachingCategoryDoha      TeachingCategory = "doha"
	TeachingCategoryBhajan    TeachingCategory = "bhajan"
	TeachingCategoryDiscourse TeachingCategory = "discourse"
	TeachingCategoryStory     TeachingCategory = "story"
)

type Teaching struct {
	ID          string           `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string           `gorm:"type:varchar(255);not null" json:"title"`
	Slug        string           `gorm:"type:varchar(255);not null;uniqueIndex" json:"slug"`
	Excerpt     string           `gorm:"type:text" json:"excerpt"`
	Content     string           `gorm:"type:text;not null" json:"content"`
	Category    TeachingCategory `gorm:"type:varchar(50);not null;index" json:"category"`
	Author      string           `gorm:"type:varchar(255);not null" json:"author"`
	Published   bool             `gorm:"not null;default:false;index" json:"published"`
	PublishedAt *time.Time       `json:"published_at,omitempty"`
	CreatedAt   time.Time        `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time        `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt   `gorm:"index" json:"-"`
}
