package model

import (
	"time"

	"gorm.io/gorm"
)

type Event struct {
	ID          string         `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string         `gorm:"type:varchar(255);not null" json:"title"`
	Slug        string         `gorm:"type:varchar(255);not null;uniqueIndex" json:"slug"`
	Description string         `gorm:"type:text" json:"description"`
	Location    string         `gorm:"type:varchar(255)" json:"location"`
	StartsAt    time.Time      `gorm:"not null;index" json:"starts_at"`
	EndsAt      *time.Time     `json:"ends_at,omitempty"`
	Published   bool           `gorm:"not null;default:false;index" json:"published"`
	CreatedAt   time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
