package model

import (
	"time"

	"gorm.io/gorm"
)

type MediaType string

const (
	MediaTypeAudio    MediaType = "audio"
	MediaTypeVideo    MediaType = "video"
	MediaTypeImage    MediaType = "image"
	MediaTypeDocument MediaType = "document"
)

// 実体はオブジェクトストレージ。DBにはメタデータだけ置く。
type Media struct {
	ID         string         `gorm:"type:uuid;primaryKey" json:"id"`
	Title      string         `gorm:"type:varchar(255);not null" json:"title"`
	Type       MediaType      `gorm:"type:varchar(20);not null;index" json:"type"`
	StorageKey string         `gorm:"type:varchar(512);not null;uniqueIndex" json:"-"`
	MimeType   string         `gorm:"type:varchar(100);not null" json:"mime_type"`
	SizeBytes  int64          `gorm:"not null;default:0" json:"size_bytes"`
	Published  bool           `gorm:"not null;default:false;index" json:"published"`
	CreatedAt  time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}
