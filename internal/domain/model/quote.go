package model

import "time"

// 「今日の言葉」。日替わり表示は day-of-year % 件数 で決める。
type Quote struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	Translation string    `gorm:"type:text" json:"translation"`
	Attribution string    `gorm:"type:varchar(255);not null;default:'Sant Kabir'" json:"attribution"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
