package model

import "time"

// ログイン中のデバイス1台につき1レコード。
// トークンの有効期限とは独立で、削除すればサーバー側から失効できる。
type Session struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       string    `gorm:"type:uuid;not null;index" json:"user_id"`
	IPAddress    string    `gorm:"type:varchar(64);not null" json:"ip_address"`
	UserAgent    string    `gorm:"not null" json:"user_agent"`
	CreatedAt    time.Time `gorm:"not null;index" json:"created_at"`
	LastActivity time.Time `gorm:"not null" json:"last_activity"`
}
