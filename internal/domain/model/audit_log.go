package model

import "time"

// コンテンツ作成・更新・削除など。
type AuditAction string

const (
	//コンテンツを作成した操作。
	AuditActionCreate AuditAction = "CREATE"
	//コンテンツを更新した操作。
	AuditActionUpdate AuditAction = "UPDATE"
	//コンテンツを削除した操作。
	AuditActionDelete AuditAction = "DELETE"
)

// 何に対する操作か
type AuditResourceType string

const (
	//教えに対する操作。
	AuditResourceTeaching AuditResourceType = "teaching"

	//行事に対する操作。
	AuditResourceEvent AuditResourceType = "event"

	//メディアに対する操作。
	AuditResourceMedia AuditResourceType = "media"
)

// 監査ログ（管理者操作ログ）。
// 「誰が」「何を」「どの対象に」「どう変えたか」を残す。
type AuditLog struct {
	//IDは監査ログの主キー
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//操作したユーザー（主に管理者）のID。
	ActorUserID string `gorm:"type:uuid;not null;index" json:"actor_user_id"`

	//Actionは操作の種類（CREATE / UPDATE / DELETE）。
	Action AuditAction `gorm:"type:varchar(50);not null;index" json:"action"`

	//対象の種類（teaching / event / media）。
	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resource_type"`

	//対象のID。
	ResourceID string `gorm:"type:varchar(64);not null;index" json:"resource_id"`

	//JSON文字列で保存する。
	BeforeJSON string `gorm:"type:text" json:"before_json"`

	//JSON文字列で保存する。
	AfterJSON string `gorm:"type:text" json:"after_json"`

	//作成時刻
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}
