package repository

import (
	"app/internal/domain/model"
	"context"
)

// 管理者操作のログを書く。読み出しは管理画面（スコープ外）。
type AuditLogRepository interface {
	Create(ctx context.Context, log *model.AuditLog) error
}
