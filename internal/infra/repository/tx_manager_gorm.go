package repository

import (
	"context"

	repo "app/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	teachings repo.TeachingRepository
	events    repo.EventRepository
	media     repo.MediaRepository
	auditLogs repo.AuditLogRepository
}

func (r *txReposGorm) Teachings() repo.TeachingRepository { return r.teachings }
func (r *txReposGorm) Events() repo.EventRepository       { return r.events }
func (r *txReposGorm) Media() repo.MediaRepository        { return r.media }
func (r *txReposGorm) AuditLogs() repo.AuditLogRepository { return r.auditLogs }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

// コンテンツ変更と監査ログを同じTxで書くために使う。
func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			teachings: NewTeachingRepository(tx),
			events:    NewEventRepository(tx),
			media:     NewMediaRepository(tx),
			auditLogs: NewAuditLogRepository(tx),
		}
		return fn(r)
	})
}
