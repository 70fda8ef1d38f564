package repository

import "context"

// トランザクション内で使う約束
type TxRepos interface {
	Teachings() TeachingRepository
	Events() EventRepository
	Media() MediaRepository
	AuditLogs() AuditLogRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
// 管理者のコンテンツ変更と監査ログを同じTxで書くために使う。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
