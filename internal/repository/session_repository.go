package repository

import (
	"app/internal/domain/model"
	"context"
	"errors"
	"time"
)

// セッションが見つかりません（失効済み・そもそも無い）を統一
var ErrSessionNotFound = errors.New("session not found")

// ログイン中セッションの保存・取得・失効
type SessionRepository interface {
	Create(ctx context.Context, session *model.Session) error
	FindByID(ctx context.Context, sessionID string) (*model.Session, error)
	//ユーザーの生きているセッションを作成時刻の昇順で全件返す
	ListByUserID(ctx context.Context, userID string) ([]model.Session, error)
	//last_activityを更新する
	Touch(ctx context.Context, sessionID string, at time.Time) error
	//1件失効。無ければErrSessionNotFound
	Delete(ctx context.Context, sessionID string) error
	//ユーザーの全セッションを失効。Validateと競合しても取り残しが出ないこと
	DeleteAllByUserID(ctx context.Context, userID string) error
}
