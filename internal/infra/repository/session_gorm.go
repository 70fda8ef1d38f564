package repository

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type sessionGormRepository struct {
	db *gorm.DB //DB接続（GORM）
}

// GORM実装。複数プロセスでDBを共有すればrevokeはプロセス間でも効く。
func NewSessionRepository(db *gorm.DB) repo.SessionRepository {
	return &sessionGormRepository{db: db}
}

// セッションを保存する。
func (r *sessionGormRepository) Create(ctx context.Context, session *model.Session) error {
	//タイムアウトやキャンセルをDB処理に伝える
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return err
	}
	return nil
}

// idで1件検索します。
func (r *sessionGormRepository) FindByID(ctx context.Context, sessionID string) (*model.Session, error) {
	var session model.Session

	err := r.db.WithContext(ctx).
		Where("id = ?", sessionID).
		First(&session).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repo.ErrSessionNotFound
		}
		return nil, err
	}

	return &session, nil
}

// ユーザーのセッションを作成時刻の昇順で全件返します。
func (r *sessionGormRepository) ListByUserID(ctx context.Context, userID string) ([]model.Session, error) {
	var sessions []model.Session

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&sessions).Error

	if err != nil {
		return nil, err
	}

	return sessions, nil
}

// last_activityを進めます。
func (r *sessionGormRepository) Touch(ctx context.Context, sessionID string, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&model.Session{}).
		Where("id = ?", sessionID).
		Update("last_activity", at)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repo.ErrSessionNotFound
	}

	return nil
}

// 指定IDのセッションを削除。
func (r *sessionGormRepository) Delete(ctx context.Context, sessionID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", sessionID).
		Delete(&model.Session{})

	if result.Error != nil {
		return result.Error
	}
	// 削除件数0は「すでにログアウト済み」
	if result.RowsAffected == 0 {
		return repo.ErrSessionNotFound
	}

	return nil
}

// 指定ユーザーのセッションを全削除します。単一DELETEなのでValidateと競合しても取り残しは出ない。
func (r *sessionGormRepository) DeleteAllByUserID(ctx context.Context, userID string) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.Session{}).Error; err != nil {
		return err
	}
	return nil
}
