package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type sessionMemoryRepository struct {
	mu       sync.RWMutex
	sessions map[string]model.Session
}

// インメモリ実装。単一プロセス限定（テストとDB無し運用向け）。
func NewSessionMemoryRepository() repo.SessionRepository {
	return &sessionMemoryRepository{
		sessions: make(map[string]model.Session),
	}
}

func (r *sessionMemoryRepository) Create(ctx context.Context, session *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[session.ID] = *session
	return nil
}

func (r *sessionMemoryRepository) FindByID(ctx context.Context, sessionID string) (*model.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[sessionID]
	if !ok {
		return nil, repo.ErrSessionNotFound
	}

	//呼び出し側に内部mapの値を触らせない
	out := s
	return &out, nil
}

func (r *sessionMemoryRepository) ListByUserID(ctx context.Context, userID string) ([]model.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Session, 0)
	for _, s := range r.sessions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}

	//作成時刻の昇順で安定させる
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

func (r *sessionMemoryRepository) Touch(ctx context.Context, sessionID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok {
		return repo.ErrSessionNotFound
	}

	s.LastActivity = at
	r.sessions[sessionID] = s
	return nil
}

func (r *sessionMemoryRepository) Delete(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[sessionID]; !ok {
		return repo.ErrSessionNotFound
	}

	delete(r.sessions, sessionID)
	return nil
}

// write lockの中で全部消すので、返った時点で生きているセッションは無い。
func (r *sessionMemoryRepository) DeleteAllByUserID(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, s := range r.sessions {
		if s.UserID == userID {
			delete(r.sessions, id)
		}
	}
	return nil
}
