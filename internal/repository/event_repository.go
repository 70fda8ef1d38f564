package repository

import (
	"app/internal/domain/model"
	"context"
	"errors"
	"time"
)

var ErrEventNotFound = errors.New("event not found")

type EventFilter struct {
	//この時刻以降に始まる行事のみ（公開APIの「これから」一覧用）
	From  *time.Time
	Query string
	Page  int
	Limit int
	IncludeUnpublished bool
}

type EventRepository interface {
	Create(ctx context.Context, e *model.Event) error
	FindByID(ctx context.Context, id string) (*model.Event, error)
	FindBySlug(ctx context.Context, slug string) (*model.Event, error)
	List(ctx context.Context, f EventFilter) ([]model.Event, int64, error)
	Update(ctx context.Context, e *model.Event) error
	Delete(ctx context.Context, id string) error
}
