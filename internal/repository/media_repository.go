package repository

import (
	"app/internal/domain/model"
	"context"
	"errors"
)

var ErrMediaNotFound = errors.New("media not found")

type MediaFilter struct {
	Type  model.MediaType //空なら全種別
	Page  int
	Limit int
	IncludeUnpublished bool
}

type MediaRepository interface {
	Create(ctx context.Context, m *model.Media) error
	FindByID(ctx context.Context, id string) (*model.Media, error)
	List(ctx context.Context, f MediaFilter) ([]model.Media, int64, error)
	Update(ctx context.Context, m *model.Media) error
	Delete(ctx context.Context, id string) error
}
