package repository

import (
	"app/internal/domain/model"
	"context"
	"errors"
)

var ErrTeachingNotFound = errors.New("teaching not found")

// 公開一覧の検索条件
type TeachingFilter struct {
	Category model.TeachingCategory //空なら全カテゴリ
	Query    string                 //タイトル・本文の部分一致
	Page     int
	Limit    int
	//falseなら公開済みのみ（公開API用）
	IncludeUnpublished bool
}

type TeachingRepository interface {
	Create(ctx context.Context, t *model.Teaching) error
	FindByID(ctx context.Context, id string) (*model.Teaching, error)
	FindBySlug(ctx context.Context, slug string) (*model.Teaching, error)
	List(ctx context.Context, f TeachingFilter) ([]model.Teaching, int64, error)
	Update(ctx context.Context, t *model.Teaching) error
	Delete(ctx context.Context, id string) error
}
