package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type quoteGormRepository struct {
	db *gorm.DB
}

// GORM実装
func NewQuoteRepository(db *gorm.DB) repo.QuoteRepository {
	return &quoteGormRepository{db: db}
}

func (r *quoteGormRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Quote{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// ID昇順でoffset番目の1件。
func (r *quoteGormRepository) FindByOffset(ctx context.Context, offset int64) (*model.Quote, error) {
	var q model.Quote

	err := r.db.WithContext(ctx).
		Order("id ASC").
		Offset(int(offset)).
		First(&q).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repo.ErrQuoteNotFound
		}
		return nil, err
	}

	return &q, nil
}
