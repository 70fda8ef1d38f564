package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type mediaGormRepository struct {
	db *gorm.DB
}

// GORM実装
func NewMediaRepository(db *gorm.DB) repo.MediaRepository {
	return &mediaGormRepository{db: db}
}

func (r *mediaGormRepository) Create(ctx context.Context, m *model.Media) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	return nil
}

func (r *mediaGormRepository) FindByID(ctx context.Context, id string) (*model.Media, error) {
	var m model.Media

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&m).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repo.ErrMediaNotFound
		}
		return nil, err
	}

	return &m, nil
}

func (r *mediaGormRepository) List(ctx context.Context, f repo.MediaFilter) ([]model.Media, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Media{})

	if !f.IncludeUnpublished {
		q = q.Where("published = ?", true)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []model.Media
	err := q.
		Order("created_at DESC").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&items).Error

	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *mediaGormRepository) Update(ctx context.Context, m *model.Media) error {
	result := r.db.WithContext(ctx).Save(m)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

func (r *mediaGormRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Media{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repo.ErrMediaNotFound
	}

	return nil
}
