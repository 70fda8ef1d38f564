package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type teachingGormRepository struct {
	db *gorm.DB
}

// GORM実装
func NewTeachingRepository(db *gorm.DB) repo.TeachingRepository {
	return &teachingGormRepository{db: db}
}

func (r *teachingGormRepository) Create(ctx context.Context, t *model.Teaching) error {
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return err
	}
	return nil
}

func (r *teachingGormRepository) FindByID(ctx context.Context, id string) (*model.Teaching, error) {
	var t model.Teaching

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&t).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repo.ErrTeachingNotFound
		}
		return nil, err
	}

	return &t, nil
}

func (r *teachingGormRepository) FindBySlug(ctx context.Context, slug string) (*model.Teaching, error) {
	var t model.Teaching

	err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&t).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repo.ErrTeachingNotFound
		}
		return nil, err
	}

	return &t, nil
}

// 条件付き一覧。件数と合わせて返す。
func (r *teachingGormRepository) List(ctx context.Context, f repo.TeachingFilter) ([]model.Teaching, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Teaching{})

	if !f.IncludeUnpublished {
		q = q.Where("published = ?", true)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Query != "" {
		like := "%" + f.Query + "%"
		q = q.Where("title ILIKE ? OR content ILIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []model.Teaching
	err := q.
		Order("published_at DESC NULLS LAST, created_at DESC").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&items).Error

	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *teachingGormRepository) Update(ctx context.Context, t *model.Teaching) error {
	result := r.db.WithContext(ctx).Save(t)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

func (r *teachingGormRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Teaching{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repo.ErrTeachingNotFound
	}

	return nil
}
