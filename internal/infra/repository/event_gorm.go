package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type eventGormRepository struct {
	db *gorm.DB
}

// GORM実装
func NewEventRepository(db *gorm.DB) repo.EventRepository {
	return &eventGormRepository{db: db}
}

func (r *eventGormRepository) Create(ctx context.Context, e *model.Event) error {
	if err := r.db.WithContext(ctx).Create(e).Error; err != nil {
		return err
	}
	return nil
}

func (r *eventGormRepository) FindByID(ctx context.Context, id string) (*model.Event, error) {
	var e model.Event

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&e).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repo.ErrEventNotFound
		}
		return nil, err
	}

	return &e, nil
}

func (r *eventGormRepository) FindBySlug(ctx context.Context, slug string) (*model.Event, error) {
	var e model.Event

	err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&e).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repo.ErrEventNotFound
		}
		return nil, err
	}

	return &e, nil
}

func (r *eventGormRepository) List(ctx context.Context, f repo.EventFilter) ([]model.Event, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Event{})

	if !f.IncludeUnpublished {
		q = q.Where("published = ?", true)
	}
	if f.From != nil {
		q = q.Where("starts_at >= ?", *f.From)
	}
	if f.Query != "" {
		like := "%" + f.Query + "%"
		q = q.Where("title ILIKE ? OR description ILIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []model.Event
	err := q.
		Order("starts_at ASC").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&items).Error

	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *eventGormRepository) Update(ctx context.Context, e *model.Event) error {
	result := r.db.WithContext(ctx).Save(e)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

func (r *eventGormRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Event{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repo.ErrEventNotFound
	}

	return nil
}
