package usecase

import (
	"context"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/google/uuid"
)

type EventUsecase struct {
	eventRepo repo.EventRepository
	txm       repo.TransactionManager
	clock     Clock
}

// DI
func NewEventUsecase(eventRepo repo.EventRepository, txm repo.TransactionManager, clock Clock) *EventUsecase {
	return &EventUsecase{
		eventRepo: eventRepo,
		txm:       txm,
		clock:     clock,
	}
}

type ListEventsInput struct {
	Page  int
	Limit int
	//trueなら過去の行事も含める
	IncludePast bool
}

type EventListOutput struct {
	Items []model.Event `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

// 公開済みの行事一覧。既定はこれから開催されるもののみ。
func (u *EventUsecase) ListPublished(ctx context.Context, in ListEventsInput) (EventListOutput, error) {
	if in.Page < 1 {
		return EventListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return EventListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	f := repo.EventFilter{Page: in.Page, Limit: in.Limit}
	if !in.IncludePast {
		now := u.clock.Now()
		f.From = &now
	}

	items, total, err := u.eventRepo.List(ctx, f)
	if err != nil {
		return EventListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return EventListOutput{
		Items: items,
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}

func (u *EventUsecase) GetBySlug(ctx context.Context, slug string) (*model.Event, error) {
	if slug == "" {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid slug")
	}

	e, err := u.eventRepo.FindBySlug(ctx, slug)
	if err != nil {
		if err == repo.ErrEventNotFound {
			return nil, NewHTTPError(http.StatusNotFound, "not found")
		}
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if !e.Published {
		return nil, NewHTTPError(http.StatusNotFound, "not found")
	}

	return e, nil
}

type CreateEventInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	StartsAt    time.Time  `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
	Publish     bool       `json:"publish"`
}

func (u *EventUsecase) Create(ctx context.Context, actorUserID string, in CreateEventInput) (*model.Event, error) {
	if in.Title == "" || in.StartsAt.IsZero() {
		return nil, NewHTTPError(http.StatusBadRequest, "title and starts_at are required")
	}
	if in.EndsAt != nil && in.EndsAt.Before(in.StartsAt) {
		return nil, NewHTTPError(http.StatusBadRequest, "ends_at must be after starts_at")
	}

	now := u.clock.Now()

	e := &model.Event{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Slug:        Slugify(in.Title),
		Description: in.Description,
		Location:    in.Location,
		StartsAt:    in.StartsAt,
		EndsAt:      in.EndsAt,
		Published:   in.Publish,
	}

	err := u.txm.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Events().Create(ctx, e); err != nil {
			return err
		}
		return r.AuditLogs().Create(ctx, auditEntry(actorUserID, model.AuditActionCreate, model.AuditResourceEvent, e.ID, nil, e, now))
	})
	if err != nil {
		return nil, NewHTTPError(http.StatusConflict, "could not create event")
	}

	return e, nil
}

type UpdateEventInput struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Location    *string    `json:"location"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
	Publish     *bool      `json:"publish"`
}

func (u *EventUsecase) Update(ctx context.Context, actorUserID string, id string, in UpdateEventInput) (*model.Event, error) {
	e, err := u.eventRepo.FindByID(ctx, id)
	if err != nil {
		if err == repo.ErrEventNotFound {
			return nil, NewHTTPError(http.StatusNotFound, "not found")
		}
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	before := *e
	now := u.clock.Now()

	if in.Title != nil {
		e.Title = *in.Title
		e.Slug = Slugify(*in.Title)
	}
	if in.Description != nil {
		e.Description = *in.Description
	}
	if in.Location != nil {
		e.Location = *in.Location
	}
	if in.StartsAt != nil {
		e.StartsAt = *in.StartsAt
	}
	if in.EndsAt != nil {
		e.EndsAt = in.EndsAt
	}
	if in.Publish != nil {
		e.Published = *in.Publish
	}

	err = u.txm.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Events().Update(ctx, e); err != nil {
			return err
		}
		return r.AuditLogs().Create(ctx, auditEntry(actorUserID, model.AuditActionUpdate, model.AuditResourceEvent, e.ID, &before, e, now))
	})
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return e, nil
}

func (u *EventUsecase) Delete(ctx context.Context, actorUserID string, id string) error {
	e, err := u.eventRepo.FindByID(ctx, id)
	if err != nil {
		if err == repo.ErrEventNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	now := u.clock.Now()

	err = u.txm.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Events().Delete(ctx, id); err != nil {
			return err
		}
		return r.AuditLogs().Create(ctx, auditEntry(actorUserID, model.AuditActionDelete, model.AuditResourceEvent, id, e, nil, now))
	})
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return nil
}
