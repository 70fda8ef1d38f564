package usecase

import (
	"context"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type SearchUsecase struct {
	teachingRepo repo.TeachingRepository
	eventRepo    repo.EventRepository
}

// DI
func NewSearchUsecase(teachingRepo repo.TeachingRepository, eventRepo repo.EventRepository) *SearchUsecase {
	return &SearchUsecase{
		teachingRepo: teachingRepo,
		eventRepo:    eventRepo,
	}
}

type SearchInput struct {
	Query string
	Page  int
	Limit int
}

type SearchOutput struct {
	Query     string           `json:"query"`
	Teachings []model.Teaching `json:"teachings"`
	Events    []model.Event    `json:"events"`
	Total     int64            `json:"total"`
}

// 教えと行事を横断検索する（公開済みのみ）。
func (u *SearchUsecase) Search(ctx context.Context, in SearchInput) (SearchOutput, error) {
	q := strings.TrimSpace(in.Query)
	if q == "" {
		return SearchOutput{}, NewHTTPError(http.StatusBadRequest, "query is required")
	}
	if len(q) > 100 {
		return SearchOutput{}, NewHTTPError(http.StatusBadRequest, "query too long")
	}
	if in.Page < 1 {
		in.Page = 1
	}
	if in.Limit < 1 || in.Limit > 50 {
		in.Limit = 20
	}

	teachings, tTotal, err := u.teachingRepo.List(ctx, repo.TeachingFilter{
		Query: q,
		Page:  in.Page,
		Limit: in.Limit,
	})
	if err != nil {
		return SearchOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	events, eTotal, err := u.eventRepo.List(ctx, repo.EventFilter{
		Query: q,
		Page:  in.Page,
		Limit: in.Limit,
	})
	if err != nil {
		return SearchOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return SearchOutput{
		Query:     q,
		Teachings: teachings,
		Events:    events,
		Total:     tTotal + eTotal,
	}, nil
}
