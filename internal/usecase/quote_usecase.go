package usecase

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type QuoteUsecase struct {
	quoteRepo repo.QuoteRepository
	cache     repo.Cache //nil可
	clock     Clock
}

// DI
func NewQuoteUsecase(quoteRepo repo.QuoteRepository, cache repo.Cache, clock Clock) *QuoteUsecase {
	return &QuoteUsecase{
		quoteRepo: quoteRepo,
		cache:     cache,
		clock:     clock,
	}
}

// 今日の言葉。day-of-year % 件数 で決まるので日付が変わるまで同じ。
func (u *QuoteUsecase) Daily(ctx context.Context) (*model.Quote, error) {
	now := u.clock.Now().UTC()
	cacheKey := "quote:daily:" + now.Format("2006-01-02")

	if u.cache != nil {
		if raw, err := u.cache.Get(ctx, cacheKey); err == nil {
			var q model.Quote
			if err := json.Unmarshal([]byte(raw), &q); err == nil {
				return &q, nil
			}
		}
	}

	total, err := u.quoteRepo.Count(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if total == 0 {
		return nil, NewHTTPError(http.StatusNotFound, "no quotes")
	}

	offset := int64(now.YearDay()) % total

	q, err := u.quoteRepo.FindByOffset(ctx, offset)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if u.cache != nil {
		if raw, err := json.Marshal(q); err == nil {
			//日付が変わるまでで十分
			_ = u.cache.Set(ctx, cacheKey, string(raw), 24*time.Hour)
		}
	}

	return q, nil
}
