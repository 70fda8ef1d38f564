package repository

import (
	"app/internal/domain/model"
	"context"
	"errors"
)

var ErrQuoteNotFound = errors.New("quote not found")

type QuoteRepository interface {
	Count(ctx context.Context) (int64, error)
	//ID昇順でoffset番目の1件（日替わり選択用）
	FindByOffset(ctx context.Context, offset int64) (*model.Quote, error)
}
