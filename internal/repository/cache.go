package repository

import (
	"context"
	"errors"
	"time"
)

// キャッシュに無いだけ（エラーではない）を統一
var ErrCacheMiss = errors.New("cache miss")

// 読み取りの前段キャッシュ。実装はRedis。nilで渡せば素通し運用。
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}
