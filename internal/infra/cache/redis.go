package cache

import (
	"context"
	"errors"
	"time"

	repo "app/internal/repository"

	"github.com/redis/go-redis/v9"
)

type redisCache struct {
	client *redis.Client
}

// Redis実装。addrが空の構成ではそもそも生成しない（usecase側はnil許容）。
func NewRedisCache(addr string, password string, db int) (repo.Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	//起動時に疎通だけ確認する
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &redisCache{client: client}, nil
}

func (c *redisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", repo.ErrCacheMiss
		}
		return "", err
	}
	return val, nil
}

func (c *redisCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *redisCache) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}
