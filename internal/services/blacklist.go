package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/uniquiz/uniquiz-backend/internal/logger"
	"github.com/uniquiz/uniquiz-backend/internal/utils"
)

// TokenBlacklist invalidates access tokens before their natural expiry
// (logout). Entries self-expire with the token.
type TokenBlacklist interface {
	Add(ctx context.Context, token string, ttl time.Duration) error
	Contains(ctx context.Context, token string) (bool, error)
	Close() error
}

type redisTokenBlacklist struct {
	log *logger.Logger
	rdb *goredis.Client
}

func NewRedisTokenBlacklist(log *logger.Logger) (TokenBlacklist, error) {
	addr := strings.TrimSpace(utils.GetEnv("REDIS_ADDR", "", log))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisTokenBlacklist{
		log: log.With("service", "RedisTokenBlacklist"),
		rdb: rdb,
	}, nil
}

func blacklistKey(token string) string {
	return "token_blacklist:" + token
}

func (b *redisTokenBlacklist) Add(ctx context.Context, token string, ttl time.Duration) error {
	if token == "" {
		return nil
	}
	if ttl <= 0 {
		// Token already expired; nothing to invalidate.
		return nil
	}
	if err := b.rdb.Set(ctx, blacklistKey(token), "1", ttl).Err(); err != nil {
		return fmt.Errorf("blacklist set: %w", err)
	}
	return nil
}

func (b *redisTokenBlacklist) Contains(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	n, err := b.rdb.Exists(ctx, blacklistKey(token)).Result()
	if err != nil {
		return false, fmt.Errorf("blacklist exists: %w", err)
	}
	return n > 0, nil
}

func (b *redisTokenBlacklist) Close() error {
	return b.rdb.Close()
}
