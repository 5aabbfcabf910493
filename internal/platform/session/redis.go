package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "session:"

// RedisStore implements Store on top of Redis, relying on key TTLs for expiry.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore connects a Redis client and verifies the connection.
func NewRedisStore(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("session: redis ping: %w", err)
	}

	return &RedisStore{rdb: rdb}, nil
}

func (s *RedisStore) Save(ctx context.Context, tokenHash string, userID int64, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, redisKeyPrefix+tokenHash, userID, ttl).Err(); err != nil {
		return fmt.Errorf("session: redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Lookup(ctx context.Context, tokenHash string) (int64, error) {
	val, err := s.rdb.Get(ctx, redisKeyPrefix+tokenHash).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("session: redis get: %w", err)
	}

	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		// Corrupt entry; treat as absent.
		return 0, ErrNotFound
	}
	return userID, nil
}

func (s *RedisStore) Delete(ctx context.Context, tokenHash string) error {
	if err := s.rdb.Del(ctx, redisKeyPrefix+tokenHash).Err(); err != nil {
		return fmt.Errorf("session: redis del: %w", err)
	}
	return nil
}

// Close releases the underlying Redis client.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
