package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"ciphergate/internal/domain"
)

// ErrRedisUnavailable wraps connectivity failures of the redis backend.
var ErrRedisUnavailable = errors.New("redis unavailable")

const (
	defaultRedisPrefix = "ciphergate"
	scanBatch          = 100
)

// RedisStorage is a SessionStorage shared through redis. Every key of a
// profile lives under "<prefix>:<profile>:" and expires after ttl, which
// scopes it to the backend session lifetime.
type RedisStorage struct {
	client redis.UniversalClient
	ns     string
	ttl    time.Duration
}

// NewRedisStorage returns a RedisStorage for profile. A zero ttl keeps
// values until Clear.
func NewRedisStorage(client redis.UniversalClient, profile string, ttl time.Duration) *RedisStorage {
	return &RedisStorage{
		client: client,
		ns:     defaultRedisPrefix + ":" + profile + ":",
		ttl:    ttl,
	}
}

func (s *RedisStorage) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.ns+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: get %s: %v", ErrRedisUnavailable, key, err)
	}
	return v, true, nil
}

func (s *RedisStorage) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.ns+key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: set %s: %v", ErrRedisUnavailable, key, err)
	}
	return nil
}

func (s *RedisStorage) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.ns+key).Err(); err != nil {
		return fmt.Errorf("%w: del %s: %v", ErrRedisUnavailable, key, err)
	}
	return nil
}

// Clear deletes every key of the profile namespace.
func (s *RedisStorage) Clear(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, s.ns+"*", scanBatch).Result()
		if err != nil {
			return fmt.Errorf("%w: scan: %v", ErrRedisUnavailable, err)
		}
		if len(keys) > 0 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("%w: del: %v", ErrRedisUnavailable, err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

var _ domain.SessionStorage = (*RedisStorage)(nil)
