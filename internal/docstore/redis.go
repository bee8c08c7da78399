package docstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-redis/redis"

	"github.com/Veraticus/networth/internal/common"
)

// RedisConfig configures a RedisStore.
type RedisConfig struct {
	Addr     string
	Password string
	Prefix   string
	DB       int
}

// RedisStore keeps each document as one string value under a key prefix,
// so several datasets can share a server.
type RedisStore struct {
	client *redis.Client
	prefix string
	retry  common.RetryOptions
}

// NewRedisStore connects to the configured server.
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, fmt.Errorf("%w: redis address", common.ErrMissingConfig)
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "networth"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping().Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	return &RedisStore{
		client: client,
		prefix: prefix,
		retry:  common.StoreRetry(nil),
	}, nil
}

func (s *RedisStore) key(k Key) string {
	return s.prefix + ":doc:" + string(k)
}

// Get implements Store.
func (s *RedisStore) Get(_ context.Context, key Key) ([]byte, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	data, err := s.client.Get(s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s: %w", key, err)
	}
	return data, nil
}

// Put implements Store. Documents are written inside MULTI/EXEC.
func (s *RedisStore) Put(ctx context.Context, docs map[Key][]byte) error {
	for key := range docs {
		if key == "" {
			return ErrEmptyKey
		}
	}
	return common.WithRetry(ctx, func() error {
		_, err := s.client.TxPipelined(func(pipe redis.Pipeliner) error {
			for key, body := range docs {
				pipe.Set(s.key(key), body, 0)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to write documents: %w", err)
		}
		return nil
	}, s.retry)
}

// Delete implements Store.
func (s *RedisStore) Delete(_ context.Context, keys ...Key) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.key(k)
	}
	if err := s.client.Del(full...).Err(); err != nil {
		return fmt.Errorf("failed to delete documents: %w", err)
	}
	return nil
}

// Keys implements Store.
func (s *RedisStore) Keys(_ context.Context) ([]Key, error) {
	pattern := s.prefix + ":doc:*"
	raw, err := s.client.Keys(pattern).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	keys := make([]Key, 0, len(raw))
	for _, k := range raw {
		keys = append(keys, Key(strings.TrimPrefix(k, s.prefix+":doc:")))
	}
	return keys, nil
}

// Close implements Store.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
