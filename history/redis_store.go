package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each owner's history as one JSON string key.
type RedisStore struct {
	rdb *redis.Client
}

// RedisOptions mirrors the subset of redis.Options exposed in configuration.
type RedisOptions struct {
	Addr     string
	Username string
	Password string
	DB       int
}

// OpenRedis connects and pings the server.
func OpenRedis(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	if opts.Addr == "" {
		return nil, errors.New("redis addr is required")
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Username: opts.Username,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return NewRedisStore(rdb), nil
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func redisKey(owner string) string {
	return StorageKey + ":" + owner
}

func (s *RedisStore) Load(ctx context.Context, owner string) (History, error) {
	b, err := s.rdb.Get(ctx, redisKey(owner)).Bytes()
	if errors.Is(err, redis.Nil) {
		return History{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return decode(b)
}

func (s *RedisStore) Save(ctx context.Context, owner string, h History) error {
	b, err := json.Marshal(h)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, redisKey(owner), b, 0).Err(); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
