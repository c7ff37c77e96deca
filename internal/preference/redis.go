package preference

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"kriptomarket/internal/log"
)

const defaultHashKey = "kriptomarket_preferences"

// RedisClient is the subset of *redis.Client the store uses.
type RedisClient interface {
	Ping(ctx context.Context) *redis.StatusCmd
	HGet(ctx context.Context, key, field string) *redis.StringCmd
	HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	Close() error
}

// RedisStore keeps preferences as fields of one redis hash, shared by every
// instance pointing at the same server.
type RedisStore struct {
	client  RedisClient
	hashKey string
}

func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	if cfg.Addr == "" {
		return nil, errors.New("redis address is empty")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	s, err := NewRedisStoreWithClient(client, cfg.HashKey)
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	return s, nil
}

// NewRedisStoreWithClient checks the connection with a ping.
func NewRedisStoreWithClient(client RedisClient, hashKey string) (*RedisStore, error) {
	if hashKey == "" {
		hashKey = defaultHashKey
	}
	res, err := client.Ping(context.Background()).Result()
	if err != nil {
		return nil, errors.Wrap(err, "cannot connect to redis server")
	}
	log.Debugf("redis health check done, result: %v", res)
	return &RedisStore{client: client, hashKey: hashKey}, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.HGet(ctx, s.hashKey, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrap(err, "preference redis HGet error")
	}
	return v, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.HSet(ctx, s.hashKey, key, value).Err(); err != nil {
		return errors.Wrap(err, "preference redis HSet error")
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
