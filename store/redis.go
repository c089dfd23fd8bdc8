package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps one string key per companion, named "{prefix}{id}".
// Works with redis.Client, redis.ClusterClient and redis.Ring.
type RedisStore struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

// RedisStoreConfig configures the Redis store.
type RedisStoreConfig struct {
	Prefix string        // key prefix, default "companion:snapshot:"
	TTL    time.Duration // expiry applied on every Save, 0 = no expiry
}

const defaultRedisPrefix = "companion:snapshot:"

// NewRedisStore creates a Store backed by Redis.
func NewRedisStore(client redis.Cmdable, config ...RedisStoreConfig) *RedisStore {
	cfg := RedisStoreConfig{Prefix: defaultRedisPrefix}
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Prefix == "" {
		cfg.Prefix = defaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: cfg.Prefix, ttl: cfg.TTL}
}

func (r *RedisStore) key(id string) string {
	return r.prefix + id
}

func (r *RedisStore) Save(ctx context.Context, id string, doc []byte) error {
	return r.client.Set(ctx, r.key(id), doc, r.ttl).Err()
}

func (r *RedisStore) Load(ctx context.Context, id string) ([]byte, error) {
	doc, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, r.key(id)).Err()
}

// List uses SCAN, which may yield a key more than once.
func (r *RedisStore) List(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	iter := r.client.Scan(ctx, 0, r.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		seen[strings.TrimPrefix(iter.Val(), r.prefix)] = true
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
