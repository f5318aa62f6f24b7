package data

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultPreferencePrefix namespaces preference keys in redis.
const DefaultPreferencePrefix = "spps:pref:"

// RedisPreferenceRepo implements core.PreferenceRepository using Redis.
// Values never expire.
type RedisPreferenceRepo struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisPreferenceRepo creates a new RedisPreferenceRepo with the given Redis client.
func NewRedisPreferenceRepo(client redis.UniversalClient) *RedisPreferenceRepo {
	return &RedisPreferenceRepo{client: client, prefix: DefaultPreferencePrefix}
}

// Set stores value under key.
func (r *RedisPreferenceRepo) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}
	if err := r.client.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Get retrieves a value by key. A missing key yields nil, nil.
func (r *RedisPreferenceRepo) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, errors.New("key cannot be empty")
	}

	result, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return result, nil
}
