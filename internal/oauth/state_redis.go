package oauth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStateStore keeps pending states in Redis so callbacks can land on
// any replica and survive restarts. Expiry is delegated to key TTLs and
// single-use is a GETDEL, so no sweeping is needed.
type RedisStateStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStateStore builds a Redis-backed store with the given TTL.
func NewRedisStateStore(rdb *redis.Client, ttl time.Duration) *RedisStateStore {
	return &RedisStateStore{rdb: rdb, ttl: ttl}
}

func stateKey(token string) string { return "oauth_state:" + token }

// Issue mints a token and stores the provider under it with the TTL.
func (s *RedisStateStore) Issue(ctx context.Context, provider string) (string, error) {
	token, err := newStateToken()
	if err != nil {
		return "", err
	}
	if err := s.rdb.Set(ctx, stateKey(token), provider, s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Verify consumes the token atomically and checks the bound provider.
func (s *RedisStateStore) Verify(ctx context.Context, provider, token string) (bool, error) {
	stored, err := s.rdb.GetDel(ctx, stateKey(token)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return stored == provider, nil
}
