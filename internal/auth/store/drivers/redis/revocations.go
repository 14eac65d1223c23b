// Package redis implements the revocation blacklist on a Redis set per
// employee code.
//
// Design notes on the TTL model: one key holds every token revoked for a
// code, and each logout refreshes that single key's TTL. A revocation is
// therefore honored until the whole entry expires, at which point all prior
// revocations for the code are forgotten together. That window-wide expiry is
// intentional; do not switch to per-token TTLs without revisiting the
// validate path.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/emberline/staffauth/internal/auth/store"
)

const keyPrefix = "revoked:"

// revokeScript appends the token and refreshes the entry TTL in one atomic
// step, so two concurrent logouts can never lose a revocation to a
// read-modify-write race.
const revokeScript = `
redis.call("SADD", KEYS[1], ARGV[1])
redis.call("EXPIRE", KEYS[1], ARGV[2])
return 1
`

var revokeLua = redis.NewScript(revokeScript)

// Store is the Redis-backed revocation cache.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// Options configure the cache connection and the revocation window.
type Options struct {
	Addr     string
	Password string
	DB       int

	// TTL is the revocation window. Every Revoke call resets the employee's
	// entry to this duration.
	TTL time.Duration
}

// NewStore connects to Redis and verifies the connection.
func NewStore(ctx context.Context, opts Options) (*Store, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: connect %s: %w", opts.Addr, err)
	}

	return &Store{rdb: rdb, ttl: opts.TTL}, nil
}

// NewStoreWithClient wraps an existing client. Tests use this with miniredis.
func NewStoreWithClient(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

var _ store.Revocations = (*Store)(nil)

func (s *Store) Revoke(ctx context.Context, code, token string) error {
	ttlSeconds := int64(s.ttl / time.Second)
	if ttlSeconds < 1 {
		ttlSeconds = 1
	}

	if err := revokeLua.Run(ctx, s.rdb, []string{keyPrefix + code}, token, ttlSeconds).Err(); err != nil {
		return fmt.Errorf("redis: revoke: %w", err)
	}
	return nil
}

func (s *Store) IsRevoked(ctx context.Context, code, token string) (bool, error) {
	member, err := s.rdb.SIsMember(ctx, keyPrefix+code, token).Result()
	if err != nil {
		return false, fmt.Errorf("redis: is revoked: %w", err)
	}
	return member, nil
}

// Ping verifies the cache connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *Store) Close() error { return s.rdb.Close() }
