package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// incrScript increments the counter and arms the window expiry on the first
// hit, then reads the remaining TTL, all in one atomic script so concurrent
// increments cannot interleave. Expiry uses millisecond precision. Returns
// [count, pttl].
var incrScript = redis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('PTTL', KEYS[1])
return {count, ttl}
`)

// RedisStore backs the limiter with Redis so limits hold across processes.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// RedisConfig holds the Redis connection settings. Populate it from the
// application config; this package never reads the environment.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// NewRedisStore connects to Redis and verifies the connection with a ping.
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	if cfg.Prefix == "" {
		cfg.Prefix = "rl:"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	return &RedisStore{client: client, prefix: cfg.Prefix}, nil
}

// Increment implements Store using the atomic INCR/PEXPIRE/PTTL script.
func (r *RedisStore) Increment(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	values, err := incrScript.Run(ctx, r.client, []string{r.prefix + key}, window.Milliseconds()).Slice()
	if err != nil {
		return 0, 0, fmt.Errorf("redis increment: %w", err)
	}
	if len(values) != 2 {
		return 0, 0, fmt.Errorf("redis increment: unexpected reply length %d", len(values))
	}

	count, ok := values[0].(int64)
	if !ok {
		return 0, 0, fmt.Errorf("redis increment: unexpected count type %T", values[0])
	}
	ttlMs, ok := values[1].(int64)
	if !ok {
		return 0, 0, fmt.Errorf("redis increment: unexpected ttl type %T", values[1])
	}

	ttl := time.Duration(ttlMs) * time.Millisecond
	if ttl < 0 {
		ttl = window
	}
	return count, ttl, nil
}

// Close releases the underlying client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
