// Package lock provides the distributed run lock used to keep concurrent
// ingestion runs (API trigger, cron, CLI) from overlapping.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"topicfeed/internal/usecase/ingest"
)

// DefaultKey is the Redis key guarding ingestion runs.
const DefaultKey = "topicfeed:ingest:lock"

// ErrNotHeld is returned by unlock when the lock expired or was taken over.
var ErrNotHeld = errors.New("lock not held")

// releaseScript deletes the key only when it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLock is a single-instance SET NX PX lock. The TTL bounds how long a
// crashed holder blocks other runs.
type RedisLock struct {
	client redis.Cmdable
	key    string
	ttl    time.Duration
}

var _ ingest.RunLock = (*RedisLock)(nil)

// NewRedisLock returns a lock on key. An empty key uses DefaultKey.
func NewRedisLock(client redis.Cmdable, key string, ttl time.Duration) *RedisLock {
	if key == "" {
		key = DefaultKey
	}
	return &RedisLock{client: client, key: key, ttl: ttl}
}

// TryLock attempts to take the lock without waiting.
func (l *RedisLock) TryLock(ctx context.Context) (func(context.Context) error, bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("redis lock %s: %w", l.key, err)
	}
	if !ok {
		return nil, false, nil
	}

	unlock := func(ctx context.Context) error {
		n, err := releaseScript.Run(ctx, l.client, []string{l.key}, token).Int64()
		if err != nil {
			return fmt.Errorf("redis unlock %s: %w", l.key, err)
		}
		if n == 0 {
			return ErrNotHeld
		}
		return nil
	}
	return unlock, true, nil
}

// NewClient parses a redis:// URL and verifies the connection.
func NewClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}
