package locker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

// RedisLocker holds keys as SET NX PX entries so several API processes
// can share one coordinator lock space. Each lock expires after ttl.
type RedisLocker struct {
	client  *redis.Client
	prefix  string
	ttl     time.Duration
	retry   time.Duration
	release *redis.Script
	logger  zerolog.Logger
}

// NewRedisLocker creates a RedisLocker
func NewRedisLocker(client *redis.Client, prefix string, ttl time.Duration, logger zerolog.Logger) *RedisLocker {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &RedisLocker{
		client:  client,
		prefix:  prefix,
		ttl:     ttl,
		retry:   25 * time.Millisecond,
		release: redis.NewScript(releaseScript),
		logger:  logger,
	}
}

func (l *RedisLocker) redisKey(key string) string {
	if l.prefix == "" {
		return key
	}
	return l.prefix + ":" + key
}

func (l *RedisLocker) acquire(ctx context.Context, key, token string) error {
	ticker := time.NewTicker(l.retry)
	defer ticker.Stop()
	for {
		ok, err := l.client.SetNX(ctx, l.redisKey(key), token, l.ttl).Result()
		if err != nil {
			return fmt.Errorf("failed to acquire lock %s: %w", key, err)
		}
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %s", ErrLockTimeout, key)
		case <-ticker.C:
		}
	}
}

func (l *RedisLocker) unlock(key, token string) {
	// the caller's ctx may already be cancelled
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := l.release.Run(ctx, l.client, []string{l.redisKey(key)}, token).Err(); err != nil {
		l.logger.Warn().Err(err).Str("key", key).Msg("Failed to release redis lock")
	}
}

// Lock acquires every key in order, releasing the ones already held on failure
func (l *RedisLocker) Lock(ctx context.Context, keys ...string) (func(), error) {
	token := uuid.New().String()
	held := make([]string, 0, len(keys))

	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			l.unlock(held[i], token)
		}
	}

	for _, key := range dedupe(keys) {
		if err := l.acquire(ctx, key, token); err != nil {
			release()
			return nil, err
		}
		held = append(held, key)
	}

	var once sync.Once
	return func() { once.Do(release) }, nil
}
