package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// compare-and-delete so a holder whose TTL expired cannot free someone else's lock
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker is a Locker shared by every service instance talking to the
// same Redis. Locks expire after ttl so a crashed holder cannot wedge a key.
type RedisLocker struct {
	client  *redis.Client
	prefix  string
	ttl     time.Duration
	timeout time.Duration
	poll    time.Duration
	log     *zap.Logger
}

func NewRedisLocker(client *redis.Client, ttl, timeout time.Duration, log *zap.Logger) *RedisLocker {
	return &RedisLocker{
		client:  client,
		prefix:  "lock:slot:",
		ttl:     ttl,
		timeout: timeout,
		poll:    25 * time.Millisecond,
		log:     log.With(zap.String("component", "redis_lock")),
	}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string) (Release, error) {
	redisKey := l.prefix + key
	token := uuid.NewString()
	deadline := time.Now().Add(l.timeout)

	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire lock %s: %w", key, err)
		}
		if ok {
			return l.releaser(redisKey, token), nil
		}

		wait := l.poll
		if l.timeout > 0 {
			remaining := time.Until(deadline)
			if remaining <= 0 {
				return nil, ErrTimeout
			}
			if remaining < wait {
				wait = remaining
			}
		}

		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (l *RedisLocker) releaser(redisKey, token string) Release {
	released := false
	return func() {
		if released {
			return
		}
		released = true

		// detached from the request context: a cancelled request must still unlock
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		if err := unlockScript.Run(ctx, l.client, []string{redisKey}, token).Err(); err != nil {
			l.log.Warn("Failed to release lock, it will expire by TTL",
				zap.String("key", redisKey),
				zap.Error(err),
			)
		}
	}
}

// NewRedisClient opens a client and checks connectivity.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return client, nil
}
