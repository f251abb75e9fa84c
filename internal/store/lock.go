package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Unlock ends a critical section started by Locker.Lock.
type Unlock func()

// Locker guards the read-modify-write cycle of a FileStore.
type Locker interface {
	// Lock blocks until the lock is held or ctx is done.
	Lock(ctx context.Context) (Unlock, error)
}

// MutexLocker serializes writers within a single process.
type MutexLocker struct {
	sem chan struct{}
}

func NewMutexLocker() *MutexLocker {
	return &MutexLocker{sem: make(chan struct{}, 1)}
}

func (l *MutexLocker) Lock(ctx context.Context) (Unlock, error) {
	select {
	case l.sem <- struct{}{}:
		return func() { <-l.sem }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// releaseScript deletes the key only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`)

// RedisLocker serializes writers across processes that share one document,
// using SET NX with a TTL and a random ownership token per acquisition.
// Goroutines of the same process queue on a local mutex first.
type RedisLocker struct {
	client *redis.Client
	key    string
	ttl    time.Duration
	retry  time.Duration
	local  *MutexLocker
	logger *slog.Logger
}

// NewRedisLocker creates a lock stored under "lock:<name>". The TTL bounds
// how long a crashed holder can block others.
func NewRedisLocker(client *redis.Client, name string, ttl time.Duration, logger *slog.Logger) *RedisLocker {
	return &RedisLocker{
		client: client,
		key:    fmt.Sprintf("lock:%s", name),
		ttl:    ttl,
		retry:  25 * time.Millisecond,
		local:  NewMutexLocker(),
		logger: logger,
	}
}

func (l *RedisLocker) Lock(ctx context.Context) (Unlock, error) {
	unlockLocal, err := l.local.Lock(ctx)
	if err != nil {
		return nil, err
	}

	token := uuid.NewString()

	for {
		ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
		if err != nil {
			unlockLocal()
			return nil, fmt.Errorf("acquiring lock %s: %w", l.key, err)
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			unlockLocal()
			return nil, fmt.Errorf("waiting for lock %s: %w", l.key, ctx.Err())
		case <-time.After(l.retry):
		}
	}

	return func() {
		defer unlockLocal()
		if err := releaseScript.Run(context.Background(), l.client, []string{l.key}, token).Err(); err != nil {
			l.logger.Error("failed to release lock", "key", l.key, "error", err)
		}
	}, nil
}

// Close closes the underlying Redis client.
func (l *RedisLocker) Close() error {
	return l.client.Close()
}
