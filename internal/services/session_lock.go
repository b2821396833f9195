package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// SessionLocker serializes answer submissions per interview session. Acquire
// fails fast with ErrSessionBusy instead of waiting for the holder.
type SessionLocker interface {
	Acquire(ctx context.Context, sessionID uuid.UUID) (release func(), err error)
}

type memorySessionLocker struct {
	mu     sync.Mutex
	locked map[uuid.UUID]struct{}
}

// NewMemorySessionLocker guards sessions within a single process.
func NewMemorySessionLocker() SessionLocker {
	return &memorySessionLocker{locked: make(map[uuid.UUID]struct{})}
}

func (m *memorySessionLocker) Acquire(_ context.Context, sessionID uuid.UUID) (func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, held := m.locked[sessionID]; held {
		return nil, ErrSessionBusy
	}
	m.locked[sessionID] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.locked, sessionID)
			m.mu.Unlock()
		})
	}, nil
}

// only the holder's token may delete the key
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type redisSessionLocker struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisSessionLocker guards sessions across API replicas. ttl must exceed
// the longest oracle call so a live holder never loses its lock.
func NewRedisSessionLocker(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) SessionLocker {
	return &redisSessionLocker{rdb: rdb, ttl: ttl, logger: logger}
}

func sessionLockKey(sessionID uuid.UUID) string {
	return "interview:lock:" + sessionID.String()
}

func (r *redisSessionLocker) Acquire(ctx context.Context, sessionID uuid.UUID) (func(), error) {
	key := sessionLockKey(sessionID)
	token := uuid.NewString()

	ok, err := r.rdb.SetNX(ctx, key, token, r.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire session lock: %w", err)
	}
	if !ok {
		return nil, ErrSessionBusy
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// the request context may already be cancelled
			releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()

			if err := releaseScript.Run(releaseCtx, r.rdb, []string{key}, token).Err(); err != nil {
				r.logger.Warn("failed to release session lock",
					zap.String("session_id", sessionID.String()), zap.Error(err))
			}
		})
	}, nil
}
