package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pylearnhq/pylearn-backend/internal/platform/logger"
	"github.com/pylearnhq/pylearn-backend/internal/utils"
)

// Locked out after this many consecutive failures within the window.
const (
	loginFailureLimit  = 5
	loginFailureWindow = 15 * time.Minute
)

// LoginLimiter tracks consecutive failed logins per account. A successful
// login resets the counter.
type LoginLimiter interface {
	TooManyFailures(ctx context.Context, key string) (bool, error)
	RecordFailure(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

// NewLoginLimiter returns a Redis-backed limiter when REDIS_ADDR is set,
// otherwise an in-process one. The in-process fallback is fine for a
// single instance; multi-instance deployments want Redis.
func NewLoginLimiter(log *logger.Logger) LoginLimiter {
	addr := utils.GetEnv("REDIS_ADDR", "", log)
	if addr == "" {
		log.Info("REDIS_ADDR not set, using in-memory login limiter")
		return newMemoryLoginLimiter()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: utils.GetEnv("REDIS_PASSWORD", "", log),
	})
	return &redisLoginLimiter{
		log:    log.With("service", "LoginLimiter"),
		client: client,
	}
}

type redisLoginLimiter struct {
	log    *logger.Logger
	client *redis.Client
}

func (l *redisLoginLimiter) failureKey(key string) string {
	return fmt.Sprintf("login_failures:%s", key)
}

func (l *redisLoginLimiter) TooManyFailures(ctx context.Context, key string) (bool, error) {
	count, err := l.client.Get(ctx, l.failureKey(key)).Int()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read failure count: %w", err)
	}
	return count >= loginFailureLimit, nil
}

func (l *redisLoginLimiter) RecordFailure(ctx context.Context, key string) error {
	k := l.failureKey(key)
	count, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return fmt.Errorf("increment failure count: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, k, loginFailureWindow).Err(); err != nil {
			return fmt.Errorf("set failure window: %w", err)
		}
	}
	return nil
}

func (l *redisLoginLimiter) Reset(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, l.failureKey(key)).Err(); err != nil {
		return fmt.Errorf("reset failure count: %w", err)
	}
	return nil
}

type memoryLoginLimiter struct {
	mu       sync.Mutex
	failures map[string]*failureWindow
}

type failureWindow struct {
	count     int
	expiresAt time.Time
}

func newMemoryLoginLimiter() *memoryLoginLimiter {
	return &memoryLoginLimiter{failures: make(map[string]*failureWindow)}
}

func (l *memoryLoginLimiter) TooManyFailures(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	w := l.failures[key]
	if w == nil || time.Now().After(w.expiresAt) {
		return false, nil
	}
	return w.count >= loginFailureLimit, nil
}

func (l *memoryLoginLimiter) RecordFailure(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	w := l.failures[key]
	if w == nil || time.Now().After(w.expiresAt) {
		w = &failureWindow{expiresAt: time.Now().Add(loginFailureWindow)}
		l.failures[key] = w
	}
	w.count++
	return nil
}

func (l *memoryLoginLimiter) Reset(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.failures, key)
	return nil
}
