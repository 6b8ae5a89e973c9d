package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultMaxAttempts = 10
	defaultWindow      = 15 * time.Minute
)

// LoginThrottle counts failed logins per account in a fixed window.
// Key format: login:attempts:<lowercased email>
type LoginThrottle struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
}

// NewLoginThrottle returns a throttle allowing maxAttempts failures per window.
func NewLoginThrottle(client *redis.Client, maxAttempts int, window time.Duration) *LoginThrottle {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if window <= 0 {
		window = defaultWindow
	}
	return &LoginThrottle{client: client, maxAttempts: maxAttempts, window: window}
}

// Allow reports whether another attempt may be made for key.
func (t *LoginThrottle) Allow(ctx context.Context, key string) (bool, error) {
	n, err := t.client.Get(ctx, t.key(key)).Int()
	if err == redis.Nil {
		return true, nil
	}
	if err != nil {
		return true, fmt.Errorf("throttle read: %w", err)
	}
	return n < t.maxAttempts, nil
}

// Fail records a failed attempt. The window starts at the first failure.
func (t *LoginThrottle) Fail(ctx context.Context, key string) error {
	k := t.key(key)
	n, err := t.client.Incr(ctx, k).Result()
	if err != nil {
		return fmt.Errorf("throttle record: %w", err)
	}
	if n == 1 {
		if err := t.client.Expire(ctx, k, t.window).Err(); err != nil {
			return fmt.Errorf("throttle expire: %w", err)
		}
	}
	return nil
}

// Reset clears the counter, typically after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, key string) error {
	if err := t.client.Del(ctx, t.key(key)).Err(); err != nil {
		return fmt.Errorf("throttle reset: %w", err)
	}
	return nil
}

func (t *LoginThrottle) key(key string) string {
	return "login:attempts:" + strings.ToLower(strings.TrimSpace(key))
}
