package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// setupTestRedis starts an in-memory Redis and returns a client bound to it.
func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestConnect_PingsServer(t *testing.T) {
	mr, _ := setupTestRedis(t)

	client, err := Connect(context.Background(), Config{Addr: mr.Addr()})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	_ = client.Close()
}

func TestConnect_Unreachable(t *testing.T) {
	mr, _ := setupTestRedis(t)
	addr := mr.Addr()
	mr.Close()

	if _, err := Connect(context.Background(), Config{Addr: addr, Timeout: 200 * time.Millisecond}); err == nil {
		t.Fatalf("expected error for closed server")
	}
}

func TestRevocationList_RevokeAndCheck(t *testing.T) {
	mr, client := setupTestRedis(t)
	list := NewRevocationList(client)
	ctx := context.Background()

	revoked, err := list.IsRevoked(ctx, "jti-1")
	if err != nil || revoked {
		t.Fatalf("fresh token should not be revoked: %v %v", revoked, err)
	}

	if err := list.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	revoked, err = list.IsRevoked(ctx, "jti-1")
	if err != nil || !revoked {
		t.Fatalf("expected revoked token: %v %v", revoked, err)
	}

	ttl := mr.TTL("revoked:jti-1")
	if ttl <= 0 || ttl > time.Hour {
		t.Fatalf("expected ttl bounded by token lifetime, got %v", ttl)
	}

	mr.FastForward(time.Hour + time.Second)
	revoked, _ = list.IsRevoked(ctx, "jti-1")
	if revoked {
		t.Fatalf("entry should expire with the token")
	}
}

func TestRevocationList_SkipsExpiredTokens(t *testing.T) {
	mr, client := setupTestRedis(t)
	list := NewRevocationList(client)

	if err := list.Revoke(context.Background(), "jti-old", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if mr.Exists("revoked:jti-old") {
		t.Fatalf("expired token should not be stored")
	}
	if err := list.Revoke(context.Background(), "", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("empty id should be a no-op: %v", err)
	}
}

func TestLoginThrottle_BlocksAfterMaxAttempts(t *testing.T) {
	mr, client := setupTestRedis(t)
	throttle := NewLoginThrottle(client, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := throttle.Allow(ctx, "Jane@Example.com")
		if err != nil || !ok {
			t.Fatalf("attempt %d should be allowed: %v %v", i, ok, err)
		}
		if err := throttle.Fail(ctx, "Jane@Example.com"); err != nil {
			t.Fatalf("Fail: %v", err)
		}
	}

	ok, _ := throttle.Allow(ctx, "jane@example.com")
	if ok {
		t.Fatalf("expected throttle to block after 3 failures (case-insensitive key)")
	}

	mr.FastForward(time.Minute + time.Second)
	ok, _ = throttle.Allow(ctx, "jane@example.com")
	if !ok {
		t.Fatalf("expected window to reset")
	}
}

func TestLoginThrottle_Reset(t *testing.T) {
	_, client := setupTestRedis(t)
	throttle := NewLoginThrottle(client, 1, time.Minute)
	ctx := context.Background()

	_ = throttle.Fail(ctx, "a@b.co")
	if ok, _ := throttle.Allow(ctx, "a@b.co"); ok {
		t.Fatalf("expected block after single failure")
	}
	if err := throttle.Reset(ctx, "a@b.co"); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if ok, _ := throttle.Allow(ctx, "a@b.co"); !ok {
		t.Fatalf("expected allow after reset")
	}
}
