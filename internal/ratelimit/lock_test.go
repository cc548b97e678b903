package ratelimit

import (
	"context"
	"testing"
	"time"

	redis "github.com/redis/go-redis/v9"
)

func TestLockEmailDisabledPassesThrough(t *testing.T) {
	ctx := context.Background()

	var l *InitiateLimiter
	lock, ok, err := l.LockEmail(ctx, "ama@example.com", time.Second)
	if err != nil {
		t.Fatalf("LockEmail on nil limiter: %v", err)
	}
	if !ok {
		t.Fatal("nil limiter should pass through")
	}
	if err := lock.Release(ctx); err != nil {
		t.Fatalf("Release on pass-through lock: %v", err)
	}
}

func TestLockEmailBlankEmailPassesThrough(t *testing.T) {
	ctx := context.Background()

	l := &InitiateLimiter{
		enabled: true,
		locker:  NewLocker(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})),
	}
	lock, ok, err := l.LockEmail(ctx, "   ", time.Second)
	if err != nil {
		t.Fatalf("LockEmail with blank email: %v", err)
	}
	if !ok {
		t.Fatal("blank email should pass through")
	}
	if lock != nil {
		t.Fatal("pass-through should not hold a lock")
	}
}

func TestTryLockValidatesArguments(t *testing.T) {
	ctx := context.Background()

	if NewLocker(nil) != nil {
		t.Fatal("NewLocker(nil) should return nil")
	}

	var missing *Locker
	if _, _, err := missing.TryLock(ctx, "k", time.Second); err == nil {
		t.Fatal("nil locker should error")
	}

	l := NewLocker(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}))
	if _, _, err := l.TryLock(ctx, "", time.Second); err == nil {
		t.Fatal("empty key should error")
	}
	if _, _, err := l.TryLock(ctx, "k", 0); err == nil {
		t.Fatal("zero ttl should error")
	}
}

func TestReleaseNilLockIsNoOp(t *testing.T) {
	var lock *Lock
	if err := lock.Release(context.Background()); err != nil {
		t.Fatalf("Release on nil lock: %v", err)
	}
}
