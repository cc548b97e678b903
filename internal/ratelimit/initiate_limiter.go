package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nyarko-dennis/donor-app-backend/internal/config"
	redis "github.com/redis/go-redis/v9"
)

const (
	keyInitiateClient = "donation:initiate:client:%s"
	keyInitiateEmail  = "donation:initiate:email:%s"
)

// InitiateLimiter throttles donation initiation per client so a runaway
// script cannot flood the gateway with checkout sessions.
type InitiateLimiter struct {
	enabled bool

	bucket *TokenBucket
	locker *Locker

	rate  float64
	burst int
}

func NewInitiateLimiter(cfg config.Config) (*InitiateLimiter, error) {
	limitCfg := cfg.RateLimit
	if !limitCfg.Enabled {
		return nil, nil
	}

	addr := strings.TrimSpace(limitCfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("rate limit redis addr is required")
	}
	if limitCfg.InitiateRate <= 0 || limitCfg.InitiateBurst <= 0 {
		return nil, errors.New("initiate rate limit must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(limitCfg.RedisPassword),
		DB:       limitCfg.RedisDB,
	})

	return &InitiateLimiter{
		enabled: true,
		bucket:  NewTokenBucket(client),
		locker:  NewLocker(client),
		rate:    limitCfg.InitiateRate,
		burst:   limitCfg.InitiateBurst,
	}, nil
}

func (l *InitiateLimiter) Enabled() bool {
	return l != nil && l.enabled
}

// LockEmail guards a single in-flight initiation per donor email, so a
// double-submitted checkout form creates one gateway session, not two.
// The nil lock returned on the pass-through paths releases as a no-op.
func (l *InitiateLimiter) LockEmail(ctx context.Context, email string, ttl time.Duration) (*Lock, bool, error) {
	if !l.Enabled() {
		return nil, true, nil
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, true, nil
	}
	return l.locker.TryLock(ctx, fmt.Sprintf(keyInitiateEmail, email), ttl)
}

func (l *InitiateLimiter) Allow(ctx context.Context, clientKey string) (*RateLimitResult, error) {
	if !l.Enabled() {
		return &RateLimitResult{Allowed: true}, nil
	}
	clientKey = strings.TrimSpace(clientKey)
	if clientKey == "" {
		return &RateLimitResult{Allowed: true}, nil
	}
	return l.bucket.Allow(ctx, fmt.Sprintf(keyInitiateClient, clientKey), l.rate, l.burst)
}
