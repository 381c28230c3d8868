// Package rate throttles failed login attempts with Redis counters.
package rate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds limiter tuning parameters.
type Config struct {
	MaxAttempts int
	Cooldown    time.Duration
}

// LoginLimiter enforces a per-email and per-IP budget of failed login
// attempts using fixed-window Redis counters. A nil client disables it.
type LoginLimiter struct {
	redis  redis.UniversalClient
	config Config
}

// NewLoginLimiter creates a limiter backed by the given Redis client.
func NewLoginLimiter(client redis.UniversalClient, cfg Config) *LoginLimiter {
	return &LoginLimiter{redis: client, config: cfg}
}

// Check reports whether the email+IP pair is still within the attempt
// budget. Returns ErrRateLimited when over budget.
func (l *LoginLimiter) Check(ctx context.Context, email, ip string) error {
	if l == nil || l.redis == nil {
		return nil
	}
	if err := l.checkCounter(ctx, emailKey(email)); err != nil {
		return err
	}
	if ip != "" {
		if err := l.checkCounter(ctx, ipKey(ip)); err != nil {
			return err
		}
	}
	return nil
}

// RecordFailure counts a failed login attempt for the email+IP pair.
func (l *LoginLimiter) RecordFailure(ctx context.Context, email, ip string) error {
	if l == nil || l.redis == nil {
		return nil
	}
	if err := l.incrementWithTTL(ctx, emailKey(email)); err != nil {
		return err
	}
	if ip != "" {
		return l.incrementWithTTL(ctx, ipKey(ip))
	}
	return nil
}

// Reset clears the counters after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, email, ip string) error {
	if l == nil || l.redis == nil {
		return nil
	}
	keys := []string{emailKey(email)}
	if ip != "" {
		keys = append(keys, ipKey(ip))
	}
	if err := l.redis.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

func (l *LoginLimiter) checkCounter(ctx context.Context, key string) error {
	count, err := l.redis.Get(ctx, key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if count >= int64(l.config.MaxAttempts) {
		return ErrRateLimited
	}
	return nil
}

func (l *LoginLimiter) incrementWithTTL(ctx context.Context, key string) error {
	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	// Fixed-window semantics: set TTL only for the first hit in the window.
	if count == 1 {
		if err := l.redis.Expire(ctx, key, l.config.Cooldown).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
	}
	return nil
}

func emailKey(email string) string {
	return "login:email:" + email
}

func ipKey(ip string) string {
	return "login:ip:" + ip
}
