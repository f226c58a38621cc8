package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	ipLimitWindow  = 15 * time.Minute
	ipLimitMax     = 10
	emailCooldown  = 2 * time.Minute
	ipKeyPrefix    = "ratelimit:ip:"
	emailKeyPrefix = "ratelimit:email:"
)

// Limiter enforces fixed-window request limits per client IP and a
// per-email cooldown for the endpoints that send mail. Counters live
// in Redis so limits hold across instances.
type Limiter struct {
	client *redis.Client
}

func NewLimiter(client *redis.Client) *Limiter {
	return &Limiter{client: client}
}

// CheckIPRateLimit reports whether the IP has exhausted its window
func (l *Limiter) CheckIPRateLimit(ctx context.Context, ip string) (bool, error) {
	return l.checkLimit(ctx, ipKeyPrefix+ip)
}

// CheckIPRateLimitWithPurpose scopes the window to a purpose such as
// "login" or "register" so one endpoint cannot starve another.
func (l *Limiter) CheckIPRateLimitWithPurpose(ctx context.Context, ip, purpose string) (bool, error) {
	return l.checkLimit(ctx, fmt.Sprintf("%s%s:%s", ipKeyPrefix, purpose, ip))
}

// RecordIPRequest counts a request against the IP's window
func (l *Limiter) RecordIPRequest(ctx context.Context, ip string) error {
	return l.record(ctx, ipKeyPrefix+ip, ipLimitWindow)
}

// RecordIPRequestWithPurpose counts a request against the purpose-scoped window
func (l *Limiter) RecordIPRequestWithPurpose(ctx context.Context, ip, purpose string) error {
	return l.record(ctx, fmt.Sprintf("%s%s:%s", ipKeyPrefix, purpose, ip), ipLimitWindow)
}

// CheckEmailCooldown reports whether the email was targeted too recently
func (l *Limiter) CheckEmailCooldown(ctx context.Context, email string) (bool, error) {
	exists, err := l.client.Exists(ctx, emailKeyPrefix+email).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check email cooldown: %w", err)
	}
	return exists > 0, nil
}

// SetEmailCooldown starts the cooldown window for an email
func (l *Limiter) SetEmailCooldown(ctx context.Context, email string) error {
	if err := l.client.Set(ctx, emailKeyPrefix+email, "1", emailCooldown).Err(); err != nil {
		return fmt.Errorf("failed to set email cooldown: %w", err)
	}
	return nil
}

func (l *Limiter) checkLimit(ctx context.Context, key string) (bool, error) {
	count, err := l.client.Get(ctx, key).Int()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to read rate limit counter: %w", err)
	}
	return count >= ipLimitMax, nil
}

func (l *Limiter) record(ctx context.Context, key string, window time.Duration) error {
	pipe := l.client.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record request: %w", err)
	}
	return nil
}
