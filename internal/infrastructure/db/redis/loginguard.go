package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultWindow      = 15 * time.Minute
	defaultMaxFailures = 5
)

// LoginGuard throttles repeated failed logins per email, backed by Redis.
// Key format: login_failures:<email>
//
// The counter expires after the configured window, so a quiet account
// unblocks itself without any cleanup job.
type LoginGuard struct {
	client      *redis.Client
	window      time.Duration
	maxFailures int
}

// NewLoginGuard creates a LoginGuard wrapping the given Redis client.
// Non-positive window or maxFailures fall back to the defaults.
func NewLoginGuard(client *redis.Client, window time.Duration, maxFailures int) *LoginGuard {
	if window <= 0 {
		window = defaultWindow
	}
	if maxFailures <= 0 {
		maxFailures = defaultMaxFailures
	}
	return &LoginGuard{client: client, window: window, maxFailures: maxFailures}
}

// TooManyAttempts reports whether email has exhausted its failure budget
// within the current window.
func (g *LoginGuard) TooManyAttempts(ctx context.Context, email string) (bool, error) {
	n, err := g.client.Get(ctx, g.key(email)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("login guard check: %w", err)
	}
	return n >= g.maxFailures, nil
}

// RecordFailure increments the failure counter, starting the expiry window
// on the first failure.
func (g *LoginGuard) RecordFailure(ctx context.Context, email string) error {
	n, err := g.client.Incr(ctx, g.key(email)).Result()
	if err != nil {
		return fmt.Errorf("login guard incr: %w", err)
	}
	if n == 1 {
		if err := g.client.Expire(ctx, g.key(email), g.window).Err(); err != nil {
			return fmt.Errorf("login guard expire: %w", err)
		}
	}
	return nil
}

// Reset clears the failure counter after a successful login.
func (g *LoginGuard) Reset(ctx context.Context, email string) error {
	return g.client.Del(ctx, g.key(email)).Err()
}

func (g *LoginGuard) key(email string) string {
	return "login_failures:" + email
}
