package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const loginFailuresPrefix = "login_failures:"

// LoginGuard counts failed logins per email in Redis and locks the email once
// maxFailures is reached, until the window expires.
// Key format: login_failures:<lowercased email>
type LoginGuard struct {
	client      *redis.Client
	maxFailures int
	window      time.Duration
}

// NewLoginGuard wraps the given Redis connection. A non-positive maxFailures
// or window disables locking.
func NewLoginGuard(r *Redis, maxFailures int, window time.Duration) *LoginGuard {
	var client *redis.Client
	if r != nil {
		client = r.Client
	}
	return &LoginGuard{client: client, maxFailures: maxFailures, window: window}
}

func (g *LoginGuard) enabled() bool {
	return g != nil && g.client != nil && g.maxFailures > 0 && g.window > 0
}

// Locked reports whether email has exhausted its failure budget.
func (g *LoginGuard) Locked(ctx context.Context, email string) (bool, error) {
	if !g.enabled() {
		return false, nil
	}
	n, err := g.client.Get(ctx, g.key(email)).Int()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return n >= g.maxFailures, nil
}

// RecordFailure counts one failed attempt. The window starts at the first failure.
func (g *LoginGuard) RecordFailure(ctx context.Context, email string) error {
	if !g.enabled() {
		return nil
	}
	key := g.key(email)
	n, err := g.client.Incr(ctx, key).Result()
	if err != nil {
		return err
	}
	if n == 1 {
		return g.client.Expire(ctx, key, g.window).Err()
	}
	return nil
}

// Reset clears the counter after a successful login.
func (g *LoginGuard) Reset(ctx context.Context, email string) error {
	if !g.enabled() {
		return nil
	}
	return g.client.Del(ctx, g.key(email)).Err()
}

func (g *LoginGuard) key(email string) string {
	return loginFailuresPrefix + strings.ToLower(strings.TrimSpace(email))
}
