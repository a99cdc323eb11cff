// Package ratelimit gates mutating comment actions per (user, action)
// pair using short-TTL markers in a shared key-value store, so the limit
// holds across multiple server instances.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"tribune/internal/domain/services"
)

// Store is the TTL marker backend. SetIfAbsent sets the key with the
// given TTL and returns true, or returns false when a live marker exists.
type Store interface {
	SetIfAbsent(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// Limiter implements services.RateLimiter on top of a Store.
type Limiter struct {
	store Store
}

// New creates a limiter backed by the given store.
func New(store Store) services.RateLimiter {
	return &Limiter{store: store}
}

// Allow reports whether the user may perform the action now. The first
// call inside a window plants the marker and allows; later calls are
// denied until the marker expires.
func (l *Limiter) Allow(ctx context.Context, userID, action string, window time.Duration) (bool, error) {
	return l.store.SetIfAbsent(ctx, throttleKey(userID, action), window)
}

func throttleKey(userID, action string) string {
	return fmt.Sprintf("comments:throttle:%s:%s", action, userID)
}
