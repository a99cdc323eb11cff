package services

import (
	"context"
	"time"
)

// RateLimiter gates mutating actions per (user, action) pair. The first
// call inside a window sets a marker with the window's TTL and allows;
// calls before the marker expires are denied.
type RateLimiter interface {
	Allow(ctx context.Context, userID, action string, window time.Duration) (bool, error)
}

// Throttled action kinds. Reads, edits, deletes, flags, and moderation
// are deliberately unthrottled so corrective actions are never blocked.
const (
	ActionCreate = "create"
	ActionReply  = "reply"
	ActionVote   = "vote"
)
