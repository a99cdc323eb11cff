package httputil

import (
	"context"
	"net/http"

	"tribune/internal/domain/services"
)

// Context key type to avoid collisions
type contextKey string

const (
	callerKey contextKey = "caller"
)

// WithCaller attaches the authenticated caller to the request context.
func WithCaller(r *http.Request, caller *services.Caller) *http.Request {
	ctx := context.WithValue(r.Context(), callerKey, caller)
	return r.WithContext(ctx)
}

// GetCaller retrieves the authenticated caller from the request context.
// Returns nil for unauthenticated requests.
func GetCaller(r *http.Request) *services.Caller {
	caller, _ := r.Context().Value(callerKey).(*services.Caller)
	return caller
}
