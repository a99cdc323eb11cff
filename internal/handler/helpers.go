package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"tribune/internal/domain"
	"tribune/internal/domain/services"
	"tribune/internal/httputil"

	"github.com/google/uuid"
)

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, err error) {
	var conflictErr *domain.ConflictError

	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrRateLimited):
		httputil.RespondError(w, http.StatusTooManyRequests, err.Error())
	case errors.As(err, &conflictErr):
		httputil.RespondError(w, http.StatusConflict, conflictErr.Error())
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// requireCaller returns the authenticated caller, or writes a 401 and
// returns nil. Listing endpoints skip this and pass the (possibly nil)
// caller straight through.
func requireCaller(w http.ResponseWriter, r *http.Request) *services.Caller {
	caller := httputil.GetCaller(r)
	if caller == nil {
		httputil.RespondError(w, http.StatusUnauthorized, "authentication required")
		return nil
	}
	return caller
}

// pathID extracts and validates the {id} path value so malformed IDs are
// rejected before they reach SQL.
func pathID(r *http.Request) (string, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// pageParam reads ?page= and defaults to 1. Out-of-range values are left
// to the service, which clamps instead of erroring.
func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// checkLimit runs the per-user throttle for an action. On denial it writes
// a 429 carrying the window length and returns false. A broken limiter
// backend fails open: throttling is protection, not a feature clients
// depend on.
func checkLimit(w http.ResponseWriter, r *http.Request, limiter services.RateLimiter, logger *slog.Logger, userID, action string, window time.Duration) bool {
	allowed, err := limiter.Allow(r.Context(), userID, action, window)
	if err != nil {
		logger.Warn("rate limiter unavailable, allowing request", "action", action, "error", err)
		return true
	}
	if !allowed {
		httputil.RespondErrorWithExtras(w, http.StatusTooManyRequests,
			"you are doing that too often, slow down",
			map[string]interface{}{"retry_after_seconds": int(window.Seconds())})
		return false
	}
	return true
}
