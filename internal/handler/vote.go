package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"tribune/internal/config"
	"tribune/internal/domain/models"
	"tribune/internal/domain/services"
	"tribune/internal/httputil"
)

// VoteHandler handles vote casting and removal HTTP requests
type VoteHandler struct {
	votes   services.VoteService
	limiter services.RateLimiter
	logger  *slog.Logger
}

// NewVoteHandler creates a new vote handler
func NewVoteHandler(votes services.VoteService, limiter services.RateLimiter, logger *slog.Logger) *VoteHandler {
	return &VoteHandler{
		votes:   votes,
		limiter: limiter,
		logger:  logger,
	}
}

// CastVote records or switches the caller's vote on a comment
// POST /api/comments/{id}/vote  (PUT is registered as an alias)
func (h *VoteHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	caller := requireCaller(w, r)
	if caller == nil {
		return
	}

	commentID, err := pathID(r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid comment ID format")
		return
	}

	if !checkLimit(w, r, h.limiter, h.logger, caller.ID, services.ActionVote, config.VoteWindow) {
		return
	}

	value, err := parseVoteValue(w, r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.votes.CastVote(r.Context(), commentID, caller.ID, value)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// RemoveVote deletes the caller's vote on a comment
// DELETE /api/comments/{id}/vote
func (h *VoteHandler) RemoveVote(w http.ResponseWriter, r *http.Request) {
	caller := requireCaller(w, r)
	if caller == nil {
		return
	}

	commentID, err := pathID(r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid comment ID format")
		return
	}

	result, err := h.votes.RemoveVote(r.Context(), commentID, caller.ID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

var errMissingVote = errors.New(`vote value required: send {"value": 1} or {"value": -1}`)

// parseVoteValue accepts the vote in any of the shapes clients have
// historically sent: a JSON object keyed by value/vote/direction, a bare
// JSON number or string, or a form field. Everything normalizes to the
// two storable values.
func parseVoteValue(w http.ResponseWriter, r *http.Request) (int, error) {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "application/x-www-form-urlencoded") || strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseForm(); err != nil {
			return 0, errMissingVote
		}
		for _, key := range []string{"value", "vote", "direction"} {
			if v := r.PostFormValue(key); v != "" {
				return interpretVote(v)
			}
		}
		return 0, errMissingVote
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 4096))
	if err != nil {
		return 0, errMissingVote
	}
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return 0, errMissingVote
	}

	var payload struct {
		Value     json.RawMessage `json:"value"`
		Vote      json.RawMessage `json:"vote"`
		Direction json.RawMessage `json:"direction"`
	}
	if err := json.Unmarshal([]byte(trimmed), &payload); err == nil {
		for _, raw := range [][]byte{payload.Value, payload.Vote, payload.Direction} {
			if len(raw) > 0 {
				return interpretVote(strings.Trim(string(raw), `"`))
			}
		}
		return 0, errMissingVote
	}

	// Bare token body: 1, -1, "up", "down".
	return interpretVote(strings.Trim(trimmed, `"`))
}

func interpretVote(token string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "1", "+1", "up", "upvote":
		return models.VoteUp, nil
	case "-1", "down", "downvote":
		return models.VoteDown, nil
	default:
		return 0, errors.New("vote value must be -1 or +1")
	}
}
