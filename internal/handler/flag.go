package handler

import (
	"log/slog"
	"net/http"

	"tribune/internal/domain/services"
	"tribune/internal/flagging"
	"tribune/internal/httputil"
)

// FlagHandler handles comment report HTTP requests
type FlagHandler struct {
	comments services.CommentService
	reasons  *flagging.Registry
	logger   *slog.Logger
}

// NewFlagHandler creates a new flag handler
func NewFlagHandler(comments services.CommentService, reasons *flagging.Registry, logger *slog.Logger) *FlagHandler {
	return &FlagHandler{
		comments: comments,
		reasons:  reasons,
		logger:   logger,
	}
}

// ListReasons returns the reportable reason taxonomy for client dialogs
// GET /api/comments/flag-reasons
func (h *FlagHandler) ListReasons(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"results": h.reasons.List(),
	})
}

// FlagComment records the caller's report against a comment
// POST /api/comments/{id}/flags
func (h *FlagHandler) FlagComment(w http.ResponseWriter, r *http.Request) {
	caller := requireCaller(w, r)
	if caller == nil {
		return
	}

	commentID, err := pathID(r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid comment ID format")
		return
	}

	var req services.FlagCommentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.CommentID = commentID
	req.Caller = caller

	if err := h.comments.Flag(r.Context(), &req); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, map[string]bool{"flagged": true})
}
