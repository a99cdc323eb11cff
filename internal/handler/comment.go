package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"tribune/internal/config"
	"tribune/internal/domain/services"
	"tribune/internal/httputil"
)

// CommentHandler handles comment lifecycle and listing HTTP requests
type CommentHandler struct {
	comments services.CommentService
	threads  services.ThreadService
	limiter  services.RateLimiter
	logger   *slog.Logger
}

// NewCommentHandler creates a new comment handler
func NewCommentHandler(
	comments services.CommentService,
	threads services.ThreadService,
	limiter services.RateLimiter,
	logger *slog.Logger,
) *CommentHandler {
	return &CommentHandler{
		comments: comments,
		threads:  threads,
		limiter:  limiter,
		logger:   logger,
	}
}

// HealthCheck reports liveness
// GET /health
func (h *CommentHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListArticleComments lists one page of an article's comment tree
// GET /api/articles/{id}/comments?page=N
func (h *CommentHandler) ListArticleComments(w http.ResponseWriter, r *http.Request) {
	articleID, err := pathID(r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid article ID format")
		return
	}

	page, err := h.threads.ListArticleComments(r.Context(), articleID, pageParam(r), httputil.GetCaller(r))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, page)
}

// CreateComment creates a top-level comment on an article
// POST /api/articles/{id}/comments
func (h *CommentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	caller := requireCaller(w, r)
	if caller == nil {
		return
	}

	articleID, err := pathID(r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid article ID format")
		return
	}

	if !checkLimit(w, r, h.limiter, h.logger, caller.ID, services.ActionCreate, config.CreateWindow) {
		return
	}

	var req services.CreateCommentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.ArticleID = articleID
	req.Caller = caller

	comment, err := h.comments.CreateTopLevel(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, commentEnvelope{Comment: newCommentResponse(comment)})
}

// ListReplies lists one page of a comment's direct replies
// GET /api/comments/{id}/replies?page=N
func (h *CommentHandler) ListReplies(w http.ResponseWriter, r *http.Request) {
	parentID, err := pathID(r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid comment ID format")
		return
	}

	page, err := h.threads.ListReplies(r.Context(), parentID, pageParam(r), httputil.GetCaller(r))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, page)
}

// CreateReply creates a reply under a comment
// POST /api/comments/{id}/replies
func (h *CommentHandler) CreateReply(w http.ResponseWriter, r *http.Request) {
	caller := requireCaller(w, r)
	if caller == nil {
		return
	}

	parentID, err := pathID(r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid comment ID format")
		return
	}

	if !checkLimit(w, r, h.limiter, h.logger, caller.ID, services.ActionReply, config.ReplyWindow) {
		return
	}

	var req services.CreateReplyRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.ParentID = parentID
	req.Caller = caller

	comment, err := h.comments.CreateReply(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, commentEnvelope{Comment: newCommentResponse(comment)})
}

// EditComment rewrites a comment's content
// PATCH /api/comments/{id}
func (h *CommentHandler) EditComment(w http.ResponseWriter, r *http.Request) {
	caller := requireCaller(w, r)
	if caller == nil {
		return
	}

	commentID, err := pathID(r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid comment ID format")
		return
	}

	var req services.EditCommentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.CommentID = commentID
	req.Caller = caller

	comment, err := h.comments.Edit(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, commentEnvelope{Comment: newCommentResponse(comment)})
}

// DeleteComment soft-deletes a comment
// DELETE /api/comments/{id}
func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	caller := requireCaller(w, r)
	if caller == nil {
		return
	}

	commentID, err := pathID(r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid comment ID format")
		return
	}

	comment, err := h.comments.Delete(r.Context(), commentID, caller)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, commentEnvelope{Comment: newCommentResponse(comment)})
}

// ModerateComment sets or clears moderator removal. Staff only.
// POST /api/comments/{id}/moderate
func (h *CommentHandler) ModerateComment(w http.ResponseWriter, r *http.Request) {
	caller := requireCaller(w, r)
	if caller == nil {
		return
	}
	if !caller.IsStaff {
		httputil.RespondError(w, http.StatusForbidden, "moderation requires staff privileges")
		return
	}

	commentID, err := pathID(r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid comment ID format")
		return
	}

	remove, err := parseModerateAction(w, r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	comment, err := h.comments.Moderate(r.Context(), commentID, remove)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, commentEnvelope{Comment: newCommentResponse(comment)})
}

// parseModerateAction reads the remove flag from a JSON body. Clients
// send JSON booleans, but form-style truthy strings and numbers are
// accepted too. An empty body means remove: moderation defaults to
// taking the comment down, restores say so explicitly.
func parseModerateAction(w http.ResponseWriter, r *http.Request) (bool, error) {
	var req struct {
		Remove interface{} `json:"remove"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		// Empty body is fine; malformed JSON is not.
		if strings.Contains(err.Error(), "EOF") {
			return true, nil
		}
		return false, err
	}

	switch v := req.Remove.(type) {
	case nil:
		return true, nil
	case bool:
		return v, nil
	case float64:
		return v != 0, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "on", "yes":
			return true, nil
		case "0", "false", "off", "no", "":
			return false, nil
		}
	}
	return false, errors.New("remove must be a boolean")
}
