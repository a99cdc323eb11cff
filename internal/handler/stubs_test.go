package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"tribune/internal/domain/models"
	"tribune/internal/domain/services"
	"tribune/internal/httputil"
)

// Function-field stubs so each test wires only the calls it expects.

type stubCommentService struct {
	createTopLevel func(ctx context.Context, req *services.CreateCommentRequest) (*models.Comment, error)
	createReply    func(ctx context.Context, req *services.CreateReplyRequest) (*models.Comment, error)
	edit           func(ctx context.Context, req *services.EditCommentRequest) (*models.Comment, error)
	delete         func(ctx context.Context, commentID string, caller *services.Caller) (*models.Comment, error)
	moderate       func(ctx context.Context, commentID string, remove bool) (*models.Comment, error)
	flag           func(ctx context.Context, req *services.FlagCommentRequest) error
}

func (s *stubCommentService) CreateTopLevel(ctx context.Context, req *services.CreateCommentRequest) (*models.Comment, error) {
	return s.createTopLevel(ctx, req)
}
func (s *stubCommentService) CreateReply(ctx context.Context, req *services.CreateReplyRequest) (*models.Comment, error) {
	return s.createReply(ctx, req)
}
func (s *stubCommentService) Edit(ctx context.Context, req *services.EditCommentRequest) (*models.Comment, error) {
	return s.edit(ctx, req)
}
func (s *stubCommentService) Delete(ctx context.Context, commentID string, caller *services.Caller) (*models.Comment, error) {
	return s.delete(ctx, commentID, caller)
}
func (s *stubCommentService) Moderate(ctx context.Context, commentID string, remove bool) (*models.Comment, error) {
	return s.moderate(ctx, commentID, remove)
}
func (s *stubCommentService) Flag(ctx context.Context, req *services.FlagCommentRequest) error {
	return s.flag(ctx, req)
}

type stubThreadService struct {
	listArticleComments func(ctx context.Context, articleID string, page int, viewer *services.Caller) (*services.CommentPage, error)
	listReplies         func(ctx context.Context, parentID string, page int, viewer *services.Caller) (*services.CommentPage, error)
}

func (s *stubThreadService) ListArticleComments(ctx context.Context, articleID string, page int, viewer *services.Caller) (*services.CommentPage, error) {
	return s.listArticleComments(ctx, articleID, page, viewer)
}
func (s *stubThreadService) ListReplies(ctx context.Context, parentID string, page int, viewer *services.Caller) (*services.CommentPage, error) {
	return s.listReplies(ctx, parentID, page, viewer)
}

type stubVoteService struct {
	castVote   func(ctx context.Context, commentID, userID string, value int) (*services.VoteResult, error)
	removeVote func(ctx context.Context, commentID, userID string) (*services.VoteResult, error)
}

func (s *stubVoteService) CastVote(ctx context.Context, commentID, userID string, value int) (*services.VoteResult, error) {
	return s.castVote(ctx, commentID, userID, value)
}
func (s *stubVoteService) RemoveVote(ctx context.Context, commentID, userID string) (*services.VoteResult, error) {
	return s.removeVote(ctx, commentID, userID)
}

type stubLimiter struct {
	allowed bool
	err     error
}

func (l *stubLimiter) Allow(ctx context.Context, userID, action string, window time.Duration) (bool, error) {
	return l.allowed, l.err
}

func allowAll() services.RateLimiter { return &stubLimiter{allowed: true} }

// request builds an httptest request with the {id} path value and an
// optional authenticated caller attached.
func request(method, target, id, body string, caller *services.Caller) (*httptest.ResponseRecorder, *http.Request) {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	}
	if id != "" {
		r.SetPathValue("id", id)
	}
	if caller != nil {
		r = httputil.WithCaller(r, caller)
	}
	return httptest.NewRecorder(), r
}
