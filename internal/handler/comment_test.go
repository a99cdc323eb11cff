package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"testing"

	"tribune/internal/domain"
	"tribune/internal/domain/models"
	"tribune/internal/domain/services"
)

const (
	testArticleID = "11111111-1111-1111-1111-111111111111"
	testCommentID = "22222222-2222-2222-2222-222222222222"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func alice() *services.Caller {
	return &services.Caller{ID: "u-alice", Username: "alice"}
}

func staff() *services.Caller {
	return &services.Caller{ID: "u-mod", Username: "carol", IsStaff: true}
}

func sampleComment() *models.Comment {
	return &models.Comment{
		ID:        testCommentID,
		ArticleID: testArticleID,
		AuthorID:  "u-alice",
		Content:   "hello",
		TrueDepth: 0,
	}
}

func TestCreateComment(t *testing.T) {
	comments := &stubCommentService{
		createTopLevel: func(ctx context.Context, req *services.CreateCommentRequest) (*models.Comment, error) {
			if req.ArticleID != testArticleID {
				t.Errorf("expected article ID from path, got %s", req.ArticleID)
			}
			if req.Caller == nil || req.Caller.ID != "u-alice" {
				t.Errorf("expected caller from context, got %+v", req.Caller)
			}
			c := sampleComment()
			c.Content = req.Content
			return c, nil
		},
	}
	h := NewCommentHandler(comments, nil, allowAll(), testLogger())

	w, r := request("POST", "/api/articles/"+testArticleID+"/comments", testArticleID, `{"content":"hello"}`, alice())
	h.CreateComment(w, r)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var resp commentEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp.Comment.Content != "hello" {
		t.Errorf("expected comment envelope with content, got %+v", resp)
	}
}

func TestCreateComment_RequiresAuth(t *testing.T) {
	h := NewCommentHandler(&stubCommentService{}, nil, allowAll(), testLogger())

	w, r := request("POST", "/api/articles/"+testArticleID+"/comments", testArticleID, `{"content":"hi"}`, nil)
	h.CreateComment(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for anonymous create, got %d", w.Code)
	}
}

func TestCreateComment_RateLimited(t *testing.T) {
	h := NewCommentHandler(&stubCommentService{}, nil, &stubLimiter{allowed: false}, testLogger())

	w, r := request("POST", "/api/articles/"+testArticleID+"/comments", testArticleID, `{"content":"hi"}`, alice())
	h.CreateComment(w, r)

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	var problem map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &problem); err != nil {
		t.Fatalf("invalid problem JSON: %v", err)
	}
	if _, ok := problem["retry_after_seconds"]; !ok {
		t.Errorf("expected retry_after_seconds in 429 body, got %v", problem)
	}
}

func TestCreateComment_LimiterFailureAllows(t *testing.T) {
	called := false
	comments := &stubCommentService{
		createTopLevel: func(ctx context.Context, req *services.CreateCommentRequest) (*models.Comment, error) {
			called = true
			return sampleComment(), nil
		},
	}
	h := NewCommentHandler(comments, nil, &stubLimiter{err: context.DeadlineExceeded}, testLogger())

	w, r := request("POST", "/api/articles/"+testArticleID+"/comments", testArticleID, `{"content":"hi"}`, alice())
	h.CreateComment(w, r)

	if w.Code != http.StatusCreated {
		t.Errorf("expected limiter failure to fail open, got %d", w.Code)
	}
	if !called {
		t.Error("expected service to be called when limiter backend is down")
	}
}

func TestListArticleComments(t *testing.T) {
	threads := &stubThreadService{
		listArticleComments: func(ctx context.Context, articleID string, page int, viewer *services.Caller) (*services.CommentPage, error) {
			if page != 3 {
				t.Errorf("expected page 3 from query, got %d", page)
			}
			if viewer != nil {
				t.Errorf("expected nil viewer for anonymous request, got %+v", viewer)
			}
			return &services.CommentPage{Count: 0, NumPages: 1, Page: 1, Results: []*services.CommentNode{}}, nil
		},
	}
	h := NewCommentHandler(nil, threads, allowAll(), testLogger())

	w, r := request("GET", "/api/articles/"+testArticleID+"/comments?page=3", testArticleID, "", nil)
	h.ListArticleComments(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var page services.CommentPage
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatalf("invalid page JSON: %v", err)
	}
	if page.Results == nil {
		t.Error("expected results to serialize as an empty array, not null")
	}
}

func TestListArticleComments_InvalidID(t *testing.T) {
	h := NewCommentHandler(nil, &stubThreadService{}, allowAll(), testLogger())

	w, r := request("GET", "/api/articles/not-a-uuid/comments", "not-a-uuid", "", nil)
	h.ListArticleComments(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed ID, got %d", w.Code)
	}
}

func TestEditComment_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &domain.ValidationError{Message: "too long"}, http.StatusBadRequest},
		{"not found", &domain.NotFoundError{Message: "comment not found"}, http.StatusNotFound},
		{"forbidden", &domain.ForbiddenError{Message: "not yours"}, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			comments := &stubCommentService{
				edit: func(ctx context.Context, req *services.EditCommentRequest) (*models.Comment, error) {
					return nil, tc.err
				},
			}
			h := NewCommentHandler(comments, nil, allowAll(), testLogger())

			w, r := request("PATCH", "/api/comments/"+testCommentID, testCommentID, `{"content":"new"}`, alice())
			h.EditComment(w, r)

			if w.Code != tc.want {
				t.Errorf("expected %d, got %d", tc.want, w.Code)
			}
		})
	}
}

func TestModerateComment_StaffOnly(t *testing.T) {
	h := NewCommentHandler(&stubCommentService{}, nil, allowAll(), testLogger())

	w, r := request("POST", "/api/comments/"+testCommentID+"/moderate", testCommentID, `{"remove":true}`, alice())
	h.ModerateComment(w, r)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for non-staff, got %d", w.Code)
	}
}

func TestModerateComment_RemoveFlagShapes(t *testing.T) {
	cases := []struct {
		name string
		body string
		want bool
	}{
		{"json true", `{"remove":true}`, true},
		{"json false", `{"remove":false}`, false},
		{"string one", `{"remove":"1"}`, true},
		{"string true", `{"remove":"true"}`, true},
		{"string on", `{"remove":"on"}`, true},
		{"string yes", `{"remove":"yes"}`, true},
		{"string zero", `{"remove":"0"}`, false},
		{"number", `{"remove":1}`, true},
		{"empty body defaults to remove", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got *bool
			comments := &stubCommentService{
				moderate: func(ctx context.Context, commentID string, remove bool) (*models.Comment, error) {
					got = &remove
					c := sampleComment()
					c.IsRemovedByModerator = remove
					return c, nil
				},
			}
			h := NewCommentHandler(comments, nil, allowAll(), testLogger())

			w, r := request("POST", "/api/comments/"+testCommentID+"/moderate", testCommentID, tc.body, staff())
			h.ModerateComment(w, r)

			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
			}
			if got == nil || *got != tc.want {
				t.Errorf("expected remove=%v, got %v", tc.want, got)
			}
		})
	}
}

func TestModerateComment_UnparsableRemove(t *testing.T) {
	h := NewCommentHandler(&stubCommentService{}, nil, allowAll(), testLogger())

	w, r := request("POST", "/api/comments/"+testCommentID+"/moderate", testCommentID, `{"remove":"maybe"}`, staff())
	h.ModerateComment(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unparsable remove flag, got %d", w.Code)
	}
}

func TestDeleteComment_TombstonedResponse(t *testing.T) {
	comments := &stubCommentService{
		delete: func(ctx context.Context, commentID string, caller *services.Caller) (*models.Comment, error) {
			c := sampleComment()
			c.IsDeletedByAuthor = true
			return c, nil
		},
	}
	h := NewCommentHandler(comments, nil, allowAll(), testLogger())

	w, r := request("DELETE", "/api/comments/"+testCommentID, testCommentID, "", alice())
	h.DeleteComment(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp commentEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp.Comment.Content != models.TombstoneDeleted {
		t.Errorf("expected tombstoned content in response, got %q", resp.Comment.Content)
	}
}
