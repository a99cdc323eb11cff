package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"tribune/internal/domain/services"
	"tribune/internal/flagging"
)

func TestListReasons(t *testing.T) {
	reasons, err := flagging.NewRegistry()
	if err != nil {
		t.Fatalf("failed to load reason registry: %v", err)
	}
	h := NewFlagHandler(nil, reasons, testLogger())

	w, r := request("GET", "/api/comments/flag-reasons", "", "", nil)
	h.ListReasons(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Results []flagging.Reason `json:"results"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if len(resp.Results) == 0 {
		t.Fatal("expected at least one reason")
	}
	found := false
	for _, reason := range resp.Results {
		if reason.ID == "spam" {
			found = true
		}
	}
	if !found {
		t.Error("expected spam among the reasons")
	}
}

func TestFlagComment(t *testing.T) {
	var got *services.FlagCommentRequest
	comments := &stubCommentService{
		flag: func(ctx context.Context, req *services.FlagCommentRequest) error {
			got = req
			return nil
		},
	}
	h := NewFlagHandler(comments, nil, testLogger())

	w, r := request("POST", "/api/comments/"+testCommentID+"/flags", testCommentID,
		`{"reason":"spam","note":"casino links"}`, alice())
	h.FlagComment(w, r)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var resp map[string]bool
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if !resp["flagged"] {
		t.Errorf("expected flagged:true, got %v", resp)
	}
	if got == nil || got.CommentID != testCommentID || got.Reason != "spam" {
		t.Errorf("unexpected request passed to service: %+v", got)
	}
}

func TestFlagComment_RequiresAuth(t *testing.T) {
	h := NewFlagHandler(&stubCommentService{}, nil, testLogger())

	w, r := request("POST", "/api/comments/"+testCommentID+"/flags", testCommentID, `{"reason":"spam"}`, nil)
	h.FlagComment(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}
