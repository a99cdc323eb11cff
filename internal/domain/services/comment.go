package services

import (
	"context"

	"tribune/internal/domain/models"
)

// CommentService handles comment lifecycle business logic: creation with
// depth computation, edits, soft deletes, moderation, and flagging.
type CommentService interface {
	// CreateTopLevel validates content, checks the article exists, and
	// creates a depth-0 comment.
	CreateTopLevel(ctx context.Context, req *CreateCommentRequest) (*models.Comment, error)

	// CreateReply creates a child comment with true_depth = parent+1,
	// uncapped, and fires a best-effort notification to the parent author.
	CreateReply(ctx context.Context, req *CreateReplyRequest) (*models.Comment, error)

	// Edit rewrites content. Only the author may edit, and moderator
	// removal blocks edits (author self-deletion does not).
	Edit(ctx context.Context, req *EditCommentRequest) (*models.Comment, error)

	// Delete soft-deletes: flips is_deleted_by_author, never removes the
	// row. Allowed for the author or staff.
	Delete(ctx context.Context, commentID string, caller *Caller) (*models.Comment, error)

	// Moderate sets or clears is_removed_by_moderator. Idempotent. The
	// handler enforces the staff requirement before calling.
	Moderate(ctx context.Context, commentID string, remove bool) (*models.Comment, error)

	// Flag records a report, upserting on the (comment, reporter) pair.
	Flag(ctx context.Context, req *FlagCommentRequest) error
}

// CreateCommentRequest creates a top-level comment on an article.
type CreateCommentRequest struct {
	ArticleID string  `json:"-"`
	Content   string  `json:"content"`
	Caller    *Caller `json:"-"`
}

// CreateReplyRequest creates a reply under an existing comment.
type CreateReplyRequest struct {
	ParentID string  `json:"-"`
	Content  string  `json:"content"`
	Caller   *Caller `json:"-"`
}

// EditCommentRequest rewrites a comment's content.
type EditCommentRequest struct {
	CommentID string  `json:"-"`
	Content   string  `json:"content"`
	Caller    *Caller `json:"-"`
}

// FlagCommentRequest reports a comment.
type FlagCommentRequest struct {
	CommentID string  `json:"-"`
	Reason    string  `json:"reason"`
	Note      string  `json:"note"`
	Caller    *Caller `json:"-"`
}
