package services

import (
	"context"
	"time"
)

// ThreadService assembles viewer-facing comment trees: paginated top-level
// listings with a bounded descendant prefetch, and paginated direct-reply
// listings for threads deeper than the prefetch reached.
type ThreadService interface {
	ListArticleComments(ctx context.Context, articleID string, page int, viewer *Caller) (*CommentPage, error)
	ListReplies(ctx context.Context, parentID string, page int, viewer *Caller) (*CommentPage, error)
}

// CommentPage is one page of serialized comments plus pagination metadata.
type CommentPage struct {
	Count    int            `json:"count"`
	NumPages int            `json:"num_pages"`
	Page     int            `json:"page"`
	Results  []*CommentNode `json:"results"`
}

// CommentAuthor is the identity attached to a serialized comment.
type CommentAuthor struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// CommentNode is the viewer-visible rendering of one comment. Content has
// the visibility overlay applied; score, the viewer's own vote, and
// reply_count are never tombstoned.
//
// Replies holds only the children the prefetch loaded; ReplyCount is the
// total number of direct children in storage, so clients can detect
// truncated threads and page through the replies endpoint. TrueDepth is
// exact and uncapped; DisplayDepthCap in the page config is advisory,
// and ParentUsername is attached to every non-root node so clients can
// flatten rendering past the cap.
type CommentNode struct {
	ID                   string         `json:"id"`
	ArticleID            string         `json:"article_id"`
	Author               CommentAuthor  `json:"author"`
	ParentID             *string        `json:"parent_id"`
	ParentUsername       string         `json:"parent_username,omitempty"`
	Content              string         `json:"content"`
	TrueDepth            int            `json:"true_depth"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	EditedAt             *time.Time     `json:"edited_at"`
	IsEdited             bool           `json:"is_edited"`
	IsRemovedByModerator bool           `json:"is_removed_by_moderator"`
	IsDeletedByAuthor    bool           `json:"is_deleted_by_author"`
	IsApproved           bool           `json:"is_approved"`
	Score                int            `json:"score"`
	UserVote             int            `json:"user_vote"`
	CanEdit              bool           `json:"can_edit"`
	CanDelete            bool           `json:"can_delete"`
	CanModerate          bool           `json:"can_moderate"`
	Replies              []*CommentNode `json:"replies"`
	ReplyCount           int            `json:"reply_count"`
}
