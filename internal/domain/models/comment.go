package models

import (
	"time"
)

// Tombstones substituted for content by the visibility overlay. The stored
// content is never touched; deletion and moderation are presentation-time
// transformations.
const (
	TombstoneDeleted = "[deleted]"
	TombstoneRemoved = "[removed by moderator]"
)

// Comment is a single node in an article's discussion tree.
//
// TrueDepth is exact and unbounded: it always equals the parent's depth
// plus one, no matter how far past any display cap the thread nests.
// CachedScore is the denormalized sum of live vote values and is only ever
// mutated through the vote ledger's atomic delta protocol.
type Comment struct {
	ID        string     `json:"id" db:"id"`
	ArticleID string     `json:"article_id" db:"article_id"`
	AuthorID  string     `json:"author_id" db:"author_id"`
	ParentID  *string    `json:"parent_id" db:"parent_id"` // NULL = top-level
	Content   string     `json:"-" db:"content"`           // exposed only through the overlay
	TrueDepth int        `json:"true_depth" db:"true_depth"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	EditedAt  *time.Time `json:"edited_at" db:"edited_at"`
	IsEdited  bool       `json:"is_edited" db:"is_edited"`

	// Independent visibility bits. A comment can be moderator-removed AND
	// author-deleted at the same time; the overlay composes them with a
	// fixed precedence instead of collapsing them into one status enum.
	IsRemovedByModerator bool `json:"is_removed_by_moderator" db:"is_removed_by_moderator"`
	IsDeletedByAuthor    bool `json:"is_deleted_by_author" db:"is_deleted_by_author"`
	IsApproved           bool `json:"is_approved" db:"is_approved"`

	CachedScore int `json:"cached_score" db:"cached_score"`
}

// IsTopLevel reports whether the comment sits at the root of its thread.
func (c *Comment) IsTopLevel() bool {
	return c.ParentID == nil
}

// VisibleContent applies the tombstone precedence: author deletion wins
// over moderator removal, both win over stored content.
func (c *Comment) VisibleContent() string {
	switch {
	case c.IsDeletedByAuthor:
		return TombstoneDeleted
	case c.IsRemovedByModerator:
		return TombstoneRemoved
	default:
		return c.Content
	}
}
