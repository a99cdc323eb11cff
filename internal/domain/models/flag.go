package models

import (
	"time"
)

// CommentFlag is a user-submitted report against a comment. One row per
// (comment_id, reporter_id); re-flagging updates reason and note in place.
type CommentFlag struct {
	ID         string    `json:"id" db:"id"`
	CommentID  string    `json:"comment_id" db:"comment_id"`
	ReporterID string    `json:"reporter_id" db:"reporter_id"`
	Reason     string    `json:"reason" db:"reason"`
	Note       string    `json:"note" db:"note"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
