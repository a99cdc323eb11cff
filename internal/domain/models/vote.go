package models

import (
	"time"
)

// Vote values. Zero is never stored: "no opinion" is the absence of a row.
const (
	VoteUp   = 1
	VoteDown = -1
)

// CommentVote is one user's live vote on one comment. The
// (comment_id, author_id) pair is unique; casting again with the opposite
// value updates the row in place, removing the vote deletes it.
type CommentVote struct {
	ID        string    `json:"id" db:"id"`
	CommentID string    `json:"comment_id" db:"comment_id"`
	AuthorID  string    `json:"author_id" db:"author_id"`
	Value     int       `json:"value" db:"value"` // +1 or -1
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ValidVoteValue reports whether v is one of the two storable vote values.
func ValidVoteValue(v int) bool {
	return v == VoteUp || v == VoteDown
}
