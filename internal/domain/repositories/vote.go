package repositories

import (
	"context"

	"tribune/internal/domain/models"
)

// VoteRepository owns the one-row-per-(comment, author) vote ledger.
type VoteRepository interface {
	// Get returns the author's live vote on a comment, or ErrNotFound.
	Get(ctx context.Context, commentID, authorID string) (*models.CommentVote, error)

	// Create inserts a new vote row.
	Create(ctx context.Context, vote *models.CommentVote) error

	// UpdateValue switches an existing vote to the opposite value.
	UpdateValue(ctx context.Context, id string, value int) error

	// Delete removes a vote row.
	Delete(ctx context.Context, id string) error

	// ValuesForComments returns the author's vote values keyed by comment
	// ID for the given comments. Comments the author never voted on are
	// absent from the map.
	ValuesForComments(ctx context.Context, authorID string, commentIDs []string) (map[string]int, error)
}
