package services

import (
	"context"
)

// VoteService is the vote ledger: it maintains the one-vote-per-user
// invariant and keeps cached_score exactly consistent with the sum of
// live vote values under concurrent voting.
type VoteService interface {
	// CastVote records value (+1/-1) for the user. Casting the same value
	// again is a no-op; casting the opposite value switches the vote and
	// moves the score by 2*value.
	CastVote(ctx context.Context, commentID, userID string, value int) (*VoteResult, error)

	// RemoveVote deletes the user's vote, if any, and reverses its score
	// contribution. Removing a nonexistent vote is a no-op.
	RemoveVote(ctx context.Context, commentID, userID string) (*VoteResult, error)
}

// VoteResult is the freshly read score and the caller's resulting vote
// value (0 after removal).
type VoteResult struct {
	Score    int `json:"score"`
	UserVote int `json:"user_vote"`
}
