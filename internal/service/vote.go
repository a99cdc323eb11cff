package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"tribune/internal/domain"
	"tribune/internal/domain/models"
	"tribune/internal/domain/repositories"
	"tribune/internal/domain/services"
)

type voteService struct {
	commentRepo repositories.CommentRepository
	voteRepo    repositories.VoteRepository
	txManager   repositories.TransactionManager
	logger      *slog.Logger
}

// NewVoteService creates a new vote service
func NewVoteService(
	commentRepo repositories.CommentRepository,
	voteRepo repositories.VoteRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.VoteService {
	return &voteService{
		commentRepo: commentRepo,
		voteRepo:    voteRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// CastVote records value for the user and moves cached_score by the
// resulting delta: value on first vote, 2*value on a switch, 0 on a
// repeat. The vote-row mutation and the score increment share one
// transaction, and the increment itself is a single atomic UPDATE, so
// concurrent votes from different users never lose score updates.
func (s *voteService) CastVote(ctx context.Context, commentID, userID string, value int) (*services.VoteResult, error) {
	if !models.ValidVoteValue(value) {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("vote value must be -1 or +1, got %d", value)}
	}

	var resulting int
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		existing, err := s.voteRepo.Get(txCtx, commentID, userID)
		switch {
		case err == nil && existing.Value == value:
			// Idempotent repeat vote: no delta.
			resulting = value
			return nil

		case err == nil:
			// Switch: delta is twice the new value.
			if err := s.voteRepo.UpdateValue(txCtx, existing.ID, value); err != nil {
				return err
			}
			resulting = value
			return s.commentRepo.AddScore(txCtx, commentID, 2*value)

		case errors.Is(err, domain.ErrNotFound):
			vote := &models.CommentVote{CommentID: commentID, AuthorID: userID, Value: value}
			if err := s.voteRepo.Create(txCtx, vote); err != nil {
				return err
			}
			resulting = value
			return s.commentRepo.AddScore(txCtx, commentID, value)

		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}

	score, err := s.commentRepo.GetScore(ctx, commentID)
	if err != nil {
		return nil, err
	}

	return &services.VoteResult{Score: score, UserVote: resulting}, nil
}

// RemoveVote deletes the user's vote and reverses its score contribution.
// Removing a vote that does not exist returns the current score unchanged.
func (s *voteService) RemoveVote(ctx context.Context, commentID, userID string) (*services.VoteResult, error) {
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		existing, err := s.voteRepo.Get(txCtx, commentID, userID)
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := s.voteRepo.Delete(txCtx, existing.ID); err != nil {
			return err
		}
		return s.commentRepo.AddScore(txCtx, commentID, -existing.Value)
	})
	if err != nil {
		return nil, err
	}

	score, err := s.commentRepo.GetScore(ctx, commentID)
	if err != nil {
		return nil, err
	}

	return &services.VoteResult{Score: score, UserVote: 0}, nil
}
