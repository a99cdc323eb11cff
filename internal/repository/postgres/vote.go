package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"tribune/internal/domain"
	"tribune/internal/domain/models"
	"tribune/internal/domain/repositories"
)

// PostgresVoteRepository implements the VoteRepository interface
type PostgresVoteRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewVoteRepository creates a new vote repository
func NewVoteRepository(config *RepositoryConfig) repositories.VoteRepository {
	return &PostgresVoteRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Get returns the author's live vote on a comment
func (r *PostgresVoteRepository) Get(ctx context.Context, commentID, authorID string) (*models.CommentVote, error) {
	query := fmt.Sprintf(`
		SELECT id, comment_id, author_id, value, created_at, updated_at
		FROM %s
		WHERE comment_id = $1 AND author_id = $2
	`, r.tables.Votes)

	var v models.CommentVote
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, commentID, authorID).Scan(
		&v.ID,
		&v.CommentID,
		&v.AuthorID,
		&v.Value,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("vote on comment %s: %w", commentID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get vote: %w", err)
	}

	return &v, nil
}

// Create inserts a new vote row
func (r *PostgresVoteRepository) Create(ctx context.Context, vote *models.CommentVote) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (comment_id, author_id, value)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, r.tables.Votes)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		vote.CommentID,
		vote.AuthorID,
		vote.Value,
	).Scan(&vote.ID, &vote.CreatedAt, &vote.UpdatedAt)
	if err != nil {
		if isPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("vote on comment %s already exists", vote.CommentID),
				ResourceType: "vote",
				ResourceID:   vote.CommentID,
			}
		}
		if isPgForeignKeyError(err) {
			return fmt.Errorf("comment %s: %w", vote.CommentID, domain.ErrNotFound)
		}
		return fmt.Errorf("create vote: %w", err)
	}

	return nil
}

// UpdateValue switches an existing vote to a new value
func (r *PostgresVoteRepository) UpdateValue(ctx context.Context, id string, value int) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET value = $1, updated_at = NOW()
		WHERE id = $2
	`, r.tables.Votes)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, value, id)
	if err != nil {
		return fmt.Errorf("update vote: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("vote %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// Delete removes a vote row
func (r *PostgresVoteRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Votes)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete vote: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("vote %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ValuesForComments returns the author's vote values keyed by comment ID
func (r *PostgresVoteRepository) ValuesForComments(ctx context.Context, authorID string, commentIDs []string) (map[string]int, error) {
	values := make(map[string]int, len(commentIDs))
	if len(commentIDs) == 0 {
		return values, nil
	}

	query := fmt.Sprintf(`
		SELECT comment_id, value
		FROM %s
		WHERE author_id = $1 AND comment_id = ANY($2)
	`, r.tables.Votes)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, authorID, commentIDs)
	if err != nil {
		return nil, fmt.Errorf("list votes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var commentID string
		var value int
		if err := rows.Scan(&commentID, &value); err != nil {
			return nil, fmt.Errorf("scan vote: %w", err)
		}
		values[commentID] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list votes: %w", err)
	}

	return values, nil
}
