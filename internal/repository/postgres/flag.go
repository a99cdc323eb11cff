package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"tribune/internal/domain"
	"tribune/internal/domain/models"
	"tribune/internal/domain/repositories"
)

// PostgresFlagRepository implements the FlagRepository interface
type PostgresFlagRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewFlagRepository creates a new flag repository
func NewFlagRepository(config *RepositoryConfig) repositories.FlagRepository {
	return &PostgresFlagRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Upsert inserts a flag, or updates reason and note when the reporter
// already flagged the comment.
func (r *PostgresFlagRepository) Upsert(ctx context.Context, flag *models.CommentFlag) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (comment_id, reporter_id, reason, note)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (comment_id, reporter_id)
		DO UPDATE SET reason = EXCLUDED.reason, note = EXCLUDED.note, updated_at = NOW()
		RETURNING id, created_at, updated_at
	`, r.tables.Flags)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		flag.CommentID,
		flag.ReporterID,
		flag.Reason,
		flag.Note,
	).Scan(&flag.ID, &flag.CreatedAt, &flag.UpdatedAt)
	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("comment %s: %w", flag.CommentID, domain.ErrNotFound)
		}
		return fmt.Errorf("upsert flag: %w", err)
	}

	return nil
}
