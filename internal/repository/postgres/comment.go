package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"tribune/internal/domain"
	"tribune/internal/domain/models"
	"tribune/internal/domain/repositories"
)

// commentColumns is the select list shared by every comment read.
const commentColumns = `id, article_id, author_id, parent_id, content, true_depth,
		created_at, updated_at, edited_at, is_edited,
		is_removed_by_moderator, is_deleted_by_author, is_approved, cached_score`

// listingOrder is the composite sort key for listings. The id tie-break
// makes the order total, so pagination stays stable when scores and
// timestamps collide.
const listingOrder = `cached_score DESC, created_at DESC, id DESC`

// PostgresCommentRepository implements the CommentRepository interface
type PostgresCommentRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(config *RepositoryConfig) repositories.CommentRepository {
	return &PostgresCommentRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a comment
func (r *PostgresCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (article_id, author_id, parent_id, content, true_depth)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at, is_edited,
			is_removed_by_moderator, is_deleted_by_author, is_approved, cached_score
	`, r.tables.Comments)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		comment.ArticleID,
		comment.AuthorID,
		comment.ParentID,
		comment.Content,
		comment.TrueDepth,
	).Scan(
		&comment.ID,
		&comment.CreatedAt,
		&comment.UpdatedAt,
		&comment.IsEdited,
		&comment.IsRemovedByModerator,
		&comment.IsDeletedByAuthor,
		&comment.IsApproved,
		&comment.CachedScore,
	)
	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("comment references missing row: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("create comment: %w", err)
	}

	return nil
}

// GetByID retrieves a comment by ID
func (r *PostgresCommentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
	`, commentColumns, r.tables.Comments)

	var c models.Comment
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.ArticleID,
		&c.AuthorID,
		&c.ParentID,
		&c.Content,
		&c.TrueDepth,
		&c.CreatedAt,
		&c.UpdatedAt,
		&c.EditedAt,
		&c.IsEdited,
		&c.IsRemovedByModerator,
		&c.IsDeletedByAuthor,
		&c.IsApproved,
		&c.CachedScore,
	)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("comment %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get comment: %w", err)
	}

	return &c, nil
}

// UpdateContent rewrites content and the edit markers
func (r *PostgresCommentRepository) UpdateContent(ctx context.Context, comment *models.Comment) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET content = $1, is_edited = TRUE, edited_at = NOW(), updated_at = NOW()
		WHERE id = $2
		RETURNING updated_at, edited_at, is_edited
	`, r.tables.Comments)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, comment.Content, comment.ID).Scan(
		&comment.UpdatedAt,
		&comment.EditedAt,
		&comment.IsEdited,
	)
	if err != nil {
		if isPgNoRowsError(err) {
			return fmt.Errorf("comment %s: %w", comment.ID, domain.ErrNotFound)
		}
		return fmt.Errorf("update comment content: %w", err)
	}

	return nil
}

// SetDeletedByAuthor flips the author soft-delete bit
func (r *PostgresCommentRepository) SetDeletedByAuthor(ctx context.Context, id string, deleted bool) error {
	return r.setFlag(ctx, id, "is_deleted_by_author", deleted)
}

// SetModerationRemoved flips the moderator-removal bit
func (r *PostgresCommentRepository) SetModerationRemoved(ctx context.Context, id string, removed bool) error {
	return r.setFlag(ctx, id, "is_removed_by_moderator", removed)
}

func (r *PostgresCommentRepository) setFlag(ctx context.Context, id, column string, value bool) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $1, updated_at = NOW()
		WHERE id = $2
	`, r.tables.Comments, column)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, value, id)
	if err != nil {
		return fmt.Errorf("set %s: %w", column, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("comment %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ListTopLevel returns one page of approved top-level comments
func (r *PostgresCommentRepository) ListTopLevel(ctx context.Context, articleID string, limit, offset int) ([]models.Comment, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE article_id = $1 AND parent_id IS NULL AND is_approved
		ORDER BY %s
		LIMIT $2 OFFSET $3
	`, commentColumns, r.tables.Comments, listingOrder)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, articleID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list top-level comments: %w", err)
	}
	defer rows.Close()

	return scanComments(rows)
}

// CountTopLevel returns the total number of approved top-level comments
func (r *PostgresCommentRepository) CountTopLevel(ctx context.Context, articleID string) (int, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM %s
		WHERE article_id = $1 AND parent_id IS NULL AND is_approved
	`, r.tables.Comments)

	var count int
	if err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, articleID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count top-level comments: %w", err)
	}

	return count, nil
}

// ListReplies returns one page of approved direct children
func (r *PostgresCommentRepository) ListReplies(ctx context.Context, parentID string, limit, offset int) ([]models.Comment, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE parent_id = $1 AND is_approved
		ORDER BY %s
		LIMIT $2 OFFSET $3
	`, commentColumns, r.tables.Comments, listingOrder)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, parentID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list replies: %w", err)
	}
	defer rows.Close()

	return scanComments(rows)
}

// CountReplies returns the total number of approved direct children
func (r *PostgresCommentRepository) CountReplies(ctx context.Context, parentID string) (int, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM %s
		WHERE parent_id = $1 AND is_approved
	`, r.tables.Comments)

	var count int
	if err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, parentID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count replies: %w", err)
	}

	return count, nil
}

// ListChildrenOf returns all approved direct children of the given parents
func (r *PostgresCommentRepository) ListChildrenOf(ctx context.Context, parentIDs []string) ([]models.Comment, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE parent_id = ANY($1) AND is_approved
		ORDER BY %s
	`, commentColumns, r.tables.Comments, listingOrder)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, parentIDs)
	if err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}
	defer rows.Close()

	return scanComments(rows)
}

// CountChildrenFor returns direct-child counts keyed by parent ID
func (r *PostgresCommentRepository) CountChildrenFor(ctx context.Context, parentIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(parentIDs))
	if len(parentIDs) == 0 {
		return counts, nil
	}

	query := fmt.Sprintf(`
		SELECT parent_id, COUNT(*)
		FROM %s
		WHERE parent_id = ANY($1) AND is_approved
		GROUP BY parent_id
	`, r.tables.Comments)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, parentIDs)
	if err != nil {
		return nil, fmt.Errorf("count children: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var parentID string
		var count int
		if err := rows.Scan(&parentID, &count); err != nil {
			return nil, fmt.Errorf("scan child count: %w", err)
		}
		counts[parentID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("count children: %w", err)
	}

	return counts, nil
}

// AddScore atomically applies delta to cached_score. Single increment
// statement: the score is never read before writing, so concurrent votes
// on the same comment cannot lose updates.
func (r *PostgresCommentRepository) AddScore(ctx context.Context, id string, delta int) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET cached_score = cached_score + $1
		WHERE id = $2
	`, r.tables.Comments)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, delta, id)
	if err != nil {
		return fmt.Errorf("add score: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("comment %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// GetScore reads the current cached_score
func (r *PostgresCommentRepository) GetScore(ctx context.Context, id string) (int, error) {
	query := fmt.Sprintf(`
		SELECT cached_score
		FROM %s
		WHERE id = $1
	`, r.tables.Comments)

	var score int
	if err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id).Scan(&score); err != nil {
		if isPgNoRowsError(err) {
			return 0, fmt.Errorf("comment %s: %w", id, domain.ErrNotFound)
		}
		return 0, fmt.Errorf("get score: %w", err)
	}

	return score, nil
}

func scanComments(rows pgx.Rows) ([]models.Comment, error) {
	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(
			&c.ID,
			&c.ArticleID,
			&c.AuthorID,
			&c.ParentID,
			&c.Content,
			&c.TrueDepth,
			&c.CreatedAt,
			&c.UpdatedAt,
			&c.EditedAt,
			&c.IsEdited,
			&c.IsRemovedByModerator,
			&c.IsDeletedByAuthor,
			&c.IsApproved,
			&c.CachedScore,
		); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}

	return comments, nil
}
