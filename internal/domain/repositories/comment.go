package repositories

import (
	"context"

	"tribune/internal/domain/models"
)

// CommentRepository owns comment rows and their parent/child relationships.
//
// AddScore is the only write path for cached_score: it must be a single
// atomic increment (UPDATE ... SET cached_score = cached_score + delta),
// never a read-modify-write, so concurrent votes on the same comment
// cannot lose updates.
type CommentRepository interface {
	// Create inserts a comment. ID and timestamps are filled in on return.
	Create(ctx context.Context, comment *models.Comment) error

	// GetByID retrieves a comment by ID.
	GetByID(ctx context.Context, id string) (*models.Comment, error)

	// UpdateContent rewrites content and the edit markers
	// (is_edited, edited_at, updated_at).
	UpdateContent(ctx context.Context, comment *models.Comment) error

	// SetDeletedByAuthor flips the author soft-delete bit.
	SetDeletedByAuthor(ctx context.Context, id string, deleted bool) error

	// SetModerationRemoved flips the moderator-removal bit.
	SetModerationRemoved(ctx context.Context, id string, removed bool) error

	// ListTopLevel returns one page of approved top-level comments for an
	// article ordered by (cached_score DESC, created_at DESC, id DESC).
	ListTopLevel(ctx context.Context, articleID string, limit, offset int) ([]models.Comment, error)

	// CountTopLevel returns the total number of approved top-level
	// comments for an article.
	CountTopLevel(ctx context.Context, articleID string) (int, error)

	// ListReplies returns one page of approved direct children of a
	// comment, same ordering contract as ListTopLevel.
	ListReplies(ctx context.Context, parentID string, limit, offset int) ([]models.Comment, error)

	// CountReplies returns the total number of approved direct children.
	CountReplies(ctx context.Context, parentID string) (int, error)

	// ListChildrenOf returns all approved direct children of the given
	// parents in one query, ordered like ListReplies. Used by the tree
	// assembler's frontier expansion.
	ListChildrenOf(ctx context.Context, parentIDs []string) ([]models.Comment, error)

	// CountChildrenFor returns direct-child counts keyed by parent ID.
	// Parents with no children are absent from the map.
	CountChildrenFor(ctx context.Context, parentIDs []string) (map[string]int, error)

	// AddScore atomically applies delta to cached_score.
	AddScore(ctx context.Context, id string, delta int) error

	// GetScore reads the current cached_score.
	GetScore(ctx context.Context, id string) (int, error)
}
