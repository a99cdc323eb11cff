package repositories

import (
	"context"

	"tribune/internal/domain/models"
)

// FlagRepository owns user reports. Upsert keeps the
// (comment_id, reporter_id) uniqueness invariant: re-flagging updates
// reason and note instead of inserting a duplicate.
type FlagRepository interface {
	Upsert(ctx context.Context, flag *models.CommentFlag) error
}
