package repositories

import (
	"context"

	"tribune/internal/domain/models"
)

// ArticleRepository is the read-only article collaborator.
type ArticleRepository interface {
	GetByID(ctx context.Context, id string) (*models.Article, error)
}
