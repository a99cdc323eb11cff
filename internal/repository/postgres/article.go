package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"tribune/internal/domain"
	"tribune/internal/domain/models"
	"tribune/internal/domain/repositories"
)

// PostgresArticleRepository implements the ArticleRepository interface
type PostgresArticleRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewArticleRepository creates a new article repository
func NewArticleRepository(config *RepositoryConfig) repositories.ArticleRepository {
	return &PostgresArticleRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// GetByID retrieves an article by ID
func (r *PostgresArticleRepository) GetByID(ctx context.Context, id string) (*models.Article, error) {
	query := fmt.Sprintf(`
		SELECT id, title, url, source, published_at
		FROM %s
		WHERE id = $1
	`, r.tables.Articles)

	var a models.Article
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id).Scan(
		&a.ID,
		&a.Title,
		&a.URL,
		&a.Source,
		&a.PublishedAt,
	)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("article %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get article: %w", err)
	}

	return &a, nil
}
