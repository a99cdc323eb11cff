package repositories

import (
	"context"

	"tribune/internal/domain/models"
)

// UserRepository is the read-only identity collaborator.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)

	// GetManyByIDs resolves usernames in bulk for serialization
	// (comment authors and parent_username lookups).
	GetManyByIDs(ctx context.Context, ids []string) (map[string]models.User, error)
}
