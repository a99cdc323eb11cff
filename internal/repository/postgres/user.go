package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"tribune/internal/domain"
	"tribune/internal/domain/models"
	"tribune/internal/domain/repositories"
)

// PostgresUserRepository implements the UserRepository interface
type PostgresUserRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewUserRepository creates a new user repository
func NewUserRepository(config *RepositoryConfig) repositories.UserRepository {
	return &PostgresUserRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// GetByID retrieves a user by ID
func (r *PostgresUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := fmt.Sprintf(`
		SELECT id, username, email, is_staff
		FROM %s
		WHERE id = $1
	`, r.tables.Users)

	var u models.User
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.IsStaff,
	)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &u, nil
}

// GetManyByIDs resolves users in bulk, keyed by ID. Missing IDs are
// silently absent from the map.
func (r *PostgresUserRepository) GetManyByIDs(ctx context.Context, ids []string) (map[string]models.User, error) {
	users := make(map[string]models.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	query := fmt.Sprintf(`
		SELECT id, username, email, is_staff
		FROM %s
		WHERE id = ANY($1)
	`, r.tables.Users)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.IsStaff); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users[u.ID] = u
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return users, nil
}
