package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/plantops/skilltrack/pkg/apperrors"
	"github.com/plantops/skilltrack/pkg/database"
	"github.com/plantops/skilltrack/pkg/models"
)

// UserRepository provides data access for operator accounts.
type UserRepository interface {
	// GetByUsername returns an active user for login.
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// GetByID returns a user including soft-deleted ones, so actor names
	// stay resolvable for audit display.
	GetByID(ctx context.Context, id int64) (*models.User, error)

	// DisplayNamesByIDs resolves short display names for a set of users,
	// including soft-deleted ones.
	DisplayNamesByIDs(ctx context.Context, ids []int64) (map[int64]string, error)
}

type userRepository struct {
	q database.Querier
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *database.DB) UserRepository {
	return &userRepository{q: db.Pool}
}

var _ UserRepository = (*userRepository)(nil)

const userColumns = `id, username, first_name, last_name, role, password_hash, deleted_at`

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 AND deleted_at IS NULL`
	return scanUser(r.q.QueryRow(ctx, query, username))
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.q.QueryRow(ctx, query, id))
}

func (r *userRepository) DisplayNamesByIDs(ctx context.Context, ids []int64) (map[int64]string, error) {
	names := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	rows, err := r.q.Query(ctx, `SELECT `+userColumns+` FROM users WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		names[user.ID] = user.DisplayName()
	}
	return names, rows.Err()
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.FirstName, &u.LastName, &u.Role, &u.PasswordHash, &u.DeletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &u, nil
}
