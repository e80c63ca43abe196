package accesscontrol

import (
	"context"
	"fmt"

	"sigpeche/internal/access"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store interface {
	AssignRole(ctx context.Context, userID int64, role access.Role) error
	RemoveRole(ctx context.Context, userID int64, role access.Role) error
	GetUserRoles(ctx context.Context, userID int64) ([]access.Role, error)
	UserHasRole(ctx context.Context, userID int64, role access.Role) (bool, error)
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

func (r *Repository) AssignRole(ctx context.Context, userID int64, role access.Role) error {
	query := `
        INSERT INTO user_roles (user_id, role)
        VALUES ($1, $2)
        ON CONFLICT DO NOTHING
    `
	_, err := r.db.Exec(ctx, query, userID, string(role))
	return err
}

func (r *Repository) RemoveRole(ctx context.Context, userID int64, role access.Role) error {
	query := `DELETE FROM user_roles WHERE user_id = $1 AND role = $2`
	result, err := r.db.Exec(ctx, query, userID, string(role))
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("role not found for user_id=%d role=%s", userID, role)
	}
	return nil
}

// GetUserRoles returns the actor's validated role set. Rows carrying labels
// outside the closed enumeration fail the whole fetch: bad data is rejected
// here, at the authentication boundary, not at use sites.
func (r *Repository) GetUserRoles(ctx context.Context, userID int64) ([]access.Role, error) {
	query := `SELECT role FROM user_roles WHERE user_id = $1 ORDER BY assigned_at`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var labels []string
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, err
		}
		labels = append(labels, label)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return access.ParseRoles(labels)
}

func (r *Repository) UserHasRole(ctx context.Context, userID int64, role access.Role) (bool, error) {
	var exists bool
	query := `
        SELECT EXISTS (
            SELECT 1 FROM user_roles
            WHERE user_id = $1 AND role = $2
        )
    `
	err := r.db.QueryRow(ctx, query, userID, string(role)).Scan(&exists)
	return exists, err
}
