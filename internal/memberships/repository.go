package memberships

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-hr/meridian-access/internal/access"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Role returns the user's role within the tenant. Absence of a
// membership is not an error; it returns an empty role, which the
// engine treats as below every minimum.
func (r *Repository) Role(ctx context.Context, tenantID, userID uuid.UUID) (access.Role, error) {
	var role string
	err := r.pool.QueryRow(ctx,
		`SELECT role FROM memberships WHERE tenant_id = $1 AND user_id = $2`,
		tenantID, userID).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return access.Role(role), nil
}

// ListForTenant returns all memberships of a tenant ordered by user.
func (r *Repository) ListForTenant(ctx context.Context, tenantID uuid.UUID) ([]Membership, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT tenant_id, user_id, role, created_at, updated_at
		 FROM memberships WHERE tenant_id = $1 ORDER BY user_id`,
		tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var members []Membership
	for rows.Next() {
		var m Membership
		var role string
		if err := rows.Scan(&m.TenantID, &m.UserID, &role, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		m.Role = access.Role(role)
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return members, nil
}
