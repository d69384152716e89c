package overrides

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-hr/meridian-access/internal/access"
	"github.com/meridian-hr/meridian-access/internal/shared"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const foreignKeyViolation = "23503"

// ListForUser returns every override row of one user in a tenant, as
// consumed by the snapshot builder.
func (r *Repository) ListForUser(ctx context.Context, tenantID, userID uuid.UUID) ([]access.Override, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT user_id, module, action, granted
		 FROM permission_overrides
		 WHERE tenant_id = $1 AND user_id = $2`,
		tenantID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []access.Override
	for rows.Next() {
		var (
			id             uuid.UUID
			module, action string
			granted        bool
		)
		if err := rows.Scan(&id, &module, &action, &granted); err != nil {
			return nil, err
		}
		out = append(out, access.Override{
			UserID:  id.String(),
			Module:  access.ModuleID(module),
			Action:  access.Action(action),
			Granted: granted,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListForTenant returns override rows for admin listings, optionally
// filtered by user, in stable (user, module, action) order, with a total count
// for pagination.
func (r *Repository) ListForTenant(ctx context.Context, tenantID uuid.UUID, userID *uuid.UUID, limit, offset int) ([]Override, int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM permission_overrides
		 WHERE tenant_id = $1 AND ($2::uuid IS NULL OR user_id = $2)`,
		tenantID, userID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT tenant_id, user_id, module, action, granted, created_at, updated_at
		 FROM permission_overrides
		 WHERE tenant_id = $1 AND ($2::uuid IS NULL OR user_id = $2)
		 ORDER BY user_id, module, action
		 LIMIT $3 OFFSET $4`,
		tenantID, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var out []Override
	for rows.Next() {
		var (
			o              Override
			module, action string
		)
		if err := rows.Scan(&o.TenantID, &o.UserID, &module, &action, &o.Granted, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, 0, err
		}
		o.Module = access.ModuleID(module)
		o.Action = access.Action(action)
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Upsert writes the override row. A second call with the same key
// replaces the previous grant rather than duplicating it.
func (r *Repository) Upsert(ctx context.Context, o Override) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO permission_overrides (tenant_id, user_id, module, action, granted, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		 ON CONFLICT (tenant_id, user_id, module, action)
		 DO UPDATE SET granted = EXCLUDED.granted, updated_at = NOW()`,
		o.TenantID, o.UserID, string(o.Module), string(o.Action), o.Granted)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return shared.ErrNotFound
		}
		return err
	}
	return nil
}

// Delete removes the override row for the key, reverting the user to
// the role default. Deleting a row that does not exist is not an error.
func (r *Repository) Delete(ctx context.Context, tenantID, userID uuid.UUID, module access.ModuleID, action access.Action) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM permission_overrides
		 WHERE tenant_id = $1 AND user_id = $2 AND module = $3 AND action = $4`,
		tenantID, userID, string(module), string(action))
	return err
}
