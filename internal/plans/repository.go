package plans

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

// PlanForTenant resolves the tenant's current plan entitlement through
// its subscription. A tenant without a subscription has no plan; the
// engine denies every module for a nil plan.
func (r *Repository) PlanForTenant(ctx context.Context, tenantID uuid.UUID) (*access.Plan, error) {
	var row planRow
	err := r.pool.QueryRow(ctx,
		`SELECT p.code, p.tier, p.all_modules, p.modules
		 FROM subscriptions s
		 JOIN plans p ON p.code = s.plan_code
		 WHERE s.tenant_id = $1`,
		tenantID).Scan(&row.Code, &row.Tier, &row.All, &row.Modules)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return row.toPlan(), nil
}
