package tenantstate

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-hr/meridian-access/internal/platform/db"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// BillingState loads the tenant's subscription flags. A tenant without
// a subscription row is reported as canceled, which freezes writes.
func (r *Repository) BillingState(ctx context.Context, tenantID uuid.UUID) (BillingState, error) {
	var state BillingState
	err := r.pool.QueryRow(ctx,
		`SELECT status, grace_until, frozen FROM subscriptions WHERE tenant_id = $1`,
		tenantID).Scan(&state.Status, &state.GraceUntil, &state.Frozen)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return BillingState{Status: StatusCanceled, Frozen: true}, nil
		}
		return BillingState{}, err
	}
	return state, nil
}

// SweepFreeze reconciles the frozen flag with billing status in one
// transaction: past-due subscriptions beyond grace (and canceled ones)
// freeze, reactivated ones thaw. Returns the tenants transitioned in
// each direction.
func (r *Repository) SweepFreeze(ctx context.Context) (frozen, unfrozen int64, err error) {
	err = db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE subscriptions
			 SET frozen = TRUE, updated_at = NOW()
			 WHERE NOT frozen
			   AND (status = $1 AND (grace_until IS NULL OR grace_until < NOW())
			        OR status = $2)`,
			StatusPastDue, StatusCanceled)
		if err != nil {
			return err
		}
		frozen = tag.RowsAffected()

		tag, err = tx.Exec(ctx,
			`UPDATE subscriptions
			 SET frozen = FALSE, updated_at = NOW()
			 WHERE frozen AND status IN ($1, $2)`,
			StatusActive, StatusTrialing)
		if err != nil {
			return err
		}
		unfrozen = tag.RowsAffected()
		return nil
	})
	return frozen, unfrozen, err
}
