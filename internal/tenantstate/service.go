package tenantstate

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/meridian-hr/meridian-access/internal/access"
)

// RepositoryPort defines data access methods for tenant write state.
type RepositoryPort interface {
	BillingState(ctx context.Context, tenantID uuid.UUID) (BillingState, error)
	SweepFreeze(ctx context.Context) (frozen, unfrozen int64, err error)
}

// Service derives the per-tenant write state consumed by the decision
// engine and runs the freeze sweep for the worker.
type Service struct {
	repo   RepositoryPort
	logger *slog.Logger
	now    func() time.Time
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// StateFor returns the tenant's write state. The frozen flag combines
// the sweep-materialized column with a live derivation so a decision
// between sweeps still fails closed; impersonation comes from the
// acting session, never from the database.
func (s *Service) StateFor(ctx context.Context, tenantID uuid.UUID, impersonating bool) (access.TenantWriteState, error) {
	billing, err := s.repo.BillingState(ctx, tenantID)
	if err != nil {
		return access.TenantWriteState{}, err
	}
	return access.TenantWriteState{
		Frozen:        billing.Frozen || FrozenAt(billing, s.now()),
		Impersonating: impersonating,
	}, nil
}

// SweepResult summarizes one freeze sweep run.
type SweepResult struct {
	Frozen   int64
	Unfrozen int64
}

// Sweep reconciles the frozen flag with billing status in both
// directions and logs the transitions.
func (s *Service) Sweep(ctx context.Context) (SweepResult, error) {
	frozen, unfrozen, err := s.repo.SweepFreeze(ctx)
	if err != nil {
		return SweepResult{}, err
	}
	if s.logger != nil && (frozen > 0 || unfrozen > 0) {
		s.logger.Info("freeze sweep",
			slog.Int64("frozen", frozen),
			slog.Int64("unfrozen", unfrozen))
	}
	return SweepResult{Frozen: frozen, Unfrozen: unfrozen}, nil
}
