package plans

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/meridian-hr/meridian-access/internal/access"
)

// RepositoryPort defines data access methods for plans.
type RepositoryPort interface {
	PlanForTenant(ctx context.Context, tenantID uuid.UUID) (*access.Plan, error)
}

// Service resolves tenant plan entitlements with cache-aside reads.
type Service struct {
	repo   RepositoryPort
	cache  *Cache
	logger *slog.Logger
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, cache *Cache, logger *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, logger: logger}
}

// PlanForTenant returns the tenant's current plan, nil when the tenant
// has no subscription. Cache failures fall through to the repository;
// a stale read is acceptable, a failed check is not.
func (s *Service) PlanForTenant(ctx context.Context, tenantID uuid.UUID) (*access.Plan, error) {
	if plan, hit, err := s.cache.Get(ctx, tenantID); err == nil && hit {
		return plan, nil
	} else if err != nil && s.logger != nil {
		s.logger.Warn("plan cache read", slog.Any("error", err))
	}

	plan, err := s.repo.PlanForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, tenantID, plan); err != nil && s.logger != nil {
		s.logger.Warn("plan cache write", slog.Any("error", err))
	}
	return plan, nil
}

// Invalidate drops the cached plan after a billing-side change.
func (s *Service) Invalidate(ctx context.Context, tenantID uuid.UUID) {
	if err := s.cache.Invalidate(ctx, tenantID); err != nil && s.logger != nil {
		s.logger.Warn("plan cache invalidate", slog.Any("error", err))
	}
}
