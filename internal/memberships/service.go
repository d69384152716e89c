package memberships

import (
	"context"

	"github.com/google/uuid"

	"github.com/meridian-hr/meridian-access/internal/access"
)

// RepositoryPort defines data access methods for memberships.
type RepositoryPort interface {
	Role(ctx context.Context, tenantID, userID uuid.UUID) (access.Role, error)
	ListForTenant(ctx context.Context, tenantID uuid.UUID) ([]Membership, error)
}

// Service resolves tenant role memberships.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Role returns the user's role in the tenant, empty when none.
func (s *Service) Role(ctx context.Context, tenantID, userID uuid.UUID) (access.Role, error) {
	return s.repo.Role(ctx, tenantID, userID)
}

// ListForTenant returns all memberships of a tenant.
func (s *Service) ListForTenant(ctx context.Context, tenantID uuid.UUID) ([]Membership, error) {
	return s.repo.ListForTenant(ctx, tenantID)
}
