package overrides

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/meridian-hr/meridian-access/internal/access"
	"github.com/meridian-hr/meridian-access/internal/shared"
)

// RepositoryPort defines data access methods for overrides.
type RepositoryPort interface {
	ListForUser(ctx context.Context, tenantID, userID uuid.UUID) ([]access.Override, error)
	ListForTenant(ctx context.Context, tenantID uuid.UUID, userID *uuid.UUID, limit, offset int) ([]Override, int, error)
	Upsert(ctx context.Context, o Override) error
	Delete(ctx context.Context, tenantID, userID uuid.UUID, module access.ModuleID, action access.Action) error
}

// RoleLookup resolves a user's role within a tenant.
type RoleLookup interface {
	Role(ctx context.Context, tenantID, userID uuid.UUID) (access.Role, error)
}

// Auditor records override mutations.
type Auditor interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Invalidator drops cached snapshots after a mutation.
type Invalidator interface {
	Invalidate(tenantID, userID uuid.UUID)
}

// Service owns the override lifecycle: upsert, delete-on-nil, and the
// super-admin rejection rule.
type Service struct {
	repo        RepositoryPort
	roles       RoleLookup
	audit       Auditor
	invalidator Invalidator
	logger      *slog.Logger
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, roles RoleLookup, audit Auditor, invalidator Invalidator, logger *slog.Logger) *Service {
	return &Service{repo: repo, roles: roles, audit: audit, invalidator: invalidator, logger: logger}
}

// SetParams describes one override mutation.
type SetParams struct {
	TenantID uuid.UUID
	UserID   uuid.UUID
	Module   access.ModuleID
	Action   access.Action
	// Granted true/false upserts an explicit allow/deny; nil removes
	// the row and reverts the user to the role default.
	Granted *bool
	// ActorID is the admin performing the mutation, for the audit trail.
	ActorID uuid.UUID
}

// Set applies one override mutation. Targeting a super admin is
// rejected before anything is written; the engine treats super admins
// as always allowed and an ignored stored row would only mislead.
func (s *Service) Set(ctx context.Context, p SetParams) error {
	if !p.Module.Valid() {
		return ErrUnknownModule
	}
	if !p.Action.Valid() {
		return ErrUnknownAction
	}

	role, err := s.roles.Role(ctx, p.TenantID, p.UserID)
	if err != nil {
		return err
	}
	if role == access.RoleSuperAdmin {
		return ErrSuperAdminTarget
	}

	auditAction := "override.set"
	if p.Granted == nil {
		auditAction = "override.clear"
		err = s.repo.Delete(ctx, p.TenantID, p.UserID, p.Module, p.Action)
	} else {
		err = s.repo.Upsert(ctx, Override{
			TenantID: p.TenantID,
			UserID:   p.UserID,
			Module:   p.Module,
			Action:   p.Action,
			Granted:  *p.Granted,
		})
	}
	if err != nil {
		return err
	}

	if s.invalidator != nil {
		s.invalidator.Invalidate(p.TenantID, p.UserID)
	}
	s.recordAudit(ctx, p, auditAction)
	return nil
}

// ListForTenant returns paginated override rows for admin screens.
func (s *Service) ListForTenant(ctx context.Context, tenantID uuid.UUID, userID *uuid.UUID, page shared.Pagination) ([]Override, shared.Pagination, error) {
	rows, total, err := s.repo.ListForTenant(ctx, tenantID, userID, page.PerPage, page.Offset())
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return rows, shared.NewPagination(page.Page, page.PerPage, total), nil
}

// ListForUser returns the raw override rows feeding a user's snapshot.
func (s *Service) ListForUser(ctx context.Context, tenantID, userID uuid.UUID) ([]access.Override, error) {
	return s.repo.ListForUser(ctx, tenantID, userID)
}

func (s *Service) recordAudit(ctx context.Context, p SetParams, action string) {
	if s.audit == nil {
		return
	}
	meta := map[string]any{
		"module": string(p.Module),
		"action": string(p.Action),
	}
	if p.Granted != nil {
		meta["granted"] = *p.Granted
	}
	err := s.audit.Record(ctx, shared.AuditLog{
		TenantID: p.TenantID,
		ActorID:  p.ActorID,
		Action:   action,
		Entity:   "permission_override",
		EntityID: p.UserID.String(),
		Meta:     meta,
	})
	if err != nil && s.logger != nil {
		s.logger.Warn("audit override mutation", slog.Any("error", err))
	}
}
