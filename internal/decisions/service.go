// Package decisions assembles access snapshots from the membership,
// plan, override and tenant-state providers and exposes the decision
// engine to HTTP callers.
package decisions

import (
	"context"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/meridian-hr/meridian-access/internal/access"
	"github.com/meridian-hr/meridian-access/internal/shared"
)

// RoleProvider resolves tenant role memberships.
type RoleProvider interface {
	Role(ctx context.Context, tenantID, userID uuid.UUID) (access.Role, error)
}

// PlanProvider resolves tenant plan entitlements.
type PlanProvider interface {
	PlanForTenant(ctx context.Context, tenantID uuid.UUID) (*access.Plan, error)
}

// OverrideProvider loads a user's override rows.
type OverrideProvider interface {
	ListForUser(ctx context.Context, tenantID, userID uuid.UUID) ([]access.Override, error)
}

// StateProvider derives the tenant write state.
type StateProvider interface {
	StateFor(ctx context.Context, tenantID uuid.UUID, impersonating bool) (access.TenantWriteState, error)
}

// snapshotEntry is the cacheable part of a snapshot. Impersonation is
// session-scoped and merged per request, so it never enters the cache.
type snapshotEntry struct {
	role      access.Role
	plan      *access.Plan
	overrides access.OverrideSet
	frozen    bool
}

const snapshotCacheSize = 4096

// SnapshotBuilder assembles one internally consistent snapshot per
// decision. Snapshots are cached in-process for a short TTL and
// concurrent builds for the same principal are collapsed; decisions
// themselves are always computed fresh.
type SnapshotBuilder struct {
	roles     RoleProvider
	plans     PlanProvider
	overrides OverrideProvider
	state     StateProvider

	cache *lru.LRU[string, snapshotEntry]
	group singleflight.Group
}

// NewSnapshotBuilder constructs a SnapshotBuilder with the given cache TTL.
func NewSnapshotBuilder(roles RoleProvider, plans PlanProvider, overrides OverrideProvider, state StateProvider, ttl time.Duration) *SnapshotBuilder {
	return &SnapshotBuilder{
		roles:     roles,
		plans:     plans,
		overrides: overrides,
		state:     state,
		cache:     lru.NewLRU[string, snapshotEntry](snapshotCacheSize, nil, ttl),
	}
}

func snapshotKey(tenantID, userID uuid.UUID) string {
	return tenantID.String() + ":" + userID.String()
}

// Build returns the snapshot for the principal, fetching and caching
// the provider state as needed.
func (b *SnapshotBuilder) Build(ctx context.Context, principal *shared.Principal) (access.Snapshot, error) {
	key := snapshotKey(principal.TenantID, principal.UserID)

	entry, ok := b.cache.Get(key)
	if !ok {
		built, err, _ := b.group.Do(key, func() (any, error) {
			return b.fetch(ctx, principal.TenantID, principal.UserID)
		})
		if err != nil {
			return access.Snapshot{}, err
		}
		entry = built.(snapshotEntry)
		b.cache.Add(key, entry)
	}

	return access.Snapshot{
		UserID:    principal.UserID.String(),
		Role:      entry.role,
		Plan:      entry.plan,
		Overrides: entry.overrides,
		WriteState: access.TenantWriteState{
			Frozen:        entry.frozen,
			Impersonating: principal.Impersonating,
		},
	}, nil
}

// Invalidate drops the cached snapshot for one principal. Override
// mutations call this so the next check sees the new grant.
func (b *SnapshotBuilder) Invalidate(tenantID, userID uuid.UUID) {
	b.cache.Remove(snapshotKey(tenantID, userID))
}

func (b *SnapshotBuilder) fetch(ctx context.Context, tenantID, userID uuid.UUID) (snapshotEntry, error) {
	role, err := b.roles.Role(ctx, tenantID, userID)
	if err != nil {
		return snapshotEntry{}, err
	}
	plan, err := b.plans.PlanForTenant(ctx, tenantID)
	if err != nil {
		return snapshotEntry{}, err
	}
	rows, err := b.overrides.ListForUser(ctx, tenantID, userID)
	if err != nil {
		return snapshotEntry{}, err
	}
	state, err := b.state.StateFor(ctx, tenantID, false)
	if err != nil {
		return snapshotEntry{}, err
	}
	return snapshotEntry{
		role:      role,
		plan:      plan,
		overrides: access.NewOverrideSet(rows),
		frozen:    state.Frozen,
	}, nil
}
