package plans

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/meridian-hr/meridian-access/internal/access"
)

type stubRepo struct {
	plan  *access.Plan
	calls int
}

func (s *stubRepo) PlanForTenant(ctx context.Context, tenantID uuid.UUID) (*access.Plan, error) {
	s.calls++
	return s.plan, nil
}

func newCachedService(t *testing.T, repo *stubRepo) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewService(repo, NewCache(client, time.Minute), nil)
}

func TestPlanForTenantCacheAside(t *testing.T) {
	repo := &stubRepo{plan: &access.Plan{Code: "growth", Tier: access.TierGrowth, Modules: []access.ModuleID{access.ModuleLeave, access.ModulePayroll}}}
	svc := newCachedService(t, repo)
	tenantID := uuid.New()

	first, err := svc.PlanForTenant(context.Background(), tenantID)
	require.NoError(t, err)
	require.True(t, first.HasModule(access.ModulePayroll))

	second, err := svc.PlanForTenant(context.Background(), tenantID)
	require.NoError(t, err)
	require.Equal(t, first.Code, second.Code)
	require.Equal(t, 1, repo.calls, "second read should be served from cache")
}

func TestPlanForTenantNegativeCache(t *testing.T) {
	repo := &stubRepo{plan: nil}
	svc := newCachedService(t, repo)
	tenantID := uuid.New()

	plan, err := svc.PlanForTenant(context.Background(), tenantID)
	require.NoError(t, err)
	require.Nil(t, plan)

	plan, err = svc.PlanForTenant(context.Background(), tenantID)
	require.NoError(t, err)
	require.Nil(t, plan)
	require.Equal(t, 1, repo.calls, "missing subscription should be cached too")
}

func TestInvalidateForcesReload(t *testing.T) {
	repo := &stubRepo{plan: &access.Plan{Code: "starter", Tier: access.TierStarter}}
	svc := newCachedService(t, repo)
	tenantID := uuid.New()

	_, err := svc.PlanForTenant(context.Background(), tenantID)
	require.NoError(t, err)

	svc.Invalidate(context.Background(), tenantID)
	repo.plan = &access.Plan{Code: "scale", Tier: access.TierScale, All: true}

	plan, err := svc.PlanForTenant(context.Background(), tenantID)
	require.NoError(t, err)
	require.True(t, plan.All)
	require.Equal(t, 2, repo.calls)
}
