package overrides

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/meridian-hr/meridian-access/internal/access"
	"github.com/meridian-hr/meridian-access/internal/shared"
)

type memKey struct {
	tenant, user   uuid.UUID
	module, action string
}

type memRepo struct {
	rows map[memKey]bool
}

func newMemRepo() *memRepo {
	return &memRepo{rows: make(map[memKey]bool)}
}

func (m *memRepo) ListForUser(ctx context.Context, tenantID, userID uuid.UUID) ([]access.Override, error) {
	var out []access.Override
	for k, granted := range m.rows {
		if k.tenant == tenantID && k.user == userID {
			out = append(out, access.Override{
				UserID:  k.user.String(),
				Module:  access.ModuleID(k.module),
				Action:  access.Action(k.action),
				Granted: granted,
			})
		}
	}
	return out, nil
}

func (m *memRepo) ListForTenant(ctx context.Context, tenantID uuid.UUID, userID *uuid.UUID, limit, offset int) ([]Override, int, error) {
	var out []Override
	for k, granted := range m.rows {
		if k.tenant != tenantID {
			continue
		}
		if userID != nil && k.user != *userID {
			continue
		}
		out = append(out, Override{
			TenantID: k.tenant,
			UserID:   k.user,
			Module:   access.ModuleID(k.module),
			Action:   access.Action(k.action),
			Granted:  granted,
		})
	}
	return out, len(out), nil
}

func (m *memRepo) Upsert(ctx context.Context, o Override) error {
	m.rows[memKey{tenant: o.TenantID, user: o.UserID, module: string(o.Module), action: string(o.Action)}] = o.Granted
	return nil
}

func (m *memRepo) Delete(ctx context.Context, tenantID, userID uuid.UUID, module access.ModuleID, action access.Action) error {
	delete(m.rows, memKey{tenant: tenantID, user: userID, module: string(module), action: string(action)})
	return nil
}

type stubRoles struct {
	role access.Role
}

func (s stubRoles) Role(ctx context.Context, tenantID, userID uuid.UUID) (access.Role, error) {
	return s.role, nil
}

type recordingAuditor struct {
	logs []shared.AuditLog
}

func (a *recordingAuditor) Record(ctx context.Context, log shared.AuditLog) error {
	a.logs = append(a.logs, log)
	return nil
}

type recordingInvalidator struct {
	calls int
}

func (i *recordingInvalidator) Invalidate(tenantID, userID uuid.UUID) {
	i.calls++
}

func boolPtr(b bool) *bool { return &b }

func TestSetUpsertIdempotent(t *testing.T) {
	repo := newMemRepo()
	audit := &recordingAuditor{}
	inval := &recordingInvalidator{}
	svc := NewService(repo, stubRoles{role: access.RoleEmployee}, audit, inval, nil)

	tenantID, userID, actorID := uuid.New(), uuid.New(), uuid.New()
	params := SetParams{
		TenantID: tenantID,
		UserID:   userID,
		Module:   access.ModulePayroll,
		Action:   access.ActionUpdate,
		Granted:  boolPtr(true),
		ActorID:  actorID,
	}

	require.NoError(t, svc.Set(context.Background(), params))
	require.NoError(t, svc.Set(context.Background(), params))

	rows, err := svc.ListForUser(context.Background(), tenantID, userID)
	require.NoError(t, err)
	require.Len(t, rows, 1, "repeated upsert must not duplicate the row")
	require.True(t, rows[0].Granted)
	require.Len(t, audit.logs, 2)
	require.Equal(t, "override.set", audit.logs[0].Action)
	require.Equal(t, 2, inval.calls)
}

func TestSetNilGrantedClears(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, stubRoles{role: access.RoleEmployee}, nil, nil, nil)

	tenantID, userID := uuid.New(), uuid.New()
	require.NoError(t, svc.Set(context.Background(), SetParams{
		TenantID: tenantID, UserID: userID,
		Module: access.ModulePayroll, Action: access.ActionUpdate,
		Granted: boolPtr(false),
	}))

	require.NoError(t, svc.Set(context.Background(), SetParams{
		TenantID: tenantID, UserID: userID,
		Module: access.ModulePayroll, Action: access.ActionUpdate,
	}))

	rows, err := svc.ListForUser(context.Background(), tenantID, userID)
	require.NoError(t, err)
	require.Empty(t, rows)

	set := access.NewOverrideSet(rows)
	require.Equal(t, access.ResolveRoleDefault, set.Resolve(userID.String(), access.ModulePayroll, access.ActionUpdate))

	// Clearing again is a no-op, not an error.
	require.NoError(t, svc.Set(context.Background(), SetParams{
		TenantID: tenantID, UserID: userID,
		Module: access.ModulePayroll, Action: access.ActionUpdate,
	}))
}

func TestSetRejectsSuperAdminTarget(t *testing.T) {
	repo := newMemRepo()
	audit := &recordingAuditor{}
	svc := NewService(repo, stubRoles{role: access.RoleSuperAdmin}, audit, nil, nil)

	err := svc.Set(context.Background(), SetParams{
		TenantID: uuid.New(), UserID: uuid.New(),
		Module: access.ModulePayroll, Action: access.ActionUpdate,
		Granted: boolPtr(false),
	})
	require.ErrorIs(t, err, ErrSuperAdminTarget)
	require.Empty(t, repo.rows, "nothing may be stored for a super admin target")
	require.Empty(t, audit.logs)
}

func TestSetRejectsUnknownModuleAndAction(t *testing.T) {
	svc := NewService(newMemRepo(), stubRoles{role: access.RoleEmployee}, nil, nil, nil)

	err := svc.Set(context.Background(), SetParams{
		TenantID: uuid.New(), UserID: uuid.New(),
		Module: "expenses", Action: access.ActionView,
		Granted: boolPtr(true),
	})
	require.ErrorIs(t, err, ErrUnknownModule)

	err = svc.Set(context.Background(), SetParams{
		TenantID: uuid.New(), UserID: uuid.New(),
		Module: access.ModuleLeave, Action: "publish",
		Granted: boolPtr(true),
	})
	require.ErrorIs(t, err, ErrUnknownAction)
}
