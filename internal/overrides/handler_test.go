package overrides_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/meridian-hr/meridian-access/internal/access"
	"github.com/meridian-hr/meridian-access/internal/overrides"
	"github.com/meridian-hr/meridian-access/internal/shared"
	_ "github.com/meridian-hr/meridian-access/testing"
)

type fakeRepo struct {
	rows map[string]bool
}

func key(tenant, user uuid.UUID, module, action string) string {
	return tenant.String() + "/" + user.String() + "/" + module + "/" + action
}

func (f *fakeRepo) ListForUser(ctx context.Context, tenantID, userID uuid.UUID) ([]access.Override, error) {
	return nil, nil
}

func (f *fakeRepo) ListForTenant(ctx context.Context, tenantID uuid.UUID, userID *uuid.UUID, limit, offset int) ([]overrides.Override, int, error) {
	return nil, 0, nil
}

func (f *fakeRepo) Upsert(ctx context.Context, o overrides.Override) error {
	if f.rows == nil {
		f.rows = make(map[string]bool)
	}
	f.rows[key(o.TenantID, o.UserID, string(o.Module), string(o.Action))] = o.Granted
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, tenantID, userID uuid.UUID, module access.ModuleID, action access.Action) error {
	delete(f.rows, key(tenantID, userID, string(module), string(action)))
	return nil
}

type fakeRoles struct {
	roles map[uuid.UUID]access.Role
}

func (f fakeRoles) Role(ctx context.Context, tenantID, userID uuid.UUID) (access.Role, error) {
	return f.roles[userID], nil
}

func newRouter(repo *fakeRepo, roles fakeRoles) http.Handler {
	logger := slog.New(slog.DiscardHandler)
	service := overrides.NewService(repo, roles, nil, nil, logger)
	handler := overrides.NewHandler(logger, service)

	r := chi.NewRouter()
	r.Route("/v1/tenants/{tenantID}/overrides", handler.MountRoutes)
	return r
}

func doSet(t *testing.T, router http.Handler, tenantID uuid.UUID, actor *shared.Principal, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPut, "/v1/tenants/"+tenantID.String()+"/overrides", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if actor != nil {
		req = req.WithContext(shared.ContextWithPrincipal(req.Context(), actor))
	}
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	return res
}

func TestSetOverrideEndpoint(t *testing.T) {
	tenantID := uuid.New()
	targetID := uuid.New()
	actor := &shared.Principal{UserID: uuid.New(), TenantID: tenantID, Role: access.RoleCompanyAdmin}

	repo := &fakeRepo{}
	router := newRouter(repo, fakeRoles{roles: map[uuid.UUID]access.Role{targetID: access.RoleEmployee}})

	res := doSet(t, router, tenantID, actor,
		`{"user_id":"`+targetID.String()+`","module":"payroll","action":"update","granted":true}`)
	require.Equal(t, http.StatusNoContent, res.Code)
	require.True(t, repo.rows[key(tenantID, targetID, "payroll", "update")])
}

func TestSetOverrideSuperAdminRejected(t *testing.T) {
	tenantID := uuid.New()
	targetID := uuid.New()
	actor := &shared.Principal{UserID: uuid.New(), TenantID: tenantID, Role: access.RoleCompanyAdmin}

	repo := &fakeRepo{}
	router := newRouter(repo, fakeRoles{roles: map[uuid.UUID]access.Role{targetID: access.RoleSuperAdmin}})

	res := doSet(t, router, tenantID, actor,
		`{"user_id":"`+targetID.String()+`","module":"payroll","action":"update","granted":false}`)
	require.Equal(t, http.StatusUnprocessableEntity, res.Code)
	require.Empty(t, repo.rows)
}

func TestSetOverrideValidation(t *testing.T) {
	tenantID := uuid.New()
	actor := &shared.Principal{UserID: uuid.New(), TenantID: tenantID, Role: access.RoleCompanyAdmin}
	router := newRouter(&fakeRepo{}, fakeRoles{})

	res := doSet(t, router, tenantID, actor, `{"module":"payroll"}`)
	require.Equal(t, http.StatusBadRequest, res.Code)

	res = doSet(t, router, tenantID, actor,
		`{"user_id":"`+uuid.NewString()+`","module":"expenses","action":"update","granted":true}`)
	require.Equal(t, http.StatusBadRequest, res.Code)
}

func TestSetOverrideRequiresPrincipal(t *testing.T) {
	tenantID := uuid.New()
	router := newRouter(&fakeRepo{}, fakeRoles{})

	res := doSet(t, router, tenantID, nil,
		`{"user_id":"`+uuid.NewString()+`","module":"payroll","action":"update","granted":true}`)
	require.Equal(t, http.StatusUnauthorized, res.Code)
}
