package decisions

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/meridian-hr/meridian-access/internal/access"
	"github.com/meridian-hr/meridian-access/internal/observability"
	"github.com/meridian-hr/meridian-access/internal/platform/httpx"
	"github.com/meridian-hr/meridian-access/internal/shared"
)

// Middleware gates HTTP routes on the decision engine, the server-side
// counterpart of the SPA's rendering gates.
type Middleware struct {
	Builder *SnapshotBuilder
	Logger  *slog.Logger
	Metrics *observability.Metrics
}

// Require denies the request unless the principal satisfies req.
// A denial caused solely by the billing freeze is ignored for safe
// methods: the freeze blocks changes, not reads. When the route
// carries a tenantID URL parameter, it must match the principal's
// tenant; only super admins may cross tenants.
func (m Middleware) Require(req access.Requirement) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := shared.PrincipalFromContext(r.Context())
			if principal == nil {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
				return
			}

			snap, err := m.Builder.Build(r.Context(), principal)
			if err != nil {
				if m.Logger != nil {
					m.Logger.Error("build snapshot", slog.Any("error", err))
				}
				// Provider failures deny, never grant.
				httpx.Problem(w, http.StatusForbidden, "Forbidden", "")
				return
			}

			if raw := chi.URLParam(r, "tenantID"); raw != "" && snap.Role != access.RoleSuperAdmin {
				tenantID, err := uuid.Parse(raw)
				if err != nil || tenantID != principal.TenantID {
					httpx.Problem(w, http.StatusForbidden, "Forbidden", shared.ErrTenantMismatch.Error())
					return
				}
			}

			decision := access.Check(snap, req)
			if !decision.HasAccess && decision.Reason == access.ReasonFrozen && safeMethod(r.Method) {
				decision = access.Decision{HasAccess: true}
			}
			m.Metrics.ObserveDecision(decision)
			if !decision.HasAccess {
				httpx.Problem(w, http.StatusForbidden, "Forbidden", decision.Message)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func safeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}
