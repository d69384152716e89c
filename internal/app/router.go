package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/meridian-hr/meridian-access/internal/access"
	"github.com/meridian-hr/meridian-access/internal/auth"
	"github.com/meridian-hr/meridian-access/internal/decisions"
	"github.com/meridian-hr/meridian-access/internal/memberships"
	"github.com/meridian-hr/meridian-access/internal/observability"
	"github.com/meridian-hr/meridian-access/internal/overrides"
	"github.com/meridian-hr/meridian-access/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	AuthMiddleware   auth.Middleware
	AccessMiddleware decisions.Middleware
	AccessHandler    *decisions.Handler
	OverridesHandler *overrides.Handler
	MembersHandler   *memberships.Handler
	JobHandler       *jobs.Handler
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with Meridian defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/v1", func(r chi.Router) {
		r.Use(params.AuthMiddleware.RequireBearer)

		r.Route("/access", params.AccessHandler.MountRoutes)

		r.Route("/tenants/{tenantID}/overrides", func(r chi.Router) {
			r.Use(params.AccessMiddleware.Require(access.Requirement{
				RequiredRole: access.RoleCompanyAdmin,
			}))
			r.Use(writeGateMiddleware(params.AccessMiddleware))
			params.OverridesHandler.MountRoutes(r)
		})

		r.Route("/tenants/{tenantID}/members", func(r chi.Router) {
			r.Use(params.AccessMiddleware.Require(access.Requirement{
				RequiredRole: access.RoleCompanyAdmin,
			}))
			params.MembersHandler.MountRoutes(r)
		})
	})

	if params.JobHandler != nil {
		r.Route("/v1/jobs", func(r chi.Router) {
			r.Use(params.AuthMiddleware.RequireServiceKey)
			params.JobHandler.MountRoutes(r)
		})
	}

	return r
}

// writeGateMiddleware applies the tenant write gate to mutating methods
// only; reads pass through even while billing is frozen.
func writeGateMiddleware(mw decisions.Middleware) func(http.Handler) http.Handler {
	gate := mw.Require(access.Requirement{WritesOnly: true})
	return func(next http.Handler) http.Handler {
		gated := gate(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
			default:
				gated.ServeHTTP(w, r)
			}
		})
	}
}
