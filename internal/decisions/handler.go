package decisions

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-hr/meridian-access/internal/access"
	"github.com/meridian-hr/meridian-access/internal/observability"
	"github.com/meridian-hr/meridian-access/internal/platform/httpx"
	"github.com/meridian-hr/meridian-access/internal/shared"
)

// Handler exposes the decision engine to the SPA and edge functions.
type Handler struct {
	logger  *slog.Logger
	builder *SnapshotBuilder
	metrics *observability.Metrics
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, builder *SnapshotBuilder, metrics *observability.Metrics) *Handler {
	return &Handler{logger: logger, builder: builder, metrics: metrics}
}

// MountRoutes registers decision routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/check", h.check)
	r.Get("/context", h.accessContext)
}

type permissionRequest struct {
	Module string `json:"module" validate:"required"`
	Action string `json:"action" validate:"required"`
}

type checkRequest struct {
	RequiredRole   string             `json:"required_role,omitempty"`
	RequiredModule string             `json:"required_module,omitempty"`
	Permission     *permissionRequest `json:"permission,omitempty"`
	WritesOnly     bool               `json:"writes_only,omitempty"`
}

func (req checkRequest) toRequirement() access.Requirement {
	out := access.Requirement{
		RequiredRole:   access.Role(req.RequiredRole),
		RequiredModule: access.ModuleID(req.RequiredModule),
		WritesOnly:     req.WritesOnly,
	}
	if req.Permission != nil {
		out.Permission = &access.Permission{
			Module: access.ModuleID(req.Permission.Module),
			Action: access.Action(req.Permission.Action),
		}
	}
	return out
}

// check evaluates a requirement for the authenticated principal. A
// denial is the response payload, not an HTTP error: the endpoint only
// fails on authentication or provider problems.
func (h *Handler) check(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	if principal == nil {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	var req checkRequest
	if err := httpx.DecodeValid(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}

	snap, err := h.builder.Build(r.Context(), principal)
	if err != nil {
		h.logger.Error("build snapshot", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	decision := access.Check(snap, req.toRequirement())
	h.metrics.ObserveDecision(decision)
	httpx.JSON(w, http.StatusOK, decision)
}

type moduleContext struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Entitled    bool   `json:"entitled"`
	Enabled     bool   `json:"enabled"`
}

type contextResponse struct {
	Role         string          `json:"role,omitempty"`
	Modules      []moduleContext `json:"modules"`
	WriteBlocked bool            `json:"write_blocked"`
	WriteReason  string          `json:"write_reason,omitempty"`
	WriteMessage string          `json:"write_message,omitempty"`
}

// accessContext returns the principal's effective role, module
// entitlements and write-gate state for UI bootstrapping.
func (h *Handler) accessContext(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	if principal == nil {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	snap, err := h.builder.Build(r.Context(), principal)
	if err != nil {
		h.logger.Error("build snapshot", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	modules := make([]moduleContext, 0, len(access.Catalog()))
	for _, spec := range access.Catalog() {
		entitled := snap.Plan.HasModule(spec.ID) && snap.Plan.MeetsTier(spec.Tier)
		modules = append(modules, moduleContext{
			ID:          string(spec.ID),
			DisplayName: spec.ID.DisplayName(),
			Entitled:    entitled,
			Enabled:     entitled && access.MeetsMinimum(snap.Role, spec.MinRole),
		})
	}

	gate := access.EvaluateWriteGate(snap.WriteState)
	httpx.JSON(w, http.StatusOK, contextResponse{
		Role:         string(snap.Role),
		Modules:      modules,
		WriteBlocked: gate.Blocked,
		WriteReason:  string(gate.Reason),
		WriteMessage: gate.Message,
	})
}
