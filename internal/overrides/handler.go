package overrides

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/meridian-hr/meridian-access/internal/access"
	"github.com/meridian-hr/meridian-access/internal/platform/httpx"
	"github.com/meridian-hr/meridian-access/internal/shared"
)

// Handler exposes override management over HTTP. Route-level gating
// (company_admin role, write gate) is applied by the router; the
// handler enforces the remaining domain rules.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers override routes under a tenant-scoped router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Put("/", h.set)
}

type setRequest struct {
	UserID  string `json:"user_id" validate:"required,uuid"`
	Module  string `json:"module" validate:"required"`
	Action  string `json:"action" validate:"required"`
	Granted *bool  `json:"granted"`
}

type overrideResponse struct {
	UserID  string `json:"user_id"`
	Module  string `json:"module"`
	Action  string `json:"action"`
	Granted bool   `json:"granted"`
}

type listResponse struct {
	Overrides  []overrideResponse `json:"overrides"`
	Pagination shared.Pagination  `json:"pagination"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	tenantID, err := uuid.Parse(chi.URLParam(r, "tenantID"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid tenant id")
		return
	}

	var userFilter *uuid.UUID
	if raw := r.URL.Query().Get("user"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid user filter")
			return
		}
		userFilter = &id
	}

	page, perPage := shared.PageFromRequest(r)
	rows, pagination, err := h.service.ListForTenant(r.Context(), tenantID, userFilter, shared.Pagination{Page: page, PerPage: perPage})
	if err != nil {
		h.logger.Error("list overrides", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	out := make([]overrideResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, overrideResponse{
			UserID:  row.UserID.String(),
			Module:  string(row.Module),
			Action:  string(row.Action),
			Granted: row.Granted,
		})
	}
	httpx.JSON(w, http.StatusOK, listResponse{Overrides: out, Pagination: pagination})
}

func (h *Handler) set(w http.ResponseWriter, r *http.Request) {
	tenantID, err := uuid.Parse(chi.URLParam(r, "tenantID"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid tenant id")
		return
	}

	var req setRequest
	if err := httpx.DecodeValid(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid user id")
		return
	}

	principal := shared.PrincipalFromContext(r.Context())
	if principal == nil {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	err = h.service.Set(r.Context(), SetParams{
		TenantID: tenantID,
		UserID:   userID,
		Module:   access.ModuleID(req.Module),
		Action:   access.Action(req.Action),
		Granted:  req.Granted,
		ActorID:  principal.UserID,
	})
	switch {
	case errors.Is(err, ErrSuperAdminTarget):
		httpx.Problem(w, http.StatusUnprocessableEntity, "Override Rejected", err.Error())
		return
	case errors.Is(err, ErrUnknownModule), errors.Is(err, ErrUnknownAction):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	case err != nil:
		h.logger.Error("set override", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
