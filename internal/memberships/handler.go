package memberships

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/meridian-hr/meridian-access/internal/platform/httpx"
)

// Handler exposes the tenant roster over HTTP. The router gates it on
// the company_admin role; listing is read-only so the write gate does
// not apply.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers membership routes under a tenant-scoped router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
}

type memberResponse struct {
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type membersResponse struct {
	Members []memberResponse `json:"members"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	tenantID, err := uuid.Parse(chi.URLParam(r, "tenantID"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid tenant id")
		return
	}

	rows, err := h.service.ListForTenant(r.Context(), tenantID)
	if err != nil {
		h.logger.Error("list memberships", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	out := make([]memberResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, memberResponse{
			UserID:    row.UserID.String(),
			Role:      string(row.Role),
			CreatedAt: row.CreatedAt,
		})
	}
	httpx.JSON(w, http.StatusOK, membersResponse{Members: out})
}
