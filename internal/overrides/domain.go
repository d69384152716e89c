package overrides

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/meridian-hr/meridian-access/internal/access"
)

// Override is a stored permission override row, keyed by
// (tenant, user, module, action).
type Override struct {
	TenantID  uuid.UUID
	UserID    uuid.UUID
	Module    access.ModuleID
	Action    access.Action
	Granted   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

var (
	// ErrSuperAdminTarget rejects overrides aimed at super admins.
	// Overrides on super admins are meaningless and must not be
	// silently stored.
	ErrSuperAdminTarget = errors.New("overrides: super admins cannot be overridden")
	// ErrUnknownModule rejects overrides for modules outside the catalog.
	ErrUnknownModule = errors.New("overrides: unknown module")
	// ErrUnknownAction rejects overrides for unrecognized actions.
	ErrUnknownAction = errors.New("overrides: unknown action")
)
