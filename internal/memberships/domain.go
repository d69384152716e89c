package memberships

import (
	"time"

	"github.com/google/uuid"

	"github.com/meridian-hr/meridian-access/internal/access"
)

// Membership ties a user to a tenant with exactly one role.
type Membership struct {
	TenantID  uuid.UUID
	UserID    uuid.UUID
	Role      access.Role
	CreatedAt time.Time
	UpdatedAt time.Time
}
