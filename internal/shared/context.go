package shared

import (
	"context"

	"github.com/google/uuid"

	"github.com/meridian-hr/meridian-access/internal/access"
)

// Principal describes the authenticated actor whose access is being
// evaluated: a user plus one tenant membership, with the session-level
// impersonation flag.
type Principal struct {
	UserID   uuid.UUID
	TenantID uuid.UUID
	// Role is the role claimed by the token. Decisions re-resolve the
	// role from the membership store; the claim is a hint for logging.
	Role access.Role
	// Impersonating marks a platform-operator-on-behalf-of-tenant
	// session. It lives on the session, never in the database.
	Impersonating bool
}

type principalContextKey struct{}

// ContextWithPrincipal stores the principal in context.
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext extracts the principal from context.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalContextKey{}).(*Principal)
	return p
}
