// Package access implements the layered access-control decision engine
// for the Meridian HR platform: role hierarchy, plan entitlements,
// per-user permission overrides and the tenant write gate, composed
// into a single ordered evaluation. Every function here is a pure
// computation over an explicitly passed snapshot.
package access

import "fmt"

// DenialReason classifies why access was refused.
type DenialReason string

const (
	ReasonRole          DenialReason = "role"
	ReasonModule        DenialReason = "module"
	ReasonFrozen        DenialReason = "frozen"
	ReasonImpersonating DenialReason = "impersonating"
	ReasonPermission    DenialReason = "permission"
)

const (
	msgFrozen        = "Your subscription is inactive. Update billing to re-enable changes."
	msgImpersonating = "You are impersonating this company. Exit impersonation to make changes."
	msgPermission    = "You do not have permission to perform this action."
	msgModule        = "This feature is not included in your current plan. Upgrade to enable it."
)

// Permission identifies a fine-grained module/action pair.
type Permission struct {
	Module ModuleID
	Action Action
}

// Requirement describes what a caller needs to proceed. Any
// combination of fields may be set; empty fields are not evaluated.
type Requirement struct {
	// RequiredRole gates on the role hierarchy when non-empty.
	RequiredRole Role
	// RequiredModule gates on plan entitlement when non-empty.
	RequiredModule ModuleID
	// Permission requests fine-grained override resolution.
	Permission *Permission
	// WritesOnly evaluates only the tenant write gate; role, module
	// and permission fields are ignored entirely.
	WritesOnly bool
}

// Snapshot carries everything the engine needs for one decision.
// Callers fetch it from the membership, plan, override and tenant
// state providers; the engine never reaches into ambient state.
type Snapshot struct {
	// UserID is the principal being evaluated.
	UserID string
	// Role is the principal's role in the tenant; empty when the
	// principal holds no membership.
	Role Role
	// Plan is the tenant's subscription entitlement; nil when not
	// loaded, which denies every module.
	Plan *Plan
	// Overrides holds the tenant's per-user permission overrides.
	Overrides OverrideSet
	// WriteState holds the tenant freeze and impersonation flags.
	WriteState TenantWriteState
}

// Decision is the engine's output. It is computed fresh per check and
// never persisted.
type Decision struct {
	HasAccess bool         `json:"has_access"`
	Reason    DenialReason `json:"denial_reason,omitempty"`
	Message   string       `json:"message,omitempty"`
}

func allow() Decision {
	return Decision{HasAccess: true}
}

func deny(reason DenialReason, message string) Decision {
	return Decision{Reason: reason, Message: message}
}

// Check evaluates req against snap. The first failing gate wins and no
// further gates run. Order: the write gate alone in WritesOnly mode;
// otherwise override resolution (super admins skip it, an explicit
// deny fails with ReasonPermission, an explicit allow bypasses the
// role and module gates but not the freeze), then the role gate, the
// module gate, and the freeze gate last. Check never returns an
// error: every unmet condition is a structured denial.
func Check(snap Snapshot, req Requirement) Decision {
	if req.WritesOnly {
		if gate := EvaluateWriteGate(snap.WriteState); gate.Blocked {
			return deny(gate.Reason, gate.Message)
		}
		return allow()
	}

	overrideAllowed := false
	if req.Permission != nil && snap.Role != RoleSuperAdmin {
		switch snap.Overrides.Resolve(snap.UserID, req.Permission.Module, req.Permission.Action) {
		case ResolveDeny:
			return deny(ReasonPermission, msgPermission)
		case ResolveAllow:
			overrideAllowed = true
		}
	}

	if !overrideAllowed {
		if req.RequiredRole != "" && !MeetsMinimum(snap.Role, req.RequiredRole) {
			return deny(ReasonRole, roleMessage(req.RequiredRole))
		}
		if req.RequiredModule != "" && !snap.Plan.HasModule(req.RequiredModule) {
			return deny(ReasonModule, msgModule)
		}
	}

	// Billing enforcement is tenant-wide policy; an explicit per-user
	// allow does not punch through it.
	if snap.WriteState.Frozen {
		return deny(ReasonFrozen, msgFrozen)
	}

	return allow()
}

func roleMessage(required Role) string {
	return fmt.Sprintf("Requires %s role or higher.", required.Human())
}
