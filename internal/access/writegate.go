package access

// TenantWriteState carries the per-tenant flags that can veto writes
// independently of role and module checks.
type TenantWriteState struct {
	// Frozen is set when the subscription is past due beyond its grace
	// period or otherwise deactivated.
	Frozen bool
	// Impersonating is set when the acting session is a platform
	// operator working on behalf of the tenant.
	Impersonating bool
}

// WriteGate is the result of evaluating the tenant write gate.
type WriteGate struct {
	Blocked bool
	Reason  DenialReason
	Message string
}

// EvaluateWriteGate determines whether writes are currently disabled
// for a tenant. Impersonation is checked before the billing freeze:
// it is a session-scoped restriction that applies regardless of the
// tenant's billing health, so the operator sees the impersonation
// message even when the tenant is also frozen.
func EvaluateWriteGate(state TenantWriteState) WriteGate {
	if state.Impersonating {
		return WriteGate{Blocked: true, Reason: ReasonImpersonating, Message: msgImpersonating}
	}
	if state.Frozen {
		return WriteGate{Blocked: true, Reason: ReasonFrozen, Message: msgFrozen}
	}
	return WriteGate{}
}
