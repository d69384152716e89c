package tenantstate

import "time"

// Subscription statuses owned by billing.
const (
	StatusTrialing = "trialing"
	StatusActive   = "active"
	StatusPastDue  = "past_due"
	StatusCanceled = "canceled"
)

// BillingState is the billing snapshot of one tenant's subscription.
type BillingState struct {
	Status     string
	GraceUntil *time.Time
	// Frozen is the flag materialized by the freeze sweep.
	Frozen bool
}

// FrozenAt derives whether writes should be frozen at the given time:
// the subscription is canceled, or past due with its grace period
// elapsed. A missing grace deadline on a past-due subscription freezes
// immediately (fail closed).
func FrozenAt(state BillingState, now time.Time) bool {
	switch state.Status {
	case StatusCanceled:
		return true
	case StatusPastDue:
		return state.GraceUntil == nil || now.After(*state.GraceUntil)
	default:
		return false
	}
}
