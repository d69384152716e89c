package access

// Plan is the snapshot of a tenant's subscription as seen by the
// decision engine. Plans are owned by billing; the engine only reads
// the entitlement they carry.
type Plan struct {
	Code string
	Tier PlanTier
	// All marks the "all modules" entitlement sentinel.
	All     bool
	Modules []ModuleID
}

// HasModule reports whether the plan entitles the tenant to id.
// A nil plan grants nothing: no module access without a confirmed
// entitlement.
func (p *Plan) HasModule(id ModuleID) bool {
	if p == nil {
		return false
	}
	if p.All {
		return true
	}
	for _, m := range p.Modules {
		if m == id {
			return true
		}
	}
	return false
}

// MeetsTier reports whether the plan's tier satisfies required. A zero
// required tier always passes; a nil plan or an unknown tier on either
// side fails closed.
func (p *Plan) MeetsTier(required PlanTier) bool {
	if required == "" {
		return true
	}
	if p == nil {
		return false
	}
	req := required.rank()
	if req < 0 {
		return false
	}
	return p.Tier.rank() >= req
}
