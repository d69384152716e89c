package plans

import (
	"github.com/meridian-hr/meridian-access/internal/access"
)

// planRow mirrors one row of the plans table joined to the tenant's
// subscription. The modules column stores either the "all" sentinel or
// an explicit module list.
type planRow struct {
	Code    string
	Tier    string
	All     bool
	Modules []string
}

func (r planRow) toPlan() *access.Plan {
	plan := &access.Plan{
		Code: r.Code,
		Tier: access.PlanTier(r.Tier),
		All:  r.All,
	}
	if r.All {
		return plan
	}
	plan.Modules = make([]access.ModuleID, 0, len(r.Modules))
	for _, m := range r.Modules {
		plan.Modules = append(plan.Modules, access.ModuleID(m))
	}
	return plan
}
