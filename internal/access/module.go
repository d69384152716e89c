package access

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ModuleID names a gated feature area of the product.
type ModuleID string

// Feature modules gated by role and plan entitlements.
const (
	ModulePeople       ModuleID = "people"
	ModuleLeave        ModuleID = "leave"
	ModuleTime         ModuleID = "time"
	ModulePayroll      ModuleID = "payroll"
	ModuleDocuments    ModuleID = "documents"
	ModuleReports      ModuleID = "reports"
	ModuleIntegrations ModuleID = "integrations"
	ModuleAdmin        ModuleID = "admin"
)

// Action names an operation performed within a module.
type Action string

// Actions recognized by fine-grained permission overrides.
const (
	ActionView    Action = "view"
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionApprove Action = "approve"
	ActionExport  Action = "export"
)

// PlanTier orders subscription tiers.
type PlanTier string

// Subscription tiers, lowest to highest.
const (
	TierStarter PlanTier = "starter"
	TierGrowth  PlanTier = "growth"
	TierScale   PlanTier = "scale"
)

var tierOrder = []PlanTier{TierStarter, TierGrowth, TierScale}

func (t PlanTier) rank() int {
	for i, tier := range tierOrder {
		if tier == t {
			return i
		}
	}
	return -1
}

// ModuleSpec carries the static gating requirements of one module.
// A zero Tier means the module is available on every tier that lists it.
type ModuleSpec struct {
	ID      ModuleID
	MinRole Role
	Tier    PlanTier
}

var catalog = []ModuleSpec{
	{ID: ModulePeople, MinRole: RoleEmployee},
	{ID: ModuleLeave, MinRole: RoleEmployee},
	{ID: ModuleTime, MinRole: RoleEmployee},
	{ID: ModuleDocuments, MinRole: RoleManager},
	{ID: ModulePayroll, MinRole: RoleHRManager, Tier: TierGrowth},
	{ID: ModuleReports, MinRole: RoleHRManager, Tier: TierGrowth},
	{ID: ModuleIntegrations, MinRole: RoleCompanyAdmin, Tier: TierScale},
	{ID: ModuleAdmin, MinRole: RoleCompanyAdmin},
}

// Catalog returns the static module catalog in display order.
func Catalog() []ModuleSpec {
	out := make([]ModuleSpec, len(catalog))
	copy(out, catalog)
	return out
}

// LookupModule returns the catalog entry for id. Unknown modules report
// ok=false and callers must treat them as not entitled.
func LookupModule(id ModuleID) (ModuleSpec, bool) {
	for _, spec := range catalog {
		if spec.ID == id {
			return spec, true
		}
	}
	return ModuleSpec{}, false
}

var titleCaser = cases.Title(language.English)

// DisplayName renders the module identifier for user-facing payloads.
func (m ModuleID) DisplayName() string {
	return titleCaser.String(string(m))
}

// Valid reports whether id is a recognized module.
func (m ModuleID) Valid() bool {
	_, ok := LookupModule(m)
	return ok
}

// Valid reports whether a is a recognized action.
func (a Action) Valid() bool {
	switch a {
	case ActionView, ActionCreate, ActionUpdate, ActionDelete, ActionApprove, ActionExport:
		return true
	}
	return false
}
