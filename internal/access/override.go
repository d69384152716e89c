package access

// Override is one explicit per-user permission grant or denial,
// scoped to a single tenant.
type Override struct {
	UserID  string
	Module  ModuleID
	Action  Action
	Granted bool
}

// Resolution is the outcome of looking up an override.
type Resolution int

const (
	// ResolveRoleDefault means no override exists; the caller falls
	// back to the role-derived default for the module and action.
	ResolveRoleDefault Resolution = iota
	// ResolveAllow is an explicit grant.
	ResolveAllow
	// ResolveDeny is an explicit denial.
	ResolveDeny
)

type overrideKey struct {
	user   string
	module ModuleID
	action Action
}

// OverrideSet is a point-lookup view over one tenant's override rows.
// The zero value resolves everything to the role default.
type OverrideSet struct {
	entries map[overrideKey]bool
}

// NewOverrideSet indexes rows for point lookups. Later rows win on
// duplicate keys, matching the store's last-write-wins policy.
func NewOverrideSet(rows []Override) OverrideSet {
	if len(rows) == 0 {
		return OverrideSet{}
	}
	entries := make(map[overrideKey]bool, len(rows))
	for _, row := range rows {
		entries[overrideKey{user: row.UserID, module: row.Module, action: row.Action}] = row.Granted
	}
	return OverrideSet{entries: entries}
}

// Len returns the number of indexed override rows.
func (s OverrideSet) Len() int {
	return len(s.entries)
}

// Resolve looks up the override for (userID, module, action).
// Super admin principals are never subject to overrides; callers must
// check the role before invoking Resolve.
func (s OverrideSet) Resolve(userID string, module ModuleID, action Action) Resolution {
	granted, ok := s.entries[overrideKey{user: userID, module: module, action: action}]
	if !ok {
		return ResolveRoleDefault
	}
	if granted {
		return ResolveAllow
	}
	return ResolveDeny
}
