package access

import "strings"

// Role identifies a principal's privilege level within one tenant.
// A principal holds exactly one role per tenant membership.
type Role string

// Platform roles, lowest to highest privilege.
const (
	RoleEmployee     Role = "employee"
	RoleManager      Role = "manager"
	RoleHRManager    Role = "hr_manager"
	RoleCompanyAdmin Role = "company_admin"
	RoleSuperAdmin   Role = "super_admin"
)

// roleOrder fixes the privilege ordering; index equals rank.
var roleOrder = []Role{RoleEmployee, RoleManager, RoleHRManager, RoleCompanyAdmin, RoleSuperAdmin}

// Roles returns the platform roles in ascending privilege order.
func Roles() []Role {
	out := make([]Role, len(roleOrder))
	copy(out, roleOrder)
	return out
}

// rank returns the position of r in the hierarchy, or -1 for empty or
// unrecognized roles.
func (r Role) rank() int {
	for i, known := range roleOrder {
		if r == known {
			return i
		}
	}
	return -1
}

// Known reports whether r is one of the five platform roles.
func (r Role) Known() bool {
	return r.rank() >= 0
}

// Human renders the role for end-user messages ("hr_manager" -> "hr manager").
func (r Role) Human() string {
	return strings.ReplaceAll(string(r), "_", " ")
}

// MeetsMinimum reports whether actual meets or exceeds required in the
// role hierarchy. A principal with no role, or with a role the platform
// does not recognize, never meets any minimum. An unrecognized required
// role can never be met either.
func MeetsMinimum(actual, required Role) bool {
	a := actual.rank()
	if a < 0 {
		return false
	}
	req := required.rank()
	if req < 0 {
		return false
	}
	return a >= req
}
