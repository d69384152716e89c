package access

import (
	"strings"
	"testing"
)

func TestCheckRoleDenial(t *testing.T) {
	snap := Snapshot{
		UserID: "u1",
		Role:   RoleManager,
		Plan:   &Plan{Modules: []ModuleID{ModuleLeave}},
	}
	decision := Check(snap, Requirement{RequiredRole: RoleHRManager})
	if decision.HasAccess {
		t.Fatalf("expected denial")
	}
	if decision.Reason != ReasonRole {
		t.Fatalf("reason = %s, want %s", decision.Reason, ReasonRole)
	}
	if !strings.Contains(decision.Message, "hr manager") {
		t.Fatalf("message should name the role with spaces: %q", decision.Message)
	}
}

func TestCheckModuleDenial(t *testing.T) {
	snap := Snapshot{
		UserID: "u1",
		Role:   RoleHRManager,
		Plan:   &Plan{Modules: []ModuleID{ModuleLeave}},
	}
	decision := Check(snap, Requirement{RequiredModule: ModulePayroll})
	if decision.HasAccess || decision.Reason != ReasonModule {
		t.Fatalf("expected module denial, got %+v", decision)
	}
}

func TestCheckRoleBeforeModule(t *testing.T) {
	// Both gates would fail; the role message must win because role is
	// the more fundamental gate.
	snap := Snapshot{
		UserID: "u1",
		Role:   RoleEmployee,
		Plan:   &Plan{Modules: []ModuleID{ModuleLeave}},
	}
	decision := Check(snap, Requirement{RequiredRole: RoleHRManager, RequiredModule: ModulePayroll})
	if decision.Reason != ReasonRole {
		t.Fatalf("reason = %s, want %s", decision.Reason, ReasonRole)
	}
}

func TestCheckWritesOnlyFrozen(t *testing.T) {
	snap := Snapshot{
		UserID:     "u1",
		Role:       RoleCompanyAdmin,
		Plan:       &Plan{All: true},
		WriteState: TenantWriteState{Frozen: true},
	}
	decision := Check(snap, Requirement{WritesOnly: true})
	if decision.HasAccess || decision.Reason != ReasonFrozen {
		t.Fatalf("expected frozen denial, got %+v", decision)
	}
}

func TestCheckWritesOnlyImpersonating(t *testing.T) {
	snap := Snapshot{
		UserID:     "u1",
		Role:       RoleSuperAdmin,
		Plan:       &Plan{All: true},
		WriteState: TenantWriteState{Frozen: true, Impersonating: true},
	}
	decision := Check(snap, Requirement{WritesOnly: true})
	if decision.Reason != ReasonImpersonating {
		t.Fatalf("impersonation must precede frozen, got %+v", decision)
	}
}

func TestCheckWritesOnlyIgnoresOtherGates(t *testing.T) {
	// No role, no plan: writesOnly mode must still grant when the
	// write gate is open.
	decision := Check(Snapshot{UserID: "u1"}, Requirement{
		WritesOnly:     true,
		RequiredRole:   RoleCompanyAdmin,
		RequiredModule: ModulePayroll,
	})
	if !decision.HasAccess {
		t.Fatalf("writesOnly should ignore role/module gates, got %+v", decision)
	}
}

func TestCheckExplicitAllowOverridesRoleAndModule(t *testing.T) {
	snap := Snapshot{
		UserID: "u1",
		Role:   RoleEmployee,
		Plan:   &Plan{Modules: []ModuleID{ModuleLeave}},
		Overrides: NewOverrideSet([]Override{
			{UserID: "u1", Module: ModulePayroll, Action: ActionUpdate, Granted: true},
		}),
	}
	decision := Check(snap, Requirement{
		RequiredRole:   RoleHRManager,
		RequiredModule: ModulePayroll,
		Permission:     &Permission{Module: ModulePayroll, Action: ActionUpdate},
	})
	if !decision.HasAccess {
		t.Fatalf("explicit allow should bypass role and module gates, got %+v", decision)
	}
}

func TestCheckExplicitDenyWinsOverRole(t *testing.T) {
	snap := Snapshot{
		UserID: "u1",
		Role:   RoleCompanyAdmin,
		Plan:   &Plan{All: true},
		Overrides: NewOverrideSet([]Override{
			{UserID: "u1", Module: ModulePayroll, Action: ActionUpdate, Granted: false},
		}),
	}
	decision := Check(snap, Requirement{
		RequiredRole: RoleManager,
		Permission:   &Permission{Module: ModulePayroll, Action: ActionUpdate},
	})
	if decision.HasAccess || decision.Reason != ReasonPermission {
		t.Fatalf("explicit deny must win over a passing role, got %+v", decision)
	}
}

func TestCheckSuperAdminBypassesOverrides(t *testing.T) {
	snap := Snapshot{
		UserID: "u1",
		Role:   RoleSuperAdmin,
		Plan:   &Plan{All: true},
		Overrides: NewOverrideSet([]Override{
			{UserID: "u1", Module: ModulePayroll, Action: ActionUpdate, Granted: false},
		}),
	}
	decision := Check(snap, Requirement{
		Permission: &Permission{Module: ModulePayroll, Action: ActionUpdate},
	})
	if !decision.HasAccess {
		t.Fatalf("super admin must not be subject to overrides, got %+v", decision)
	}
}

func TestCheckExplicitAllowDoesNotBypassFrozen(t *testing.T) {
	snap := Snapshot{
		UserID: "u1",
		Role:   RoleEmployee,
		Plan:   &Plan{All: true},
		Overrides: NewOverrideSet([]Override{
			{UserID: "u1", Module: ModulePayroll, Action: ActionUpdate, Granted: true},
		}),
		WriteState: TenantWriteState{Frozen: true},
	}
	decision := Check(snap, Requirement{
		RequiredRole: RoleHRManager,
		Permission:   &Permission{Module: ModulePayroll, Action: ActionUpdate},
	})
	if decision.HasAccess || decision.Reason != ReasonFrozen {
		t.Fatalf("explicit allow must not bypass billing enforcement, got %+v", decision)
	}
}

func TestCheckPermissionRoleDefaultFallsThrough(t *testing.T) {
	// No override row: role and module gates apply as usual.
	snap := Snapshot{
		UserID: "u1",
		Role:   RoleEmployee,
		Plan:   &Plan{All: true},
	}
	decision := Check(snap, Requirement{
		RequiredRole: RoleHRManager,
		Permission:   &Permission{Module: ModulePayroll, Action: ActionUpdate},
	})
	if decision.Reason != ReasonRole {
		t.Fatalf("role default should fall through to role gate, got %+v", decision)
	}
}

func TestCheckNothingRequired(t *testing.T) {
	decision := Check(Snapshot{UserID: "u1", Role: RoleEmployee}, Requirement{})
	if !decision.HasAccess || decision.Reason != "" || decision.Message != "" {
		t.Fatalf("empty requirement should grant, got %+v", decision)
	}
}

func TestCheckFrozenLastForReads(t *testing.T) {
	snap := Snapshot{
		UserID:     "u1",
		Role:       RoleCompanyAdmin,
		Plan:       &Plan{All: true},
		WriteState: TenantWriteState{Frozen: true},
	}
	decision := Check(snap, Requirement{RequiredRole: RoleManager, RequiredModule: ModulePayroll})
	if decision.HasAccess || decision.Reason != ReasonFrozen {
		t.Fatalf("freeze is the final word when other gates pass, got %+v", decision)
	}
}
