package auth

import "testing"

func TestRolePermissionsSubset(t *testing.T) {
	allowed := map[string]struct{}{}
	for _, perm := range DefaultPermissions {
		allowed[perm] = struct{}{}
	}

	for role, perms := range RolePermissions {
		if len(perms) == 0 {
			t.Fatalf("role %s has no permissions", role)
		}
		for _, perm := range perms {
			if _, ok := allowed[perm]; !ok {
				t.Fatalf("role %s has unknown permission %s", role, perm)
			}
		}
	}
}

func TestDefaultPermissionsUnique(t *testing.T) {
	seen := map[string]struct{}{}
	for _, perm := range DefaultPermissions {
		if _, ok := seen[perm]; ok {
			t.Fatalf("duplicate permission %s", perm)
		}
		seen[perm] = struct{}{}
	}
}

func TestEveryRoleHasPermissions(t *testing.T) {
	for _, role := range Roles {
		if _, ok := RolePermissions[role]; !ok {
			t.Fatalf("role %s missing from permission table", role)
		}
	}
}

func TestSyncIsHROnly(t *testing.T) {
	if !HasPermission(RoleHR, PermSyncRun) {
		t.Fatal("hr should be able to run a sync")
	}
	if HasPermission(RoleManager, PermSyncRun) || HasPermission(RoleEmployee, PermSyncRun) {
		t.Fatal("only hr may run a sync")
	}
	if HasPermission(RoleManager, PermAuditRead) || HasPermission(RoleEmployee, PermAuditRead) {
		t.Fatal("only hr may read the audit trail")
	}
	if HasPermission(RoleEmployee, PermDueDateApprove) {
		t.Fatal("employees do not approve due date changes")
	}
}
