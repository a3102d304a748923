package auth

import "strings"

// Role is the dashboard-side role of a signed-in employee.
type Role string

const (
	RoleHR       Role = "hr"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// Backend role strings as they come from the HRIS-backed user record.
const (
	BackendRoleAdmin        = "Admin"
	BackendRoleDirector     = "Director"
	BackendRoleManager      = "Manager"
	BackendRoleTeamIncharge = "Team Incharge"
	BackendRoleTeamMember   = "Team Member"
)

var Roles = []Role{RoleHR, RoleManager, RoleEmployee}

// MapBackendRole resolves every backend role string to exactly one Role.
// Unknown strings resolve to RoleEmployee.
func MapBackendRole(backendRole string) Role {
	switch backendRole {
	case BackendRoleAdmin, BackendRoleDirector:
		return RoleHR
	case BackendRoleManager, BackendRoleTeamIncharge:
		return RoleManager
	default:
		return RoleEmployee
	}
}

// DirectoryRoleFilter is the backend role used when an HR viewer filters the
// employee directory by dashboard role.
func DirectoryRoleFilter(role Role) string {
	switch role {
	case RoleHR:
		return BackendRoleAdmin
	case RoleManager:
		return BackendRoleManager
	default:
		return BackendRoleTeamMember
	}
}

func ParseRole(value string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(value))) {
	case RoleHR:
		return RoleHR, true
	case RoleManager:
		return RoleManager, true
	case RoleEmployee:
		return RoleEmployee, true
	}
	return "", false
}

func (r Role) Valid() bool {
	switch r {
	case RoleHR, RoleManager, RoleEmployee:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}
