package auth

const (
	PermGoalsRead      = "goals.read"
	PermGoalsWrite     = "goals.write"
	PermTeamRead       = "team.read"
	PermDirectoryRead  = "directory.read"
	PermFeedbackRead   = "feedback.read"
	PermFeedbackWrite  = "feedback.write"
	PermDueDateRequest = "duedate.request"
	PermDueDateApprove = "duedate.approve"
	PermSyncRead       = "sync.read"
	PermSyncRun        = "sync.run"
	PermReportsRead    = "reports.read"
	PermAuditRead      = "audit.read"
)

var DefaultPermissions = []string{
	PermGoalsRead,
	PermGoalsWrite,
	PermTeamRead,
	PermDirectoryRead,
	PermFeedbackRead,
	PermFeedbackWrite,
	PermDueDateRequest,
	PermDueDateApprove,
	PermSyncRead,
	PermSyncRun,
	PermReportsRead,
	PermAuditRead,
}

// RolePermissions lists the pages and actions each role can reach. Per-target
// decisions (self, reportee, other) live in the access package.
var RolePermissions = map[Role][]string{
	RoleEmployee: {
		PermGoalsRead,
		PermGoalsWrite,
		PermTeamRead,
		PermFeedbackRead,
		PermFeedbackWrite,
		PermDueDateRequest,
		PermReportsRead,
	},
	RoleManager: {
		PermGoalsRead,
		PermGoalsWrite,
		PermTeamRead,
		PermDirectoryRead,
		PermFeedbackRead,
		PermFeedbackWrite,
		PermDueDateRequest,
		PermDueDateApprove,
		PermReportsRead,
	},
	RoleHR: {
		PermGoalsRead,
		PermGoalsWrite,
		PermTeamRead,
		PermDirectoryRead,
		PermFeedbackRead,
		PermFeedbackWrite,
		PermDueDateRequest,
		PermDueDateApprove,
		PermSyncRead,
		PermSyncRun,
		PermReportsRead,
		PermAuditRead,
	},
}

func HasPermission(role Role, permission string) bool {
	for _, perm := range RolePermissions[role] {
		if perm == permission {
			return true
		}
	}
	return false
}
