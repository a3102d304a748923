package performance

const (
	GoalStatusInProgress = "in-progress"
	GoalStatusCompleted  = "completed"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"

	SyncStatusSynced  = "synced"
	SyncStatusPending = "pending"
	SyncStatusError   = "error"

	DueDateStatusPending  = "PENDING"
	DueDateStatusApproved = "APPROVED"
	DueDateStatusRejected = "REJECTED"

	SyncTypeEmployees = "employees"
	SyncTypeGoals     = "goals"

	RawStatusActive = "Active"

	AssignedByManager = "Manager"

	// DueSoonWindowDays marks goals due within this many days as due soon.
	DueSoonWindowDays = 14
)

var Priorities = []string{PriorityLow, PriorityMedium, PriorityHigh}
