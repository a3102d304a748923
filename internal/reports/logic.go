package reports

// The dashboard builders name each role's headline counters. T is the
// counter type, a plain int or a value that also carries load state.

func EmployeeDashboard[T any](goalCount, avgProgress, feedbackCount T) map[string]T {
	return map[string]T{
		"goalCount":     goalCount,
		"avgProgress":   avgProgress,
		"feedbackCount": feedbackCount,
	}
}

func ManagerDashboard[T any](pendingApprovals, teamSize, teamGoals T) map[string]T {
	return map[string]T{
		"pendingApprovals": pendingApprovals,
		"teamSize":         teamSize,
		"teamGoals":        teamGoals,
	}
}

func HRDashboard[T any](employees, pendingApprovals, syncRuns T) map[string]T {
	return map[string]T{
		"employees":        employees,
		"pendingApprovals": pendingApprovals,
		"syncRuns":         syncRuns,
	}
}
