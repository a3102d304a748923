package reports

import "testing"

func TestEmployeeDashboard(t *testing.T) {
	payload := EmployeeDashboard(6, 48, 2)
	if payload["goalCount"] != 6 {
		t.Fatal("unexpected goal count")
	}
	if payload["avgProgress"] != 48 {
		t.Fatal("unexpected average progress")
	}
	if payload["feedbackCount"] != 2 {
		t.Fatal("unexpected feedback count")
	}
}

func TestManagerDashboard(t *testing.T) {
	payload := ManagerDashboard(1, 4, 9)
	if payload["pendingApprovals"] != 1 {
		t.Fatal("unexpected approvals count")
	}
	if payload["teamSize"] != 4 {
		t.Fatal("unexpected team size")
	}
	if payload["teamGoals"] != 9 {
		t.Fatal("unexpected team goals")
	}
}

func TestHRDashboard(t *testing.T) {
	payload := HRDashboard(120, 5, 7)
	if payload["employees"] != 120 {
		t.Fatal("unexpected employee count")
	}
	if payload["pendingApprovals"] != 5 {
		t.Fatal("unexpected pending approvals")
	}
	if payload["syncRuns"] != 7 {
		t.Fatal("unexpected sync runs")
	}
}
