package performance

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrMissingGoalID   = errors.New("goal id is required")
	ErrMissingGoalName = errors.New("goal name is required")
)

// MapKRAGoals maps the goals of one KRA into the flat Goal shape. The pillar
// is chosen by the position of kra within employeeKRAs.
func MapKRAGoals(kra KRA, employeeKRAs []KRA, ownerID string, now time.Time) ([]Goal, error) {
	pillar := PillarForIndex(indexOfKRA(employeeKRAs, kra.ID))
	goals := make([]Goal, 0, len(kra.Goals))
	for _, raw := range kra.Goals {
		goal, err := mapGoal(raw, kra, pillar, ownerID, now)
		if err != nil {
			return nil, fmt.Errorf("kra %s: %w", kra.ID, err)
		}
		goals = append(goals, goal)
	}
	return goals, nil
}

// MapEmployeeKRAs maps every goal of every KRA, preserving backend order.
func MapEmployeeKRAs(kras []KRA, ownerID string, now time.Time) ([]Goal, error) {
	goals := make([]Goal, 0)
	for _, kra := range kras {
		mapped, err := MapKRAGoals(kra, kras, ownerID, now)
		if err != nil {
			return nil, err
		}
		goals = append(goals, mapped...)
	}
	return goals, nil
}

func mapGoal(raw ZohoGoal, kra KRA, pillar Pillar, ownerID string, now time.Time) (Goal, error) {
	if strings.TrimSpace(raw.ID) == "" {
		return Goal{}, ErrMissingGoalID
	}
	if strings.TrimSpace(raw.GoalNameOnZoho) == "" {
		return Goal{}, fmt.Errorf("goal %s: %w", raw.ID, ErrMissingGoalName)
	}
	return Goal{
		ID:          raw.ID,
		Name:        raw.GoalNameOnZoho,
		Description: raw.Description,
		PillarID:    pillar.ID,
		KRA:         kra.Name,
		KRAID:       kra.ID,
		Priority:    NormalizePriority(raw.Priority),
		Progress:    ResolveProgress(raw.LocalProgress, raw.ZohoProgress),
		StartDate:   raw.StartDate,
		DueDate:     raw.DueDate,
		OwnerID:     ownerID,
		AssignedBy:  AssignedByManager,
		Status:      CollapseStatus(raw.Status),
		SyncStatus:  normalizeSyncStatus(raw.SyncStatus),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func indexOfKRA(kras []KRA, id string) int {
	for i, kra := range kras {
		if kra.ID == id {
			return i
		}
	}
	return -1
}

// ResolveProgress prefers the locally edited value over the synced one.
func ResolveProgress(local, synced *float64) float64 {
	if local != nil {
		return *local
	}
	if synced != nil {
		return *synced
	}
	return 0
}

// CollapseStatus maps "active" (any case) to in-progress and everything else
// to completed.
func CollapseStatus(raw string) string {
	if strings.EqualFold(raw, "active") {
		return GoalStatusInProgress
	}
	return GoalStatusCompleted
}

// NormalizePriority lower-cases the backend priority. Empty means medium.
func NormalizePriority(raw string) string {
	if raw == "" {
		return PriorityMedium
	}
	return strings.ToLower(raw)
}

// BackendPriority is the capitalized priority the backend expects on writes.
func BackendPriority(priority string) string {
	priority = strings.ToLower(strings.TrimSpace(priority))
	if priority == "" {
		priority = PriorityMedium
	}
	return strings.ToUpper(priority[:1]) + priority[1:]
}

func normalizeSyncStatus(raw string) string {
	switch strings.ToLower(raw) {
	case SyncStatusPending:
		return SyncStatusPending
	case SyncStatusError:
		return SyncStatusError
	default:
		return SyncStatusSynced
	}
}
