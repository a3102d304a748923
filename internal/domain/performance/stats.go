package performance

import (
	"math"
	"time"
)

type PillarStats struct {
	Pillar      Pillar `json:"pillar"`
	Count       int    `json:"count"`
	AvgProgress int    `json:"avgProgress"`
	Completed   int    `json:"completed"`
}

type BoardSummary struct {
	GoalsTotal     int           `json:"goalsTotal"`
	GoalsCompleted int           `json:"goalsCompleted"`
	InProgress     int           `json:"inProgress"`
	AvgProgress    int           `json:"avgProgress"`
	DueSoon        int           `json:"dueSoon"`
	Pillars        []PillarStats `json:"pillars"`
}

// Summarize builds per-pillar and overall stats for a set of mapped goals.
func Summarize(goals []Goal, now time.Time) BoardSummary {
	summary := BoardSummary{
		GoalsTotal: len(goals),
		Pillars:    make([]PillarStats, 0, len(Pillars)),
	}
	total := 0.0
	for _, goal := range goals {
		total += goal.Progress
		switch goal.Status {
		case GoalStatusCompleted:
			summary.GoalsCompleted++
		case GoalStatusInProgress:
			summary.InProgress++
		}
		if dueSoon(goal.DueDate, now) {
			summary.DueSoon++
		}
	}
	summary.AvgProgress = roundedAverage(total, len(goals))
	for _, pillar := range Pillars {
		summary.Pillars = append(summary.Pillars, pillarStats(pillar, goals))
	}
	return summary
}

func pillarStats(pillar Pillar, goals []Goal) PillarStats {
	stats := PillarStats{Pillar: pillar}
	total := 0.0
	for _, goal := range goals {
		if goal.PillarID != pillar.ID {
			continue
		}
		stats.Count++
		total += goal.Progress
		if goal.Status == GoalStatusCompleted {
			stats.Completed++
		}
	}
	stats.AvgProgress = roundedAverage(total, stats.Count)
	return stats
}

func roundedAverage(total float64, count int) int {
	if count == 0 {
		return 0
	}
	return int(math.Round(total / float64(count)))
}

func dueSoon(raw string, now time.Time) bool {
	due, err := ParseDate(raw)
	if err != nil || due.IsZero() {
		return false
	}
	days := int(math.Ceil(due.Sub(now).Hours() / 24))
	return days > 0 && days <= DueSoonWindowDays
}

// ParseDate accepts RFC3339 or YYYY-MM-DD.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02", value)
}
