package reports

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"kra360/internal/domain/performance"
)

// GoalReport is the content of one employee's exported goal board.
type GoalReport struct {
	EmployeeName string
	Designation  string
	Department   string
	GeneratedAt  time.Time
	Goals        []performance.Goal
	Summary      performance.BoardSummary
}

// WriteGoalReportPDF renders report as an A4 PDF into w.
func WriteGoalReportPDF(w io.Writer, report GoalReport) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Goal report "+report.EmployeeName, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr("Goal report: "+report.EmployeeName))
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	if report.Designation != "" || report.Department != "" {
		pdf.Cell(0, 7, tr(fmt.Sprintf("%s  %s", report.Designation, report.Department)))
		pdf.Ln(7)
	}
	pdf.Cell(0, 7, fmt.Sprintf("Generated: %s", report.GeneratedAt.UTC().Format("2006-01-02 15:04 MST")))
	pdf.Ln(10)

	summary := report.Summary
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Summary")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Goals: %d  Completed: %d  In progress: %d  Due soon: %d",
		summary.GoalsTotal, summary.GoalsCompleted, summary.InProgress, summary.DueSoon))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Average progress: %d%%", summary.AvgProgress))
	pdf.Ln(10)

	for _, stats := range summary.Pillars {
		if stats.Count == 0 {
			continue
		}
		pdf.Cell(0, 7, tr(fmt.Sprintf("%s: %d goals, %d%% average, %d completed",
			stats.Pillar.Name, stats.Count, stats.AvgProgress, stats.Completed)))
		pdf.Ln(7)
	}
	pdf.Ln(4)

	widths := []float64{70, 35, 20, 25, 30}
	headers := []string{"Goal", "KRA", "Priority", "Progress", "Due"}
	pdf.SetFont("Helvetica", "B", 10)
	for i, header := range headers {
		pdf.CellFormat(widths[i], 8, header, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 10)
	for _, goal := range report.Goals {
		row := []string{
			truncate(goal.Name, 40),
			truncate(goal.KRA, 20),
			goal.Priority,
			fmt.Sprintf("%.0f%%", goal.Progress),
			goal.DueDate,
		}
		for i, cell := range row {
			pdf.CellFormat(widths[i], 7, tr(cell), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	if len(report.Goals) == 0 {
		pdf.Cell(0, 8, "No goals assigned.")
	}

	return pdf.Output(w)
}

func truncate(value string, max int) string {
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	return string(runes[:max-1]) + "~"
}
