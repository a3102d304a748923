package commands

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"kra360/cmd/kractl/cmdutil"
	"kra360/internal/cli/output"
	"kra360/internal/reports"
	"kra360/internal/view"
)

var (
	reportEmployee string
	reportOut      string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show dashboard counters or export a goal report",
	Args:  cobra.NoArgs,
	RunE:  runDashboard,
}

var reportPDFCmd = &cobra.Command{
	Use:   "pdf",
	Short: "Export a goal report as PDF",
	Long: `Export the goal board of yourself or an employee you may view as PDF.

Examples:
  kractl report pdf --out my-goals.pdf
  kractl report pdf --employee 64f1c0 --out asha.pdf`,
	Args: cobra.NoArgs,
	RunE: runReportPDF,
}

func init() {
	reportPDFCmd.Flags().StringVar(&reportEmployee, "employee", "", "Employee id (default: yourself)")
	reportPDFCmd.Flags().StringVar(&reportOut, "out", "goal-report.pdf", "Output file")
	reportCmd.AddCommand(reportPDFCmd)
}

func runDashboard(cmd *cobra.Command, args []string) error {
	svc, err := cmdutil.Dashboard(cmd.Context())
	if err != nil {
		return err
	}
	dashboard, err := svc.Dashboard(cmd.Context())
	if err != nil {
		return err
	}
	p := cmdutil.Printer(os.Stdout)
	if p.Format() != output.FormatTable {
		return p.Print(dashboard, false, "")
	}
	return output.KeyValues(p.Writer(), dashboardPairs(dashboard))
}

// dashboardPairs renders counters sorted by name. A counter whose fetch
// failed shows the error instead of a number.
func dashboardPairs(dashboard view.DashboardView) [][2]string {
	keys := make([]string, 0, len(dashboard.Counters))
	for key := range dashboard.Counters {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	pairs := make([][2]string, 0, len(keys))
	for _, key := range keys {
		counter := dashboard.Counters[key]
		value := fmt.Sprint(counter.Data)
		switch counter.State {
		case view.StateError:
			value = "unavailable: " + counter.Error
		case view.StateLoading:
			value = "loading"
		}
		pairs = append(pairs, [2]string{key, value})
	}
	return pairs
}

func runReportPDF(cmd *cobra.Command, args []string) error {
	svc, err := cmdutil.Dashboard(cmd.Context())
	if err != nil {
		return err
	}
	report, err := svc.GoalReport(cmd.Context(), reportEmployee)
	if err != nil {
		return err
	}
	file, err := os.Create(reportOut)
	if err != nil {
		return err
	}
	if err := reports.WriteGoalReportPDF(file, report); err != nil {
		_ = file.Close()
		return fmt.Errorf("render report: %w", err)
	}
	if err := file.Close(); err != nil {
		return err
	}
	cmdutil.Printer(os.Stdout).Success(fmt.Sprintf("Wrote %s (%d goals).", reportOut, len(report.Goals)))
	return nil
}
