// Package sync implements the kractl HRIS sync commands.
package sync

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"kra360/cmd/kractl/cmdutil"
	"kra360/internal/cli/output"
	"kra360/internal/domain/performance"
)

var Cmd = &cobra.Command{
	Use:   "sync",
	Short: "Inspect and trigger HRIS syncs",
}

var force bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the sync history",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

var runCmd = &cobra.Command{
	Use:       "run <employees|goals>",
	Short:     "Trigger a sync",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{performance.SyncTypeEmployees, performance.SyncTypeGoals},
	RunE:      runSync,
}

func init() {
	runCmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation")
	Cmd.AddCommand(statusCmd, runCmd)
}

// HistoryList renders sync history rows.
type HistoryList []performance.SyncHistoryRecord

func (hl HistoryList) Headers() []string {
	return []string{"TYPE", "STATUS", "PROCESSED", "INSERTED", "UPDATED", "INACTIVATED", "STARTED", "COMPLETED"}
}

func (hl HistoryList) Rows() [][]string {
	rows := make([][]string, 0, len(hl))
	for _, h := range hl {
		rows = append(rows, []string{
			h.SyncType,
			h.Status,
			strconv.Itoa(h.RecordsProcessed),
			strconv.Itoa(h.ChangesApplied.Inserted),
			strconv.Itoa(h.ChangesApplied.Updated),
			strconv.Itoa(h.ChangesApplied.Inactivated),
			cmdutil.EmptyOr(h.StartedAt, "-"),
			cmdutil.EmptyOr(h.CompletedAt, "-"),
		})
	}
	return rows
}

func runStatus(cmd *cobra.Command, args []string) error {
	svc, err := cmdutil.Dashboard(cmd.Context())
	if err != nil {
		return err
	}
	status, err := svc.SyncStatus(cmd.Context())
	if err != nil {
		return err
	}
	p := cmdutil.Printer(os.Stdout)
	if p.Format() != output.FormatTable {
		return p.Print(status, false, "")
	}
	if cmdutil.LoadableError(p, "Sync history", status.History) {
		return nil
	}
	return p.Print(HistoryList(status.History.Data), status.History.Empty, "No syncs have run yet.")
}

func runSync(cmd *cobra.Command, args []string) error {
	syncType := args[0]
	confirmed, err := cmdutil.Confirm(fmt.Sprintf("Sync %s from the HRIS now", syncType), force)
	if err != nil || !confirmed {
		return err
	}

	svc, err := cmdutil.Dashboard(cmd.Context())
	if err != nil {
		return err
	}
	result, err := svc.RunSync(cmd.Context(), syncType)
	if err != nil {
		return err
	}
	p := cmdutil.Printer(os.Stdout)
	if p.Format() != output.FormatTable {
		return p.Print(result, false, "")
	}
	message := cmdutil.EmptyOr(result.Run.Message, "Sync "+cmdutil.EmptyOr(result.Run.Status, "started"))
	p.Success(message)
	if cmdutil.LoadableError(p, "Sync history", result.History) {
		return nil
	}
	return p.Print(HistoryList(result.History.Data), result.History.Empty, "No syncs have run yet.")
}
