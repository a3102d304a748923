// Package requests implements the kractl due-date request commands.
package requests

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"kra360/cmd/kractl/cmdutil"
	"kra360/internal/cli/output"
	"kra360/internal/domain/auth"
	"kra360/internal/domain/performance"
	"kra360/internal/view"
)

var Cmd = &cobra.Command{
	Use:     "requests",
	Aliases: []string{"req"},
	Short:   "Manage due-date change requests",
}

var (
	force bool

	createCurrent  string
	createProposed string
	createReason   string
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Show requests awaiting your decision and the ones you created",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

var approveCmd = &cobra.Command{
	Use:   "approve <request-id>",
	Short: "Approve a pending request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return decide(cmd, args[0], true)
	},
}

var rejectCmd = &cobra.Command{
	Use:   "reject <request-id>",
	Short: "Reject a pending request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return decide(cmd, args[0], false)
	},
}

var createCmd = &cobra.Command{
	Use:   "create <goal-id>",
	Short: "Ask your manager to move the due date of one of your goals",
	Long: `Ask for a new due date.

Examples:
  kractl requests create 65b2 --current 2026-11-01 --proposed 2026-12-01 --reason "Vendor delay"`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

func init() {
	approveCmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation")
	rejectCmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation")

	createCmd.Flags().StringVar(&createCurrent, "current", "", "Current due date, YYYY-MM-DD")
	createCmd.Flags().StringVar(&createProposed, "proposed", "", "Proposed due date, YYYY-MM-DD (required)")
	createCmd.Flags().StringVar(&createReason, "reason", "", "Reason for the change")
	_ = createCmd.MarkFlagRequired("proposed")

	Cmd.AddCommand(listCmd, approveCmd, rejectCmd, createCmd)
}

// RequestList renders due-date request rows.
type RequestList []performance.DueDateChangeRequest

func (rl RequestList) Headers() []string {
	return []string{"ID", "GOAL", "REQUESTED BY", "CURRENT", "PROPOSED", "STATUS"}
}

func (rl RequestList) Rows() [][]string {
	rows := make([][]string, 0, len(rl))
	for _, r := range rl {
		rows = append(rows, []string{
			r.ID,
			cmdutil.EmptyOr(r.Goal.GoalNameOnZoho, r.Goal.ID),
			cmdutil.EmptyOr(r.RequestedBy.DisplayName(), r.RequestedBy.ID),
			cmdutil.EmptyOr(r.CurrentDueDate, "-"),
			r.ProposedDueDate,
			r.Status,
		})
	}
	return rows
}

func runList(cmd *cobra.Command, args []string) error {
	svc, err := cmdutil.Dashboard(cmd.Context())
	if err != nil {
		return err
	}
	pending, err := svc.PendingRequests(cmd.Context())
	if err != nil {
		return err
	}
	p := cmdutil.Printer(os.Stdout)
	if p.Format() != output.FormatTable {
		return p.Print(pending, false, "")
	}
	return printPending(p, pending, auth.HasPermission(svc.Viewer().Role, auth.PermDueDateApprove))
}

// printPending prints both request lists as tables. The approval list is
// shown only to viewers who may decide.
func printPending(p *output.Printer, pending view.PendingRequestsView, canApprove bool) error {
	if canApprove {
		p.Success("Awaiting your decision")
		if !cmdutil.LoadableError(p, "Awaiting your decision", pending.ToApprove) {
			if err := p.Print(RequestList(pending.ToApprove.Data), pending.ToApprove.Empty, "No requests awaiting your decision."); err != nil {
				return err
			}
		}
	}
	p.Success("Created by you")
	if cmdutil.LoadableError(p, "Created by you", pending.Created) {
		return nil
	}
	return p.Print(RequestList(pending.Created.Data), pending.Created.Empty, "No requests yet.")
}

func decide(cmd *cobra.Command, requestID string, approved bool) error {
	verb := "Reject"
	if approved {
		verb = "Approve"
	}
	confirmed, err := cmdutil.Confirm(fmt.Sprintf("%s request %s", verb, requestID), force)
	if err != nil || !confirmed {
		return err
	}

	svc, err := cmdutil.Dashboard(cmd.Context())
	if err != nil {
		return err
	}
	decided, err := svc.DecideDueDateRequest(cmd.Context(), requestID, approved)
	if err != nil {
		return err
	}
	p := cmdutil.Printer(os.Stdout)
	if p.Format() != output.FormatTable {
		return p.Print(decided, false, "")
	}
	p.Success(fmt.Sprintf("Request %s is now %s.", requestID, decided.Status))
	return nil
}

func runCreate(cmd *cobra.Command, args []string) error {
	svc, err := cmdutil.Dashboard(cmd.Context())
	if err != nil {
		return err
	}
	created, err := svc.RequestDueDateChange(cmd.Context(), svc.Viewer().ID, performance.DueDateChangeInput{
		GoalID:          args[0],
		CurrentDueDate:  createCurrent,
		ProposedDueDate: createProposed,
		Reason:          createReason,
	})
	if err != nil {
		return err
	}
	p := cmdutil.Printer(os.Stdout)
	if p.Format() != output.FormatTable {
		return p.Print(created, false, "")
	}
	p.Success(fmt.Sprintf("Requested %s for goal %s.", createProposed, args[0]))
	return nil
}
