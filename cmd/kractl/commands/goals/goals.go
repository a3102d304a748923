// Package goals implements the kractl goals commands.
package goals

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"kra360/cmd/kractl/cmdutil"
	"kra360/internal/cli/output"
	"kra360/internal/domain/performance"
	"kra360/internal/view"
)

var Cmd = &cobra.Command{
	Use:   "goals",
	Short: "List, create and update goals",
}

var (
	listEmployee string

	createKRA      string
	createName     string
	createDesc     string
	createDue      string
	createPriority string
	createProgress float64
	createFor      string

	updateOwner    string
	updateName     string
	updateDesc     string
	updateDue      string
	updatePriority string
	updateProgress float64
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Show the goal board of yourself or a reportee",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Add a goal under a KRA",
	Long: `Add a goal under an existing KRA.

Examples:
  kractl goals create --kra 65a0 --name "Ship billing v2" --due 2026-12-01
  kractl goals create --kra 65a0 --name "Mentor interns" --due 2026-11-15 --for 64f1c0 --priority high`,
	Args: cobra.NoArgs,
	RunE: runCreate,
}

var updateCmd = &cobra.Command{
	Use:   "update <goal-id>",
	Short: "Update the name, progress, priority or due date of a goal",
	Args:  cobra.ExactArgs(1),
	RunE:  runUpdate,
}

func init() {
	listCmd.Flags().StringVar(&listEmployee, "employee", "", "Employee id (default: yourself)")

	createCmd.Flags().StringVar(&createKRA, "kra", "", "KRA id (required)")
	createCmd.Flags().StringVar(&createName, "name", "", "Goal name (required)")
	createCmd.Flags().StringVar(&createDesc, "description", "", "Goal description")
	createCmd.Flags().StringVar(&createDue, "due", "", "Due date, YYYY-MM-DD (required)")
	createCmd.Flags().StringVar(&createPriority, "priority", "", "low, medium or high")
	createCmd.Flags().Float64Var(&createProgress, "progress", 0, "Progress 0-100")
	createCmd.Flags().StringVar(&createFor, "for", "", "Reportee id (default: yourself)")
	_ = createCmd.MarkFlagRequired("kra")
	_ = createCmd.MarkFlagRequired("name")
	_ = createCmd.MarkFlagRequired("due")

	updateCmd.Flags().StringVar(&updateOwner, "owner", "", "Goal owner id (default: yourself)")
	updateCmd.Flags().StringVar(&updateName, "name", "", "Goal name (required)")
	updateCmd.Flags().StringVar(&updateDesc, "description", "", "Goal description")
	updateCmd.Flags().StringVar(&updateDue, "due", "", "Due date, YYYY-MM-DD")
	updateCmd.Flags().StringVar(&updatePriority, "priority", "", "low, medium or high")
	updateCmd.Flags().Float64Var(&updateProgress, "progress", 0, "Progress 0-100")
	_ = updateCmd.MarkFlagRequired("name")

	Cmd.AddCommand(listCmd, createCmd, updateCmd)
}

// GoalList renders goal rows.
type GoalList []performance.Goal

func (gl GoalList) Headers() []string {
	return []string{"ID", "NAME", "KRA", "PRIORITY", "PROGRESS", "DUE", "STATUS"}
}

func (gl GoalList) Rows() [][]string {
	rows := make([][]string, 0, len(gl))
	for _, g := range gl {
		rows = append(rows, []string{
			g.ID,
			g.Name,
			g.KRA,
			g.Priority,
			strconv.FormatFloat(g.Progress, 'f', 0, 64) + "%",
			cmdutil.EmptyOr(g.DueDate, "-"),
			g.Status,
		})
	}
	return rows
}

func runList(cmd *cobra.Command, args []string) error {
	svc, err := cmdutil.Dashboard(cmd.Context())
	if err != nil {
		return err
	}
	board, err := svc.GoalBoard(cmd.Context(), listEmployee)
	if err != nil {
		return err
	}
	p := cmdutil.Printer(os.Stdout)
	if p.Format() != output.FormatTable {
		return p.Print(board, false, "")
	}

	name := board.Employee.Name
	if name == "" {
		name = board.TargetID
	}
	if err := output.KeyValues(p.Writer(), boardSummary(name, board)); err != nil {
		return err
	}
	if cmdutil.LoadableError(p, "KRAs", board.KRAs) {
		return nil
	}
	if board.KRAs.Empty {
		p.Warning("No KRAs assigned yet.")
		return nil
	}
	for _, kra := range board.KRAs.Data {
		fmt.Fprintf(p.Writer(), "\n%s (%s)\n", kra.Name, kra.Pillar.Name)
		if err := p.Print(GoalList(kra.Goals), len(kra.Goals) == 0, "No goals under this KRA."); err != nil {
			return err
		}
	}
	return nil
}

func boardSummary(name string, board view.GoalBoardView) [][2]string {
	return [][2]string{
		{"Employee", name},
		{"Relationship", string(board.Relationship)},
		{"Goals", strconv.Itoa(board.Summary.GoalsTotal)},
		{"Completed", strconv.Itoa(board.Summary.GoalsCompleted)},
		{"Average progress", strconv.Itoa(board.Summary.AvgProgress) + "%"},
		{"Due soon", strconv.Itoa(board.Summary.DueSoon)},
		{"Can edit", cmdutil.BoolToYesNo(board.Permissions.CanEdit)},
	}
}

func runCreate(cmd *cobra.Command, args []string) error {
	svc, err := cmdutil.Dashboard(cmd.Context())
	if err != nil {
		return err
	}
	input := performance.CreateGoalInput{
		GoalName:         createName,
		Description:      createDesc,
		DueDate:          createDue,
		KRAID:            createKRA,
		Priority:         createPriority,
		TargetEmployeeID: createFor,
	}
	if cmd.Flags().Changed("progress") {
		input.Progress = &createProgress
	}
	goal, err := svc.CreateGoal(cmd.Context(), input)
	if err != nil {
		return err
	}
	p := cmdutil.Printer(os.Stdout)
	if p.Format() != output.FormatTable {
		return p.Print(goal, false, "")
	}
	p.Success(fmt.Sprintf("Created goal %s (%s).", goal.GoalNameOnZoho, goal.ID))
	return nil
}

func runUpdate(cmd *cobra.Command, args []string) error {
	svc, err := cmdutil.Dashboard(cmd.Context())
	if err != nil {
		return err
	}
	owner := updateOwner
	if owner == "" {
		owner = svc.Viewer().ID
	}
	goal, err := svc.UpdateGoal(cmd.Context(), owner, args[0], performance.UpdateGoalInput{
		GoalName:    updateName,
		Description: updateDesc,
		Priority:    updatePriority,
		Progress:    updateProgress,
		DueDate:     updateDue,
	})
	if err != nil {
		return err
	}
	p := cmdutil.Printer(os.Stdout)
	if p.Format() != output.FormatTable {
		return p.Print(goal, false, "")
	}
	p.Success(fmt.Sprintf("Updated goal %s.", args[0]))
	return nil
}
