// Package feedback implements the kractl feedback commands.
package feedback

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
	Use:   "feedback",
	Short: "Read and give goal feedback",
}

var (
	giveGoal      string
	giveRating    int
	giveComment   string
	giveAnonymous bool
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Show feedback you received and gave",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

var giveCmd = &cobra.Command{
	Use:   "give <recipient-id>",
	Short: "Rate a goal of yourself or a direct reportee",
	Long: `Give feedback on a goal.

Examples:
  kractl feedback give 64f1c0 --goal 65b2 --rating 4 --comment "Great rollout"
  kractl feedback give 64f1c0 --goal 65b2 --rating 5 --anonymous`,
	Args: cobra.ExactArgs(1),
	RunE: runGive,
}

var goalCmd = &cobra.Command{
	Use:   "goal <goal-id>",
	Short: "Show the feedback on one goal",
	Args:  cobra.ExactArgs(1),
	RunE:  runGoal,
}

func init() {
	giveCmd.Flags().StringVar(&giveGoal, "goal", "", "Goal id (required)")
	giveCmd.Flags().IntVar(&giveRating, "rating", 0, "Rating 1-5 (required)")
	giveCmd.Flags().StringVar(&giveComment, "comment", "", "Comment")
	giveCmd.Flags().BoolVar(&giveAnonymous, "anonymous", false, "Hide your name from the recipient")
	_ = giveCmd.MarkFlagRequired("goal")
	_ = giveCmd.MarkFlagRequired("rating")

	Cmd.AddCommand(listCmd, giveCmd, goalCmd)
}

// ItemList renders feedback center rows.
type ItemList []performance.FeedbackCenterItem

func (il ItemList) Headers() []string {
	return []string{"GOAL", "FROM", "TO", "RATING", "COMMENT", "DATE"}
}

func (il ItemList) Rows() [][]string {
	rows := make([][]string, 0, len(il))
	for _, item := range il {
		rows = append(rows, []string{
			cmdutil.EmptyOr(item.Goal.GoalNameOnZoho, item.Goal.ID),
			personName(item.Provider, item.IsAnonymous),
			personName(item.Recipient, false),
			rating(item.Rating),
			cmdutil.EmptyOr(item.Comment, "-"),
			cmdutil.EmptyOr(item.CreatedAt, "-"),
		})
	}
	return rows
}

// GoalFeedbackList renders the feedback on one goal.
type GoalFeedbackList []performance.Feedback

func (gl GoalFeedbackList) Headers() []string {
	return []string{"FROM", "RATING", "COMMENT", "DATE"}
}

func (gl GoalFeedbackList) Rows() [][]string {
	rows := make([][]string, 0, len(gl))
	for _, item := range gl {
		rows = append(rows, []string{
			personName(item.Provider, item.IsAnonymous),
			rating(item.Rating),
			cmdutil.EmptyOr(item.Comment, "-"),
			cmdutil.EmptyOr(item.CreatedAt, "-"),
		})
	}
	return rows
}

func personName(p *performance.Person, anonymous bool) string {
	if anonymous || p == nil {
		return "Anonymous"
	}
	return cmdutil.EmptyOr(p.DisplayName(), p.ID)
}

func rating(r *int) string {
	if r == nil {
		return "-"
	}
	return strconv.Itoa(*r) + "/5"
}

func runList(cmd *cobra.Command, args []string) error {
	svc, err := cmdutil.Dashboard(cmd.Context())
	if err != nil {
		return err
	}
	center, err := svc.FeedbackCenter(cmd.Context())
	if err != nil {
		return err
	}
	p := cmdutil.Printer(os.Stdout)
	if p.Format() != output.FormatTable {
		return p.Print(center, false, "")
	}
	p.Success("Received")
	if !cmdutil.LoadableError(p, "Received", center.Received) {
		if err := p.Print(ItemList(center.Received.Data), center.Received.Empty, "No feedback received yet."); err != nil {
			return err
		}
	}
	p.Success("Given")
	if !cmdutil.LoadableError(p, "Given", center.Given) {
		if err := p.Print(ItemList(center.Given.Data), center.Given.Empty, "No feedback given yet."); err != nil {
			return err
		}
	}
	return nil
}

func runGive(cmd *cobra.Command, args []string) error {
	svc, err := cmdutil.Dashboard(cmd.Context())
	if err != nil {
		return err
	}
	entry, err := svc.SubmitFeedback(cmd.Context(), args[0], performance.FeedbackInput{
		GoalID:      giveGoal,
		Rating:      giveRating,
		Comment:     giveComment,
		IsAnonymous: giveAnonymous,
	})
	if err != nil {
		return err
	}
	p := cmdutil.Printer(os.Stdout)
	if p.Format() != output.FormatTable {
		return p.Print(entry, false, "")
	}
	p.Success(fmt.Sprintf("Feedback %s recorded.", entry.ID))
	return nil
}

func runGoal(cmd *cobra.Command, args []string) error {
	svc, err := cmdutil.Dashboard(cmd.Context())
	if err != nil {
		return err
	}
	items, err := svc.GoalFeedback(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	p := cmdutil.Printer(os.Stdout)
	if p.Format() != output.FormatTable {
		return p.Print(items, false, "")
	}
	if cmdutil.LoadableError(p, "Feedback", items) {
		return nil
	}
	return p.Print(GoalFeedbackList(items.Data), items.Empty, "No feedback on this goal yet.")
}
