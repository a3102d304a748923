// Package commands implements the kractl command tree.
package commands

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"kra360/cmd/kractl/cmdutil"
	"kra360/cmd/kractl/commands/directory"
	"kra360/cmd/kractl/commands/feedback"
	"kra360/cmd/kractl/commands/goals"
	"kra360/cmd/kractl/commands/requests"
	"kra360/cmd/kractl/commands/sync"
)

var rootCmd = &cobra.Command{
	Use:   "kractl",
	Short: "KRA360 performance dashboard on the command line",
	Long: `kractl shows the KRA360 dashboard views for the signed-in employee:
goals grouped by pillar, the team board, feedback, due-date requests and
HRIS sync runs.

Settings come from flags, KRA360_* environment variables or
$XDG_CONFIG_HOME/kra360/config.yaml, in that order.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return cmdutil.Load(cmd)
	},
}

// Execute runs the command tree. Ctrl+C cancels in-flight backend calls.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// GetRootCmd returns the root command for tests.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("server", cmdutil.DefaultServer, "Backend API base URL")
	flags.StringP("output", "o", "table", "Output format (table|json|yaml)")
	flags.Bool("no-color", false, "Disable colored output")
	flags.BoolP("verbose", "v", false, "Log every backend call to stderr")
	flags.String("session-file", "", "Session file (default $XDG_CONFIG_HOME/kra360/session.json)")
	flags.String("data-key", "", "Key used to encrypt the session file")
	flags.Duration("timeout", 30*time.Second, "Backend request timeout")
	flags.String("config", "", "Config file")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(teamCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(goals.Cmd)
	rootCmd.AddCommand(feedback.Cmd)
	rootCmd.AddCommand(requests.Cmd)
	rootCmd.AddCommand(sync.Cmd)
	rootCmd.AddCommand(directory.Cmd)
}

func PrintErr(format string, args ...any) {
	rootCmd.PrintErrf(format+"\n", args...)
}
