package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"kra360/cmd/kractl/cmdutil"
	"kra360/internal/cli/output"
	"kra360/internal/cli/prompt"
	"kra360/internal/domain/auth"
)

var loginCmd = &cobra.Command{
	Use:   "login [zoho-user-id]",
	Short: "Sign in with your HRIS user id",
	Long: `Sign in with your HRIS (Zoho) user id. The identity is kept in the
session file until 'kractl logout'.

Examples:
  kractl login 7734000000123
  KRA360_SERVER=https://kra.example.com/api/v1 kractl login`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and remove the stored session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := cmdutil.Store(cmd.Context(), cmdutil.Client())
		if err != nil {
			return err
		}
		store.Logout(cmd.Context())
		cmdutil.Printer(os.Stdout).Success("Signed out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in employee",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := cmdutil.Store(cmd.Context(), cmdutil.Client())
		if err != nil {
			return err
		}
		identity, ok := store.CurrentUser()
		if !ok {
			return cmdutil.ErrNotLoggedIn
		}
		return printIdentity(identity)
	},
}

func runLogin(cmd *cobra.Command, args []string) error {
	var zohoUserID string
	if len(args) == 1 {
		zohoUserID = args[0]
	} else {
		var err error
		zohoUserID, err = prompt.InputRequired("Zoho user id")
		if err != nil {
			return err
		}
	}

	store, err := cmdutil.Store(cmd.Context(), cmdutil.Client())
	if err != nil {
		return err
	}
	identity, err := store.Login(cmd.Context(), zohoUserID)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	cmdutil.Printer(os.Stdout).Success(fmt.Sprintf("Signed in as %s (%s).", identity.Name, identity.Role))
	return nil
}

func printIdentity(identity auth.Identity) error {
	p := cmdutil.Printer(os.Stdout)
	if p.Format() != output.FormatTable {
		return p.Print(identity, false, "")
	}
	return output.KeyValues(p.Writer(), [][2]string{
		{"Name", identity.Name},
		{"Email", cmdutil.EmptyOr(identity.Email, "-")},
		{"Role", identity.Role.String()},
		{"Designation", cmdutil.EmptyOr(identity.Designation, "-")},
		{"Department", cmdutil.EmptyOr(identity.Department, "-")},
		{"Employee id", identity.ID},
	})
}
