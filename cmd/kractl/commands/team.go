package commands

import (
	"os"

	"github.com/spf13/cobra"

	"kra360/cmd/kractl/cmdutil"
	"kra360/internal/cli/output"
	"kra360/internal/view"
)

var teamCmd = &cobra.Command{
	Use:   "team",
	Short: "Show your direct reportees, their reportees and your team",
	Args:  cobra.NoArgs,
	RunE:  runTeam,
}

// MemberList renders team rows.
type MemberList []view.TeamMember

func (ml MemberList) Headers() []string {
	return []string{"ID", "NAME", "DESIGNATION", "ROLE", "CAN EDIT", "FEEDBACK"}
}

func (ml MemberList) Rows() [][]string {
	rows := make([][]string, 0, len(ml))
	for _, m := range ml {
		rows = append(rows, []string{
			m.Key(),
			m.DisplayName,
			cmdutil.EmptyOr(m.Designation, "-"),
			cmdutil.EmptyOr(m.Role, "-"),
			cmdutil.BoolToYesNo(m.Permissions.CanEdit),
			cmdutil.BoolToYesNo(m.Permissions.CanGiveFeedback),
		})
	}
	return rows
}

func runTeam(cmd *cobra.Command, args []string) error {
	svc, err := cmdutil.Dashboard(cmd.Context())
	if err != nil {
		return err
	}
	team, err := svc.TeamBoard(cmd.Context())
	if err != nil {
		return err
	}

	p := cmdutil.Printer(os.Stdout)
	if p.Format() != output.FormatTable {
		return p.Print(team, false, "")
	}
	sections := []struct {
		title   string
		members view.Loadable[[]view.TeamMember]
	}{
		{"Direct reportees", team.Direct},
		{"Indirect reportees", view.LoadedList(team.Indirect)},
		{"Team", team.Teammates},
	}
	for _, section := range sections {
		if section.members.State == "" || (section.members.Empty && section.title != "Direct reportees") {
			continue
		}
		p.Success(section.title)
		if cmdutil.LoadableError(p, section.title, section.members) {
			continue
		}
		if err := p.Print(MemberList(section.members.Data), section.members.Empty, "No one here yet."); err != nil {
			return err
		}
	}
	return nil
}
