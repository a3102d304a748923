// Package directory implements the kractl employee directory command.
package directory

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"kra360/cmd/kractl/cmdutil"
	"kra360/internal/cli/output"
	"kra360/internal/domain/auth"
	"kra360/internal/view"
)

var (
	role        string
	search      string
	page        int
	interactive bool
	debounce    time.Duration
)

var Cmd = &cobra.Command{
	Use:     "directory",
	Aliases: []string{"dir"},
	Short:   "Browse the employee directory",
	Long: `Browse the employee directory. HR can filter by role.

In interactive mode every line typed on stdin is a new search; only the
latest search is run once typing pauses.

Examples:
  kractl directory --search asha
  kractl directory --role manager --page 2
  kractl directory --interactive`,
	Args: cobra.NoArgs,
	RunE: run,
}

func init() {
	Cmd.Flags().StringVar(&role, "role", "", "Role filter: hr, manager or employee")
	Cmd.Flags().StringVarP(&search, "search", "s", "", "Name or email search")
	Cmd.Flags().IntVar(&page, "page", 1, "Page number")
	Cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Read searches from stdin")
	Cmd.Flags().DurationVar(&debounce, "debounce", view.DefaultSearchDebounce, "Pause before an interactive search runs")
}

// MemberList renders directory rows.
type MemberList []view.TeamMember

func (ml MemberList) Headers() []string {
	return []string{"ID", "NAME", "EMAIL", "ROLE", "DESIGNATION", "DEPARTMENT"}
}

func (ml MemberList) Rows() [][]string {
	rows := make([][]string, 0, len(ml))
	for _, m := range ml {
		rows = append(rows, []string{
			m.Key(),
			m.DisplayName,
			m.Email,
			m.Role,
			cmdutil.EmptyOr(m.Designation, "-"),
			cmdutil.EmptyOr(m.Department, "-"),
		})
	}
	return rows
}

func parseFilter() (view.DirectoryFilter, error) {
	filter := view.DirectoryFilter{Search: strings.TrimSpace(search), Page: page}
	if role != "" {
		parsed, ok := auth.ParseRole(role)
		if !ok {
			return filter, fmt.Errorf("invalid role %q: must be one of hr, manager, employee", role)
		}
		filter.Role = parsed
	}
	return filter, nil
}

func run(cmd *cobra.Command, args []string) error {
	filter, err := parseFilter()
	if err != nil {
		return err
	}
	svc, err := cmdutil.Dashboard(cmd.Context())
	if err != nil {
		return err
	}
	p := cmdutil.Printer(os.Stdout)
	if interactive {
		return searchLoop(cmd.Context(), os.Stdin, p, filter, debounce, svc.Directory)
	}
	dir, err := svc.Directory(cmd.Context(), filter)
	if err != nil {
		return err
	}
	return render(p, dir)
}

func render(p *output.Printer, dir view.DirectoryView) error {
	if p.Format() != output.FormatTable {
		return p.Print(dir, false, "")
	}
	if cmdutil.LoadableError(p, "Directory", dir.Employees) {
		return nil
	}
	if err := p.Print(MemberList(dir.Employees.Data), dir.Employees.Empty, "No employees match."); err != nil {
		return err
	}
	if dir.Metadata.TotalPages > 0 {
		fmt.Fprintf(p.Writer(), "Page %d of %d (%d total)\n", dir.Metadata.Page, dir.Metadata.TotalPages, dir.Metadata.Total)
	}
	return nil
}

type directoryFunc func(ctx context.Context, filter view.DirectoryFilter) (view.DirectoryView, error)

// searchLoop treats each input line as a search term. Results are printed
// as they arrive; superseded searches are dropped. It returns when in is
// exhausted and the last search has been printed.
func searchLoop(ctx context.Context, in io.Reader, p *output.Printer, filter view.DirectoryFilter, delay time.Duration, lookup directoryFunc) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	failures := make(chan error, 1)
	debouncer := view.NewDebouncer(delay, func(ctx context.Context, query string) (view.DirectoryView, error) {
		f := filter
		f.Search = query
		f.Page = 1
		return lookup(ctx, f)
	})
	debouncer.OnError(func(query string, err error) {
		select {
		case failures <- fmt.Errorf("search %q: %w", query, err):
		default:
		}
	})
	defer debouncer.Stop()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- strings.TrimSpace(scanner.Text()):
			case <-ctx.Done():
				return
			}
		}
	}()

	pending := false
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				lines = nil
				if !pending {
					return nil
				}
				continue
			}
			pending = true
			debouncer.Trigger(ctx, line)
		case dir := <-debouncer.Results():
			if err := render(p, dir); err != nil {
				return err
			}
			pending = false
			if lines == nil {
				return nil
			}
		case err := <-failures:
			p.Error(err.Error())
			pending = false
			if lines == nil {
				return nil
			}
		}
	}
}
