package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"taskdash/internal/config"
	"taskdash/internal/dashboard"
	"taskdash/internal/exitcode"
	"taskdash/internal/output"
	"taskdash/internal/service"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
type ListCmd struct {
	page   int
	format string
}

// SetPage sets the page number (for testing).
func (c *ListCmd) SetPage(page int) {
	c.page = page
}

// SetFormat sets the output format (for testing).
func (c *ListCmd) SetFormat(format string) {
	c.format = format
}

func (c *ListCmd) Name() string       { return "list" }
func (c *ListCmd) Aliases() []string  { return []string{"ls"} }
func (c *ListCmd) Synopsis() string   { return "Print one page of tasks" }
func (c *ListCmd) Usage() string      { return "taskdash list [--page <n>] [--format text|json|yaml]" }
func (c *ListCmd) NeedsBackend() bool { return true }
func (c *ListCmd) Interactive() bool  { return false }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.page, "page", 1, "")
	fs.StringVar(&c.format, "format", string(output.Text), "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if c.page < 1 {
		fmt.Fprintf(errOut, "error: invalid page number: %d\n", c.page)
		return exitcode.UserError
	}
	if c.format == "" {
		c.format = string(output.Text)
	}
	format, err := output.ParseFormat(c.format)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	store := newStore(cfg, svc)
	view, code := loadPage(ctx, store, c.page, errOut)
	if code != exitcode.Success {
		return code
	}

	if err := output.FormatView(out, view, format); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}

// loadPage fetches page into store and rejects pages past the last one.
// The bound is only known after the fetch, so the check happens here.
func loadPage(ctx context.Context, store *dashboard.Store, page int, errOut io.Writer) (dashboard.View, int) {
	if _, err := store.RequestPage(ctx, page); err != nil {
		if errors.Is(err, dashboard.ErrPageOutOfRange) {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return dashboard.View{}, exitcode.UserError
		}
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return dashboard.View{}, exitcode.BackendError
	}

	view := store.MergedView()
	if view.TotalPages > 0 && page > view.TotalPages {
		fmt.Fprintf(errOut, "error: %v: %d (last page is %d)\n", dashboard.ErrPageOutOfRange, page, view.TotalPages)
		return dashboard.View{}, exitcode.UserError
	}
	return view, exitcode.Success
}
