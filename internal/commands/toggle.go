package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskdash/internal/config"
	"taskdash/internal/exitcode"
	"taskdash/internal/service"
)

func init() {
	Register(&ToggleCmd{})
}

// ToggleCmd implements the toggle command.
type ToggleCmd struct {
	page int
}

// SetPage sets the page number (for testing).
func (c *ToggleCmd) SetPage(page int) {
	c.page = page
}

func (c *ToggleCmd) Name() string       { return "toggle" }
func (c *ToggleCmd) Aliases() []string  { return []string{"done"} }
func (c *ToggleCmd) Synopsis() string   { return "Flip a task's completed state" }
func (c *ToggleCmd) Usage() string      { return "taskdash toggle [--page <n>] <id>" }
func (c *ToggleCmd) NeedsBackend() bool { return true }
func (c *ToggleCmd) Interactive() bool  { return false }

func (c *ToggleCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.page, "page", 1, "")
}

func (c *ToggleCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if c.page < 1 {
		c.page = 1
	}

	store := newStore(cfg, svc)
	view, code := loadPage(ctx, store, c.page, errOut)
	if code != exitcode.Success {
		return code
	}

	task, err := findTaskInView(view, id)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	completed, err := store.Toggle(ctx, task)
	if err != nil {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}

	if !cfg.Quiet {
		state := "incomplete"
		if completed {
			state = "completed"
		}
		fmt.Fprintf(out, "ok #%d %s\n", id, state)
	}
	return exitcode.Success
}
