package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskdash/internal/config"
	"taskdash/internal/exitcode"
	"taskdash/internal/output"
	"taskdash/internal/service"
	"taskdash/internal/tui"
)

func init() {
	Register(&DashboardCmd{})
}

// DashboardCmd runs the interactive dashboard.
type DashboardCmd struct{}

func (c *DashboardCmd) Name() string       { return "dashboard" }
func (c *DashboardCmd) Aliases() []string  { return nil }
func (c *DashboardCmd) Synopsis() string   { return "Open the interactive dashboard" }
func (c *DashboardCmd) Usage() string      { return "taskdash dashboard" }
func (c *DashboardCmd) NeedsBackend() bool { return true }
func (c *DashboardCmd) Interactive() bool  { return true }

func (c *DashboardCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DashboardCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	store := newStore(cfg, svc)
	err := tui.Run(ctx, store, out)
	if cfg.Debug && cfg.Log != nil {
		var state strings.Builder
		if ferr := output.FormatState(&state, store.Snapshot()); ferr == nil {
			cfg.Log.Debug("session state", "snapshot", state.String())
		}
	}
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
