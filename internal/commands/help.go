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
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return nil }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "taskdash help" }
func (c *HelpCmd) NeedsBackend() bool { return false }
func (c *HelpCmd) Interactive() bool  { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, "Usage:\n")
	fmt.Fprintf(out, "  %-52s %s\n", "taskdash", "Open the interactive dashboard")
	fmt.Fprint(out, DefaultRegistry.Usage())
	fmt.Fprint(out, commonFlagsText)
	return exitcode.Success
}

const commonFlagsText = `
Common flags:
  --config <dir>      Override config directory
  --base-url <url>    Override the task API root
  --page-size <n>     Tasks per page
  --quiet             Suppress informational output
  --debug             Print debug logs (to taskdash.log in the dashboard)

Environment:
  TASKDASH_BASE_URL, TASKDASH_PAGE_SIZE, TASKDASH_TOKEN, TASKDASH_REQUEST_TIMEOUT
`
