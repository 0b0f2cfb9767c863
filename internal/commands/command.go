// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"

	"taskdash/internal/config"
	"taskdash/internal/dashboard"
	"taskdash/internal/service"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsBackend returns true if the command talks to the remote task API.
	// Commands like help and version return false.
	NeedsBackend() bool

	// Interactive returns true if the command owns the terminal while it runs.
	// Logs are then written to the log file instead of stderr.
	Interactive() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// cfg is always provided (config dir, settings, logger).
	// svc is nil if NeedsBackend() returns false.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int
}

// newStore creates the reconciliation store every backend command works through.
func newStore(cfg *config.Config, svc service.Service) *dashboard.Store {
	return dashboard.New(svc, dashboard.Options{
		PageSize: cfg.PageSize,
		Logger:   cfg.Log,
	})
}
