package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/ccheck/internal/config"
	"github.com/standardbeagle/ccheck/internal/debug"
	"github.com/standardbeagle/ccheck/internal/mcp"
	"github.com/standardbeagle/ccheck/internal/watch"
)

// runServeMCP serves the analyzer over MCP stdio. Stdout belongs to
// the protocol, so debug output is suppressed for the lifetime of the
// server.
func runServeMCP(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	debug.SetMCPMode(true)

	server, err := mcp.NewServer(cfg)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	ctx, cancel := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return server.Run(ctx)
}

// newWatcher wires the configured debounce into a file watcher.
func newWatcher(cfg *config.Config, onChange func(string)) (*watch.Watcher, error) {
	return watch.New(cfg.DebounceInterval(), onChange)
}
