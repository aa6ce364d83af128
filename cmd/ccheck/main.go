package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/ccheck/internal/config"
	"github.com/standardbeagle/ccheck/internal/version"
)

func main() {
	app := &cli.App{
		Name:                   "ccheck",
		Usage:                  "Scope-aware semantic analysis for C sources, cross-checked against clang",
		Version:                version.Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file path (.ccheck.kdl or .ccheck.toml)",
			},
			&cli.StringFlag{
				Name:  "clang",
				Usage: "External toolchain executable",
			},
			&cli.StringSliceFlag{
				Name:    "include-dir",
				Aliases: []string{"I"},
				Usage:   "Include-search directory (repeatable, ordered)",
			},
			&cli.IntFlag{
				Name:  "timeout",
				Usage: "External toolchain timeout in seconds",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Report format: text or json",
			},
			&cli.BoolFlag{
				Name:  "no-external",
				Usage: "Skip the external cross-checking pass",
			},
			&cli.IntFlag{
				Name:  "dedup-window",
				Usage: "Line tolerance when collapsing findings from both passes",
				Value: -1,
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "watch",
				Usage:     "Re-analyze files whenever they change",
				ArgsUsage: "<file.c|glob> [...]",
				Action:    runWatch,
			},
			{
				Name:   "serve-mcp",
				Usage:  "Serve the analyzer as an MCP stdio server",
				Action: runServeMCP,
			},
			{
				Name:  "version",
				Usage: "Print detailed version information",
				Action: func(c *cli.Context) error {
					fmt.Println(version.FullInfo())
					return nil
				},
			},
		},
		ArgsUsage: "<file.c|glob> [...]",
		Action:    runAnalyze,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "ccheck:", err)
		os.Exit(1)
	}
}

// loadConfigWithOverrides loads configuration and applies CLI flag
// overrides on top.
func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	if clang := c.String("clang"); clang != "" {
		cfg.Clang.Executable = clang
	}
	if dirs := c.StringSlice("include-dir"); len(dirs) > 0 {
		cfg.Clang.IncludeDirs = append(cfg.Clang.IncludeDirs, dirs...)
	}
	if timeout := c.Int("timeout"); timeout > 0 {
		cfg.Clang.TimeoutSec = timeout
	}
	if format := c.String("format"); format != "" {
		cfg.Analysis.Format = format
	}
	if c.Bool("no-external") {
		cfg.Analysis.External = false
	}
	if window := c.Int("dedup-window"); window >= 0 {
		cfg.Analysis.DedupWindow = window
	}
	return cfg, nil
}

// expandArgs resolves positional arguments, treating ones with glob
// metacharacters as doublestar patterns.
func expandArgs(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		if !strings.ContainsAny(arg, "*?[{") {
			files = append(files, arg)
			continue
		}
		matches, err := doublestar.FilepathGlob(arg)
		if err != nil {
			return nil, fmt.Errorf("bad glob pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("pattern %q matched no files", arg)
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files; pass one or more C source paths")
	}
	return files, nil
}
