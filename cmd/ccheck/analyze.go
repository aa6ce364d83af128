package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/ccheck/internal/report"
	"github.com/standardbeagle/ccheck/internal/runner"
	"github.com/standardbeagle/ccheck/internal/types"
)

// runAnalyze is the default action: analyze each input file and
// render its report. Exit code 0 means the run completed, diagnostics
// or not; non-zero is reserved for runs that failed to produce
// anything (preprocessing failure, unusable toolchain with nothing
// from the internal pass, bad invocation).
func runAnalyze(c *cli.Context) error {
	files, err := expandArgs(c.Args().Slice())
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	run, err := runner.New(cfg)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	ctx, cancel := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	failed := false
	for _, file := range files {
		rep, err := run.Analyze(ctx, file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ccheck: %v\n", err)
			failed = true
			continue
		}
		if err := render(cfg.Analysis.Format, rep); err != nil {
			return cli.Exit(err.Error(), 1)
		}
		if runner.Failed(rep) {
			failed = true
		}
	}

	if failed {
		return cli.Exit("", 1)
	}
	return nil
}

func render(format string, rep *types.Report) error {
	if format == "json" {
		return report.WriteJSON(os.Stdout, rep)
	}
	return report.WriteText(os.Stdout, rep)
}

// runWatch analyzes the inputs once, then re-analyzes files as they
// change until interrupted.
func runWatch(c *cli.Context) error {
	files, err := expandArgs(c.Args().Slice())
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	run, err := runner.New(cfg)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	ctx, cancel := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	analyzeOne := func(file string) {
		rep, err := run.Analyze(ctx, file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ccheck: %v\n", err)
			return
		}
		if err := render(cfg.Analysis.Format, rep); err != nil {
			fmt.Fprintf(os.Stderr, "ccheck: %v\n", err)
		}
	}

	for _, file := range files {
		analyzeOne(file)
	}

	w, err := newWatcher(cfg, analyzeOne)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer w.Close()
	if err := w.Add(files...); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	fmt.Fprintf(os.Stderr, "watching %d file(s); press Ctrl-C to stop\n", len(files))
	if err := w.Run(ctx); err != nil && err != context.Canceled {
		return cli.Exit(err.Error(), 1)
	}
	return nil
}
