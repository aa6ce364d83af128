// Package runner orchestrates one analysis run: preprocess, then the
// internal and external passes as independent tasks, then the merge.
// The passes share no mutable state; a failed external pass never
// cancels or corrupts already-collected internal findings.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/ccheck/internal/analyzer"
	"github.com/standardbeagle/ccheck/internal/cerrors"
	"github.com/standardbeagle/ccheck/internal/config"
	"github.com/standardbeagle/ccheck/internal/debug"
	"github.com/standardbeagle/ccheck/internal/extclang"
	"github.com/standardbeagle/ccheck/internal/parser"
	"github.com/standardbeagle/ccheck/internal/report"
	"github.com/standardbeagle/ccheck/internal/types"
)

// Runner analyzes files under one configuration. Per-run state
// (symbol table, scope stack, diagnostic lists) is allocated inside
// Analyze and discarded at run end; nothing persists between files.
type Runner struct {
	cfg      *config.Config
	parser   *parser.Parser
	preproc  extclang.Preprocessor
	external extclang.Analyzer
}

// New builds a runner with the clang collaborators from cfg.
func New(cfg *config.Config) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p, err := parser.New()
	if err != nil {
		return nil, err
	}
	return &Runner{
		cfg:      cfg,
		parser:   p,
		preproc:  extclang.NewClangPreprocessor(cfg.Clang.Executable),
		external: extclang.NewClangAnalyzer(cfg.Clang.Executable, cfg.Timeout()),
	}, nil
}

// NewWithCollaborators builds a runner with explicit preprocessor and
// external analyzer implementations. Used by tests to substitute
// fakes for the toolchain.
func NewWithCollaborators(cfg *config.Config, pre extclang.Preprocessor, ext extclang.Analyzer) (*Runner, error) {
	p, err := parser.New()
	if err != nil {
		return nil, err
	}
	return &Runner{cfg: cfg, parser: p, preproc: pre, external: ext}, nil
}

// Analyze runs both passes over path and merges their findings.
//
// Run-fatal conditions (missing file, preprocessing failure) return a
// nil report and an error: the tool failed to run. Pass-local
// failures degrade their pass to zero diagnostics and surface as a
// note in the report instead.
func (r *Runner) Analyze(ctx context.Context, path string) (*types.Report, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("cannot analyze %s: %w", path, err)
	}

	preprocessed, err := r.preproc.Preprocess(ctx, path, r.cfg.Clang.IncludeDirs)
	if err != nil {
		return nil, err
	}

	rep := &types.Report{File: path}

	var (
		internalDiags []types.Diagnostic
		internalErr   error
		externalDiags []types.Diagnostic
		externalErr   error
	)

	// Plain group, not WithContext: an external failure must not
	// cancel the internal pass. Errors are collected, not returned.
	var g errgroup.Group
	g.Go(func() error {
		internalDiags, internalErr = analyzer.Check(r.parser, path, preprocessed)
		return nil
	})
	if r.cfg.Analysis.External {
		g.Go(func() error {
			externalDiags, externalErr = r.external.Analyze(ctx, path, r.cfg.Clang.IncludeDirs)
			return nil
		})
	}
	_ = g.Wait()

	if internalErr != nil {
		debug.Printf("internal pass degraded: %v", internalErr)
		rep.Notes = append(rep.Notes, passNote(types.KindParseFailure, types.OriginInternal, path, internalErr))
	} else {
		rep.Internal = internalDiags
	}
	if externalErr != nil {
		debug.Printf("external pass degraded: %v", externalErr)
		rep.Notes = append(rep.Notes, passNote(types.KindExternalToolUnavailable, types.OriginExternal, path, externalErr))
	} else {
		rep.External = externalDiags
	}

	merger := &report.Merger{Window: r.cfg.Analysis.DedupWindow}
	rep.Merged = merger.Merge(rep.Internal, rep.External)
	return rep, nil
}

// passNote wraps a pass-local failure as a diagnostic-like note so
// the final report records the degraded pass without aborting the
// run.
func passNote(kind types.Kind, origin types.Origin, path string, err error) types.Diagnostic {
	return types.Diagnostic{
		Severity: types.SeverityNote,
		Kind:     kind,
		Message:  err.Error(),
		Location: types.Location{File: path, Line: 1},
		Origin:   origin,
	}
}

// Failed reports whether the run produced nothing usable: the
// external tool was unavailable and the internal pass yielded no
// results either. Callers map this to a non-zero exit.
func Failed(rep *types.Report) bool {
	toolUnavailable := false
	parseFailed := false
	for _, n := range rep.Notes {
		switch n.Kind {
		case types.KindExternalToolUnavailable:
			toolUnavailable = true
		case types.KindParseFailure:
			parseFailed = true
		}
	}
	return toolUnavailable && parseFailed
}

// IsRunFatal re-exports the failure classification for callers that
// only import runner.
func IsRunFatal(err error) bool {
	return cerrors.IsRunFatal(err) || errors.Is(err, os.ErrNotExist)
}
