package extclang

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/standardbeagle/ccheck/internal/cerrors"
	"github.com/standardbeagle/ccheck/internal/debug"
	"github.com/standardbeagle/ccheck/internal/types"
)

// DefaultTimeout bounds the external toolchain invocation when the
// caller does not configure one.
const DefaultTimeout = 30 * time.Second

// Analyzer is the external semantic pass: analyze the original file
// (not the preprocessed text) and report unresolved references in the
// toolchain's own opinion. An error means "no external opinion", not
// "nothing found".
type Analyzer interface {
	Analyze(ctx context.Context, path string, includeDirs []string) ([]types.Diagnostic, error)
}

// ClangAnalyzer invokes clang in syntax-only mode, dumps its syntax
// tree as JSON, and traverses the dump for reference expressions
// whose declaration did not resolve.
type ClangAnalyzer struct {
	Executable string
	Timeout    time.Duration
}

// NewClangAnalyzer creates an analyzer using the given clang
// executable (PATH default when empty) and timeout (DefaultTimeout
// when zero).
func NewClangAnalyzer(executable string, timeout time.Duration) *ClangAnalyzer {
	if executable == "" {
		executable = DefaultExecutable
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &ClangAnalyzer{Executable: executable, Timeout: timeout}
}

// Analyze runs the external pass. Failures to invoke the tool at all
// (missing executable, timeout, undecodable output) are ToolErrors;
// a non-zero clang exit with a decodable syntax dump is not a
// failure, since clang exits non-zero whenever it finds diagnostics.
func (a *ClangAnalyzer) Analyze(ctx context.Context, path string, includeDirs []string) ([]types.Diagnostic, error) {
	executable, err := exec.LookPath(a.Executable)
	if err != nil {
		return nil, cerrors.NewToolError(a.Executable, path, "executable not found or not executable", err)
	}

	ctx, cancel := context.WithTimeout(ctx, a.Timeout)
	defer cancel()

	args := []string{"-fsyntax-only", "-Wall", "-Xclang", "-ast-dump=json"}
	for _, dir := range includeDirs {
		args = append(args, "-I"+dir)
	}
	args = append(args, path)

	cmd := exec.CommandContext(ctx, executable, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	debug.Printf("external: %s %s", executable, strings.Join(args, " "))
	runErr := cmd.Run()
	if ctx.Err() != nil {
		return nil, cerrors.NewToolError(a.Executable, path,
			fmt.Sprintf("timed out after %s", a.Timeout), ctx.Err())
	}
	if runErr != nil && stdout.Len() == 0 {
		// No syntax dump at all: invalid arguments or a crash, not
		// source diagnostics.
		var exitErr *exec.ExitError
		reason := runErr.Error()
		if errors.As(runErr, &exitErr) {
			reason = fmt.Sprintf("exit status %d: %s", exitErr.ExitCode(), firstLine(stderr.String()))
		}
		return nil, cerrors.NewToolError(a.Executable, path, reason, runErr)
	}

	diags, err := unresolvedReferences(stdout.Bytes(), path)
	if err != nil {
		return nil, cerrors.NewToolError(a.Executable, path,
			fmt.Sprintf("undecodable syntax dump: %v", err), err)
	}
	return diags, nil
}
