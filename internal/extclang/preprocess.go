// Package extclang wraps the two clang collaborators: the
// preprocessing step that feeds the internal pass, and the external
// semantic pass that cross-checks it. Both are capability interfaces
// so tests can substitute fakes without a real toolchain.
package extclang

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/standardbeagle/ccheck/internal/cerrors"
	"github.com/standardbeagle/ccheck/internal/debug"
)

// DefaultExecutable is used when no explicit toolchain path is
// configured; it is resolved against PATH.
const DefaultExecutable = "clang"

// Preprocessor expands macros and includes so the internal pass sees
// plain source text.
type Preprocessor interface {
	Preprocess(ctx context.Context, path string, includeDirs []string) ([]byte, error)
}

// ClangPreprocessor shells out to clang -E. Linemarkers are
// suppressed (-P) so the output parses as plain C.
type ClangPreprocessor struct {
	Executable string
}

// NewClangPreprocessor creates a preprocessor using the given clang
// executable, or the PATH default when empty.
func NewClangPreprocessor(executable string) *ClangPreprocessor {
	if executable == "" {
		executable = DefaultExecutable
	}
	return &ClangPreprocessor{Executable: executable}
}

// Preprocess runs clang in preprocess-only mode and returns the
// expanded source text. Any failure is a PreprocessError, which is
// fatal to the entire run: neither analysis pass executes on
// unexpanded text.
func (p *ClangPreprocessor) Preprocess(ctx context.Context, path string, includeDirs []string) ([]byte, error) {
	args := []string{"-E", "-P", "-fms-extensions"}
	for _, dir := range includeDirs {
		args = append(args, "-I"+dir)
	}
	args = append(args, path)

	cmd := exec.CommandContext(ctx, p.Executable, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	debug.Printf("preprocess: %s %s", p.Executable, strings.Join(args, " "))
	if err := cmd.Run(); err != nil {
		return nil, cerrors.NewPreprocessError(path, firstLine(stderr.String()), err)
	}
	return stdout.Bytes(), nil
}

// firstLine trims a clang stderr dump down to its leading line, which
// carries the file and span of the failure.
func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
