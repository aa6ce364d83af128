package cerrors

import (
	"errors"
	"fmt"
)

// Failure classes for the ccheck analysis pipeline. Pass-local failures
// degrade one pass to zero diagnostics; run-fatal failures abort before
// either pass starts. Callers distinguish "the tool failed to run" from
// "the tool ran and found issues" by these types, never by diagnostics.
type FailureClass string

const (
	// ClassParse: internal AST could not be built. Fatal to the
	// internal pass only.
	ClassParse FailureClass = "parse"

	// ClassPreprocess: the preprocessing collaborator failed. Fatal to
	// the entire run.
	ClassPreprocess FailureClass = "preprocess"

	// ClassExternalTool: the external toolchain could not be invoked
	// (missing executable, bad arguments, timeout). Fatal to the
	// external pass only.
	ClassExternalTool FailureClass = "external_tool"

	// ClassConfig: invalid configuration. Fatal to the run.
	ClassConfig FailureClass = "config"
)

// ParseError reports that the internal syntax tree could not be built
// for a source file.
type ParseError struct {
	FilePath   string
	Line       int
	Column     int
	Detail     string
	Underlying error
}

func NewParseError(path string, line, column int, detail string) *ParseError {
	return &ParseError{FilePath: path, Line: line, Column: column, Detail: detail}
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse failure in %s at %d:%d: %s", e.FilePath, e.Line, e.Column, e.Detail)
	}
	return fmt.Sprintf("parse failure in %s: %s", e.FilePath, e.Detail)
}

func (e *ParseError) Unwrap() error { return e.Underlying }

func (e *ParseError) Class() FailureClass { return ClassParse }

// PreprocessError reports that the source-preprocessing collaborator
// failed; neither analysis pass runs after this.
type PreprocessError struct {
	FilePath   string
	Stderr     string
	Underlying error
}

func NewPreprocessError(path, stderr string, err error) *PreprocessError {
	return &PreprocessError{FilePath: path, Stderr: stderr, Underlying: err}
}

func (e *PreprocessError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("preprocessing failed for %s: %s", e.FilePath, e.Stderr)
	}
	return fmt.Sprintf("preprocessing failed for %s: %v", e.FilePath, e.Underlying)
}

func (e *PreprocessError) Unwrap() error { return e.Underlying }

func (e *PreprocessError) Class() FailureClass { return ClassPreprocess }

// ToolError reports that the external toolchain could not produce an
// opinion at all: missing executable, invalid invocation, timeout, or
// an unexpected exit unrelated to diagnostics. The merger treats this
// as "no external opinion", never as a clean external pass.
type ToolError struct {
	Tool       string
	FilePath   string
	Reason     string
	Underlying error
}

func NewToolError(tool, path, reason string, err error) *ToolError {
	return &ToolError{Tool: tool, FilePath: path, Reason: reason, Underlying: err}
}

func (e *ToolError) Error() string {
	if e.FilePath != "" {
		return fmt.Sprintf("external tool %q unavailable for %s: %s", e.Tool, e.FilePath, e.Reason)
	}
	return fmt.Sprintf("external tool %q unavailable: %s", e.Tool, e.Reason)
}

func (e *ToolError) Unwrap() error { return e.Underlying }

func (e *ToolError) Class() FailureClass { return ClassExternalTool }

// ConfigError reports invalid configuration, naming the offending
// field and value so the user can correct it.
type ConfigError struct {
	Field  string
	Value  string
	Reason string
}

func NewConfigError(field, value, reason string) *ConfigError {
	return &ConfigError{Field: field, Value: value, Reason: reason}
}

func (e *ConfigError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("invalid configuration: %s=%q: %s", e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Class() FailureClass { return ClassConfig }

// IsRunFatal reports whether err aborts the whole run rather than
// degrading a single pass.
func IsRunFatal(err error) bool {
	var pe *PreprocessError
	var ce *ConfigError
	return errors.As(err, &pe) || errors.As(err, &ce)
}
