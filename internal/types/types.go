package types

import (
	"fmt"
	"strings"
)

// Severity classifies how serious a diagnostic is.
type Severity uint8

const (
	SeverityWarning Severity = iota
	SeverityError
	// SeverityNote marks pass-level failures surfaced in the report
	// (a degraded pass, not a finding about the analyzed source).
	SeverityNote
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityNote:
		return "note"
	default:
		return "unknown"
	}
}

// MarshalJSON renders the severity as its string form.
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// Kind identifies what a diagnostic is about.
type Kind uint8

const (
	KindUndeclaredVariable Kind = iota
	KindArityMismatch
	KindUnusedVariable
	KindParseFailure
	KindExternalToolUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindUndeclaredVariable:
		return "undeclared-variable"
	case KindArityMismatch:
		return "arity-mismatch"
	case KindUnusedVariable:
		return "unused-variable"
	case KindParseFailure:
		return "parse-failure"
	case KindExternalToolUnavailable:
		return "external-tool-unavailable"
	default:
		return "unknown"
	}
}

// MarshalJSON renders the kind as its string form.
func (k Kind) MarshalJSON() ([]byte, error) {
	return []byte(`"` + k.String() + `"`), nil
}

// Origin records which analysis pass produced a diagnostic.
type Origin uint8

const (
	OriginInternal Origin = iota
	OriginExternal
)

func (o Origin) String() string {
	if o == OriginExternal {
		return "external"
	}
	return "internal"
}

// MarshalJSON renders the origin as its string form.
func (o Origin) MarshalJSON() ([]byte, error) {
	return []byte(`"` + o.String() + `"`), nil
}

// Location is a file position. Line and Column are 1-based; a zero
// Column means the producer only reported a line.
type Location struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column,omitempty"`
}

func (l Location) String() string {
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// Compare orders locations by file, then line, then column.
func (l Location) Compare(other Location) int {
	if c := strings.Compare(l.File, other.File); c != 0 {
		return c
	}
	if l.Line != other.Line {
		if l.Line < other.Line {
			return -1
		}
		return 1
	}
	if l.Column != other.Column {
		if l.Column < other.Column {
			return -1
		}
		return 1
	}
	return 0
}

// Diagnostic is a single finding. Immutable once produced: the merger
// drops duplicates but never rewrites survivors.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Kind     Kind     `json:"kind"`
	// Symbol is the identifier the finding is about, empty for
	// pass-level notes. Used as a dedup key component.
	Symbol   string   `json:"symbol,omitempty"`
	Message  string   `json:"message"`
	Location Location `json:"location"`
	Origin   Origin   `json:"origin"`
	// Hint carries an optional "did you mean" style suggestion.
	Hint string `json:"hint,omitempty"`
}

func (d Diagnostic) String() string {
	s := fmt.Sprintf("%s: %s: %s", d.Location, d.Severity, d.Message)
	if d.Hint != "" {
		s += " (" + d.Hint + ")"
	}
	return s
}

// Report is the ordered outcome of one analysis run. Internal and
// External retain the raw per-pass findings; Merged is the
// deduplicated, location-ordered combination of both.
type Report struct {
	File     string       `json:"file"`
	Internal []Diagnostic `json:"internal"`
	External []Diagnostic `json:"external"`
	Merged   []Diagnostic `json:"merged"`
	// Notes records degraded passes (parse failure, missing toolchain).
	Notes []Diagnostic `json:"notes,omitempty"`
}

// HasErrors reports whether any merged diagnostic is an error.
func (r *Report) HasErrors() bool {
	for i := range r.Merged {
		if r.Merged[i].Severity == SeverityError {
			return true
		}
	}
	return false
}

// Empty reports whether the run produced no findings and no notes.
func (r *Report) Empty() bool {
	return len(r.Merged) == 0 && len(r.Notes) == 0
}
