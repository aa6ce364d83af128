// Package symtab implements the scoped symbol table driving internal
// semantic analysis: a stack of lexical scopes with innermost-first
// lookup, so shadowed names resolve to the closest enclosing
// declaration instead of a single flat per-file mapping.
package symtab

import (
	"errors"

	"github.com/standardbeagle/ccheck/internal/types"
)

// ErrDuplicateDeclaration is returned by Declare when the name already
// exists in the current scope. Shadowing an outer scope is not a
// duplicate.
var ErrDuplicateDeclaration = errors.New("duplicate declaration in scope")

// DeclKind distinguishes what a declaration introduces.
type DeclKind uint8

const (
	DeclVariable DeclKind = iota
	DeclFunction
)

func (k DeclKind) String() string {
	if k == DeclFunction {
		return "function"
	}
	return "variable"
}

// Declaration is one named entry in a scope. Owned by the scope that
// declared it; discarded when that scope closes.
type Declaration struct {
	Name     string
	Kind     DeclKind
	Location types.Location
	// ParamCount is the declared formal-parameter count, meaningful
	// only for DeclFunction.
	ParamCount int
	// IsParam marks function parameters, which are conventionally
	// allowed to stay unused.
	IsParam    bool
	Referenced bool
}

// Scope maps names to declarations for one lexical region. Insertion
// order is preserved so unused-variable reporting is deterministic.
type Scope struct {
	parent  *Scope
	names   map[string]*Declaration
	ordered []*Declaration
}

func newScope(parent *Scope) *Scope {
	return &Scope{
		parent: parent,
		names:  make(map[string]*Declaration),
	}
}

// Table is the scope stack for one analysis run. Not safe for
// concurrent use; each run allocates its own.
type Table struct {
	current *Scope
	depth   int
}

// NewTable creates a table holding only the file-level scope.
func NewTable() *Table {
	return &Table{current: newScope(nil), depth: 1}
}

// Depth returns the number of open scopes, including file scope.
func (t *Table) Depth() int { return t.depth }

// EnterScope pushes a new empty scope.
func (t *Table) EnterScope() {
	t.current = newScope(t.current)
	t.depth++
}

// ExitScope pops the current scope and discards its declarations,
// returning the ones that were never referenced (in declaration
// order) so the caller can finish the unused-declaration sweep before
// they disappear. The file-level scope cannot be popped.
func (t *Table) ExitScope() []*Declaration {
	if t.current.parent == nil {
		return nil
	}
	unreferenced := collectUnreferenced(t.current)
	t.current = t.current.parent
	t.depth--
	return unreferenced
}

// Close pops the file-level scope itself, returning its unreferenced
// declarations. The table must not be used afterwards.
func (t *Table) Close() []*Declaration {
	for t.current.parent != nil {
		t.current = t.current.parent
		t.depth--
	}
	unreferenced := collectUnreferenced(t.current)
	t.depth = 0
	return unreferenced
}

func collectUnreferenced(s *Scope) []*Declaration {
	var out []*Declaration
	for _, d := range s.ordered {
		if !d.Referenced && !d.IsParam && d.Kind != DeclFunction {
			out = append(out, d)
		}
	}
	return out
}

// Declare inserts a declaration into the current scope. A name already
// present in the current scope is a duplicate: the new declaration
// replaces the old one so resolution continues with the most recent
// entry, and ErrDuplicateDeclaration is returned for the caller to
// record. Function redeclaration (prototype then definition) is the
// usual C pattern and is reported as no error: the last declaration
// seen wins.
func (t *Table) Declare(decl *Declaration) error {
	prev, exists := t.current.names[decl.Name]
	t.current.names[decl.Name] = decl
	if exists {
		for i, d := range t.current.ordered {
			if d == prev {
				t.current.ordered[i] = decl
				break
			}
		}
		if prev.Kind == DeclFunction && decl.Kind == DeclFunction {
			return nil
		}
		return ErrDuplicateDeclaration
	}
	t.current.ordered = append(t.current.ordered, decl)
	return nil
}

// Resolve searches scopes innermost to outermost and returns the
// first declaration of name, or nil when no enclosing scope declares
// it.
func (t *Table) Resolve(name string) *Declaration {
	for s := t.current; s != nil; s = s.parent {
		if d, ok := s.names[name]; ok {
			return d
		}
	}
	return nil
}

// MarkReferenced flags the resolved declaration of name as used. A
// no-op when the name does not resolve.
func (t *Table) MarkReferenced(name string) {
	if d := t.Resolve(name); d != nil {
		d.Referenced = true
	}
}

// VisibleNames returns every name resolvable from the current scope,
// innermost first, skipping shadowed outer entries. Used for
// near-miss suggestions on unresolved references.
func (t *Table) VisibleNames() []string {
	seen := make(map[string]struct{})
	var out []string
	for s := t.current; s != nil; s = s.parent {
		for _, d := range s.ordered {
			if _, ok := seen[d.Name]; ok {
				continue
			}
			seen[d.Name] = struct{}{}
			out = append(out, d.Name)
		}
	}
	return out
}
