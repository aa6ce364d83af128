package extclang

import (
	"encoding/json"
	"fmt"

	"github.com/standardbeagle/ccheck/internal/types"
)

// astNode is the subset of clang's JSON syntax dump the external pass
// traverses: a node-kind tag, an optional resolved-declaration
// reference, a source location, and children.
type astNode struct {
	Kind           string          `json:"kind"`
	Name           string          `json:"name,omitempty"`
	Loc            *astLoc         `json:"loc,omitempty"`
	ReferencedDecl json.RawMessage `json:"referencedDecl,omitempty"`
	Inner          []astNode       `json:"inner,omitempty"`
}

// astLoc is a clang source location. Clang differentially encodes
// locations: file and line are omitted when unchanged since the
// previous location in dump order, so traversal carries them forward.
type astLoc struct {
	File         string  `json:"file,omitempty"`
	Line         int     `json:"line,omitempty"`
	Col          int     `json:"col,omitempty"`
	SpellingLoc  *astLoc `json:"spellingLoc,omitempty"`
	ExpansionLoc *astLoc `json:"expansionLoc,omitempty"`
}

// locCursor tracks the carried-forward file and line while walking
// the dump.
type locCursor struct {
	file string
	line int
}

func (c *locCursor) advance(loc *astLoc) types.Location {
	if loc == nil {
		return types.Location{File: c.file, Line: c.line}
	}
	if loc.ExpansionLoc != nil {
		loc = loc.ExpansionLoc
	}
	if loc.File != "" {
		c.file = loc.File
	}
	if loc.Line != 0 {
		c.line = loc.Line
	}
	return types.Location{File: c.file, Line: c.line, Column: loc.Col}
}

// unresolvedReferences decodes a clang JSON syntax dump and collects
// one external-origin diagnostic per reference expression with no
// resolved declaration. Locations are the toolchain's own, verbatim.
func unresolvedReferences(dump []byte, fallbackFile string) ([]types.Diagnostic, error) {
	var root astNode
	if err := json.Unmarshal(dump, &root); err != nil {
		return nil, err
	}

	cursor := &locCursor{file: fallbackFile}
	var diags []types.Diagnostic
	walkDump(&root, cursor, &diags)
	return diags, nil
}

func walkDump(node *astNode, cursor *locCursor, diags *[]types.Diagnostic) {
	loc := cursor.advance(node.Loc)

	switch node.Kind {
	case "DeclRefExpr":
		if len(node.ReferencedDecl) == 0 {
			*diags = append(*diags, unresolvedDiagnostic(refName(node), loc))
		}
	case "UnresolvedLookupExpr", "DependentScopeDeclRefExpr":
		*diags = append(*diags, unresolvedDiagnostic(refName(node), loc))
	}

	for i := range node.Inner {
		walkDump(&node.Inner[i], cursor, diags)
	}
}

func refName(node *astNode) string {
	if node.Name != "" {
		return node.Name
	}
	for i := range node.Inner {
		if name := refName(&node.Inner[i]); name != "" {
			return name
		}
	}
	return ""
}

func unresolvedDiagnostic(name string, loc types.Location) types.Diagnostic {
	message := "reference to unresolved declaration"
	if name != "" {
		message = fmt.Sprintf("variable '%s' used before declaration", name)
	}
	return types.Diagnostic{
		Severity: types.SeverityError,
		Kind:     types.KindUndeclaredVariable,
		Symbol:   name,
		Message:  message,
		Location: loc,
		Origin:   types.OriginExternal,
	}
}
