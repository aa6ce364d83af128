// Package parser builds syntax trees for C-family sources using
// tree-sitter. C and C++ extensions share the cpp grammar.
package parser

import (
	"fmt"
	"path/filepath"
	"sync"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"

	"github.com/standardbeagle/ccheck/internal/cerrors"
)

var supportedExts = map[string]bool{
	".c":   true,
	".h":   true,
	".cc":  true,
	".cpp": true,
	".cxx": true,
	".hpp": true,
}

// Parser wraps a tree-sitter parser configured for the C-family
// grammar. Parse calls are serialized; tree-sitter parsers are not
// reentrant.
type Parser struct {
	mu     sync.Mutex
	parser *tree_sitter.Parser
}

// New creates a parser with the cpp grammar loaded.
func New() (*Parser, error) {
	p := tree_sitter.NewParser()
	language := tree_sitter.NewLanguage(tree_sitter_cpp.Language())
	if err := p.SetLanguage(language); err != nil {
		return nil, fmt.Errorf("failed to load C grammar: %w", err)
	}
	return &Parser{parser: p}, nil
}

// Supported reports whether path has a C-family extension.
func Supported(path string) bool {
	return supportedExts[filepath.Ext(path)]
}

// Parse builds a syntax tree from already-preprocessed source text.
// A tree that cannot be built, or whose root contains error nodes, is
// a ParseError carrying the first malformed span: per the best-effort
// policy the caller produces exactly one parse-failure diagnostic and
// no further internal findings for the run.
//
// The input is copied before parsing: the tree-sitter C library
// mutates its input buffer through CGO.
func (p *Parser) Parse(path string, content []byte) (*tree_sitter.Tree, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	buffer := make([]byte, len(content))
	copy(buffer, content)

	tree := p.parser.Parse(buffer, nil)
	if tree == nil {
		return nil, cerrors.NewParseError(path, 0, 0, "no syntax tree produced")
	}

	root := tree.RootNode()
	if root.HasError() {
		line, col, detail := firstErrorSpan(root, buffer)
		tree.Close()
		return nil, cerrors.NewParseError(path, line, col, detail)
	}
	return tree, nil
}

// firstErrorSpan locates the earliest ERROR or missing node so the
// failure names a concrete malformed span.
func firstErrorSpan(node *tree_sitter.Node, content []byte) (line, col int, detail string) {
	if node.IsError() || node.IsMissing() {
		pos := node.StartPosition()
		start, end := node.StartByte(), node.EndByte()
		if end > uint(len(content)) {
			end = uint(len(content))
		}
		span := string(content[start:end])
		if len(span) > 40 {
			span = span[:40] + "..."
		}
		if node.IsMissing() {
			return int(pos.Row) + 1, int(pos.Column) + 1, fmt.Sprintf("missing %s", node.Kind())
		}
		return int(pos.Row) + 1, int(pos.Column) + 1, fmt.Sprintf("unexpected syntax near %q", span)
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil || !child.HasError() && !child.IsMissing() {
			continue
		}
		return firstErrorSpan(child, content)
	}
	pos := node.StartPosition()
	return int(pos.Row) + 1, int(pos.Column) + 1, "malformed syntax"
}

// NodeText returns the source text covered by node.
func NodeText(node *tree_sitter.Node, content []byte) string {
	start, end := node.StartByte(), node.EndByte()
	if end > uint(len(content)) || start > end {
		return ""
	}
	return string(content[start:end])
}
