// Package analyzer implements the internal semantic pass: a pre-order,
// source-order walk of the syntax tree that populates the scoped
// symbol table on declarations and checks identifier references and
// call arities against it. Checking is purely syntactic and
// scope-based; there is no type inference.
package analyzer

import (
	"fmt"

	"github.com/hbollon/go-edlib"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/ccheck/internal/debug"
	"github.com/standardbeagle/ccheck/internal/parser"
	"github.com/standardbeagle/ccheck/internal/symtab"
	"github.com/standardbeagle/ccheck/internal/types"
)

// maxHintDistance bounds how far a near-miss suggestion may be from
// the unresolved name.
const maxHintDistance = 2

// Checker runs the internal pass over one parsed source file. Each
// run allocates its own Checker; none of its state outlives the run.
type Checker struct {
	path    string
	content []byte
	table   *symtab.Table
	diags   []types.Diagnostic
	unused  []*symtab.Declaration
}

// Check parses and analyzes preprocessed source text. A structurally
// unparseable source fails the whole pass with a single ParseError
// and no diagnostics; any other malformed construct is recorded and
// the walk continues.
func Check(p *parser.Parser, path string, content []byte) ([]types.Diagnostic, error) {
	tree, err := p.Parse(path, content)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	c := &Checker{
		path:    path,
		content: content,
		table:   symtab.NewTable(),
	}
	c.walk(tree.RootNode())
	c.unused = append(c.unused, c.table.Close()...)
	c.emitUnused()
	return c.diags, nil
}

func (c *Checker) walk(node *tree_sitter.Node) {
	if node == nil {
		return
	}

	switch node.Kind() {
	case "function_definition":
		c.checkFunctionDefinition(node)
	case "declaration":
		c.checkDeclaration(node)
	case "compound_statement":
		c.table.EnterScope()
		c.walkChildren(node)
		c.unused = append(c.unused, c.table.ExitScope()...)
	case "call_expression":
		c.checkCall(node)
	case "enumerator":
		c.declareEnumerator(node)
	case "identifier":
		c.checkReference(node)
	default:
		c.walkChildren(node)
	}
}

func (c *Checker) walkChildren(node *tree_sitter.Node) {
	for i := uint(0); i < node.ChildCount(); i++ {
		c.walk(node.Child(i))
	}
}

// checkFunctionDefinition declares the function in the enclosing
// scope, then walks the body inside one new scope that also holds the
// parameters. Definitions and prototypes are declared identically;
// arity checking does not care whether a body was present.
func (c *Checker) checkFunctionDefinition(node *tree_sitter.Node) {
	declarator := findFunctionDeclarator(node.ChildByFieldName("declarator"))
	if declarator == nil {
		debug.Printf("function_definition without function_declarator at %s", c.locationOf(node))
		c.walkChildren(node)
		return
	}

	name, nameNode := c.declaratorName(declarator.ChildByFieldName("declarator"))
	params, variadic := c.parameterInfo(declarator.ChildByFieldName("parameters"))
	if name != "" {
		c.declareFunction(name, len(params), variadic, nameNode)
	}

	c.table.EnterScope()
	for _, p := range params {
		c.declareParam(p)
	}
	// The body's own braces do not open a second scope: C merges the
	// parameter scope with the top-level block of the body.
	if body := node.ChildByFieldName("body"); body != nil {
		c.walkChildren(body)
	}
	c.unused = append(c.unused, c.table.ExitScope()...)
}

// checkDeclaration handles variable declarations and function
// prototypes. Initializer expressions are walked after the declared
// name enters scope, matching C's own declaration visibility.
func (c *Checker) checkDeclaration(node *tree_sitter.Node) {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "init_declarator":
			c.declareFromDeclarator(child.ChildByFieldName("declarator"))
			if value := child.ChildByFieldName("value"); value != nil {
				c.walk(value)
			}
		case "identifier", "pointer_declarator", "array_declarator":
			c.declareFromDeclarator(child)
		case "function_declarator":
			name, nameNode := c.declaratorName(child.ChildByFieldName("declarator"))
			params, variadic := c.parameterInfo(child.ChildByFieldName("parameters"))
			if name != "" {
				c.declareFunction(name, len(params), variadic, nameNode)
			}
		case "gnu_asm_expression", "attribute_specifier", "attribute_declaration":
			// not reference material
		default:
			// type specifiers, storage classes, struct bodies
			c.walk(child)
		}
	}
}

// declareFromDeclarator resolves a (possibly pointer- or
// array-wrapped) declarator to its identifier and declares a variable.
// Array sizes are expressions and get walked for references.
func (c *Checker) declareFromDeclarator(declarator *tree_sitter.Node) {
	if declarator == nil {
		return
	}
	if declarator.Kind() == "array_declarator" {
		if size := declarator.ChildByFieldName("size"); size != nil {
			c.walk(size)
		}
	}
	name, nameNode := c.declaratorName(declarator)
	if name == "" {
		return
	}
	decl := &symtab.Declaration{
		Name:     name,
		Kind:     symtab.DeclVariable,
		Location: c.locationOf(nameNode),
	}
	if err := c.table.Declare(decl); err != nil {
		// Redeclaration is recovered locally: the most recent
		// declaration wins and resolution continues.
		debug.Printf("redeclaration of %q at %s", name, decl.Location)
	}
}

func (c *Checker) declareFunction(name string, paramCount int, variadic bool, nameNode *tree_sitter.Node) {
	decl := &symtab.Declaration{
		Name:       name,
		Kind:       symtab.DeclFunction,
		ParamCount: paramCount,
		Location:   c.locationOf(nameNode),
	}
	if variadic {
		decl.ParamCount = -1
	}
	if err := c.table.Declare(decl); err != nil {
		debug.Printf("redeclaration of %q at %s", name, decl.Location)
	}
}

// declareEnumerator records an enum constant. Constants are exempt
// from the unused sweep; their value expressions are still walked for
// references.
func (c *Checker) declareEnumerator(node *tree_sitter.Node) {
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		decl := &symtab.Declaration{
			Name:       parser.NodeText(nameNode, c.content),
			Kind:       symtab.DeclVariable,
			Location:   c.locationOf(nameNode),
			Referenced: true,
		}
		if err := c.table.Declare(decl); err != nil {
			debug.Printf("redeclaration of enumerator %q at %s", decl.Name, decl.Location)
		}
	}
	if value := node.ChildByFieldName("value"); value != nil {
		c.walk(value)
	}
}

func (c *Checker) declareParam(p param) {
	if p.name == "" {
		return
	}
	decl := &symtab.Declaration{
		Name:     p.name,
		Kind:     symtab.DeclVariable,
		Location: p.location,
		IsParam:  true,
	}
	if err := c.table.Declare(decl); err != nil {
		debug.Printf("duplicate parameter %q at %s", p.name, p.location)
	}
}

// checkCall resolves the callee and compares the supplied argument
// count against the declared parameter count. An unresolved callee is
// not additionally reported as an undeclared variable: call targets
// are covered exclusively by arity logic.
func (c *Checker) checkCall(node *tree_sitter.Node) {
	callee := node.ChildByFieldName("function")
	args := node.ChildByFieldName("arguments")

	if callee != nil && callee.Kind() == "identifier" {
		name := parser.NodeText(callee, c.content)
		if decl := c.table.Resolve(name); decl != nil {
			decl.Referenced = true
			if decl.Kind == symtab.DeclFunction && decl.ParamCount >= 0 {
				actual := countArguments(args)
				if actual != decl.ParamCount {
					c.emit(types.Diagnostic{
						Severity: types.SeverityError,
						Kind:     types.KindArityMismatch,
						Symbol:   name,
						Message: fmt.Sprintf("function '%s' called with %d arguments (expected %d)",
							name, actual, decl.ParamCount),
						Location: c.locationOf(node),
					})
				}
			}
		}
	} else if callee != nil {
		// Indirect call through an expression; check the expression
		// itself for references.
		c.walk(callee)
	}

	if args != nil {
		c.walkChildren(args)
	}
}

// checkReference handles an identifier used as a value.
func (c *Checker) checkReference(node *tree_sitter.Node) {
	name := parser.NodeText(node, c.content)
	if name == "" {
		return
	}
	if decl := c.table.Resolve(name); decl != nil {
		decl.Referenced = true
		return
	}
	c.emit(types.Diagnostic{
		Severity: types.SeverityError,
		Kind:     types.KindUndeclaredVariable,
		Symbol:   name,
		Message:  fmt.Sprintf("variable '%s' used before declaration", name),
		Location: c.locationOf(node),
		Hint:     c.nearMissHint(name),
	})
}

// nearMissHint suggests the closest visible name within a small edit
// distance, clang-style. The distance must be smaller than the name
// itself so short identifiers don't match everything.
func (c *Checker) nearMissHint(name string) string {
	best := ""
	bestDist := maxHintDistance + 1
	for _, candidate := range c.table.VisibleNames() {
		dist := edlib.LevenshteinDistance(name, candidate)
		if dist < bestDist && dist < len(name) {
			best, bestDist = candidate, dist
		}
	}
	if best == "" {
		return ""
	}
	return fmt.Sprintf("did you mean '%s'?", best)
}

func (c *Checker) emitUnused() {
	for _, d := range c.unused {
		c.emit(types.Diagnostic{
			Severity: types.SeverityWarning,
			Kind:     types.KindUnusedVariable,
			Symbol:   d.Name,
			Message:  fmt.Sprintf("variable '%s' declared but never used", d.Name),
			Location: d.Location,
		})
	}
}

func (c *Checker) emit(d types.Diagnostic) {
	d.Origin = types.OriginInternal
	if d.Location.File == "" {
		d.Location.File = c.path
	}
	c.diags = append(c.diags, d)
}

func (c *Checker) locationOf(node *tree_sitter.Node) types.Location {
	if node == nil {
		return types.Location{File: c.path, Line: 1, Column: 1}
	}
	pos := node.StartPosition()
	return types.Location{
		File:   c.path,
		Line:   int(pos.Row) + 1,
		Column: int(pos.Column) + 1,
	}
}
