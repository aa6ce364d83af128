package analyzer

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/ccheck/internal/parser"
	"github.com/standardbeagle/ccheck/internal/types"
)

// param is one formal parameter of a function declarator. Abstract
// parameters (prototypes without a name) count toward arity but have
// an empty name and are never declared.
type param struct {
	name     string
	location types.Location
}

// findFunctionDeclarator unwraps pointer and parenthesized declarators
// until it reaches the function_declarator, as in `int *f(void)`.
func findFunctionDeclarator(node *tree_sitter.Node) *tree_sitter.Node {
	for node != nil {
		switch node.Kind() {
		case "function_declarator":
			return node
		case "pointer_declarator", "parenthesized_declarator", "reference_declarator":
			node = node.ChildByFieldName("declarator")
			if node == nil {
				return nil
			}
		default:
			return nil
		}
	}
	return nil
}

// declaratorName unwraps a declarator chain down to its identifier.
func (c *Checker) declaratorName(node *tree_sitter.Node) (string, *tree_sitter.Node) {
	for node != nil {
		switch node.Kind() {
		case "identifier":
			return parser.NodeText(node, c.content), node
		case "pointer_declarator", "array_declarator", "parenthesized_declarator", "reference_declarator":
			node = node.ChildByFieldName("declarator")
		default:
			return "", nil
		}
	}
	return "", nil
}

// parameterInfo extracts the formal parameters of a function
// declarator. `(void)` declares zero parameters; a trailing `...`
// marks the function variadic, which exempts it from strict arity
// checking.
func (c *Checker) parameterInfo(list *tree_sitter.Node) ([]param, bool) {
	if list == nil {
		return nil, false
	}
	var params []param
	variadic := false
	for i := uint(0); i < list.NamedChildCount(); i++ {
		child := list.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "parameter_declaration":
			declarator := child.ChildByFieldName("declarator")
			if declarator == nil {
				if isVoidParameter(child, c.content) {
					continue
				}
				params = append(params, param{location: c.locationOf(child)})
				continue
			}
			name, nameNode := c.declaratorName(declarator)
			loc := c.locationOf(child)
			if nameNode != nil {
				loc = c.locationOf(nameNode)
			}
			params = append(params, param{name: name, location: loc})
		case "variadic_parameter":
			variadic = true
		}
	}
	return params, variadic
}

// isVoidParameter recognizes the `(void)` empty parameter list.
func isVoidParameter(paramDecl *tree_sitter.Node, content []byte) bool {
	typeNode := paramDecl.ChildByFieldName("type")
	return typeNode != nil && parser.NodeText(typeNode, content) == "void"
}

// countArguments counts argument expressions in a call's argument
// list.
func countArguments(args *tree_sitter.Node) int {
	if args == nil {
		return 0
	}
	count := 0
	for i := uint(0); i < args.NamedChildCount(); i++ {
		child := args.NamedChild(i)
		if child == nil || child.Kind() == "comment" {
			continue
		}
		count++
	}
	return count
}
