package extclang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/ccheck/internal/types"
)

func TestUnresolvedReferencesFromDump(t *testing.T) {
	// Shaped like a clang -ast-dump=json fragment: one resolved
	// reference, one unresolved.
	dump := []byte(`{
		"kind": "TranslationUnitDecl",
		"inner": [
			{
				"kind": "FunctionDecl",
				"name": "g",
				"loc": {"file": "test.c", "line": 1, "col": 6},
				"inner": [
					{
						"kind": "CompoundStmt",
						"inner": [
							{
								"kind": "DeclRefExpr",
								"name": "y",
								"loc": {"line": 2, "col": 5}
							},
							{
								"kind": "DeclRefExpr",
								"name": "x",
								"loc": {"line": 3, "col": 5},
								"referencedDecl": {"kind": "VarDecl", "name": "x"}
							}
						]
					}
				]
			}
		]
	}`)

	diags, err := unresolvedReferences(dump, "test.c")
	require.NoError(t, err)
	require.Len(t, diags, 1)

	d := diags[0]
	assert.Equal(t, types.KindUndeclaredVariable, d.Kind)
	assert.Equal(t, types.OriginExternal, d.Origin)
	assert.Equal(t, "y", d.Symbol)
	assert.Equal(t, "variable 'y' used before declaration", d.Message)
	// The toolchain's own location, verbatim, with the file carried
	// forward from the enclosing declaration.
	assert.Equal(t, types.Location{File: "test.c", Line: 2, Column: 5}, d.Location)
}

func TestDifferentialLocationEncoding(t *testing.T) {
	// Clang omits file and line when unchanged since the previous
	// location in dump order.
	dump := []byte(`{
		"kind": "TranslationUnitDecl",
		"inner": [
			{"kind": "VarDecl", "loc": {"file": "a.c", "line": 4, "col": 5}},
			{"kind": "DeclRefExpr", "name": "q", "loc": {"col": 9}}
		]
	}`)

	diags, err := unresolvedReferences(dump, "a.c")
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, types.Location{File: "a.c", Line: 4, Column: 9}, diags[0].Location)
}

func TestUnresolvedLookupExpr(t *testing.T) {
	dump := []byte(`{
		"kind": "TranslationUnitDecl",
		"inner": [
			{
				"kind": "UnresolvedLookupExpr",
				"name": "frob",
				"loc": {"file": "b.c", "line": 7, "col": 2}
			}
		]
	}`)

	diags, err := unresolvedReferences(dump, "b.c")
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, "frob", diags[0].Symbol)
}

func TestUndecodableDump(t *testing.T) {
	_, err := unresolvedReferences([]byte("clang: error: no such file"), "x.c")
	assert.Error(t, err)
}

func TestCleanDumpYieldsNothing(t *testing.T) {
	dump := []byte(`{"kind": "TranslationUnitDecl", "inner": []}`)
	diags, err := unresolvedReferences(dump, "x.c")
	require.NoError(t, err)
	assert.Empty(t, diags)
}
