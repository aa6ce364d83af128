package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/ccheck/internal/cerrors"
	"github.com/standardbeagle/ccheck/internal/parser"
	"github.com/standardbeagle/ccheck/internal/types"
)

func check(t *testing.T, source string) []types.Diagnostic {
	t.Helper()
	p, err := parser.New()
	require.NoError(t, err)
	diags, err := Check(p, "test.c", []byte(source))
	require.NoError(t, err)
	return diags
}

func diagsOfKind(diags []types.Diagnostic, kind types.Kind) []types.Diagnostic {
	var out []types.Diagnostic
	for _, d := range diags {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

func TestCleanSourceReportsNothing(t *testing.T) {
	diags := check(t, `
int add(int a, int b) { return a + b; }
int main(void) {
    int x = add(1, 2);
    return x;
}
`)
	assert.Empty(t, diags)
}

func TestUnusedVariable(t *testing.T) {
	// int main(void) { int x; return 0; } -> exactly one unused warning
	diags := check(t, `int main(void) { int x; return 0; }`)

	require.Len(t, diags, 1)
	assert.Equal(t, types.KindUnusedVariable, diags[0].Kind)
	assert.Equal(t, types.SeverityWarning, diags[0].Severity)
	assert.Equal(t, "x", diags[0].Symbol)
	assert.Equal(t, "variable 'x' declared but never used", diags[0].Message)
	assert.Equal(t, types.OriginInternal, diags[0].Origin)
}

func TestArityMismatch(t *testing.T) {
	diags := check(t, `
void f(int a) { }
void g(void) { f(1, 2); }
`)

	mismatches := diagsOfKind(diags, types.KindArityMismatch)
	require.Len(t, mismatches, 1)
	assert.Equal(t, types.SeverityError, mismatches[0].Severity)
	assert.Equal(t, "function 'f' called with 2 arguments (expected 1)", mismatches[0].Message)

	// The unused parameter 'a' must not be flagged.
	assert.Empty(t, diagsOfKind(diags, types.KindUnusedVariable))
}

func TestArityMismatchTooFew(t *testing.T) {
	diags := check(t, `
int mul(int a, int b) { return a * b; }
int main(void) { return mul(3); }
`)

	mismatches := diagsOfKind(diags, types.KindArityMismatch)
	require.Len(t, mismatches, 1)
	assert.Equal(t, "function 'mul' called with 1 arguments (expected 2)", mismatches[0].Message)
}

func TestUndeclaredVariable(t *testing.T) {
	diags := check(t, `void g(void) { y = 5; }`)

	require.Len(t, diags, 1)
	d := diags[0]
	assert.Equal(t, types.KindUndeclaredVariable, d.Kind)
	assert.Equal(t, types.SeverityError, d.Severity)
	assert.Equal(t, "y", d.Symbol)
	assert.Equal(t, "variable 'y' used before declaration", d.Message)
	assert.Equal(t, 1, d.Location.Line)
}

func TestUseBeforeDeclarationInTraversalOrder(t *testing.T) {
	// The use on the earlier line precedes the declaration in source
	// order, so it is reported even though the file declares x later.
	diags := check(t, `
void g(void) {
    int y = x;
    int x = 1;
    (void)y; (void)x;
}
`)

	undeclared := diagsOfKind(diags, types.KindUndeclaredVariable)
	require.Len(t, undeclared, 1)
	assert.Equal(t, "x", undeclared[0].Symbol)
	assert.Equal(t, 3, undeclared[0].Location.Line)
}

func TestUndeclaredCalleeIsNotReportedAsVariable(t *testing.T) {
	// Call targets are covered exclusively by arity logic; an
	// unresolved callee produces no UndeclaredVariable.
	diags := check(t, `void g(void) { missing(1); }`)
	assert.Empty(t, diagsOfKind(diags, types.KindUndeclaredVariable))
	assert.Empty(t, diagsOfKind(diags, types.KindArityMismatch))
}

func TestShadowingResolvesInnermost(t *testing.T) {
	diags := check(t, `
void g(void) {
    int x = 1;
    {
        int x = 2;
        (void)x;
    }
    (void)x;
}
`)
	assert.Empty(t, diags, "shadowing must produce neither duplicates nor unused warnings")
}

func TestInnerScopeDeclarationInvisibleOutside(t *testing.T) {
	diags := check(t, `
void g(void) {
    { int inner = 1; (void)inner; }
    inner = 2;
}
`)

	undeclared := diagsOfKind(diags, types.KindUndeclaredVariable)
	require.Len(t, undeclared, 1)
	assert.Equal(t, "inner", undeclared[0].Symbol)
}

func TestFunctionPrototypeArity(t *testing.T) {
	// Declarations and definitions are treated identically for arity.
	diags := check(t, `
void f(int a, int b);
void g(void) { f(1); }
`)

	mismatches := diagsOfKind(diags, types.KindArityMismatch)
	require.Len(t, mismatches, 1)
	assert.Equal(t, "function 'f' called with 1 arguments (expected 2)", mismatches[0].Message)
}

func TestVariadicFunctionSkipsArityCheck(t *testing.T) {
	diags := check(t, `
void logf(int level, ...);
void g(void) { logf(1, 2, 3); }
`)
	assert.Empty(t, diagsOfKind(diags, types.KindArityMismatch))
}

func TestNearMissHint(t *testing.T) {
	diags := check(t, `
void g(void) {
    int counter = 0;
    countre = 1;
    (void)counter;
}
`)

	undeclared := diagsOfKind(diags, types.KindUndeclaredVariable)
	require.Len(t, undeclared, 1)
	assert.Equal(t, "did you mean 'counter'?", undeclared[0].Hint)
}

func TestParseFailure(t *testing.T) {
	p, err := parser.New()
	require.NoError(t, err)

	// Unterminated function body.
	diags, err := Check(p, "broken.c", []byte(`int main(void) { if (1 {`))
	require.Error(t, err)

	var parseErr *cerrors.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "broken.c", parseErr.FilePath)

	// No further internal diagnostics for this run.
	assert.Empty(t, diags)
}

func TestMultipleFindingsInOneRun(t *testing.T) {
	diags := check(t, `
void f(int a) { }
void g(void) {
    int unused_one;
    f(1, 2);
    missing_var = 3;
}
`)

	assert.Len(t, diagsOfKind(diags, types.KindArityMismatch), 1)
	assert.Len(t, diagsOfKind(diags, types.KindUndeclaredVariable), 1)
	assert.Len(t, diagsOfKind(diags, types.KindUnusedVariable), 1)
}
