package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/ccheck/internal/cerrors"
)

func TestSupported(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"main.c", true},
		{"util.h", true},
		{"widget.cpp", true},
		{"widget.hpp", true},
		{"main.go", false},
		{"README.md", false},
		{"noext", false},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, Supported(test.path), "Supported(%q)", test.path)
	}
}

func TestParseWellFormed(t *testing.T) {
	p, err := New()
	require.NoError(t, err)

	tree, err := p.Parse("ok.c", []byte(`int main(void) { return 0; }`))
	require.NoError(t, err)
	defer tree.Close()

	root := tree.RootNode()
	assert.Equal(t, "translation_unit", root.Kind())
	assert.False(t, root.HasError())
}

func TestParseMalformed(t *testing.T) {
	p, err := New()
	require.NoError(t, err)

	// Unterminated construct.
	_, err = p.Parse("broken.c", []byte(`int main(void) { while (1 {`))
	require.Error(t, err)

	var parseErr *cerrors.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "broken.c", parseErr.FilePath)
	assert.Greater(t, parseErr.Line, 0, "failure must name a concrete span")
}

func TestNodeText(t *testing.T) {
	p, err := New()
	require.NoError(t, err)

	source := []byte(`int x;`)
	tree, err := p.Parse("x.c", source)
	require.NoError(t, err)
	defer tree.Close()

	assert.Equal(t, "int x;", NodeText(tree.RootNode().Child(0), source))
}
