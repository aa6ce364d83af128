package cerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseErrorMessage(t *testing.T) {
	err := NewParseError("main.c", 3, 14, `unexpected syntax near "{"`)
	assert.Contains(t, err.Error(), "main.c")
	assert.Contains(t, err.Error(), "3:14")
	assert.Equal(t, ClassParse, err.Class())

	noSpan := NewParseError("main.c", 0, 0, "no syntax tree produced")
	assert.Equal(t, "parse failure in main.c: no syntax tree produced", noSpan.Error())
}

func TestToolErrorWrapsUnderlying(t *testing.T) {
	underlying := errors.New("exec: not found")
	err := NewToolError("clang", "a.c", "executable not found", underlying)

	assert.ErrorIs(t, err, underlying)
	assert.Contains(t, err.Error(), `"clang"`)
	assert.Contains(t, err.Error(), "a.c")
}

func TestRunFatalClassification(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		fatal bool
	}{
		{"preprocess", NewPreprocessError("a.c", "boom", nil), true},
		{"config", NewConfigError("clang.executable", "", "must not be empty"), true},
		{"tool", NewToolError("clang", "a.c", "missing", nil), false},
		{"parse", NewParseError("a.c", 1, 1, "bad"), false},
		{"wrapped preprocess", fmt.Errorf("run failed: %w", NewPreprocessError("a.c", "boom", nil)), true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.fatal, IsRunFatal(test.err))
		})
	}
}

func TestConfigErrorMessage(t *testing.T) {
	err := NewConfigError("analysis.format", "xml", `must be "text" or "json"`)
	assert.Contains(t, err.Error(), `analysis.format="xml"`)

	bare := NewConfigError("clang.executable", "", "must not be empty")
	assert.Equal(t, "invalid configuration: clang.executable: must not be empty", bare.Error())
}
