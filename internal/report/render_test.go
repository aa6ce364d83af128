package report

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/ccheck/internal/types"
)

func sampleReport() *types.Report {
	internal := []types.Diagnostic{diag(types.KindUndeclaredVariable, "y", "a.c", 2, 5, types.OriginInternal)}
	external := []types.Diagnostic{diag(types.KindUndeclaredVariable, "z", "a.c", 4, 1, types.OriginExternal)}
	m := &Merger{}
	return &types.Report{
		File:     "a.c",
		Internal: internal,
		External: external,
		Merged:   m.Merge(internal, external),
	}
}

func TestWriteTextGroupsFindings(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, WriteText(&sb, sampleReport()))
	out := sb.String()

	// Grouped as internal findings, external findings, then merged.
	internalAt := strings.Index(out, "internal findings:")
	externalAt := strings.Index(out, "external findings:")
	mergedAt := strings.Index(out, "merged:")
	require.GreaterOrEqual(t, internalAt, 0)
	require.Greater(t, externalAt, internalAt)
	require.Greater(t, mergedAt, externalAt)

	assert.Contains(t, out, "a.c:2:5: error:")
}

func TestWriteTextEmptyReport(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, WriteText(&sb, &types.Report{File: "clean.c"}))
	assert.Contains(t, sb.String(), "no issues found")
}

func TestWriteTextNotes(t *testing.T) {
	rep := &types.Report{
		File: "a.c",
		Notes: []types.Diagnostic{{
			Severity: types.SeverityNote,
			Kind:     types.KindExternalToolUnavailable,
			Message:  `external tool "clang" unavailable: executable not found`,
		}},
	}

	var sb strings.Builder
	require.NoError(t, WriteText(&sb, rep))
	assert.Contains(t, sb.String(), `note: external tool "clang" unavailable`)
}

func TestWriteJSONRoundTrips(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, WriteJSON(&sb, sampleReport()))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(sb.String()), &decoded))
	assert.Equal(t, "a.c", decoded["file"])

	merged, ok := decoded["merged"].([]interface{})
	require.True(t, ok)
	assert.Len(t, merged, 2)

	first, ok := merged[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "undeclared-variable", first["kind"])
	assert.Equal(t, "error", first["severity"])
	assert.Equal(t, "internal", first["origin"])
}
