package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/standardbeagle/ccheck/internal/types"
)

// WriteText renders a report for humans: per-pass findings first,
// then the merged sequence, then any pass-failure notes.
func WriteText(w io.Writer, r *types.Report) error {
	if _, err := fmt.Fprintf(w, "== %s ==\n", r.File); err != nil {
		return err
	}

	writeGroup(w, "internal findings", r.Internal)
	writeGroup(w, "external findings", r.External)
	writeGroup(w, "merged", r.Merged)

	for _, note := range r.Notes {
		fmt.Fprintf(w, "note: %s\n", note.Message)
	}

	if r.Empty() {
		fmt.Fprintln(w, "no issues found")
	}
	return nil
}

func writeGroup(w io.Writer, header string, diags []types.Diagnostic) {
	if len(diags) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n", header)
	for _, d := range diags {
		fmt.Fprintf(w, "  %s\n", d)
	}
}

// WriteJSON renders the full report, merged sequence included, for
// programmatic consumers.
func WriteJSON(w io.Writer, r *types.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
