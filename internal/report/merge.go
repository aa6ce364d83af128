// Package report combines the internal and external diagnostic lists
// into one ordered, deduplicated report and renders it.
package report

import (
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/standardbeagle/ccheck/internal/types"
)

// Merger produces the final ordered diagnostic sequence. Window is
// the dedup line tolerance: 0 collapses duplicates on the same line
// only, N collapses them across N lines of drift between the two
// toolchains. Merging is a pure function of its inputs; re-running it
// yields an identical sequence.
type Merger struct {
	Window int
}

// Merge orders both lists by source location (file, line, column),
// breaking ties with origin (internal first) and then insertion
// order, and drops duplicates: same kind, same identifier, locations
// within the line window. Column drift between independent passes is
// expected and never a mismatch signal. Survivors are returned as
// given, never rewritten.
func (m *Merger) Merge(internal, external []types.Diagnostic) []types.Diagnostic {
	type entry struct {
		diag  types.Diagnostic
		order int
	}

	entries := make([]entry, 0, len(internal)+len(external))
	for i, d := range internal {
		entries = append(entries, entry{diag: d, order: i})
	}
	for i, d := range external {
		entries = append(entries, entry{diag: d, order: i})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if c := a.diag.Location.Compare(b.diag.Location); c != 0 {
			return c < 0
		}
		if a.diag.Origin != b.diag.Origin {
			return a.diag.Origin == types.OriginInternal
		}
		return a.order < b.order
	})

	seen := make(map[uint64]struct{}, len(entries))
	merged := make([]types.Diagnostic, 0, len(entries))
	for _, e := range entries {
		if m.isDuplicate(seen, e.diag) {
			continue
		}
		m.remember(seen, e.diag)
		merged = append(merged, e.diag)
	}
	return merged
}

// dedupKey hashes the identity of a finding at one line. Kind is part
// of the key, so an unused-variable warning never collapses into an
// undeclared-variable error for the same name.
func dedupKey(d types.Diagnostic, line int) uint64 {
	return xxhash.Sum64String(fmt.Sprintf("%d|%s|%s|%d", d.Kind, d.Symbol, d.Location.File, line))
}

func (m *Merger) isDuplicate(seen map[uint64]struct{}, d types.Diagnostic) bool {
	for line := d.Location.Line - m.Window; line <= d.Location.Line+m.Window; line++ {
		if _, ok := seen[dedupKey(d, line)]; ok {
			return true
		}
	}
	return false
}

func (m *Merger) remember(seen map[uint64]struct{}, d types.Diagnostic) {
	seen[dedupKey(d, d.Location.Line)] = struct{}{}
}
