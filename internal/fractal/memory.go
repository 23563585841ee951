package fractal

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// memorySummaryTopN is the number of top entries rendered into the
// ReasonBlock "memory" field (SPEC_FULL §C).
const memorySummaryTopN = 3

// MemorySummary renders the top-N remembered formulas across all roots,
// highest eff first, ties broken by earliest insertion, as
// "<root>:<formula>=<eff>" joined by ";". Deterministic given the sequence
// of prior Remember calls — every formula is already canonically rendered
// and every eff is printed with a fixed %.6g format, so this string is
// itself reproducible byte-for-byte.
func (f *Field) MemorySummary() string {
	type candidate struct {
		root int
		memoryEntry
	}
	var all []candidate
	for root, entries := range f.memory {
		for _, e := range entries {
			all = append(all, candidate{root: root, memoryEntry: e})
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].eff != all[j].eff {
			return all[i].eff > all[j].eff
		}
		return all[i].sequence < all[j].sequence
	})
	if len(all) > memorySummaryTopN {
		all = all[:memorySummaryTopN]
	}
	parts := make([]string, 0, len(all))
	for _, c := range all {
		effStr := strconv.FormatFloat(c.eff, 'g', 6, 64)
		parts = append(parts, fmt.Sprintf("%d:%s=%s", c.root, c.formula, effStr))
	}
	return strings.Join(parts, ";")
}
