package fractal

import "github.com/kolibri-labs/kolibri/internal/rng"

// memoryCapacity matches the original engine's per-digit experience ring
// (core/digit.h: KolExperience memory[8]), carried forward per SPEC_FULL §C.
const memoryCapacity = 8

// memoryEntry is one remembered best-formula for a root digit.
type memoryEntry struct {
	formula  string
	eff      float64
	sequence uint64
}

// Field owns the forest of 10 root agents and, per SPEC_FULL §C, a bounded
// memory of the best formulas seen by each root across ticks.
type Field struct {
	Roots    [10]*Agent
	DepthMax int

	memory    [10][]memoryEntry
	sequence  uint64
}

// NewField builds a field with the given depth ceiling (depth_max >= 1)
// and root seed, per spec §4.2 init().
func NewField(depthMax int, seed uint64) *Field {
	if depthMax < 1 {
		depthMax = 1
	}
	f := &Field{DepthMax: depthMax}
	for i := 0; i < 10; i++ {
		branchSeed := rng.SplitMix64(seed + uint64(i+1))
		f.Roots[i] = buildAgent(0, depthMax, branchSeed)
	}
	return f
}

// Tick advances every agent in the field by one post-order update (§4.2).
func (f *Field) Tick() {
	for _, root := range f.Roots {
		root.tick()
	}
}

// Aggregate produces the 10-vector of votes by depth-weighted averaging
// over each root's subtree (§4.2). Read-only.
func (f *Field) Aggregate() [10]float64 {
	var out [10]float64
	for i, root := range f.Roots {
		var sum, total float64
		root.accumulate(1.0, &sum, &total)
		v := 0.0
		if total > 0 {
			v = sum / total
		}
		if v < 0 {
			v = 0
		} else if v > 1 {
			v = 1
		}
		out[i] = v
	}
	return out
}

// Remember records formula as a candidate experience for the given root
// index (0..9). Once memoryCapacity is reached, the new entry replaces the
// worst-eff entry if its eff is higher and is dropped otherwise.
// Deterministic given a deterministic call sequence.
func (f *Field) Remember(root int, formula string, eff float64) {
	if root < 0 || root > 9 {
		return
	}
	f.sequence++
	entry := memoryEntry{formula: formula, eff: eff, sequence: f.sequence}
	entries := f.memory[root]
	if len(entries) < memoryCapacity {
		f.memory[root] = append(entries, entry)
		return
	}
	worst := 0
	for i := 1; i < len(entries); i++ {
		if entries[i].eff < entries[worst].eff {
			worst = i
		}
	}
	if entry.eff > entries[worst].eff {
		entries[worst] = entry
	}
}
