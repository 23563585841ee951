// Package fractal implements the recursive 10-ary digit-agent tree (§4.2),
// the vote policy applied to its aggregated output (§4.3), and the
// per-digit best-formula memory that feeds the ReasonBlock "memory" field
// (SPEC_FULL §C).
package fractal

import "github.com/kolibri-labs/kolibri/internal/rng"

// branchMix is the odd mixing constant used to derive a distinct child
// seed per sibling index at every depth (spec §4.2).
const branchMix = 0xA0761D6478BD642F

// Agent is one node of a fixed-shape 10-ary tree. All 10 Children entries
// are nil at a leaf (depth+1 == DepthMax); otherwise all 10 are non-nil.
type Agent struct {
	Weight   float64
	Seed     uint64
	Children [10]*Agent
}

// buildAgent constructs the subtree rooted at depth d with ceiling D,
// seeded by s, per the clone() recurrence in spec §4.2.
func buildAgent(d, depthMax int, s uint64) *Agent {
	a := &Agent{
		Seed:   s,
		Weight: rng.UnitFromUint64(rng.SplitMix64(s)),
	}
	if d+1 < depthMax {
		for j := 0; j < 10; j++ {
			childSeed := rng.SplitMix64(s ^ (branchMix * uint64(j+1)))
			a.Children[j] = buildAgent(d+1, depthMax, childSeed)
		}
	}
	return a
}

// isLeaf reports whether a has no children.
func (a *Agent) isLeaf() bool {
	return a.Children[0] == nil
}

// xorshiftStep advances a 64-bit state by one xorshift64 step, returning
// the new state (not the multiplicatively-mixed draw — the state itself is
// what Tick advances, matching "advance its seed by one xorshift step").
func xorshiftStep(x uint64) uint64 {
	x ^= x >> 12
	x ^= x << 25
	x ^= x >> 27
	return x
}

// tick updates a and its entire subtree post-order, per spec §4.2.
func (a *Agent) tick() {
	newSeed := xorshiftStep(a.Seed)
	noise := rng.UnitFromUint64(newSeed)

	var childAvg float64
	if a.isLeaf() {
		childAvg = noise
	} else {
		var sum float64
		for _, c := range a.Children {
			c.tick()
			sum += c.Weight
		}
		childAvg = sum / 10.0
	}

	updated := 0.65*noise + 0.35*childAvg
	if updated < 0 {
		updated = 0
	} else if updated > 1 {
		updated = 1
	}
	a.Seed = newSeed
	a.Weight = updated
}

// aggregateDecay is the exponential per-depth discount used by aggregate().
const aggregateDecay = 0.6

// accumulate recursively adds a's weighted contribution (and that of its
// whole subtree) into sum/totalWeight, read-only (spec §4.2: "does not
// mutate seeds or weights").
func (a *Agent) accumulate(depthWeight float64, sum, totalWeight *float64) {
	*sum += a.Weight * depthWeight
	*totalWeight += depthWeight
	if a.isLeaf() {
		return
	}
	childWeight := depthWeight * aggregateDecay
	for _, c := range a.Children {
		c.accumulate(childWeight, sum, totalWeight)
	}
}
