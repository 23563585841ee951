package engine

import (
	"testing"

	"github.com/kolibri-labs/kolibri/internal/dsl"
)

func renderSafe(n *dsl.Node) (string, error) {
	return dsl.Render(n)
}

func TestProposeDeterministicPerDraw(t *testing.T) {
	for _, draw := range []float64{0, 0.1, 0.2, 0.35, 0.5, 0.7, 0.9, 0.999} {
		a, err1 := renderSafe(propose(draw))
		b, err2 := renderSafe(propose(draw))
		if err1 != nil || err2 != nil {
			t.Fatalf("render error: %v / %v", err1, err2)
		}
		if a != b {
			t.Fatalf("propose(%v) not deterministic: %q != %q", draw, a, b)
		}
	}
}

func TestProposeCoversAllVariants(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < numVariants; i++ {
		draw := float64(i) / float64(numVariants)
		s, err := renderSafe(propose(draw))
		if err != nil {
			t.Fatalf("render error: %v", err)
		}
		seen[s] = true
	}
	if len(seen) != numVariants {
		t.Fatalf("expected %d distinct variants, got %d: %v", numVariants, len(seen), seen)
	}
}

func TestProposeDrawAtUpperBound(t *testing.T) {
	if _, err := renderSafe(propose(0.999999)); err != nil {
		t.Fatalf("unexpected error at upper bound: %v", err)
	}
}
