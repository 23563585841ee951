package facodec

import (
	"testing"

	"github.com/kolibri-labs/kolibri/internal/dsl"
)

func TestEncodeAscending(t *testing.T) {
	votes := [10]float64{0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9}
	got := Encode(votes)
	// round(9*v) gives 4.5 -> 5 and 5.4 -> 5, and 8.1 -> 8 for the last
	// vote, so the digits repeat 5 and stop at 8.
	want := "0123455678"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestEncodeKnownVector(t *testing.T) {
	votes := [10]float64{0.05, 0.15, 0.95, 0.33, 0.51, 0.72, 0.41, 0.08, 0.67, 0.2}
	got := Encode(votes)
	want := "0193564162"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestStabilityWindow(t *testing.T) {
	window := []string{"7056172034", "7056172031", "7056179034", "7056172034", "7056172034"}
	if got := Stability(window); got != 6 {
		t.Fatalf("got %d want 6", got)
	}
}

func TestStabilityEmpty(t *testing.T) {
	if got := Stability(nil); got != 0 {
		t.Fatalf("got %d want 0", got)
	}
}

func TestStabilityBounds(t *testing.T) {
	window := []string{"0000000000", "0000000000"}
	if got := Stability(window); got != 10 {
		t.Fatalf("got %d want 10", got)
	}
}

func TestApplyNilMapIsIdentity(t *testing.T) {
	f := dsl.X()
	out := Apply(nil, "0123456789", f)
	if out != f {
		t.Fatalf("expected identity, got different node")
	}
}

func TestApplyPipeline(t *testing.T) {
	var m Map
	m.Ops[0][1] = []Op{{Kind: OpApplySin}}
	m.Ops[1][9] = []Op{{Kind: OpAddConst, Value: 2}}
	f := dsl.X()
	out := Apply(&m, "19", f)
	got, err := dsl.Render(out)
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	want := "(sin(x) + 2)"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}
