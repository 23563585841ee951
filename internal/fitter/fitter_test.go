package fitter

import (
	"math"
	"testing"

	"github.com/kolibri-labs/kolibri/internal/bench"
	"github.com/kolibri-labs/kolibri/internal/dsl"
)

func TestFitZeroParamsSkipsOptimization(t *testing.T) {
	formula := dsl.X()
	res := Fit(formula, 0)
	if res.Params != nil {
		t.Fatalf("expected nil params, got %v", res.Params)
	}
}

func TestFitReducesMSE(t *testing.T) {
	// c0 + x fits sin+x reasonably after optimization on a linear param.
	// The baseline is the MSE at Fit's starting point, gridInit[0].
	formula := dsl.Add(dsl.Param(0), dsl.X())
	before := MSE(formula, []float64{gridInit[0]}, bench.Suite[0].Fn, bench.Grid())
	res := Fit(formula, 1)
	if res.MSE > before {
		t.Fatalf("fit did not improve MSE: before=%v after=%v", before, res.MSE)
	}
}

func TestFitParamsStayProjected(t *testing.T) {
	formula := dsl.Mul(dsl.Param(0), dsl.X())
	res := Fit(formula, 1)
	for _, p := range res.Params {
		if p < projectLo || p > projectHi {
			t.Fatalf("param %v outside [%v,%v]", p, projectLo, projectHi)
		}
	}
}

func TestFitDeterministic(t *testing.T) {
	formula := dsl.Add(dsl.Mul(dsl.Param(0), dsl.X()), dsl.Param(1))
	a := Fit(formula, 2)
	b := Fit(formula, 2)
	for i := range a.Params {
		if a.Params[i] != b.Params[i] {
			t.Fatalf("non-deterministic fit at %d: %v != %v", i, a.Params[i], b.Params[i])
		}
	}
	if a.MSE != b.MSE {
		t.Fatalf("non-deterministic MSE: %v != %v", a.MSE, b.MSE)
	}
}

func TestMSEZeroForExactMatch(t *testing.T) {
	formula := dsl.X()
	xs := bench.Grid()
	target := func(x float64) float64 { return x }
	got := MSE(formula, nil, target, xs)
	if math.Abs(got) > 1e-12 {
		t.Fatalf("expected ~0 MSE, got %v", got)
	}
}
