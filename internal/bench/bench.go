// Package bench defines the fixed benchmark suite and training grid the
// parameter fitter and step engine score every proposed expression against
// (§4.6, §4.7 step 10). The suite's order is part of the ledger schema
// (bench[0..9] in §6) and must never be reordered.
package bench

import "math"

// Target is a single benchmark's ground-truth function of x.
type Target struct {
	Name string
	Fn   func(x float64) float64
}

// Suite is the fixed, ordered benchmark set: sin+x, cos, gauss, cubic, abs,
// piecewise, tanh, sigmoid, sin2x, log1p (§4.7 step 10).
var Suite = [10]Target{
	{Name: "sin+x", Fn: func(x float64) float64 { return x + math.Sin(x) }},
	{Name: "cos", Fn: math.Cos},
	{Name: "gauss", Fn: func(x float64) float64 { return math.Exp(-x * x) }},
	{Name: "cubic", Fn: func(x float64) float64 { return x * x * x }},
	{Name: "abs", Fn: math.Abs},
	{Name: "piecewise", Fn: func(x float64) float64 {
		if x < 0 {
			return -x
		}
		return x * x
	}},
	{Name: "tanh", Fn: math.Tanh},
	{Name: "sigmoid", Fn: func(x float64) float64 { return 1.0 / (1.0 + math.Exp(-x)) }},
	{Name: "sin2x", Fn: func(x float64) float64 { return math.Sin(2 * x) }},
	{Name: "log1p", Fn: func(x float64) float64 { return math.Log1p(math.Abs(x)) }},
}

// gridStart, gridStop and gridStep define the fixed training/scoring grid:
// x in [-3,3] step 0.2, ~31 points (§4.6).
const (
	gridStart = -3.0
	gridStop  = 3.0
	gridStep  = 0.2
	GridSize  = 31
)

// Grid returns the fixed x sample points, built from an integer index so
// floating accumulation error can never drift the endpoint or point count.
func Grid() [GridSize]float64 {
	var xs [GridSize]float64
	for i := 0; i < GridSize; i++ {
		xs[i] = gridStart + gridStep*float64(i)
	}
	return xs
}
