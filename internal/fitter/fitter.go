// Package fitter implements Kolibri's fixed-schedule Adam optimizer: every
// proposed expression's parameters are fit against the first benchmark's
// grid with exactly the same hyperparameters and iteration count every run,
// so a replayed ledger reproduces bit-identical params (§4.7 step 9, P6).
package fitter

import (
	"math"

	"github.com/kolibri-labs/kolibri/internal/bench"
	"github.com/kolibri-labs/kolibri/internal/dsl"
)

const (
	learningRate = 0.05
	beta1        = 0.9
	beta2        = 0.999
	epsilon      = 1e-8
	iterations   = 200
	projectLo    = -5.0
	projectHi    = 5.0
)

// gridInit seeds each parameter's starting value, indexed mod len(gridInit),
// so the schedule is deterministic regardless of how many params a formula
// carries (§4.7 step 9).
var gridInit = [5]float64{-2, -1, 0, 1, 2}

// Result carries the fitted parameters and the final training MSE.
type Result struct {
	Params []float64
	MSE    float64
}

// Fit runs exactly `iterations` Adam steps on formula's parameters against
// the first benchmark's (x,y) grid. paramCount == 0 skips optimization
// entirely and returns an empty Result with the formula's (constant) MSE.
func Fit(formula *dsl.Node, paramCount int) Result {
	xs := bench.Grid()
	target := bench.Suite[0].Fn

	if paramCount <= 0 {
		return Result{Params: nil, MSE: MSE(formula, nil, target, xs)}
	}

	params := make([]float64, paramCount)
	for i := range params {
		params[i] = gridInit[i%len(gridInit)]
	}

	m := make([]float64, paramCount)
	v := make([]float64, paramCount)
	grad := make([]float64, paramCount)
	accum := make([]float64, paramCount)

	for t := 1; t <= iterations; t++ {
		for i := range accum {
			accum[i] = 0
		}
		n := float64(len(xs))
		for _, x := range xs {
			pred := dsl.EvalGrad(formula, params, x, grad)
			diff := pred - target(x)
			for i := range accum {
				accum[i] += 2.0 * diff * grad[i] / n
			}
		}

		tf := float64(t)
		for i := range params {
			m[i] = beta1*m[i] + (1-beta1)*accum[i]
			v[i] = beta2*v[i] + (1-beta2)*accum[i]*accum[i]
			mHat := m[i] / (1 - math.Pow(beta1, tf))
			vHat := v[i] / (1 - math.Pow(beta2, tf))
			params[i] -= learningRate * mHat / (math.Sqrt(vHat) + epsilon)
			if params[i] < projectLo {
				params[i] = projectLo
			} else if params[i] > projectHi {
				params[i] = projectHi
			}
		}
	}

	return Result{Params: params, MSE: MSE(formula, params, target, xs)}
}

// MSE computes the mean squared error of formula(params, x) against
// target(x) over xs.
func MSE(formula *dsl.Node, params []float64, target func(x float64) float64, xs [bench.GridSize]float64) float64 {
	var sum float64
	for _, x := range xs {
		diff := dsl.Eval(formula, params, x) - target(x)
		sum += diff * diff
	}
	return sum / float64(len(xs))
}
