package engine

import "github.com/kolibri-labs/kolibri/internal/dsl"

// numVariants is the fixed count of candidate-expression shapes the
// proposal switch chooses among (§4.7 step 7).
const numVariants = 6

// propose builds a candidate expression deterministically from draw, a
// value in [0,1) consumed once from the tick's seeded source. Each variant
// is a small, fixed shape mixing x, sin/cos and up to two fitted
// parameters, matching the spec's "mixture of x+sin(x), sin(c*x),
// c1*sin(x)+c2*x, constants, etc." (§4.7 step 7).
func propose(draw float64) *dsl.Node {
	variant := int(draw * numVariants)
	if variant >= numVariants {
		variant = numVariants - 1
	}
	switch variant {
	case 0:
		// x + sin(x)
		return dsl.Add(dsl.X(), dsl.Sin(dsl.X()))
	case 1:
		// sin(c0*x)
		return dsl.Sin(dsl.Mul(dsl.Param(0), dsl.X()))
	case 2:
		// c0*sin(x) + c1*x
		return dsl.Add(
			dsl.Mul(dsl.Param(0), dsl.Sin(dsl.X())),
			dsl.Mul(dsl.Param(1), dsl.X()),
		)
	case 3:
		// a fitted constant
		return dsl.Param(0)
	case 4:
		// c0*x^2 + c1
		return dsl.Add(
			dsl.Mul(dsl.Param(0), dsl.Mul(dsl.X(), dsl.X())),
			dsl.Param(1),
		)
	default:
		// sin(x) * cos(c0*x)
		return dsl.Mul(dsl.Sin(dsl.X()), dsl.Cos(dsl.Mul(dsl.Param(0), dsl.X())))
	}
}
