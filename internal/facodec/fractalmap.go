package facodec

import "github.com/kolibri-labs/kolibri/internal/dsl"

// OpKind enumerates the fixed set of digit-indexed transforms an FA
// position can apply to the in-progress formula (§4.5).
type OpKind uint8

const (
	OpNone OpKind = iota
	OpAddConst
	OpMulConst
	OpAddParam
	OpSubParam
	OpApplySin
	OpApplyTanh
	OpApplyExp
	OpApplyLog
	OpPowParam
)

// MaxOpsPerCell bounds the op sequence applied at one (position, digit)
// cell (§4.5: "a sequence of up to 6 FractalOps").
const MaxOpsPerCell = 6

// Op is a single transform: Value is used by *_CONST ops, ParamIndex by
// *_PARAM ops, and both are ignored otherwise.
type Op struct {
	Kind       OpKind
	Value      float64
	ParamIndex uint8
}

// Map is the digit-indexed transform pipeline: Ops[position][digit] holds
// up to MaxOpsPerCell operators applied in sequence when that FA position
// carries that digit. A nil Map (or one with no entries) collapses Apply to
// the identity, per §4.5.
type Map struct {
	ID  string
	Ops [Digits][10][]Op
}

// Apply threads formula through the transform sequence named by each
// position of fa in turn. A nil *Map, or an empty op list at a given cell,
// leaves the formula for that position unchanged.
func Apply(m *Map, fa string, formula *dsl.Node) *dsl.Node {
	if m == nil {
		return formula
	}
	for pos := 0; pos < len(fa) && pos < Digits; pos++ {
		digit := int(fa[pos] - '0')
		if digit < 0 || digit > 9 {
			continue
		}
		ops := m.Ops[pos][digit]
		if len(ops) > MaxOpsPerCell {
			ops = ops[:MaxOpsPerCell]
		}
		for _, op := range ops {
			formula = applyOne(op, formula)
		}
	}
	return formula
}

func applyOne(op Op, formula *dsl.Node) *dsl.Node {
	switch op.Kind {
	case OpNone:
		return formula
	case OpAddConst:
		return dsl.Add(formula, dsl.Const(op.Value))
	case OpMulConst:
		return dsl.Mul(formula, dsl.Const(op.Value))
	case OpAddParam:
		return dsl.Add(formula, dsl.Param(op.ParamIndex))
	case OpSubParam:
		return dsl.Sub(formula, dsl.Param(op.ParamIndex))
	case OpApplySin:
		return dsl.Sin(formula)
	case OpApplyTanh:
		return dsl.Tanh(formula)
	case OpApplyExp:
		return dsl.Exp(formula)
	case OpApplyLog:
		return dsl.Log(formula)
	case OpPowParam:
		return dsl.Pow(formula, dsl.Param(op.ParamIndex))
	default:
		return formula
	}
}
