package dsl

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrRenderOverflow is returned when the canonical rendering of a formula
// would exceed the caller's fixed buffer (spec §4.4: "truncation on buffer
// overflow is a fatal encoding error in step construction, not silently
// clipped").
var ErrRenderOverflow = errors.New("dsl: canonical render exceeds buffer")

// MaxFormulaLen is the fixed formula buffer size from spec §3 (formula:str≤255).
const MaxFormulaLen = 255

var unaryName = map[Tag]string{
	SIN: "sin", COS: "cos", EXP: "exp", LOG: "log",
	TANH: "tanh", SIGMOID: "sigmoid", ABS: "abs",
}

var binaryOp = map[Tag]string{
	ADD: "+", SUB: "-", MUL: "*", DIV: "/", POW: "^",
}

// Render produces the canonical prefix-parenthesized rendering of n:
// constants as %.6g, parameters as cN, VAR_X as x, unary ops as name(arg),
// binary ops (except MIN/MAX) as (a OP b), MIN/MAX as name(a,b). The result
// is deterministic given n. An error is returned instead of a truncated
// string if the rendering would exceed MaxFormulaLen bytes.
func Render(n *Node) (string, error) {
	var sb strings.Builder
	if err := render(n, &sb); err != nil {
		return "", err
	}
	if sb.Len() > MaxFormulaLen {
		return "", ErrRenderOverflow
	}
	return sb.String(), nil
}

func render(n *Node, sb *strings.Builder) error {
	if sb.Len() > MaxFormulaLen {
		return ErrRenderOverflow
	}
	switch n.Tag {
	case CONST:
		sb.WriteString(strconv.FormatFloat(n.Value, 'g', 6, 64))
		return nil
	case PARAM:
		fmt.Fprintf(sb, "c%d", n.ParamIndex)
		return nil
	case VAR_X:
		sb.WriteByte('x')
		return nil
	case SIN, COS, EXP, LOG, TANH, SIGMOID, ABS:
		sb.WriteString(unaryName[n.Tag])
		sb.WriteByte('(')
		if err := render(n.A, sb); err != nil {
			return err
		}
		sb.WriteByte(')')
		return nil
	case MIN, MAX:
		if n.Tag == MIN {
			sb.WriteString("min(")
		} else {
			sb.WriteString("max(")
		}
		if err := render(n.A, sb); err != nil {
			return err
		}
		sb.WriteByte(',')
		if err := render(n.B, sb); err != nil {
			return err
		}
		sb.WriteByte(')')
		return nil
	default:
		sb.WriteByte('(')
		if err := render(n.A, sb); err != nil {
			return err
		}
		sb.WriteByte(' ')
		sb.WriteString(binaryOp[n.Tag])
		sb.WriteByte(' ')
		if err := render(n.B, sb); err != nil {
			return err
		}
		sb.WriteByte(')')
		return nil
	}
}
