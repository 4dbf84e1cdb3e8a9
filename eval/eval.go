// Package eval interprets ir programs on the CPU in float32.
//
// It exists as the reference oracle for the compiler's semantics: the
// SPIR-V and GLSL backends are translations of the same ir.Program
// this package executes, so a chain's expected color at any coordinate
// and time can be checked without a GPU. All arithmetic runs through
// math32 to match GPU single precision.
package eval

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/gogpu/hydra/ir"
)

// Program evaluates p at normalized coordinate (x, y) and time t,
// returning the RGBA color.
func Program(p *ir.Program, x, y, t float32) ([4]float32, error) {
	vals := make([]float32, len(p.Values))
	for i, v := range p.Values {
		a, b, c := operands(vals, v)
		switch v.Op {
		case ir.OpLiteral:
			vals[i] = v.Lit
		case ir.OpCoordX:
			vals[i] = x
		case ir.OpCoordY:
			vals[i] = y
		case ir.OpTime:
			vals[i] = t
		case ir.OpAdd:
			vals[i] = a + b
		case ir.OpSub:
			vals[i] = a - b
		case ir.OpMul:
			vals[i] = a * b
		case ir.OpDiv:
			vals[i] = a / b
		case ir.OpSin:
			vals[i] = math32.Sin(a)
		case ir.OpCos:
			vals[i] = math32.Cos(a)
		case ir.OpFloor:
			vals[i] = math32.Floor(a)
		case ir.OpFract:
			vals[i] = a - math32.Floor(a)
		case ir.OpMin:
			vals[i] = math32.Min(a, b)
		case ir.OpMax:
			vals[i] = math32.Max(a, b)
		case ir.OpMix:
			vals[i] = a*(1-c) + b*c
		default:
			return [4]float32{}, fmt.Errorf("eval: unknown op %s", v.Op)
		}
	}

	var out [4]float32
	for i, id := range p.Out {
		if int(id) >= len(vals) {
			return [4]float32{}, fmt.Errorf("eval: output %d references undefined value %d", i, id)
		}
		out[i] = vals[id]
	}
	return out, nil
}

func operands(vals []float32, v ir.Value) (a, b, c float32) {
	switch v.Op.Arity() {
	case 3:
		c = vals[v.Args[2]]
		fallthrough
	case 2:
		b = vals[v.Args[1]]
		fallthrough
	case 1:
		a = vals[v.Args[0]]
	}
	return a, b, c
}
