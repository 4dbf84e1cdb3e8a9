// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gogpu/hydra/ir"
)

// Generate decompiles the program into GLSL fragment shader source
// using default options.
func Generate(program *ir.Program) (string, error) {
	return GenerateWithOptions(program, DefaultOptions())
}

// GenerateWithOptions decompiles the program into GLSL fragment shader
// source.
//
// The writer makes a single pass over the values in dependency order.
// Any value referenced more than once is baked into a named local
// (`float e<N> = ...;`) and referenced by name thereafter; single-use
// values are inlined into their consumer. Definition order is never
// changed, so the emitted source computes exactly what the binary
// module computes.
func GenerateWithOptions(program *ir.Program, options Options) (string, error) {
	if options.LangVersion == (Version{}) {
		options.LangVersion = Version330
	}
	w := &writer{
		program: program,
		options: options,
		exprs:   make([]string, len(program.Values)),
	}
	return w.write()
}

type writer struct {
	program *ir.Program
	options Options
	out     strings.Builder

	// exprs holds, per value, either the inline expression text or the
	// name of the baked local.
	exprs []string

	// locals counts baked temporaries for name generation.
	locals int
}

func (w *writer) write() (string, error) {
	fmt.Fprintf(&w.out, "#version %s\n\n", w.options.LangVersion)
	if w.options.LangVersion.ES {
		w.out.WriteString("precision highp float;\n\n")
	}

	w.out.WriteString("uniform float time;\n")
	w.out.WriteString("uniform vec2 resolution;\n\n")
	w.out.WriteString("out vec4 fragColor;\n\n")
	w.out.WriteString("void main() {\n")
	w.out.WriteString("    vec2 coord = gl_FragCoord.xy / resolution;\n")

	counts := w.program.UseCounts()
	for i, v := range w.program.Values {
		expr, err := w.expression(v)
		if err != nil {
			return "", err
		}
		if counts[i] > 1 && v.Op.Arity() > 0 {
			name := fmt.Sprintf("e%d", w.locals)
			w.locals++
			fmt.Fprintf(&w.out, "    float %s = %s;\n", name, expr)
			w.exprs[i] = name
		} else {
			w.exprs[i] = expr
		}
	}

	fmt.Fprintf(&w.out, "    fragColor = vec4(%s, %s, %s, %s);\n",
		w.exprs[w.program.Out[0]],
		w.exprs[w.program.Out[1]],
		w.exprs[w.program.Out[2]],
		w.exprs[w.program.Out[3]])
	w.out.WriteString("}\n")

	return w.out.String(), nil
}

func (w *writer) expression(v ir.Value) (string, error) {
	arg := func(i int) string { return w.exprs[v.Args[i]] }

	switch v.Op {
	case ir.OpLiteral:
		return formatFloat(v.Lit), nil
	case ir.OpCoordX:
		return "coord.x", nil
	case ir.OpCoordY:
		return "coord.y", nil
	case ir.OpTime:
		return "time", nil
	case ir.OpAdd:
		return fmt.Sprintf("(%s + %s)", arg(0), arg(1)), nil
	case ir.OpSub:
		return fmt.Sprintf("(%s - %s)", arg(0), arg(1)), nil
	case ir.OpMul:
		return fmt.Sprintf("(%s * %s)", arg(0), arg(1)), nil
	case ir.OpDiv:
		return fmt.Sprintf("(%s / %s)", arg(0), arg(1)), nil
	case ir.OpSin:
		return fmt.Sprintf("sin(%s)", arg(0)), nil
	case ir.OpCos:
		return fmt.Sprintf("cos(%s)", arg(0)), nil
	case ir.OpFloor:
		return fmt.Sprintf("floor(%s)", arg(0)), nil
	case ir.OpFract:
		return fmt.Sprintf("fract(%s)", arg(0)), nil
	case ir.OpMin:
		return fmt.Sprintf("min(%s, %s)", arg(0), arg(1)), nil
	case ir.OpMax:
		return fmt.Sprintf("max(%s, %s)", arg(0), arg(1)), nil
	case ir.OpMix:
		return fmt.Sprintf("mix(%s, %s, %s)", arg(0), arg(1), arg(2)), nil
	default:
		return "", fmt.Errorf("unsupported op: %v", v.Op)
	}
}

// formatFloat formats a float32 with full round-trip fidelity for
// GLSL output.
func formatFloat(f float32) string {
	s := strconv.FormatFloat(float64(f), 'g', -1, 32)
	// Ensure it has a decimal point or exponent
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
