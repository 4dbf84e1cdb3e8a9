// Package ir defines the straight-line intermediate representation
// shared by the SPIR-V and GLSL backends.
//
// A Program is a flat arena of scalar values in dependency order:
// inputs (fragment coordinate, time), literal constants, and pure
// arithmetic operations. There is no control flow and no mutation;
// every value is defined exactly once and identified by its ValueID.
// Both backends translate the same Program, which is what guarantees
// that the binary module and the decompiled source agree numerically.
package ir

// ValueID is a handle into a Program's value arena.
type ValueID uint32

// Op identifies a value's operation.
type Op uint8

const (
	// Nullary
	OpLiteral Op = iota // Lit holds the constant
	OpCoordX            // normalized fragment x in [0,1]
	OpCoordY            // normalized fragment y in [0,1]
	OpTime              // elapsed time in seconds

	// Binary arithmetic
	OpAdd
	OpSub
	OpMul
	OpDiv

	// Unary math (GLSL.std.450 equivalents)
	OpSin
	OpCos
	OpFloor
	OpFract

	// Binary math
	OpMin
	OpMax

	// Ternary math
	OpMix // mix(a, b, t) = a*(1-t) + b*t
)

// String returns a short mnemonic for the op.
func (op Op) String() string {
	switch op {
	case OpLiteral:
		return "lit"
	case OpCoordX:
		return "coord.x"
	case OpCoordY:
		return "coord.y"
	case OpTime:
		return "time"
	case OpAdd:
		return "add"
	case OpSub:
		return "sub"
	case OpMul:
		return "mul"
	case OpDiv:
		return "div"
	case OpSin:
		return "sin"
	case OpCos:
		return "cos"
	case OpFloor:
		return "floor"
	case OpFract:
		return "fract"
	case OpMin:
		return "min"
	case OpMax:
		return "max"
	case OpMix:
		return "mix"
	}
	return "unknown"
}

// Arity returns the number of operands the op consumes.
func (op Op) Arity() int {
	switch op {
	case OpLiteral, OpCoordX, OpCoordY, OpTime:
		return 0
	case OpSin, OpCos, OpFloor, OpFract:
		return 1
	case OpAdd, OpSub, OpMul, OpDiv, OpMin, OpMax:
		return 2
	case OpMix:
		return 3
	}
	return 0
}

// Value is a single SSA value. Operands in Args[:Op.Arity()] always
// refer to values with smaller IDs.
type Value struct {
	Op   Op
	Lit  float32 // only meaningful for OpLiteral
	Args [3]ValueID
}

// Program is an immutable straight-line scalar program producing one
// RGBA color.
type Program struct {
	Values []Value
	Out    [4]ValueID // r, g, b, a
}

// UseCounts returns how many times each value is referenced, counting
// operand uses and output uses. Backends use this to decide which
// sub-expressions deserve a named temporary.
func (p *Program) UseCounts() []int {
	counts := make([]int, len(p.Values))
	for _, v := range p.Values {
		for i := 0; i < v.Op.Arity(); i++ {
			counts[v.Args[i]]++
		}
	}
	for _, out := range p.Out {
		counts[out]++
	}
	return counts
}
