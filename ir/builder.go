package ir

import "math"

// DefaultMaxValues caps the number of values one program may hold.
const DefaultMaxValues = 4096

// opKey identifies a pure operation for value numbering.
type opKey struct {
	op      Op
	litBits uint32
	args    [3]ValueID
}

// Builder constructs a Program with interning: each distinct literal
// (by float32 bit pattern) and each distinct pure operation over the
// same operands is allocated exactly once and reused thereafter. This
// is what keeps the type/constant tables of the binary module free of
// duplicates and the decompiled source free of repeated work.
type Builder struct {
	values   []Value
	interned map[opKey]ValueID
	limit    int
}

// NewBuilder creates a builder with the default value limit.
func NewBuilder() *Builder {
	return NewBuilderWithLimit(DefaultMaxValues)
}

// NewBuilderWithLimit creates a builder capped at limit values.
func NewBuilderWithLimit(limit int) *Builder {
	return &Builder{
		values:   make([]Value, 0, 64),
		interned: make(map[opKey]ValueID, 64),
		limit:    limit,
	}
}

// add interns the value, allocating a new ID only on a cache miss.
// Growth past the limit is detected in Finish; add never fails so the
// lowering code stays free of error plumbing on every arithmetic op.
func (b *Builder) add(v Value) ValueID {
	key := opKey{op: v.Op, args: v.Args}
	if v.Op == OpLiteral {
		key.litBits = math.Float32bits(v.Lit)
	}
	if id, ok := b.interned[key]; ok {
		return id
	}
	id := ValueID(len(b.values))
	b.values = append(b.values, v)
	b.interned[key] = id
	return id
}

// Literal returns the value for a float constant.
func (b *Builder) Literal(f float32) ValueID {
	return b.add(Value{Op: OpLiteral, Lit: f})
}

// CoordX returns the normalized fragment x coordinate input.
func (b *Builder) CoordX() ValueID { return b.add(Value{Op: OpCoordX}) }

// CoordY returns the normalized fragment y coordinate input.
func (b *Builder) CoordY() ValueID { return b.add(Value{Op: OpCoordY}) }

// Time returns the elapsed-time uniform input.
func (b *Builder) Time() ValueID { return b.add(Value{Op: OpTime}) }

// Add returns a+b.
func (b *Builder) Add(x, y ValueID) ValueID {
	return b.add(Value{Op: OpAdd, Args: [3]ValueID{x, y}})
}

// Sub returns a-b.
func (b *Builder) Sub(x, y ValueID) ValueID {
	return b.add(Value{Op: OpSub, Args: [3]ValueID{x, y}})
}

// Mul returns a*b.
func (b *Builder) Mul(x, y ValueID) ValueID {
	return b.add(Value{Op: OpMul, Args: [3]ValueID{x, y}})
}

// Div returns a/b.
func (b *Builder) Div(x, y ValueID) ValueID {
	return b.add(Value{Op: OpDiv, Args: [3]ValueID{x, y}})
}

// Sin returns sin(x).
func (b *Builder) Sin(x ValueID) ValueID {
	return b.add(Value{Op: OpSin, Args: [3]ValueID{x}})
}

// Cos returns cos(x).
func (b *Builder) Cos(x ValueID) ValueID {
	return b.add(Value{Op: OpCos, Args: [3]ValueID{x}})
}

// Floor returns floor(x).
func (b *Builder) Floor(x ValueID) ValueID {
	return b.add(Value{Op: OpFloor, Args: [3]ValueID{x}})
}

// Fract returns x - floor(x).
func (b *Builder) Fract(x ValueID) ValueID {
	return b.add(Value{Op: OpFract, Args: [3]ValueID{x}})
}

// Min returns min(x, y).
func (b *Builder) Min(x, y ValueID) ValueID {
	return b.add(Value{Op: OpMin, Args: [3]ValueID{x, y}})
}

// Max returns max(x, y).
func (b *Builder) Max(x, y ValueID) ValueID {
	return b.add(Value{Op: OpMax, Args: [3]ValueID{x, y}})
}

// Mix returns mix(x, y, t).
func (b *Builder) Mix(x, y, t ValueID) ValueID {
	return b.add(Value{Op: OpMix, Args: [3]ValueID{x, y, t}})
}

// Len returns the number of values built so far.
func (b *Builder) Len() int {
	return len(b.values)
}

// Finish seals the builder into an immutable Program with the given
// RGBA outputs.
func (b *Builder) Finish(r, g, bl, a ValueID) (*Program, error) {
	if len(b.values) > b.limit {
		return nil, &LimitError{Count: len(b.values), Limit: b.limit}
	}
	return &Program{
		Values: b.values,
		Out:    [4]ValueID{r, g, bl, a},
	}, nil
}
