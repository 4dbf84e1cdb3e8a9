// Package graph resolves parsed chain expressions against the fixed
// operation catalog, producing the linear computation graph shared by
// the SPIR-V and GLSL backends.
package graph

// NodeKind identifies a generator or modifier operation.
type NodeKind uint8

const (
	// Generators
	GenOsc NodeKind = iota
	GenNoise
	GenSolid
	GenGradient

	// Modifiers
	ModColor
	ModRotate
	ModInvert
)

// String returns the catalog name for the kind.
func (k NodeKind) String() string {
	switch k {
	case GenOsc:
		return "osc"
	case GenNoise:
		return "noise"
	case GenSolid:
		return "solid"
	case GenGradient:
		return "gradient"
	case ModColor:
		return "color"
	case ModRotate:
		return "rotate"
	case ModInvert:
		return "invert"
	}
	return "unknown"
}

// IsGenerator reports whether the kind produces a base color rather
// than transforming one.
func (k NodeKind) IsGenerator() bool {
	return k <= GenGradient
}

// Node is one resolved operation in the chain. Params always has the
// full catalog arity; omitted trailing arguments are filled with the
// catalog defaults.
type Node struct {
	Kind   NodeKind
	Params []float32
}

// Graph is the resolved linear chain: Nodes[0] is the generator and
// each subsequent node is a modifier of its predecessor. A Graph is
// immutable after Resolve and may be shared read-only by any number
// of backends.
type Graph struct {
	Nodes []Node
}

// Generator returns the chain's generator node.
func (g *Graph) Generator() Node {
	return g.Nodes[0]
}

// Modifiers returns the modifier nodes in written order.
func (g *Graph) Modifiers() []Node {
	return g.Nodes[1:]
}
