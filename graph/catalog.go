package graph

// catalogEntry describes one operation: its kind and the default
// parameter values, which also fix the maximum arity.
type catalogEntry struct {
	kind     NodeKind
	defaults []float32
}

// catalog is the fixed vocabulary of chain operations. The name →
// entry lookup happens once at resolve time; downstream code switches
// on NodeKind only.
var catalog = map[string]catalogEntry{
	"osc":      {GenOsc, []float32{60, 0.1, 0}},   // frequency, sync, offset
	"noise":    {GenNoise, []float32{10, 0.1}},    // scale, offset
	"solid":    {GenSolid, []float32{0, 0, 0, 1}}, // r, g, b, a
	"gradient": {GenGradient, []float32{0}},       // speed

	"color":  {ModColor, []float32{1, 1, 1, 1}}, // r, g, b, a
	"rotate": {ModRotate, []float32{10, 0}},     // angle, speed
	"invert": {ModInvert, []float32{1}},         // amount
}

// Lookup returns the catalog kind and defaults for name. The defaults
// slice is a fresh copy; callers may overwrite it freely.
func Lookup(name string) (NodeKind, []float32, bool) {
	e, ok := catalog[name]
	if !ok {
		return 0, nil, false
	}
	defaults := make([]float32, len(e.defaults))
	copy(defaults, e.defaults)
	return e.kind, defaults, true
}
