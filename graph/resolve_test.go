package graph

import (
	"errors"
	"reflect"
	"testing"

	"github.com/gogpu/hydra/chain"
)

func mustParse(t *testing.T, source string) *chain.Chain {
	t.Helper()
	c, err := chain.Parse(source)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", source, err)
	}
	return c
}

func TestResolveDefaults(t *testing.T) {
	tests := []struct {
		source string
		kind   NodeKind
		params []float32
	}{
		{"osc()", GenOsc, []float32{60, 0.1, 0}},
		{"osc(30)", GenOsc, []float32{30, 0.1, 0}},
		{"osc(30, 0.2, 1)", GenOsc, []float32{30, 0.2, 1}},
		{"noise()", GenNoise, []float32{10, 0.1}},
		{"solid()", GenSolid, []float32{0, 0, 0, 1}},
		{"solid(1, 0.5)", GenSolid, []float32{1, 0.5, 0, 1}},
		{"gradient()", GenGradient, []float32{0}},
	}

	for _, tt := range tests {
		g, err := Resolve(mustParse(t, tt.source))
		if err != nil {
			t.Errorf("%q: unexpected error: %v", tt.source, err)
			continue
		}
		if len(g.Nodes) != 1 {
			t.Errorf("%q: expected 1 node, got %d", tt.source, len(g.Nodes))
			continue
		}
		node := g.Nodes[0]
		if node.Kind != tt.kind {
			t.Errorf("%q: expected kind %v, got %v", tt.source, tt.kind, node.Kind)
		}
		if !reflect.DeepEqual(node.Params, tt.params) {
			t.Errorf("%q: expected params %v, got %v", tt.source, tt.params, node.Params)
		}
	}
}

func TestResolveModifierDefaults(t *testing.T) {
	g, err := Resolve(mustParse(t, "osc().color(0.5).rotate().invert()"))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(g.Nodes) != 4 {
		t.Fatalf("Expected 4 nodes, got %d", len(g.Nodes))
	}

	want := []struct {
		kind   NodeKind
		params []float32
	}{
		{GenOsc, []float32{60, 0.1, 0}},
		{ModColor, []float32{0.5, 1, 1, 1}},
		{ModRotate, []float32{10, 0}},
		{ModInvert, []float32{1}},
	}
	for i, w := range want {
		if g.Nodes[i].Kind != w.kind {
			t.Errorf("Node %d: expected kind %v, got %v", i, w.kind, g.Nodes[i].Kind)
		}
		if !reflect.DeepEqual(g.Nodes[i].Params, w.params) {
			t.Errorf("Node %d: expected params %v, got %v", i, w.params, g.Nodes[i].Params)
		}
	}
}

func TestResolveUnknownFunction(t *testing.T) {
	_, err := Resolve(mustParse(t, "osc().sepia()"))
	var unknownErr *UnknownFunctionError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("Expected *UnknownFunctionError, got %T (%v)", err, err)
	}
	if unknownErr.Name != "sepia" {
		t.Errorf("Expected name %q, got %q", "sepia", unknownErr.Name)
	}
}

func TestResolveTooManyArguments(t *testing.T) {
	tests := []struct {
		source string
		name   string
		got    int
		max    int
	}{
		{"osc(1,2,3,4)", "osc", 4, 3},
		{"osc().invert(1,2)", "invert", 2, 1},
		{"noise(1,2,3)", "noise", 3, 2},
	}

	for _, tt := range tests {
		_, err := Resolve(mustParse(t, tt.source))
		var countErr *ArgumentCountError
		if !errors.As(err, &countErr) {
			t.Errorf("%q: expected *ArgumentCountError, got %T (%v)", tt.source, err, err)
			continue
		}
		if countErr.Name != tt.name || countErr.Got != tt.got || countErr.Max != tt.max {
			t.Errorf("%q: expected {%s %d %d}, got {%s %d %d}",
				tt.source, tt.name, tt.got, tt.max, countErr.Name, countErr.Got, countErr.Max)
		}
	}
}

func TestResolveChainOrder(t *testing.T) {
	// Modifier first
	_, err := Resolve(mustParse(t, "color(1,0,0)"))
	var orderErr *ChainOrderError
	if !errors.As(err, &orderErr) {
		t.Fatalf("Expected *ChainOrderError, got %T (%v)", err, err)
	}
	if orderErr.IsGenerator {
		t.Error("Expected modifier-first error, got generator error")
	}

	// Generator in modifier position
	_, err = Resolve(mustParse(t, "osc().noise()"))
	if !errors.As(err, &orderErr) {
		t.Fatalf("Expected *ChainOrderError, got %T (%v)", err, err)
	}
	if !orderErr.IsGenerator || orderErr.Position != 1 {
		t.Errorf("Expected generator error at position 1, got %+v", orderErr)
	}
}

func TestResolveEmptyChain(t *testing.T) {
	_, err := Resolve(&chain.Chain{})
	if !errors.Is(err, chain.ErrEmptyChain) {
		t.Fatalf("Expected ErrEmptyChain, got %v", err)
	}
}

func TestResolveDeterministic(t *testing.T) {
	const source = "osc(60,0.1).rotate(0.5,0.2).color(1,0.5,1).invert()"
	first, err := Resolve(mustParse(t, source))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	second, err := Resolve(mustParse(t, source))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("Resolve is not deterministic for identical input")
	}
}

func TestResolveDoesNotAliasArgs(t *testing.T) {
	c := mustParse(t, "osc(30)")
	g, err := Resolve(c)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	c.Calls[0].Args[0] = 99
	if g.Nodes[0].Params[0] != 30 {
		t.Error("Graph params alias the chain's argument slice")
	}
}

func TestLookup(t *testing.T) {
	if _, _, ok := Lookup("osc"); !ok {
		t.Error("Expected osc in catalog")
	}
	if _, _, ok := Lookup("OSC"); ok {
		t.Error("Catalog lookup should be case-sensitive")
	}
	if _, _, ok := Lookup("warp"); ok {
		t.Error("Did not expect warp in catalog")
	}
}

func TestLookupDefaultsAreIsolated(t *testing.T) {
	_, defaults, ok := Lookup("osc")
	if !ok {
		t.Fatal("Expected osc in catalog")
	}
	defaults[0] = 999

	_, fresh, _ := Lookup("osc")
	if !reflect.DeepEqual(fresh, []float32{60, 0.1, 0}) {
		t.Errorf("Catalog defaults corrupted by caller mutation: %v", fresh)
	}

	g, err := Resolve(mustParse(t, "osc()"))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if g.Nodes[0].Params[0] != 60 {
		t.Errorf("Resolved defaults corrupted by caller mutation: %v", g.Nodes[0].Params)
	}
}
