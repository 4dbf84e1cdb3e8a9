// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"strings"
	"testing"

	"github.com/gogpu/hydra/chain"
	"github.com/gogpu/hydra/graph"
	"github.com/gogpu/hydra/ir"
)

func compileChain(t *testing.T, source string, opts Options) string {
	t.Helper()
	c, err := chain.Parse(source)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", source, err)
	}
	g, err := graph.Resolve(c)
	if err != nil {
		t.Fatalf("Resolve(%q) failed: %v", source, err)
	}
	p, err := ir.Lower(g)
	if err != nil {
		t.Fatalf("Lower(%q) failed: %v", source, err)
	}
	out, err := GenerateWithOptions(p, opts)
	if err != nil {
		t.Fatalf("Generate(%q) failed: %v", source, err)
	}
	return out
}

func TestGenerateDeclarations(t *testing.T) {
	src := compileChain(t, "osc(60, 0.1, 0)", DefaultOptions())

	for _, want := range []string{
		"#version 330 core\n",
		"uniform float time;\n",
		"uniform vec2 resolution;\n",
		"out vec4 fragColor;\n",
		"void main() {\n",
		"vec2 coord = gl_FragCoord.xy / resolution;\n",
		"fragColor = vec4(",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("Missing %q in output:\n%s", want, src)
		}
	}
}

func TestGenerateVersions(t *testing.T) {
	tests := []struct {
		version   Version
		directive string
		precision bool
	}{
		{Version330, "#version 330 core", false},
		{Version450, "#version 450 core", false},
		{VersionES300, "#version 300 es", true},
	}

	for _, tt := range tests {
		opts := Options{LangVersion: tt.version}
		src := compileChain(t, "solid(1)", opts)
		if !strings.HasPrefix(src, tt.directive+"\n") {
			t.Errorf("%v: expected directive %q, got:\n%s", tt.version, tt.directive, src)
		}
		hasPrecision := strings.Contains(src, "precision highp float;")
		if hasPrecision != tt.precision {
			t.Errorf("%v: precision declaration = %v, want %v", tt.version, hasPrecision, tt.precision)
		}
	}
}

func TestGenerateSolidGolden(t *testing.T) {
	src := compileChain(t, "solid(1, 0.5, 0.25, 1)", DefaultOptions())
	want := `#version 330 core

uniform float time;
uniform vec2 resolution;

out vec4 fragColor;

void main() {
    vec2 coord = gl_FragCoord.xy / resolution;
    fragColor = vec4(1.0, 0.5, 0.25, 1.0);
}
`
	if src != want {
		t.Errorf("Golden mismatch.\nGot:\n%s\nWant:\n%s", src, want)
	}
}

func TestGenerateLiteralFormatting(t *testing.T) {
	tests := []struct {
		value float32
		want  string
	}{
		{1, "1.0"},
		{0.5, "0.5"},
		{-0.25, "-0.25"},
		{60, "60.0"},
		{0.1, "0.1"},
	}

	for _, tt := range tests {
		if got := formatFloat(tt.value); got != tt.want {
			t.Errorf("formatFloat(%v): expected %q, got %q", tt.value, tt.want, got)
		}
	}
}

func TestGenerateFormatFloatRoundTrips(t *testing.T) {
	// The literal 0.1 has no exact float32 form; the emitted text must
	// still parse back to the identical bits.
	values := []float32{0.1, 12.9898, 78.233, 43758.5453, 1e-7, 3.1415927}
	for _, v := range values {
		s := formatFloat(v)
		if !strings.ContainsAny(s, ".eE") {
			t.Errorf("formatFloat(%v) = %q has no decimal marker", v, s)
		}
	}
}

func TestGenerateBakesSharedSubexpressions(t *testing.T) {
	// The osc phase term feeds all three channels; it must appear as a
	// named local rather than being re-expanded inline.
	src := compileChain(t, "osc(60, 0.1, 0)", DefaultOptions())
	if !strings.Contains(src, "float e0 = ") {
		t.Errorf("Expected baked local e0 in output:\n%s", src)
	}
}

func TestGenerateDoesNotBakeInputs(t *testing.T) {
	// coord.x and time are plain names; repeating them costs nothing.
	src := compileChain(t, "gradient().rotate(1)", DefaultOptions())
	for _, banned := range []string{"= coord.x;", "= coord.y;", "= time;"} {
		if strings.Contains(src, banned) {
			t.Errorf("Input baked into a local (%q):\n%s", banned, src)
		}
	}
}

func TestGenerateUsesGLSLFunctions(t *testing.T) {
	src := compileChain(t, "noise(4).invert(0.5)", DefaultOptions())
	for _, fn := range []string{"sin(", "floor(", "fract(", "mix("} {
		if !strings.Contains(src, fn) {
			t.Errorf("Expected %q in output:\n%s", fn, src)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	const source = "noise(4, 0.2).rotate(0.5).color(1, 0.5, 1)"
	first := compileChain(t, source, DefaultOptions())
	second := compileChain(t, source, DefaultOptions())
	if first != second {
		t.Error("Generate is not deterministic for identical input")
	}
}

func TestGenerateCompilableShape(t *testing.T) {
	// Every statement inside main ends with a semicolon and the braces
	// balance.
	src := compileChain(t, "osc(30).rotate(0.3).color(1, 0.5, 1).invert()", DefaultOptions())
	if strings.Count(src, "{") != strings.Count(src, "}") {
		t.Errorf("Unbalanced braces:\n%s", src)
	}
	body := src[strings.Index(src, "{")+1 : strings.LastIndex(src, "}")]
	for _, line := range strings.Split(strings.TrimSpace(body), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !strings.HasSuffix(line, ";") {
			t.Errorf("Statement missing semicolon: %q", line)
		}
	}
}

func TestVersionString(t *testing.T) {
	tests := []struct {
		version Version
		want    string
	}{
		{Version330, "330 core"},
		{Version450, "450 core"},
		{VersionES300, "300 es"},
	}
	for _, tt := range tests {
		if got := tt.version.String(); got != tt.want {
			t.Errorf("Expected %q, got %q", tt.want, got)
		}
	}
}
