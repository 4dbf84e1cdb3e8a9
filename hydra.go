// Package hydra compiles chainable live-coding shader expressions.
//
// A chain expression is one generator call followed by zero or more
// modifier calls:
//
//	osc(60, 0.1).rotate(0.5).color(1, 0.5, 1)
//
// Each compile produces two equivalent artifacts: a SPIR-V binary
// fragment module and GLSL fragment source. Both are derived from the
// same intermediate program, so they evaluate to the same color for
// the same coordinate and time.
//
// Example usage:
//
//	artifacts, err := hydra.Compile("noise(4).color(0,1,0,1)")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("shader.spv", artifacts.SPIRV, 0o644)
//	fmt.Println(artifacts.GLSL)
//
// The package also exposes the individual stages (Parse, Resolve,
// Lower, GenerateSPIRV, GenerateGLSL) for callers that want one
// artifact only or need to inspect the intermediate forms.
//
// The generated shader's external interface is fixed: the built-in
// fragment coordinate, a time/resolution uniform surface (a Globals
// block holding (time, width, height, 0) in the binary module; plain
// `uniform float time; uniform vec2 resolution;` in the GLSL text),
// and one vec4 color output at location 0.
package hydra

import (
	"fmt"

	"github.com/gogpu/hydra/chain"
	"github.com/gogpu/hydra/glsl"
	"github.com/gogpu/hydra/graph"
	"github.com/gogpu/hydra/ir"
	"github.com/gogpu/hydra/spirv"
)

// Artifacts holds the two equivalent compiled forms of one chain.
// Both are immutable value artifacts; callers may hand them across
// goroutine or API boundaries freely.
type Artifacts struct {
	SPIRV []byte
	GLSL  string
}

// CompileOptions configures shader compilation.
type CompileOptions struct {
	// SPIRV configures binary module generation.
	SPIRV spirv.Options

	// GLSL configures source generation.
	GLSL glsl.Options
}

// DefaultOptions returns sensible default options.
func DefaultOptions() CompileOptions {
	return CompileOptions{
		SPIRV: spirv.DefaultOptions(),
		GLSL:  glsl.DefaultOptions(),
	}
}

// Compile compiles a chain expression to both artifacts using default
// options.
func Compile(source string) (Artifacts, error) {
	return CompileWithOptions(source, DefaultOptions())
}

// CompileWithOptions compiles a chain expression with custom options.
//
// The compilation pipeline is:
//  1. Parse the chain text to an ordered call sequence
//  2. Resolve calls against the operation catalog into a graph
//  3. Lower the graph to the shared straight-line program
//  4. Generate the SPIR-V binary and the GLSL source from it
func CompileWithOptions(source string, opts CompileOptions) (Artifacts, error) {
	c, err := Parse(source)
	if err != nil {
		return Artifacts{}, fmt.Errorf("parse error: %w", err)
	}

	g, err := Resolve(c)
	if err != nil {
		return Artifacts{}, fmt.Errorf("resolve error: %w", err)
	}

	program, err := Lower(g)
	if err != nil {
		return Artifacts{}, fmt.Errorf("lowering error: %w", err)
	}

	spirvBytes, err := GenerateSPIRV(program, opts.SPIRV)
	if err != nil {
		return Artifacts{}, fmt.Errorf("SPIR-V generation error: %w", err)
	}

	glslSource, err := GenerateGLSL(program, opts.GLSL)
	if err != nil {
		return Artifacts{}, fmt.Errorf("GLSL generation error: %w", err)
	}

	return Artifacts{SPIRV: spirvBytes, GLSL: glslSource}, nil
}

// Parse parses chain source text into its ordered call sequence.
func Parse(source string) (*chain.Chain, error) {
	return chain.Parse(source)
}

// Resolve validates the parsed calls against the operation catalog and
// builds the linear computation graph.
func Resolve(c *chain.Chain) (*graph.Graph, error) {
	return graph.Resolve(c)
}

// Lower translates the graph into the straight-line program shared by
// both backends.
func Lower(g *graph.Graph) (*ir.Program, error) {
	return ir.Lower(g)
}

// GenerateSPIRV generates the binary fragment module.
func GenerateSPIRV(program *ir.Program, opts spirv.Options) ([]byte, error) {
	return spirv.NewBackend(opts).Compile(program)
}

// GenerateGLSL generates the textual fragment source.
func GenerateGLSL(program *ir.Program, opts glsl.Options) (string, error) {
	return glsl.GenerateWithOptions(program, opts)
}
