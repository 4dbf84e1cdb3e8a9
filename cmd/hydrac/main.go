// Command hydrac compiles chain expressions to SPIR-V and GLSL.
//
// Usage:
//
//	hydrac [options] <input>
//	hydrac [options] -e <chain>
//
// Examples:
//
//	hydrac -e 'osc(60,0.1).color(1,0.5,1)' -o out.spv
//	hydrac chain.hydra -glsl out.frag
//	hydrac -e 'noise(4)' -glsl -                    # GLSL to stdout
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gogpu/hydra"
)

var (
	expr    = flag.String("e", "", "compile an inline chain expression instead of a file")
	output  = flag.String("o", "", "SPIR-V output file")
	glslOut = flag.String("glsl", "", "GLSL output file ('-' for stdout)")
	debug   = flag.Bool("debug", false, "include debug names in the SPIR-V module")
	version = flag.Bool("version", false, "print version")
)

const hydraVersion = "0.1.0-dev"

func main() {
	flag.Usage = usage
	flag.Parse()

	if *version {
		fmt.Printf("hydrac version %s\n", hydraVersion)
		return
	}

	source := *expr
	if source == "" {
		args := flag.Args()
		if len(args) < 1 {
			fmt.Fprintln(os.Stderr, "Error: no input file or -e expression specified")
			usage()
			os.Exit(1)
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
			os.Exit(1)
		}
		source = string(data)
	}

	opts := hydra.DefaultOptions()
	opts.SPIRV.Debug = *debug

	artifacts, err := hydra.CompileWithOptions(source, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Compilation error: %v\n", err)
		os.Exit(1)
	}

	wrote := false
	if *output != "" {
		if err := os.WriteFile(*output, artifacts.SPIRV, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s (%d bytes)\n", *output, len(artifacts.SPIRV))
		wrote = true
	}
	if *glslOut != "" {
		if *glslOut == "-" {
			fmt.Print(artifacts.GLSL)
		} else {
			if err := os.WriteFile(*glslOut, []byte(artifacts.GLSL), 0644); err != nil {
				fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("Wrote %s (%d bytes)\n", *glslOut, len(artifacts.GLSL))
		}
		wrote = true
	}

	// No output flags: compile as a check and report.
	if !wrote {
		fmt.Printf("OK: %d bytes SPIR-V, %d bytes GLSL\n", len(artifacts.SPIRV), len(artifacts.GLSL))
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: hydrac [options] <input>\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  hydrac -e 'osc(60)' -o out.spv      Compile inline chain to SPIR-V\n")
	fmt.Fprintf(os.Stderr, "  hydrac chain.hydra -glsl out.frag   Compile file to GLSL\n")
	fmt.Fprintf(os.Stderr, "  hydrac -e 'noise(4)' -glsl -        Print GLSL to stdout\n")
}
