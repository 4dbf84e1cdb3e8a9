// Command hydradis disassembles the SPIR-V modules hydrac emits.
//
// Usage:
//
//	hydradis shader.spv
//	hydradis -e 'osc(60,0.1).color(1,0.5,1)'
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/gogpu/hydra"
)

var expr = flag.String("e", "", "compile an inline chain expression and disassemble it")

// The module generator emits a small, fixed opcode surface; anything
// outside it prints as Op<N>.
var opcodeNames = map[uint16]string{
	5:   "OpName",
	6:   "OpMemberName",
	11:  "OpExtInstImport",
	12:  "OpExtInst",
	14:  "OpMemoryModel",
	15:  "OpEntryPoint",
	16:  "OpExecutionMode",
	17:  "OpCapability",
	19:  "OpTypeVoid",
	21:  "OpTypeInt",
	22:  "OpTypeFloat",
	23:  "OpTypeVector",
	30:  "OpTypeStruct",
	32:  "OpTypePointer",
	33:  "OpTypeFunction",
	43:  "OpConstant",
	54:  "OpFunction",
	56:  "OpFunctionEnd",
	59:  "OpVariable",
	61:  "OpLoad",
	62:  "OpStore",
	65:  "OpAccessChain",
	71:  "OpDecorate",
	72:  "OpMemberDecorate",
	80:  "OpCompositeConstruct",
	81:  "OpCompositeExtract",
	129: "OpFAdd",
	131: "OpFSub",
	133: "OpFMul",
	136: "OpFDiv",
	248: "OpLabel",
	253: "OpReturn",
}

var glslStd450Names = map[uint32]string{
	8:  "Floor",
	10: "Fract",
	13: "Sin",
	14: "Cos",
	37: "FMin",
	40: "FMax",
	46: "FMix",
}

var storageClasses = map[uint32]string{
	1: "Input", 2: "Uniform", 3: "Output",
}

var decorations = map[uint32]string{
	2: "Block", 11: "BuiltIn", 30: "Location",
	33: "Binding", 34: "DescriptorSet", 35: "Offset",
}

func main() {
	flag.Parse()

	var module []byte
	switch {
	case *expr != "":
		artifacts, err := hydra.Compile(*expr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Compilation error: %v\n", err)
			os.Exit(1)
		}
		module = artifacts.SPIRV
	case flag.NArg() > 0:
		data, err := os.ReadFile(flag.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		module = data
	default:
		fmt.Fprintln(os.Stderr, "Usage: hydradis <file.spv> | hydradis -e <chain>")
		os.Exit(1)
	}

	if err := disassemble(os.Stdout, module); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func disassemble(out io.Writer, data []byte) error {
	if len(data) < 20 || len(data)%4 != 0 {
		return fmt.Errorf("not a SPIR-V module: %d bytes", len(data))
	}
	magic := binary.LittleEndian.Uint32(data)
	if magic != 0x07230203 {
		return fmt.Errorf("invalid magic 0x%08X", magic)
	}

	version := binary.LittleEndian.Uint32(data[4:])
	fmt.Fprintf(out, "; SPIR-V %d.%d, bound %d\n\n",
		(version>>16)&0xFF, (version>>8)&0xFF, binary.LittleEndian.Uint32(data[12:]))

	for offset := 20; offset < len(data); {
		word := binary.LittleEndian.Uint32(data[offset:])
		opcode := uint16(word & 0xFFFF)
		wordCount := int(word >> 16)
		if wordCount == 0 || offset+wordCount*4 > len(data) {
			return fmt.Errorf("invalid word count %d at offset 0x%X", wordCount, offset)
		}

		operands := make([]uint32, wordCount-1)
		for i := range operands {
			operands[i] = binary.LittleEndian.Uint32(data[offset+4+i*4:])
		}
		fmt.Fprintln(out, formatInstruction(opcode, operands))
		offset += wordCount * 4
	}
	return nil
}

func formatInstruction(opcode uint16, ops []uint32) string {
	name := opcodeNames[opcode]
	if name == "" {
		name = fmt.Sprintf("Op%d", opcode)
	}

	var sb strings.Builder
	switch opcode {
	case 17: // OpCapability
		sb.WriteString(name)
		if ops[0] == 1 {
			sb.WriteString(" Shader")
		} else {
			fmt.Fprintf(&sb, " %d", ops[0])
		}

	case 11: // OpExtInstImport
		s, _ := literalString(ops, 1)
		fmt.Fprintf(&sb, "%%%d = %s %q", ops[0], name, s)

	case 14: // OpMemoryModel
		fmt.Fprintf(&sb, "%s Logical GLSL450", name)

	case 15: // OpEntryPoint
		s, next := literalString(ops, 2)
		fmt.Fprintf(&sb, "%s %s %%%d %q", name, executionModel(ops[0]), ops[1], s)
		for _, id := range ops[next:] {
			fmt.Fprintf(&sb, " %%%d", id)
		}

	case 16: // OpExecutionMode
		fmt.Fprintf(&sb, "%s %%%d", name, ops[0])
		if ops[1] == 7 {
			sb.WriteString(" OriginUpperLeft")
		} else {
			fmt.Fprintf(&sb, " %d", ops[1])
		}

	case 5: // OpName
		s, _ := literalString(ops, 1)
		fmt.Fprintf(&sb, "%s %%%d %q", name, ops[0], s)

	case 6: // OpMemberName
		s, _ := literalString(ops, 2)
		fmt.Fprintf(&sb, "%s %%%d %d %q", name, ops[0], ops[1], s)

	case 71: // OpDecorate
		fmt.Fprintf(&sb, "%s %%%d %s", name, ops[0], decoration(ops[1]))
		for _, v := range ops[2:] {
			fmt.Fprintf(&sb, " %d", v)
		}

	case 72: // OpMemberDecorate
		fmt.Fprintf(&sb, "%s %%%d %d %s", name, ops[0], ops[1], decoration(ops[2]))
		for _, v := range ops[3:] {
			fmt.Fprintf(&sb, " %d", v)
		}

	case 19, 248: // OpTypeVoid, OpLabel
		fmt.Fprintf(&sb, "%%%d = %s", ops[0], name)

	case 21, 22: // OpTypeInt, OpTypeFloat
		fmt.Fprintf(&sb, "%%%d = %s", ops[0], name)
		for _, v := range ops[1:] {
			fmt.Fprintf(&sb, " %d", v)
		}

	case 23: // OpTypeVector
		fmt.Fprintf(&sb, "%%%d = %s %%%d %d", ops[0], name, ops[1], ops[2])

	case 30, 33: // OpTypeStruct, OpTypeFunction
		fmt.Fprintf(&sb, "%%%d = %s", ops[0], name)
		for _, id := range ops[1:] {
			fmt.Fprintf(&sb, " %%%d", id)
		}

	case 32: // OpTypePointer
		fmt.Fprintf(&sb, "%%%d = %s %s %%%d", ops[0], name, storageClass(ops[1]), ops[2])

	case 43: // OpConstant
		fmt.Fprintf(&sb, "%%%d = %s %%%d %v", ops[1], name, ops[0], math.Float32frombits(ops[2]))

	case 59: // OpVariable
		fmt.Fprintf(&sb, "%%%d = %s %%%d %s", ops[1], name, ops[0], storageClass(ops[2]))

	case 54: // OpFunction
		fmt.Fprintf(&sb, "%%%d = %s %%%d None %%%d", ops[1], name, ops[0], ops[3])

	case 12: // OpExtInst
		fmt.Fprintf(&sb, "%%%d = %s %%%d %%%d %s", ops[1], name, ops[0], ops[2], extInstName(ops[3]))
		for _, id := range ops[4:] {
			fmt.Fprintf(&sb, " %%%d", id)
		}

	case 81: // OpCompositeExtract: trailing literal indices
		fmt.Fprintf(&sb, "%%%d = %s %%%d %%%d", ops[1], name, ops[0], ops[2])
		for _, v := range ops[3:] {
			fmt.Fprintf(&sb, " %d", v)
		}

	case 61, 65, 80, 129, 131, 133, 136: // result type + result ID + ID operands
		fmt.Fprintf(&sb, "%%%d = %s %%%d", ops[1], name, ops[0])
		for _, id := range ops[2:] {
			fmt.Fprintf(&sb, " %%%d", id)
		}

	default:
		sb.WriteString(name)
		for _, id := range ops {
			fmt.Fprintf(&sb, " %%%d", id)
		}
	}
	return sb.String()
}

// literalString decodes the null-terminated literal starting at operand
// word start, returning the text and the index of the next operand.
func literalString(ops []uint32, start int) (string, int) {
	var sb strings.Builder
	for i := start; i < len(ops); i++ {
		w := ops[i]
		for shift := 0; shift < 32; shift += 8 {
			b := byte(w >> shift)
			if b == 0 {
				return sb.String(), i + 1
			}
			sb.WriteByte(b)
		}
	}
	return sb.String(), len(ops)
}

func executionModel(v uint32) string {
	if v == 4 {
		return "Fragment"
	}
	return fmt.Sprintf("%d", v)
}

func extInstName(v uint32) string {
	if s, ok := glslStd450Names[v]; ok {
		return s
	}
	return fmt.Sprintf("%d", v)
}

func storageClass(v uint32) string {
	if s, ok := storageClasses[v]; ok {
		return s
	}
	return fmt.Sprintf("%d", v)
}

func decoration(v uint32) string {
	if s, ok := decorations[v]; ok {
		return s
	}
	return fmt.Sprintf("%d", v)
}
