package spirv

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/gogpu/hydra/chain"
	"github.com/gogpu/hydra/graph"
	"github.com/gogpu/hydra/ir"
)

func compileChain(t *testing.T, source string, opts Options) []byte {
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
	module, err := NewBackend(opts).Compile(p)
	if err != nil {
		t.Fatalf("Compile(%q) failed: %v", source, err)
	}
	return module
}

// decoded is one instruction pulled back out of the serialized module.
type decoded struct {
	opcode OpCode
	words  []uint32
}

func decodeModule(t *testing.T, module []byte) (header [5]uint32, insts []decoded) {
	t.Helper()
	if len(module) < 20 {
		t.Fatalf("Module too short: %d bytes", len(module))
	}
	if len(module)%4 != 0 {
		t.Fatalf("Module length %d not word-aligned", len(module))
	}

	words := make([]uint32, len(module)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(module[i*4:])
	}
	copy(header[:], words[:5])

	for i := 5; i < len(words); {
		wordCount := int(words[i] >> 16)
		opcode := OpCode(words[i] & 0xFFFF)
		if wordCount == 0 || i+wordCount > len(words) {
			t.Fatalf("Invalid word count %d at word %d", wordCount, i)
		}
		insts = append(insts, decoded{opcode: opcode, words: words[i+1 : i+wordCount]})
		i += wordCount
	}
	return header, insts
}

func TestBackendHeader(t *testing.T) {
	module := compileChain(t, "osc(60, 0.1, 0)", DefaultOptions())
	header, _ := decodeModule(t, module)

	if header[0] != MagicNumber {
		t.Errorf("Invalid magic: got 0x%08x, want 0x%08x", header[0], uint32(MagicNumber))
	}
	// Version 1.3 encodes as 0x00010300.
	if header[1] != 0x00010300 {
		t.Errorf("Invalid version word: got 0x%08x, want 0x00010300", header[1])
	}
	if header[2] != GeneratorID {
		t.Errorf("Invalid generator: got 0x%08x", header[2])
	}
	if header[4] != 0 {
		t.Errorf("Invalid schema: got %d", header[4])
	}
}

func TestBackendVersionOption(t *testing.T) {
	opts := DefaultOptions()
	opts.Version = Version1_0
	module := compileChain(t, "solid(1)", opts)
	header, _ := decodeModule(t, module)
	if header[1] != 0x00010000 {
		t.Errorf("Invalid version word: got 0x%08x, want 0x00010000", header[1])
	}
}

func TestBackendBoundCoversAllIDs(t *testing.T) {
	module := compileChain(t, "noise(4).rotate(0.5).color(1,0.5,1).invert()", DefaultOptions())
	header, insts := decodeModule(t, module)

	bound := header[3]
	for _, inst := range insts {
		for _, id := range resultIDs(inst) {
			if id >= bound {
				t.Errorf("Result ID %d at or above bound %d (opcode %d)", id, bound, inst.opcode)
			}
		}
	}
}

// sectionRank maps an opcode to its mandatory position in the module
// layout.
func sectionRank(op OpCode) int {
	switch op {
	case OpCapability:
		return 0
	case OpExtInstImport:
		return 1
	case OpMemoryModel:
		return 2
	case OpEntryPoint:
		return 3
	case OpExecutionMode:
		return 4
	case OpName, OpMemberName:
		return 5
	case OpDecorate, OpMemberDecorate:
		return 6
	case OpTypeVoid, OpTypeInt, OpTypeFloat, OpTypeVector, OpTypeStruct,
		OpTypePointer, OpTypeFunction, OpConstant:
		return 7
	case OpVariable:
		return 8
	default:
		return 9 // function body
	}
}

func TestBackendSectionOrder(t *testing.T) {
	opts := DefaultOptions()
	opts.Debug = true
	module := compileChain(t, "osc().rotate(0.5).invert()", opts)
	_, insts := decodeModule(t, module)

	last := -1
	for i, inst := range insts {
		rank := sectionRank(inst.opcode)
		if rank < last {
			t.Fatalf("Instruction %d (opcode %d, rank %d) after rank %d", i, inst.opcode, rank, last)
		}
		last = rank
	}

	if insts[0].opcode != OpCapability || Capability(insts[0].words[0]) != CapabilityShader {
		t.Error("Module does not start with OpCapability Shader")
	}
	if insts[len(insts)-1].opcode != OpFunctionEnd {
		t.Error("Module does not end with OpFunctionEnd")
	}
}

func TestBackendEntryPoint(t *testing.T) {
	module := compileChain(t, "gradient()", DefaultOptions())
	_, insts := decodeModule(t, module)

	var entry *decoded
	for i := range insts {
		if insts[i].opcode == OpEntryPoint {
			entry = &insts[i]
			break
		}
	}
	if entry == nil {
		t.Fatal("No OpEntryPoint found")
	}
	if ExecutionModel(entry.words[0]) != ExecutionModelFragment {
		t.Errorf("Expected fragment execution model, got %d", entry.words[0])
	}
	// words[2..3] hold the null-padded "main" literal, then the two
	// interface IDs (FragCoord input, color output).
	if len(entry.words) < 6 {
		t.Fatalf("Entry point too short: %d words", len(entry.words))
	}
	name := entry.words[2]
	if name != uint32('m')|uint32('a')<<8|uint32('i')<<16|uint32('n')<<24 {
		t.Errorf("Entry point name word: got 0x%08x", name)
	}
}

func TestBackendTypeDeduplication(t *testing.T) {
	module := compileChain(t, "noise(10, 0.1).rotate(1).color(0.5).invert()", DefaultOptions())
	_, insts := decodeModule(t, module)

	floats := 0
	vec4s := 0
	constants := make(map[uint32]int)
	for _, inst := range insts {
		switch inst.opcode {
		case OpTypeFloat:
			floats++
		case OpTypeVector:
			vec4s++
		case OpConstant:
			constants[inst.words[2]]++
		}
	}
	if floats != 1 {
		t.Errorf("Expected exactly one OpTypeFloat, got %d", floats)
	}
	if vec4s != 1 {
		t.Errorf("Expected exactly one OpTypeVector, got %d", vec4s)
	}
	for bits, n := range constants {
		if n > 1 {
			t.Errorf("Constant 0x%08x declared %d times", bits, n)
		}
	}
}

// resultIDs returns the IDs an instruction defines.
func resultIDs(inst decoded) []uint32 {
	switch inst.opcode {
	case OpExtInstImport, OpLabel,
		OpTypeVoid, OpTypeInt, OpTypeFloat, OpTypeVector, OpTypeStruct,
		OpTypePointer, OpTypeFunction:
		return inst.words[:1]
	case OpConstant, OpVariable, OpFunction, OpLoad, OpAccessChain,
		OpCompositeConstruct, OpCompositeExtract, OpExtInst,
		OpFAdd, OpFSub, OpFMul, OpFDiv:
		return inst.words[1:2]
	}
	return nil
}

// operandIDs returns the IDs an instruction consumes.
func operandIDs(inst decoded) []uint32 {
	switch inst.opcode {
	case OpFAdd, OpFSub, OpFMul, OpFDiv:
		return inst.words[2:4]
	case OpLoad:
		return inst.words[2:3]
	case OpStore:
		return inst.words[0:2]
	case OpAccessChain:
		return inst.words[2:]
	case OpCompositeConstruct:
		return inst.words[2:]
	case OpCompositeExtract:
		return inst.words[2:3] // trailing words are literal indices
	case OpExtInst:
		return append([]uint32{inst.words[2]}, inst.words[4:]...)
	}
	return nil
}

func TestBackendOperandsDefinedBeforeUse(t *testing.T) {
	sources := []string{
		"solid(1, 0.5, 0.25, 1)",
		"osc(60, 0.1, 0)",
		"noise(4).color(0, 1, 0, 1)",
		"gradient().rotate(0.5, 0.1).invert(0.5)",
		"osc(30).rotate(0.3).rotate(0.7).color(1, 0.5, 1).invert()",
	}

	for _, source := range sources {
		module := compileChain(t, source, DefaultOptions())
		_, insts := decodeModule(t, module)

		defined := make(map[uint32]bool)
		for i, inst := range insts {
			for _, id := range operandIDs(inst) {
				if !defined[id] {
					t.Errorf("%q: instruction %d (opcode %d) uses undefined ID %d", source, i, inst.opcode, id)
				}
			}
			for _, id := range resultIDs(inst) {
				defined[id] = true
			}
		}
	}
}

func TestBackendDebugNames(t *testing.T) {
	plain := compileChain(t, "osc()", DefaultOptions())
	_, plainInsts := decodeModule(t, plain)
	for _, inst := range plainInsts {
		if inst.opcode == OpName {
			t.Fatal("OpName present without Debug option")
		}
	}

	opts := DefaultOptions()
	opts.Debug = true
	debug := compileChain(t, "osc()", opts)
	_, debugInsts := decodeModule(t, debug)
	names := 0
	for _, inst := range debugInsts {
		if inst.opcode == OpName {
			names++
		}
	}
	if names == 0 {
		t.Error("Expected OpName instructions with Debug option")
	}
}

func TestBackendDeterministic(t *testing.T) {
	const source = "noise(4, 0.2).rotate(0.5).color(1, 0.5, 1)"
	first := compileChain(t, source, DefaultOptions())
	second := compileChain(t, source, DefaultOptions())
	if len(first) != len(second) {
		t.Fatalf("Module sizes differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("Modules differ at byte %d", i)
		}
	}
}

func TestBackendInstructionLimit(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxInstructions = 10

	c, err := chain.Parse("noise(4).rotate(0.5).invert()")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	g, err := graph.Resolve(c)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	p, err := ir.Lower(g)
	if err != nil {
		t.Fatalf("Lower failed: %v", err)
	}

	_, err = NewBackend(opts).Compile(p)
	var limitErr *ResourceLimitError
	if !errors.As(err, &limitErr) {
		t.Fatalf("Expected *ResourceLimitError, got %T (%v)", err, err)
	}
	if limitErr.Limit != 10 {
		t.Errorf("Expected limit 10, got %d", limitErr.Limit)
	}
}

func TestBackendGlobalsDecorations(t *testing.T) {
	module := compileChain(t, "osc()", DefaultOptions())
	_, insts := decodeModule(t, module)

	var hasBlock, hasOffset, hasSet, hasBinding, hasFragCoord, hasLocation bool
	for _, inst := range insts {
		switch inst.opcode {
		case OpDecorate:
			switch Decoration(inst.words[1]) {
			case DecorationBlock:
				hasBlock = true
			case DecorationDescriptorSet:
				hasSet = inst.words[2] == 0
			case DecorationBinding:
				hasBinding = inst.words[2] == 0
			case DecorationBuiltIn:
				hasFragCoord = BuiltIn(inst.words[2]) == BuiltInFragCoord
			case DecorationLocation:
				hasLocation = inst.words[2] == 0
			}
		case OpMemberDecorate:
			if Decoration(inst.words[2]) == DecorationOffset && inst.words[3] == 0 {
				hasOffset = true
			}
		}
	}
	if !hasBlock {
		t.Error("Globals struct missing Block decoration")
	}
	if !hasOffset {
		t.Error("Globals member missing Offset 0 decoration")
	}
	if !hasSet || !hasBinding {
		t.Error("Globals variable missing DescriptorSet 0 / Binding 0")
	}
	if !hasFragCoord {
		t.Error("Input variable missing FragCoord builtin decoration")
	}
	if !hasLocation {
		t.Error("Output variable missing Location 0 decoration")
	}
}
