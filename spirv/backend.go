package spirv

import (
	"fmt"
	"math"
	"strconv"

	"github.com/gogpu/hydra/ir"
)

// ResourceLimitError is returned when the generated module exceeds the
// configured instruction cap.
type ResourceLimitError struct {
	Instructions int
	Limit        int
}

func (e *ResourceLimitError) Error() string {
	return fmt.Sprintf("module exceeds instruction limit: %d instructions, limit %d", e.Instructions, e.Limit)
}

// Backend translates an ir.Program to a SPIR-V fragment module.
type Backend struct {
	program *ir.Program
	builder *ModuleBuilder
	options Options

	// Type cache (structural key → SPIR-V ID); guarantees each
	// distinct type is declared exactly once.
	typeIDs map[string]uint32

	// Float constant cache (bit pattern → SPIR-V ID).
	floatConstIDs map[uint32]uint32

	// Unsigned int constant cache (value → SPIR-V ID); used for
	// access-chain indices.
	uintConstIDs map[uint32]uint32

	// GLSL.std.450 import ID (for math functions)
	glslExtID uint32

	// Interface variable IDs
	fragCoordID uint32
	globalsID   uint32
	fragColorID uint32
}

// NewBackend creates a new SPIR-V backend.
func NewBackend(options Options) *Backend {
	if options.MaxInstructions == 0 {
		options.MaxInstructions = DefaultMaxInstructions
	}
	return &Backend{
		options:       options,
		typeIDs:       make(map[string]uint32),
		floatConstIDs: make(map[uint32]uint32),
		uintConstIDs:  make(map[uint32]uint32),
	}
}

// Compile translates the program into a binary module.
func (b *Backend) Compile(program *ir.Program) ([]byte, error) {
	b.program = program
	b.builder = NewModuleBuilder(b.options.Version)

	// 1. Capabilities
	b.builder.AddCapability(CapabilityShader)

	// 2. Extended instruction sets
	b.glslExtID = b.builder.AddExtInstImport("GLSL.std.450")

	// 3. Memory model
	b.builder.SetMemoryModel(AddressingModelLogical, MemoryModelGLSL450)

	// 4. Interface variables (types, decorations, globals)
	b.emitInterface()

	// 5. Function body
	mainID, err := b.emitMain()
	if err != nil {
		return nil, err
	}

	// 6. Entry point and execution mode
	b.builder.AddEntryPoint(ExecutionModelFragment, mainID, "main",
		[]uint32{b.fragCoordID, b.fragColorID})
	b.builder.AddExecutionMode(mainID, ExecutionModeOriginUpperLeft)

	// 7. Debug names
	if b.options.Debug {
		b.builder.AddName(mainID, "main")
		b.builder.AddName(b.fragCoordID, "gl_FragCoord")
		b.builder.AddName(b.globalsID, "globals")
		b.builder.AddName(b.fragColorID, "fragColor")
	}

	if n := b.builder.InstructionCount(); n > b.options.MaxInstructions {
		return nil, &ResourceLimitError{Instructions: n, Limit: b.options.MaxInstructions}
	}

	return b.builder.Build(), nil
}

// typeID interns a type declaration: a cache miss runs declare and
// records the ID; a hit reuses it.
func (b *Backend) typeID(key string, declare func() uint32) uint32 {
	if id, ok := b.typeIDs[key]; ok {
		return id
	}
	id := declare()
	b.typeIDs[key] = id
	return id
}

func (b *Backend) typeVoid() uint32 {
	return b.typeID("void", b.builder.AddTypeVoid)
}

func (b *Backend) typeF32() uint32 {
	return b.typeID("f32", func() uint32 { return b.builder.AddTypeFloat(32) })
}

func (b *Backend) typeU32() uint32 {
	return b.typeID("u32", func() uint32 { return b.builder.AddTypeInt(32, false) })
}

func (b *Backend) typeVec4() uint32 {
	return b.typeID("vec4:f32", func() uint32 { return b.builder.AddTypeVector(b.typeF32(), 4) })
}

func (b *Backend) typePointer(class StorageClass, base uint32) uint32 {
	key := "ptr:" + strconv.FormatUint(uint64(class), 10) + ":" + strconv.FormatUint(uint64(base), 10)
	return b.typeID(key, func() uint32 { return b.builder.AddTypePointer(class, base) })
}

// constF32 interns a float constant by bit pattern.
func (b *Backend) constF32(value float32) uint32 {
	bits := math.Float32bits(value)
	if id, ok := b.floatConstIDs[bits]; ok {
		return id
	}
	id := b.builder.AddConstantFloat32(b.typeF32(), value)
	b.floatConstIDs[bits] = id
	return id
}

// constU32 interns an unsigned int constant.
func (b *Backend) constU32(value uint32) uint32 {
	if id, ok := b.uintConstIDs[value]; ok {
		return id
	}
	id := b.builder.AddConstant(b.typeU32(), value)
	b.uintConstIDs[value] = id
	return id
}

// emitInterface declares the three interface variables: the FragCoord
// builtin input, the Globals uniform block (one vec4 holding time,
// width, height, 0) at set 0 binding 0, and the location-0 output.
func (b *Backend) emitInterface() {
	vec4 := b.typeVec4()

	inPtr := b.typePointer(StorageClassInput, vec4)
	b.fragCoordID = b.builder.AddVariable(inPtr, StorageClassInput)
	b.builder.AddDecorate(b.fragCoordID, DecorationBuiltIn, uint32(BuiltInFragCoord))

	structID := b.typeID("struct:globals", func() uint32 { return b.builder.AddTypeStruct(vec4) })
	b.builder.AddDecorate(structID, DecorationBlock)
	b.builder.AddMemberDecorate(structID, 0, DecorationOffset, 0)
	uniPtr := b.typePointer(StorageClassUniform, structID)
	b.globalsID = b.builder.AddVariable(uniPtr, StorageClassUniform)
	b.builder.AddDecorate(b.globalsID, DecorationDescriptorSet, 0)
	b.builder.AddDecorate(b.globalsID, DecorationBinding, 0)

	outPtr := b.typePointer(StorageClassOutput, vec4)
	b.fragColorID = b.builder.AddVariable(outPtr, StorageClassOutput)
	b.builder.AddDecorate(b.fragColorID, DecorationLocation, 0)
}

// emitMain lowers the program into the single void main() body.
func (b *Backend) emitMain() (uint32, error) {
	void := b.typeVoid()
	f32 := b.typeF32()
	vec4 := b.typeVec4()

	fnType := b.typeID("fn:void", func() uint32 { return b.builder.AddTypeFunction(void) })
	mainID := b.builder.AddFunction(fnType, void, FunctionControlNone)
	b.builder.AddLabel()

	// Load globals.data = (time, width, height, 0).
	dataPtr := b.builder.AddAccessChain(b.typePointer(StorageClassUniform, vec4), b.globalsID, b.constU32(0))
	data := b.builder.AddLoad(vec4, dataPtr)
	timeID := b.builder.AddCompositeExtract(f32, data, 0)
	width := b.builder.AddCompositeExtract(f32, data, 1)
	height := b.builder.AddCompositeExtract(f32, data, 2)

	// Normalize FragCoord to [0,1]².
	fragCoord := b.builder.AddLoad(vec4, b.fragCoordID)
	coordX := b.builder.AddBinaryOp(OpFDiv, f32, b.builder.AddCompositeExtract(f32, fragCoord, 0), width)
	coordY := b.builder.AddBinaryOp(OpFDiv, f32, b.builder.AddCompositeExtract(f32, fragCoord, 1), height)

	// Translate the SSA values in dependency order.
	valueIDs := make([]uint32, len(b.program.Values))
	for i, v := range b.program.Values {
		id, err := b.emitValue(v, valueIDs, coordX, coordY, timeID)
		if err != nil {
			return 0, err
		}
		valueIDs[i] = id
	}

	color := b.builder.AddCompositeConstruct(vec4,
		valueIDs[b.program.Out[0]],
		valueIDs[b.program.Out[1]],
		valueIDs[b.program.Out[2]],
		valueIDs[b.program.Out[3]])
	b.builder.AddStore(b.fragColorID, color)
	b.builder.AddReturn()
	b.builder.AddFunctionEnd()

	return mainID, nil
}

func (b *Backend) emitValue(v ir.Value, valueIDs []uint32, coordX, coordY, timeID uint32) (uint32, error) {
	f32 := b.typeF32()
	arg := func(i int) uint32 { return valueIDs[v.Args[i]] }

	switch v.Op {
	case ir.OpLiteral:
		return b.constF32(v.Lit), nil
	case ir.OpCoordX:
		return coordX, nil
	case ir.OpCoordY:
		return coordY, nil
	case ir.OpTime:
		return timeID, nil
	case ir.OpAdd:
		return b.builder.AddBinaryOp(OpFAdd, f32, arg(0), arg(1)), nil
	case ir.OpSub:
		return b.builder.AddBinaryOp(OpFSub, f32, arg(0), arg(1)), nil
	case ir.OpMul:
		return b.builder.AddBinaryOp(OpFMul, f32, arg(0), arg(1)), nil
	case ir.OpDiv:
		return b.builder.AddBinaryOp(OpFDiv, f32, arg(0), arg(1)), nil
	case ir.OpSin:
		return b.builder.AddExtInst(f32, b.glslExtID, GLSLstd450Sin, arg(0)), nil
	case ir.OpCos:
		return b.builder.AddExtInst(f32, b.glslExtID, GLSLstd450Cos, arg(0)), nil
	case ir.OpFloor:
		return b.builder.AddExtInst(f32, b.glslExtID, GLSLstd450Floor, arg(0)), nil
	case ir.OpFract:
		return b.builder.AddExtInst(f32, b.glslExtID, GLSLstd450Fract, arg(0)), nil
	case ir.OpMin:
		return b.builder.AddExtInst(f32, b.glslExtID, GLSLstd450FMin, arg(0), arg(1)), nil
	case ir.OpMax:
		return b.builder.AddExtInst(f32, b.glslExtID, GLSLstd450FMax, arg(0), arg(1)), nil
	case ir.OpMix:
		return b.builder.AddExtInst(f32, b.glslExtID, GLSLstd450FMix, arg(0), arg(1), arg(2)), nil
	default:
		return 0, fmt.Errorf("SPIR-V generation: op %s missing from lowering switch", v.Op)
	}
}
