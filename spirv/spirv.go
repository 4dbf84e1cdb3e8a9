// Package spirv generates the binary fragment-shader module from an
// ir program.
//
// The output is a self-contained SPIR-V module: one fragment entry
// point reading the built-in fragment coordinate and a Globals uniform
// block (time, width, height, 0), writing a vec4 color at location 0.
package spirv

// Version represents a SPIR-V version.
type Version struct {
	Major uint8
	Minor uint8
}

// Common SPIR-V versions
var (
	Version1_0 = Version{1, 0}
	Version1_3 = Version{1, 3}
)

// DefaultMaxInstructions caps the function body size. Chains of a few
// calls emit well under a hundred instructions.
const DefaultMaxInstructions = 8192

// Options configures SPIR-V generation.
type Options struct {
	// Version is the SPIR-V version to target
	Version Version

	// Debug includes OpName debug information
	Debug bool

	// MaxInstructions caps the total instruction count of the module
	MaxInstructions int
}

// DefaultOptions returns sensible default options.
func DefaultOptions() Options {
	return Options{
		Version:         Version1_3,
		Debug:           false,
		MaxInstructions: DefaultMaxInstructions,
	}
}

// SPIR-V magic number and constants
const (
	MagicNumber = 0x07230203
	GeneratorID = 0x00000000 // Unregistered generator
)

// OpCode represents a SPIR-V opcode.
type OpCode uint16

// Opcodes used by the module generator.
const (
	OpName               OpCode = 5
	OpMemberName         OpCode = 6
	OpExtInstImport      OpCode = 11
	OpExtInst            OpCode = 12
	OpMemoryModel        OpCode = 14
	OpEntryPoint         OpCode = 15
	OpExecutionMode      OpCode = 16
	OpCapability         OpCode = 17
	OpTypeVoid           OpCode = 19
	OpTypeInt            OpCode = 21
	OpTypeFloat          OpCode = 22
	OpTypeVector         OpCode = 23
	OpTypeStruct         OpCode = 30
	OpTypePointer        OpCode = 32
	OpTypeFunction       OpCode = 33
	OpConstant           OpCode = 43
	OpFunction           OpCode = 54
	OpFunctionEnd        OpCode = 56
	OpVariable           OpCode = 59
	OpLoad               OpCode = 61
	OpStore              OpCode = 62
	OpAccessChain        OpCode = 65
	OpDecorate           OpCode = 71
	OpMemberDecorate     OpCode = 72
	OpCompositeConstruct OpCode = 80
	OpCompositeExtract   OpCode = 81
	OpFAdd               OpCode = 129
	OpFSub               OpCode = 131
	OpFMul               OpCode = 133
	OpFDiv               OpCode = 136
	OpLabel              OpCode = 248
	OpReturn             OpCode = 253
)

// Decoration represents a SPIR-V decoration.
type Decoration uint32

const (
	DecorationBlock         Decoration = 2
	DecorationBuiltIn       Decoration = 11
	DecorationLocation      Decoration = 30
	DecorationBinding       Decoration = 33
	DecorationDescriptorSet Decoration = 34
	DecorationOffset        Decoration = 35
)

// Capability represents a SPIR-V capability.
type Capability uint32

const CapabilityShader Capability = 1

// StorageClass represents a SPIR-V storage class.
type StorageClass uint32

const (
	StorageClassInput   StorageClass = 1
	StorageClassUniform StorageClass = 2
	StorageClassOutput  StorageClass = 3
)

// ExecutionModel represents a SPIR-V execution model.
type ExecutionModel uint32

const ExecutionModelFragment ExecutionModel = 4

// ExecutionMode represents a SPIR-V execution mode.
type ExecutionMode uint32

const ExecutionModeOriginUpperLeft ExecutionMode = 7

// AddressingModel and MemoryModel for OpMemoryModel.
type (
	AddressingModel uint32
	MemoryModel     uint32
)

const (
	AddressingModelLogical AddressingModel = 0
	MemoryModelGLSL450     MemoryModel     = 1
)

// FunctionControl for OpFunction.
type FunctionControl uint32

const FunctionControlNone FunctionControl = 0

// BuiltIn values for DecorationBuiltIn.
type BuiltIn uint32

const BuiltInFragCoord BuiltIn = 15

// GLSL.std.450 extended instruction numbers.
const (
	GLSLstd450Floor uint32 = 8
	GLSLstd450Fract uint32 = 10
	GLSLstd450Sin   uint32 = 13
	GLSLstd450Cos   uint32 = 14
	GLSLstd450FMin  uint32 = 37
	GLSLstd450FMax  uint32 = 40
	GLSLstd450FMix  uint32 = 46
)
