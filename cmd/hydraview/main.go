// Command hydraview renders a chain expression in a window.
//
// It compiles the chain to a SPIR-V fragment module, pairs it with a
// built-in fullscreen-triangle vertex shader, and drives the time
// uniform from the wall clock. Press Escape to quit.
//
// Usage:
//
//	hydraview 'osc(60,0.1).rotate(0.5).color(1,0.5,1)'
package main

import (
	"encoding/binary"
	"fmt"
	"log"
	"math"
	"os"
	"runtime"
	"time"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gogpu/hydra"
)

func init() {
	// GLFW event handling must run on the main OS thread.
	runtime.LockOSThread()
}

const (
	windowWidth  = 800
	windowHeight = 600
)

// Fullscreen triangle; vertices are synthesized from the vertex index
// so no vertex buffer is needed.
const vertexShaderWGSL = `
@vertex
fn main(@builtin(vertex_index) idx: u32) -> @builtin(position) vec4<f32> {
    let x = f32(i32(idx) / 2) * 4.0 - 1.0;
    let y = f32(i32(idx) % 2) * 4.0 - 1.0;
    return vec4<f32>(x, y, 0.0, 1.0);
}
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: hydraview <chain>")
		fmt.Fprintln(os.Stderr, "Example: hydraview 'osc(60,0.1).color(1,0.5,1)'")
		os.Exit(1)
	}

	artifacts, err := hydra.Compile(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Compilation error: %v\n", err)
		os.Exit(1)
	}

	if err := run(artifacts.SPIRV); err != nil {
		log.Fatal(err)
	}
}

func run(spirvBytes []byte) error {
	if err := glfw.Init(); err != nil {
		return err
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	window, err := glfw.CreateWindow(windowWidth, windowHeight, "hydraview", nil, nil)
	if err != nil {
		return err
	}
	defer window.Destroy()

	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
		}
	})

	instance := wgpu.CreateInstance(nil)
	defer instance.Release()

	surface := instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(window))
	defer surface.Release()

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
	})
	if err != nil {
		return err
	}
	defer adapter.Release()

	device, err := adapter.RequestDevice(nil)
	if err != nil {
		return err
	}
	defer device.Release()
	queue := device.GetQueue()
	defer queue.Release()

	caps := surface.GetCapabilities(adapter)
	format := caps.Formats[0]

	configure := func(width, height int) {
		surface.Configure(adapter, device, &wgpu.SurfaceConfiguration{
			Usage:       wgpu.TextureUsageRenderAttachment,
			Format:      format,
			Width:       uint32(width),
			Height:      uint32(height),
			PresentMode: wgpu.PresentModeFifo,
			AlphaMode:   caps.AlphaModes[0],
		})
	}
	w, h := window.GetFramebufferSize()
	configure(w, h)
	window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		if width > 0 && height > 0 {
			configure(width, height)
		}
	})

	vs, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "fullscreen vertex",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: vertexShaderWGSL,
		},
	})
	if err != nil {
		return err
	}
	defer vs.Release()

	fs, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "hydra fragment",
		SPIRVDescriptor: &wgpu.ShaderModuleSPIRVDescriptor{
			Code: spirvWords(spirvBytes),
		},
	})
	if err != nil {
		return err
	}
	defer fs.Release()

	// Globals block: vec4(time, width, height, 0) at set 0 binding 0.
	globalsBuffer, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "globals",
		Size:  16,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return err
	}
	defer globalsBuffer.Release()

	bindGroupLayout, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "globals layout",
		Entries: []wgpu.BindGroupLayoutEntry{{
			Binding:    0,
			Visibility: wgpu.ShaderStageFragment,
			Buffer: wgpu.BufferBindingLayout{
				Type:           wgpu.BufferBindingTypeUniform,
				MinBindingSize: 16,
			},
		}},
	})
	if err != nil {
		return err
	}
	defer bindGroupLayout.Release()

	bindGroup, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "globals bind group",
		Layout: bindGroupLayout,
		Entries: []wgpu.BindGroupEntry{{
			Binding: 0,
			Buffer:  globalsBuffer,
			Size:    wgpu.WholeSize,
		}},
	})
	if err != nil {
		return err
	}
	defer bindGroup.Release()

	pipelineLayout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "hydra layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{bindGroupLayout},
	})
	if err != nil {
		return err
	}
	defer pipelineLayout.Release()

	pipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "hydra pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     vs,
			EntryPoint: "main",
		},
		Fragment: &wgpu.FragmentState{
			Module:     fs,
			EntryPoint: "main",
			Targets: []wgpu.ColorTargetState{{
				Format:    format,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology: wgpu.PrimitiveTopologyTriangleList,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return err
	}
	defer pipeline.Release()

	start := time.Now()
	for !window.ShouldClose() {
		glfw.PollEvents()

		width, height := window.GetFramebufferSize()
		if width == 0 || height == 0 {
			continue
		}

		t := float32(time.Since(start).Seconds())
		queue.WriteBuffer(globalsBuffer, 0, globalsBytes(t, float32(width), float32(height)))

		if err := renderFrame(surface, device, queue, pipeline, bindGroup); err != nil {
			// Surface loss on resize is transient; reconfigure and retry.
			configure(width, height)
		}
	}

	return nil
}

func renderFrame(surface *wgpu.Surface, device *wgpu.Device, queue *wgpu.Queue, pipeline *wgpu.RenderPipeline, bindGroup *wgpu.BindGroup) error {
	surfaceTexture, err := surface.GetCurrentTexture()
	if err != nil {
		return err
	}
	defer surfaceTexture.Release()

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		return err
	}
	defer view.Release()

	encoder, err := device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 1},
		}},
	})
	pass.SetPipeline(pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.Draw(3, 1, 0, 0)
	pass.End()
	pass.Release()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	defer commandBuffer.Release()

	queue.Submit(commandBuffer)
	surface.Present()

	return nil
}

// spirvWords reinterprets the little-endian module bytes as words.
func spirvWords(data []byte) []uint32 {
	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return words
}

func globalsBytes(t, width, height float32) []byte {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(t))
	binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(width))
	binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(height))
	return buf
}
