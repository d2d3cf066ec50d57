package gpu

import (
	"fmt"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gekko3d/cubeprobe/assets"
	"github.com/gekko3d/cubeprobe/core"
	"github.com/gekko3d/cubeprobe/params"
	"github.com/gekko3d/cubeprobe/shaders"
)

// PipelineSet holds the three material variants for each pass target plus
// the bind group layouts the dispatcher and mesh uploader need.
type PipelineSet struct {
	// FrameLayout is group 0: frame constants, viewport array, instance
	// list, and the dynamically offset actor params slot.
	FrameLayout *wgpu.BindGroupLayout
	// SceneMaterialLayout is group 1 for lit/ground: three textures + sampler.
	SceneMaterialLayout *wgpu.BindGroupLayout
	// MirrorMaterialLayout is group 1 for the chrome variant: cube + sampler.
	MirrorMaterialLayout *wgpu.BindGroupLayout

	ReflectionLit    *wgpu.RenderPipeline
	ReflectionGround *wgpu.RenderPipeline

	FinalLit    *wgpu.RenderPipeline
	FinalGround *wgpu.RenderPipeline
	FinalMirror *wgpu.RenderPipeline

	Sampler *wgpu.Sampler
}

func vertexLayouts() []wgpu.VertexBufferLayout {
	return []wgpu.VertexBufferLayout{
		{
			ArrayStride: uint64(unsafe.Sizeof([3]float32{})),
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			},
		},
		{
			ArrayStride: uint64(unsafe.Sizeof(assets.VertexGenerics{})),
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 1},
				{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 2},
				{Format: wgpu.VertexFormatFloat32x3, Offset: 24, ShaderLocation: 3},
				{Format: wgpu.VertexFormatFloat32x2, Offset: 36, ShaderLocation: 4},
			},
		},
	}
}

func NewPipelineSet(device *wgpu.Device, surfaceFormat wgpu.TextureFormat) (*PipelineSet, error) {
	ps := &PipelineSet{}

	var err error
	ps.FrameLayout, err = device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "FrameBGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: params.FrameParamsSize,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeReadOnlyStorage,
					MinBindingSize: params.ViewportParamsSize,
				},
			},
			{
				Binding:    2,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeReadOnlyStorage,
					MinBindingSize: params.InstanceParamsSize,
				},
			},
			{
				Binding:    3,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:             wgpu.BufferBindingTypeUniform,
					HasDynamicOffset: true,
					MinBindingSize:   params.ActorParamsStride,
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: frame bind group layout: %w", err)
	}

	ps.SceneMaterialLayout, err = device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "SceneMaterialBGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 0, Visibility: wgpu.ShaderStageFragment, Texture: wgpu.TextureBindingLayout{
				SampleType: wgpu.TextureSampleTypeFloat, ViewDimension: wgpu.TextureViewDimension2D,
			}},
			{Binding: 1, Visibility: wgpu.ShaderStageFragment, Texture: wgpu.TextureBindingLayout{
				SampleType: wgpu.TextureSampleTypeFloat, ViewDimension: wgpu.TextureViewDimension2D,
			}},
			{Binding: 2, Visibility: wgpu.ShaderStageFragment, Texture: wgpu.TextureBindingLayout{
				SampleType: wgpu.TextureSampleTypeFloat, ViewDimension: wgpu.TextureViewDimension2D,
			}},
			{Binding: 3, Visibility: wgpu.ShaderStageFragment, Sampler: wgpu.SamplerBindingLayout{
				Type: wgpu.SamplerBindingTypeFiltering,
			}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: scene material bind group layout: %w", err)
	}

	ps.MirrorMaterialLayout, err = device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "MirrorMaterialBGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 0, Visibility: wgpu.ShaderStageFragment, Texture: wgpu.TextureBindingLayout{
				SampleType: wgpu.TextureSampleTypeFloat, ViewDimension: wgpu.TextureViewDimensionCube,
			}},
			{Binding: 1, Visibility: wgpu.ShaderStageFragment, Sampler: wgpu.SamplerBindingLayout{
				Type: wgpu.SamplerBindingTypeFiltering,
			}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: mirror material bind group layout: %w", err)
	}

	sceneModule, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "SceneShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.SceneWGSL},
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: scene shader module: %w", err)
	}
	defer sceneModule.Release()

	mirrorModule, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "MirrorShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.MirrorWGSL},
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: mirror shader module: %w", err)
	}
	defer mirrorModule.Release()

	sceneLayout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		BindGroupLayouts: []*wgpu.BindGroupLayout{ps.FrameLayout, ps.SceneMaterialLayout},
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: scene pipeline layout: %w", err)
	}
	defer sceneLayout.Release()

	mirrorLayout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		BindGroupLayouts: []*wgpu.BindGroupLayout{ps.FrameLayout, ps.MirrorMaterialLayout},
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: mirror pipeline layout: %w", err)
	}
	defer mirrorLayout.Release()

	build := func(label string, layout *wgpu.PipelineLayout, module *wgpu.ShaderModule, fsEntry string, format wgpu.TextureFormat) (*wgpu.RenderPipeline, error) {
		return device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
			Label:  label,
			Layout: layout,
			Vertex: wgpu.VertexState{
				Module:     module,
				EntryPoint: "vs_main",
				Buffers:    vertexLayouts(),
			},
			Fragment: &wgpu.FragmentState{
				Module:     module,
				EntryPoint: fsEntry,
				Targets: []wgpu.ColorTargetState{{
					Format:    format,
					WriteMask: wgpu.ColorWriteMaskAll,
				}},
			},
			Primitive: wgpu.PrimitiveState{
				Topology:  wgpu.PrimitiveTopologyTriangleList,
				FrontFace: wgpu.FrontFaceCCW,
				CullMode:  wgpu.CullModeBack,
			},
			DepthStencil: &wgpu.DepthStencilState{
				Format:            DepthFormat,
				DepthWriteEnabled: true,
				DepthCompare:      wgpu.CompareFunctionLess,
				StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
				StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
			},
			Multisample: wgpu.MultisampleState{
				Count: 1,
				Mask:  0xFFFFFFFF,
			},
		})
	}

	type variant struct {
		dst     **wgpu.RenderPipeline
		label   string
		layout  *wgpu.PipelineLayout
		module  *wgpu.ShaderModule
		fsEntry string
		format  wgpu.TextureFormat
	}
	variants := []variant{
		{&ps.ReflectionLit, "ReflectionLit", sceneLayout, sceneModule, "fs_lit", CubeColorFormat},
		{&ps.ReflectionGround, "ReflectionGround", sceneLayout, sceneModule, "fs_ground", CubeColorFormat},
		{&ps.FinalLit, "FinalLit", sceneLayout, sceneModule, "fs_lit", surfaceFormat},
		{&ps.FinalGround, "FinalGround", sceneLayout, sceneModule, "fs_ground", surfaceFormat},
		{&ps.FinalMirror, "FinalMirror", mirrorLayout, mirrorModule, "fs_main", surfaceFormat},
	}
	for _, v := range variants {
		p, err := build(v.label, v.layout, v.module, v.fsEntry, v.format)
		if err != nil {
			return nil, fmt.Errorf("gpu: pipeline %s: %w", v.label, err)
		}
		*v.dst = p
	}

	ps.Sampler, err = device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "MaterialSampler",
		AddressModeU:  wgpu.AddressModeRepeat,
		AddressModeV:  wgpu.AddressModeRepeat,
		AddressModeW:  wgpu.AddressModeRepeat,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: sampler: %w", err)
	}

	return ps, nil
}

// PipelineFor maps an actor's material onto the pipeline for a pass kind.
// The mirror variant only exists for the final pass; a mirror actor in the
// reflection pass would capture itself, so it has no pipeline there.
func (ps *PipelineSet) PipelineFor(material core.Material, pass PassKind) (*wgpu.RenderPipeline, error) {
	switch pass {
	case ReflectionPass:
		switch material {
		case core.MaterialLit:
			return ps.ReflectionLit, nil
		case core.MaterialGround:
			return ps.ReflectionGround, nil
		}
	case FinalPass:
		switch material {
		case core.MaterialLit:
			return ps.FinalLit, nil
		case core.MaterialGround:
			return ps.FinalGround, nil
		case core.MaterialMirror:
			return ps.FinalMirror, nil
		}
	}
	return nil, fmt.Errorf("gpu: no pipeline for material %d in pass %d", material, pass)
}
