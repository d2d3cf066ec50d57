package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gekko3d/cubeprobe/assets"
	"github.com/gekko3d/cubeprobe/core"
	"github.com/gekko3d/cubeprobe/params"
)

// PassKind selects which of the two render sweeps is being encoded.
type PassKind int

const (
	// ReflectionPass renders the cubemap, one render pass per face.
	ReflectionPass PassKind = iota
	// FinalPass renders the main view into the surface.
	FinalPass
)

// Dispatcher issues the per-pass draws. Each pass binds its own viewport
// and instance regions; actors are drawn in registry order with one draw
// per submesh, firstInstance pointing into the actor's slice of the
// instance list so the shader resolves its viewport from there.
type Dispatcher struct {
	pipelines *PipelineSet
	buffers   *BufferSet
	targets   *Targets

	reflectionGroups [params.MaxBuffersInFlight]*wgpu.BindGroup
	finalGroups      [params.MaxBuffersInFlight]*wgpu.BindGroup
	mirrorGroup      *wgpu.BindGroup

	meshes map[*assets.Mesh]*Mesh
}

func NewDispatcher(device *wgpu.Device, pipelines *PipelineSet, buffers *BufferSet, targets *Targets) (*Dispatcher, error) {
	d := &Dispatcher{
		pipelines: pipelines,
		buffers:   buffers,
		targets:   targets,
		meshes:    map[*assets.Mesh]*Mesh{},
	}

	for slot := 0; slot < params.MaxBuffersInFlight; slot++ {
		makeGroup := func(label string, viewports, instances *wgpu.Buffer) (*wgpu.BindGroup, error) {
			return device.CreateBindGroup(&wgpu.BindGroupDescriptor{
				Label:  fmt.Sprintf("%s[%d]", label, slot),
				Layout: pipelines.FrameLayout,
				Entries: []wgpu.BindGroupEntry{
					{Binding: 0, Buffer: buffers.Frames[slot], Size: params.FrameRegionSize},
					{Binding: 1, Buffer: viewports, Size: wgpu.WholeSize},
					{Binding: 2, Buffer: instances, Size: wgpu.WholeSize},
					{Binding: 3, Buffer: buffers.Actors[slot], Size: params.ActorParamsStride},
				},
			})
		}

		var err error
		d.reflectionGroups[slot], err = makeGroup("ReflectionFrameBG", buffers.ProbeViewports[slot], buffers.ProbeInstances[slot])
		if err != nil {
			return nil, fmt.Errorf("gpu: reflection bind group: %w", err)
		}
		d.finalGroups[slot], err = makeGroup("FinalFrameBG", buffers.FinalViewports[slot], buffers.FinalInstances[slot])
		if err != nil {
			return nil, fmt.Errorf("gpu: final bind group: %w", err)
		}
	}

	var err error
	d.mirrorGroup, err = device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "MirrorMaterialBG",
		Layout: pipelines.MirrorMaterialLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: targets.CubeSampleView},
			{Binding: 1, Sampler: pipelines.Sampler},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: mirror bind group: %w", err)
	}

	return d, nil
}

// RegisterMesh associates a source mesh with its uploaded GPU buffers.
func (d *Dispatcher) RegisterMesh(src *assets.Mesh, mesh *Mesh) {
	d.meshes[src] = mesh
}

// EncodeReflectionPass records the cubemap sweep into the encoder, one
// render pass per face so every attachment is a plain single-layer view.
// The caller submits it before encoding the final pass so the GPU starts
// on reflection work while the CPU keeps encoding.
func (d *Dispatcher) EncodeReflectionPass(encoder *wgpu.CommandEncoder, slot int, actors []*core.Actor) error {
	for face := 0; face < core.CubeFaces; face++ {
		pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
			Label: fmt.Sprintf("ReflectionFace%d", face),
			ColorAttachments: []wgpu.RenderPassColorAttachment{{
				View:       d.targets.CubeFaceViews[face],
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 1},
			}},
			DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
				View:            d.targets.CubeDepthView,
				DepthLoadOp:     wgpu.LoadOpClear,
				DepthStoreOp:    wgpu.StoreOpDiscard,
				DepthClearValue: 1.0,
			},
		})

		if err := d.drawFaceActors(pass, slot, actors, face); err != nil {
			return err
		}
		if err := pass.End(); err != nil {
			return fmt.Errorf("gpu: reflection face %d end: %w", face, err)
		}
	}
	return nil
}

// drawFaceActors draws every actor whose visibility pass put this face in
// its list. Each draw is a single instance whose firstInstance points at
// the face's slot in the actor's instance list, so the shader still reads
// its viewport index from the bound list.
func (d *Dispatcher) drawFaceActors(pass *wgpu.RenderPassEncoder, slot int, actors []*core.Actor, face int) error {
	frameGroup := d.reflectionGroups[slot]

	for i, a := range actors {
		if !a.Passes.Has(core.PassReflection) {
			continue
		}
		listPos, visible := a.FaceInstanceSlot(face)
		if !visible {
			continue
		}

		pipeline, err := d.pipelines.PipelineFor(a.Material, ReflectionPass)
		if err != nil {
			return err
		}
		pass.SetPipeline(pipeline)
		pass.SetBindGroup(0, frameGroup, []uint32{params.ActorOffset(i)})

		for _, src := range a.Meshes {
			mesh, ok := d.meshes[src]
			if !ok {
				return fmt.Errorf("gpu: actor %q has an unregistered mesh", a.Name)
			}
			pass.SetVertexBuffer(0, mesh.Positions, 0, wgpu.WholeSize)
			pass.SetVertexBuffer(1, mesh.Generics, 0, wgpu.WholeSize)

			for _, sm := range mesh.Submeshes {
				pass.SetBindGroup(1, sm.BindGroup, nil)
				pass.SetIndexBuffer(sm.IndexBuffer, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
				pass.DrawIndexed(sm.IndexCount, 1, 0, 0, params.InstanceBase(i)+uint32(listPos))
			}
		}
	}
	return nil
}

// EncodeFinalPass records the main view into the surface texture.
func (d *Dispatcher) EncodeFinalPass(encoder *wgpu.CommandEncoder, slot int, actors []*core.Actor, surfaceView *wgpu.TextureView) error {
	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "FinalPass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       surfaceView,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{R: 0.05, G: 0.05, B: 0.08, A: 1},
		}},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            d.targets.DepthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	})

	if err := d.drawFinalActors(pass, slot, actors); err != nil {
		return err
	}
	if err := pass.End(); err != nil {
		return fmt.Errorf("gpu: final pass end: %w", err)
	}
	return nil
}

func (d *Dispatcher) drawFinalActors(pass *wgpu.RenderPassEncoder, slot int, actors []*core.Actor) error {
	frameGroup := d.finalGroups[slot]

	for i, a := range actors {
		if !a.Passes.Has(core.PassFinal) {
			continue
		}
		instanceCount := a.FinalInstanceCount()
		if instanceCount == 0 {
			continue
		}

		pipeline, err := d.pipelines.PipelineFor(a.Material, FinalPass)
		if err != nil {
			return err
		}
		pass.SetPipeline(pipeline)
		pass.SetBindGroup(0, frameGroup, []uint32{params.ActorOffset(i)})

		for _, src := range a.Meshes {
			mesh, ok := d.meshes[src]
			if !ok {
				return fmt.Errorf("gpu: actor %q has an unregistered mesh", a.Name)
			}
			pass.SetVertexBuffer(0, mesh.Positions, 0, wgpu.WholeSize)
			pass.SetVertexBuffer(1, mesh.Generics, 0, wgpu.WholeSize)

			for _, sm := range mesh.Submeshes {
				if a.Material == core.MaterialMirror {
					pass.SetBindGroup(1, d.mirrorGroup, nil)
				} else {
					pass.SetBindGroup(1, sm.BindGroup, nil)
				}
				pass.SetIndexBuffer(sm.IndexBuffer, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
				pass.DrawIndexed(sm.IndexCount, uint32(instanceCount), 0, 0, params.InstanceBase(i))
			}
		}
	}
	return nil
}
