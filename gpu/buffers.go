// Package gpu holds the WebGPU side of the renderer: ring-slot buffers,
// render targets, pipeline variants, and the draw dispatcher.
package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gekko3d/cubeprobe/params"
)

// BufferSet mirrors the packer's regions on the GPU, one buffer per ring
// slot per region. Everything is allocated once here and only released at
// teardown.
type BufferSet struct {
	Frames         [params.MaxBuffersInFlight]*wgpu.Buffer
	FinalViewports [params.MaxBuffersInFlight]*wgpu.Buffer
	ProbeViewports [params.MaxBuffersInFlight]*wgpu.Buffer
	Actors         [params.MaxBuffersInFlight]*wgpu.Buffer
	FinalInstances [params.MaxBuffersInFlight]*wgpu.Buffer
	ProbeInstances [params.MaxBuffersInFlight]*wgpu.Buffer
}

func NewBufferSet(device *wgpu.Device) (*BufferSet, error) {
	b := &BufferSet{}

	type region struct {
		name  string
		size  uint64
		usage wgpu.BufferUsage
		bufs  *[params.MaxBuffersInFlight]*wgpu.Buffer
	}
	regions := []region{
		{"FrameParams", params.FrameRegionSize, wgpu.BufferUsageUniform, &b.Frames},
		{"FinalViewportParams", params.FinalViewportRegionSize, wgpu.BufferUsageStorage, &b.FinalViewports},
		{"ProbeViewportParams", params.ProbeViewportRegionSize, wgpu.BufferUsageStorage, &b.ProbeViewports},
		{"ActorParams", params.ActorRegionSize, wgpu.BufferUsageUniform, &b.Actors},
		{"FinalInstanceParams", params.InstanceRegionSize, wgpu.BufferUsageStorage, &b.FinalInstances},
		{"ProbeInstanceParams", params.InstanceRegionSize, wgpu.BufferUsageStorage, &b.ProbeInstances},
	}

	for _, r := range regions {
		for slot := 0; slot < params.MaxBuffersInFlight; slot++ {
			buf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
				Label: fmt.Sprintf("%s[%d]", r.name, slot),
				Size:  r.size,
				Usage: r.usage | wgpu.BufferUsageCopyDst,
			})
			if err != nil {
				b.Release()
				return nil, fmt.Errorf("gpu: create %s slot %d: %w", r.name, slot, err)
			}
			r.bufs[slot] = buf
		}
	}
	return b, nil
}

// Upload pushes one ring slot of every packed region to the GPU. The caller
// must hold the frame gate token for this slot.
func (b *BufferSet) Upload(queue *wgpu.Queue, slot int, p *params.Packer) {
	queue.WriteBuffer(b.Frames[slot], 0, p.Frames[slot])
	queue.WriteBuffer(b.FinalViewports[slot], 0, p.FinalViewports[slot])
	queue.WriteBuffer(b.ProbeViewports[slot], 0, p.ProbeViewports[slot])
	queue.WriteBuffer(b.Actors[slot], 0, p.Actors[slot])
	queue.WriteBuffer(b.FinalInstances[slot], 0, p.FinalInstances[slot])
	queue.WriteBuffer(b.ProbeInstances[slot], 0, p.ProbeInstances[slot])
}

func (b *BufferSet) Release() {
	for slot := 0; slot < params.MaxBuffersInFlight; slot++ {
		for _, buf := range []*wgpu.Buffer{
			b.Frames[slot], b.FinalViewports[slot], b.ProbeViewports[slot],
			b.Actors[slot], b.FinalInstances[slot], b.ProbeInstances[slot],
		} {
			if buf != nil {
				buf.Release()
			}
		}
	}
}
