package params

import (
	"fmt"

	"github.com/gekko3d/cubeprobe/core"
)

// Region sizes in bytes. The final pass has a single viewport; the
// reflection pass has one per cube face. Instance regions share one stride
// (MaxVisibleFaces slots per actor) so both passes address instances at
// actorIndex * MaxVisibleFaces.
const (
	FrameRegionSize         = FrameParamsSize
	FinalViewportRegionSize = ViewportParamsSize
	ProbeViewportRegionSize = core.CubeFaces * ViewportParamsSize
	ActorRegionSize         = core.MaxActors * ActorParamsStride
	InstanceRegionSize      = core.MaxActors * core.MaxVisibleFaces * InstanceParamsSize
)

// Packer owns the CPU side of every ring-buffered parameter region. All
// regions are allocated once; each frame overwrites one slot of each.
type Packer struct {
	Frames         [MaxBuffersInFlight][]byte
	FinalViewports [MaxBuffersInFlight][]byte
	ProbeViewports [MaxBuffersInFlight][]byte
	Actors         [MaxBuffersInFlight][]byte
	FinalInstances [MaxBuffersInFlight][]byte
	ProbeInstances [MaxBuffersInFlight][]byte
}

func NewPacker() *Packer {
	p := &Packer{}
	for i := 0; i < MaxBuffersInFlight; i++ {
		p.Frames[i] = make([]byte, FrameRegionSize)
		p.FinalViewports[i] = make([]byte, FinalViewportRegionSize)
		p.ProbeViewports[i] = make([]byte, ProbeViewportRegionSize)
		p.Actors[i] = make([]byte, ActorRegionSize)
		p.FinalInstances[i] = make([]byte, InstanceRegionSize)
		p.ProbeInstances[i] = make([]byte, InstanceRegionSize)
	}
	return p
}

// ActorOffset is the byte offset of an actor's parameter slot, usable
// directly as a dynamic bind offset.
func ActorOffset(actorIndex int) uint32 {
	return uint32(actorIndex) * ActorParamsStride
}

// InstanceBase is the first instance slot belonging to an actor. Draws pass
// it as firstInstance so the shader's instance index lands inside the
// actor's slice of the instance list.
func InstanceBase(actorIndex int) uint32 {
	return uint32(actorIndex) * core.MaxVisibleFaces
}

func (p *Packer) WriteFrame(slot int, fp FrameParams) {
	fp.encode(p.Frames[slot])
}

func (p *Packer) WriteFinalViewport(slot int, vp ViewportParams) {
	vp.encode(p.FinalViewports[slot])
}

func (p *Packer) WriteProbeViewport(slot, face int, vp ViewportParams) error {
	if face < 0 || face >= core.CubeFaces {
		return fmt.Errorf("params: probe viewport face %d out of range", face)
	}
	vp.encode(p.ProbeViewports[slot][face*ViewportParamsSize:])
	return nil
}

func (p *Packer) WriteActor(slot, actorIndex int, ap ActorParams) error {
	if actorIndex < 0 || actorIndex >= core.MaxActors {
		return fmt.Errorf("params: actor index %d out of range", actorIndex)
	}
	ap.encode(p.Actors[slot][actorIndex*ActorParamsStride:])
	return nil
}

// WriteFinalInstance marks an actor's single final-pass instance, which
// always reads viewport 0.
func (p *Packer) WriteFinalInstance(slot, actorIndex int) error {
	if actorIndex < 0 || actorIndex >= core.MaxActors {
		return fmt.Errorf("params: actor index %d out of range", actorIndex)
	}
	off := int(InstanceBase(actorIndex)) * InstanceParamsSize
	putUint32(p.FinalInstances[slot], off, 0)
	return nil
}

// WriteProbeInstances writes an actor's visible-face list in order. Each
// entry is the viewport index instance N of the draw will render into.
func (p *Packer) WriteProbeInstances(slot, actorIndex int, faces []uint8) error {
	if actorIndex < 0 || actorIndex >= core.MaxActors {
		return fmt.Errorf("params: actor index %d out of range", actorIndex)
	}
	if len(faces) > core.MaxVisibleFaces {
		return fmt.Errorf("params: %d visible faces exceeds capacity of %d", len(faces), core.MaxVisibleFaces)
	}
	base := int(InstanceBase(actorIndex)) * InstanceParamsSize
	for i, face := range faces {
		putUint32(p.ProbeInstances[slot], base+i*InstanceParamsSize, uint32(face))
	}
	return nil
}

// PackScene writes one ring slot's worth of data for the current frame:
// frame constants, the 7 viewports, and every actor's transform and
// instance list. Scene.Advance and Scene.UpdateVisibility must have run
// for this frame already.
func (p *Packer) PackScene(slot int, scene *core.Scene, fp FrameParams) error {
	p.WriteFrame(slot, fp)

	camPos := scene.Camera.Position
	p.WriteFinalViewport(slot, ViewportParams{
		ViewProjection: scene.Camera.ProjectionMatrix().Mul4(scene.Camera.ViewMatrix()),
		CameraPosition: camPos.Vec4(1),
	})

	probeProj := scene.Probe.ProjectionMatrix()
	for face := 0; face < core.CubeFaces; face++ {
		if err := p.WriteProbeViewport(slot, face, ViewportParams{
			ViewProjection: probeProj.Mul4(scene.Probe.FaceViewMatrix(face)),
			CameraPosition: scene.Probe.Position.Vec4(1),
		}); err != nil {
			return err
		}
	}

	for i, a := range scene.Actors {
		if err := p.WriteActor(slot, i, ActorParams{
			ModelMatrix:       a.ModelMatrix,
			DiffuseMultiplier: a.DiffuseMultiplier,
		}); err != nil {
			return err
		}
		if a.VisibleInFinal {
			if err := p.WriteFinalInstance(slot, i); err != nil {
				return err
			}
		}
		if a.VisibleFaceCount > 0 {
			if err := p.WriteProbeInstances(slot, i, a.VisibleFaces[:a.VisibleFaceCount]); err != nil {
				return err
			}
		}
	}
	return nil
}
