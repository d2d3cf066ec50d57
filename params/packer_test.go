package params

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/cubeprobe/core"
)

func readFloat32(b []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
}

func readUint32(b []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(b[off:])
}

func TestActorStrideAndOffsets(t *testing.T) {
	if ActorParamsStride%ActorParamsAlignment != 0 {
		t.Errorf("actor stride %d not aligned to %d", ActorParamsStride, ActorParamsAlignment)
	}
	if ActorParamsStride < actorParamsUsedSize {
		t.Errorf("actor stride %d smaller than used size %d", ActorParamsStride, actorParamsUsedSize)
	}
	for i := 0; i < core.MaxActors; i++ {
		if got := ActorOffset(i); got != uint32(i)*ActorParamsStride {
			t.Errorf("ActorOffset(%d) = %d", i, got)
		}
		if got := InstanceBase(i); got != uint32(i)*core.MaxVisibleFaces {
			t.Errorf("InstanceBase(%d) = %d", i, got)
		}
	}
}

func TestFrameParamsLayout(t *testing.T) {
	p := NewPacker()
	p.WriteFrame(1, FrameParams{
		LightPosition: mgl32.Vec4{1, 2, 3, 4},
		LightColor:    mgl32.Vec4{5, 6, 7, 8},
		AmbientColor:  mgl32.Vec4{9, 10, 11, 12},
		Time:          13,
	})

	b := p.Frames[1]
	for i, want := range []float32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13} {
		if got := readFloat32(b, i*4); got != want {
			t.Errorf("frame params float %d = %v, want %v", i, got, want)
		}
	}
	// Other slots stay untouched.
	if readFloat32(p.Frames[0], 0) != 0 {
		t.Error("write to slot 1 leaked into slot 0")
	}
}

func TestActorParamsLayout(t *testing.T) {
	p := NewPacker()
	model := mgl32.Translate3D(10, 20, 30)
	diffuse := mgl32.Vec4{0.1, 0.2, 0.3, 1}

	const actorIndex = 5
	if err := p.WriteActor(0, actorIndex, ActorParams{ModelMatrix: model, DiffuseMultiplier: diffuse}); err != nil {
		t.Fatal(err)
	}

	base := int(ActorOffset(actorIndex))
	b := p.Actors[0]
	// Column-major: translation lands in column 3, elements 12..14.
	if got := readFloat32(b, base+12*4); got != 10 {
		t.Errorf("model[12] = %v, want 10", got)
	}
	if got := readFloat32(b, base+13*4); got != 20 {
		t.Errorf("model[13] = %v, want 20", got)
	}
	if got := readFloat32(b, base+14*4); got != 30 {
		t.Errorf("model[14] = %v, want 30", got)
	}
	for i := 0; i < 4; i++ {
		if got := readFloat32(b, base+64+i*4); got != diffuse[i] {
			t.Errorf("diffuse[%d] = %v, want %v", i, got, diffuse[i])
		}
	}
}

func TestViewportParamsLayout(t *testing.T) {
	p := NewPacker()
	vp := ViewportParams{
		ViewProjection: mgl32.Scale3D(2, 3, 4),
		CameraPosition: mgl32.Vec4{7, 8, 9, 1},
	}
	p.WriteFinalViewport(0, vp)

	b := p.FinalViewports[0]
	if got := readFloat32(b, 0); got != 2 {
		t.Errorf("vp[0] = %v, want 2", got)
	}
	if got := readFloat32(b, 5*4); got != 3 {
		t.Errorf("vp[5] = %v, want 3", got)
	}
	if got := readFloat32(b, 10*4); got != 4 {
		t.Errorf("vp[10] = %v, want 4", got)
	}
	if got := readFloat32(b, 64); got != 7 {
		t.Errorf("camera x = %v, want 7", got)
	}
}

func TestProbeViewportFaceAddressing(t *testing.T) {
	p := NewPacker()
	for face := 0; face < core.CubeFaces; face++ {
		vp := ViewportParams{CameraPosition: mgl32.Vec4{float32(face), 0, 0, 1}}
		if err := p.WriteProbeViewport(0, face, vp); err != nil {
			t.Fatal(err)
		}
	}
	for face := 0; face < core.CubeFaces; face++ {
		off := face*ViewportParamsSize + 64
		if got := readFloat32(p.ProbeViewports[0], off); got != float32(face) {
			t.Errorf("face %d camera x = %v", face, got)
		}
	}

	if err := p.WriteProbeViewport(0, core.CubeFaces, ViewportParams{}); err == nil {
		t.Error("expected error for out-of-range face")
	}
	if err := p.WriteProbeViewport(0, -1, ViewportParams{}); err == nil {
		t.Error("expected error for negative face")
	}
}

func TestProbeInstanceList(t *testing.T) {
	p := NewPacker()

	const actorIndex = 3
	faces := []uint8{0, 2, 5}
	if err := p.WriteProbeInstances(0, actorIndex, faces); err != nil {
		t.Fatal(err)
	}

	base := int(InstanceBase(actorIndex)) * InstanceParamsSize
	for i, face := range faces {
		// The instance entry doubles as the viewport index: reflection
		// viewport N is cube face N.
		if got := readUint32(p.ProbeInstances[0], base+i*InstanceParamsSize); got != uint32(face) {
			t.Errorf("instance %d = %d, want %d", i, got, face)
		}
	}

	tooMany := make([]uint8, core.MaxVisibleFaces+1)
	if err := p.WriteProbeInstances(0, actorIndex, tooMany); err == nil {
		t.Error("expected error for oversized face list")
	}
	if err := p.WriteActor(0, core.MaxActors, ActorParams{}); err == nil {
		t.Error("expected error for out-of-range actor index")
	}
}

// Each face render pass draws one instance per actor at instance base plus
// the face's list position; the packed entry there must be the face's own
// viewport index, and culled faces must have no slot at all.
func TestPerFaceInstanceAddressing(t *testing.T) {
	p := NewPacker()

	const actorIndex = 4
	actor := &core.Actor{Passes: core.PassReflection}
	actor.VisibleFaces = [core.MaxVisibleFaces]uint8{0, 2, 5}
	actor.VisibleFaceCount = 3

	if err := p.WriteProbeInstances(0, actorIndex, actor.VisibleFaces[:actor.VisibleFaceCount]); err != nil {
		t.Fatal(err)
	}

	drawn := 0
	for face := 0; face < core.CubeFaces; face++ {
		slot, visible := actor.FaceInstanceSlot(face)
		if !visible {
			continue
		}
		drawn++
		off := (int(InstanceBase(actorIndex)) + slot) * InstanceParamsSize
		if got := readUint32(p.ProbeInstances[0], off); got != uint32(face) {
			t.Errorf("face %d: instance slot holds viewport %d", face, got)
		}
	}
	if drawn != actor.VisibleFaceCount {
		t.Errorf("drew %d face instances, want %d", drawn, actor.VisibleFaceCount)
	}
}

func TestFinalInstanceReadsViewportZero(t *testing.T) {
	p := NewPacker()
	const actorIndex = 7

	// Dirty the slot so the test can tell a write happened.
	base := int(InstanceBase(actorIndex)) * InstanceParamsSize
	putUint32(p.FinalInstances[0], base, 99)

	if err := p.WriteFinalInstance(0, actorIndex); err != nil {
		t.Fatal(err)
	}
	if got := readUint32(p.FinalInstances[0], base); got != 0 {
		t.Errorf("final instance viewport = %d, want 0", got)
	}
}

func TestPackScene(t *testing.T) {
	camera := &core.Camera{
		Position: mgl32.Vec3{0, 300, -550},
		Target:   mgl32.Vec3{0, -250, 1000},
		HalfFovY: mgl32.DegToRad(65) / 2,
		Aspect:   16.0 / 9.0,
		Near:     50,
		Far:      3000,
	}
	scene := core.NewScene(camera, &core.Probe{Near: 50, Far: 3000})

	actor := &core.Actor{
		Name:              "sphere",
		DiffuseMultiplier: mgl32.Vec4{1, 1, 1, 1},
		LocalSphere:       mgl32.Vec4{0, 0, 0, 200},
		Passes:            core.PassAll,
	}
	if err := scene.AddActor(actor); err != nil {
		t.Fatal(err)
	}
	scene.Advance()
	scene.UpdateVisibility()

	p := NewPacker()
	if err := p.PackScene(2, scene, FrameParams{Time: 1.5}); err != nil {
		t.Fatal(err)
	}

	if got := readFloat32(p.Frames[2], 48); got != 1.5 {
		t.Errorf("frame time = %v, want 1.5", got)
	}
	// Final viewport carries the camera position.
	if got := readFloat32(p.FinalViewports[2], 64+4); got != 300 {
		t.Errorf("packed camera y = %v, want 300", got)
	}
	// A visible actor's final instance slot is written with viewport 0.
	if !actor.VisibleInFinal {
		t.Fatal("actor should be visible from the demo camera")
	}
	if got := readUint32(p.FinalInstances[2], 0); got != 0 {
		t.Errorf("final instance viewport = %d, want 0", got)
	}
	// Diffuse multiplier lands at offset 64 of the actor slot.
	if got := readFloat32(p.Actors[2], 64); got != 1 {
		t.Errorf("packed diffuse r = %v, want 1", got)
	}
}
