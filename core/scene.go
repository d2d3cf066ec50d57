package core

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// RotationIncrement is the per-frame angular step in radians before each
// actor's speed multiplier is applied.
const RotationIncrement = float32(0.01)

// Scene is the fixed actor registry plus the two viewpoints. One actor may
// be designated as the mirror; the probe follows its world position.
type Scene struct {
	Actors []*Actor
	Camera *Camera
	Probe  *Probe

	// MirrorActor indexes into Actors, -1 when no actor anchors the probe.
	MirrorActor int

	finalFrustum Frustum
	faceFrustums [CubeFaces]Frustum
}

func NewScene(camera *Camera, probe *Probe) *Scene {
	return &Scene{
		Camera:      camera,
		Probe:       probe,
		MirrorActor: -1,
	}
}

// AddActor registers an actor. The roster is capacity-checked because the
// GPU parameter regions are sized for MaxActors at startup.
func (s *Scene) AddActor(a *Actor) error {
	if len(s.Actors) >= MaxActors {
		return fmt.Errorf("scene: actor %q exceeds capacity of %d", a.Name, MaxActors)
	}
	s.Actors = append(s.Actors, a)
	return nil
}

// Advance steps the animation one frame: accumulate rotation, derive model
// matrices, world positions and world bounding spheres, then move the probe
// onto the mirror actor.
func (s *Scene) Advance() {
	for _, a := range s.Actors {
		a.RotationAmount += RotationIncrement * a.RotationSpeed
		a.ModelMatrix = a.computeModelMatrix()
		a.WorldPosition = a.ModelMatrix.Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3()

		ws := a.ModelMatrix.Mul4x1(mgl32.Vec4{a.LocalSphere.X(), a.LocalSphere.Y(), a.LocalSphere.Z(), 1})
		a.WorldSphere = mgl32.Vec4{ws.X(), ws.Y(), ws.Z(), a.LocalSphere.W()}
	}

	if s.MirrorActor >= 0 && s.MirrorActor < len(s.Actors) {
		s.Probe.Position = s.Actors[s.MirrorActor].WorldPosition
	}
}

// UpdateVisibility rebuilds all 7 frustums and reruns the sphere tests.
// Reflection faces are tested in 0..5 order so each actor's instance list
// comes out sorted by face index; rerunning with unchanged state yields an
// identical list.
func (s *Scene) UpdateVisibility() {
	s.finalFrustum.Reset(s.Camera.ViewMatrix(), s.Camera.Perspective())
	for face := 0; face < CubeFaces; face++ {
		s.faceFrustums[face].Reset(s.Probe.FaceViewMatrix(face), s.Probe.Perspective())
	}

	for _, a := range s.Actors {
		a.VisibleInFinal = a.Passes.Has(PassFinal) && s.finalFrustum.IntersectsSphere(a.WorldSphere)

		a.VisibleFaceCount = 0
		if !a.Passes.Has(PassReflection) {
			continue
		}
		for face := 0; face < CubeFaces; face++ {
			if s.faceFrustums[face].IntersectsSphere(a.WorldSphere) {
				a.VisibleFaces[a.VisibleFaceCount] = uint8(face)
				a.VisibleFaceCount++
			}
		}
	}
}
