package core

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/cubeprobe/assets"
)

const (
	// MaxActors bounds the scene roster; parameter regions are sized for it.
	MaxActors = 32
	// CubeFaces is the number of reflection viewports.
	CubeFaces = 6
	// MaxVisibleFaces caps an actor's reflection instance list.
	MaxVisibleFaces = CubeFaces
)

// PassSet is a bitmask of the render passes an actor participates in.
type PassSet uint8

const (
	PassNone       PassSet = 0
	PassReflection PassSet = 1 << 0
	PassFinal      PassSet = 1 << 1
	PassAll                = PassReflection | PassFinal
)

func (s PassSet) Has(p PassSet) bool { return s&p != 0 }

// Material selects which pipeline variant an actor draws with.
type Material int

const (
	MaterialLit Material = iota
	MaterialGround
	MaterialMirror
)

// Actor is one renderable scene object. The Rotation* fields drive the
// per-frame orbit animation; the Visible* fields are rewritten every frame
// by the visibility pass.
type Actor struct {
	Name string

	Translation   mgl32.Vec3
	RotationPoint mgl32.Vec3
	RotationAxis  mgl32.Vec3
	RotationSpeed float32
	// RotationAmount accumulates without wrapping; the derived matrices are
	// periodic so unbounded growth is harmless.
	RotationAmount float32

	DiffuseMultiplier mgl32.Vec4
	// LocalSphere is the bounding sphere in mesh space, xyz center + w radius.
	LocalSphere mgl32.Vec4

	Meshes   []*assets.Mesh
	Material Material
	Passes   PassSet

	// Derived per frame by Scene.Advance.
	ModelMatrix   mgl32.Mat4
	WorldPosition mgl32.Vec3
	WorldSphere   mgl32.Vec4

	// Derived per frame by Scene.UpdateVisibility.
	VisibleInFinal   bool
	VisibleFaces     [MaxVisibleFaces]uint8
	VisibleFaceCount int
}

// FinalInstanceCount maps the final-pass visibility flag onto the draw
// call's instance count, 0 or 1. The reflection pass count lives in
// VisibleFaceCount and can exceed 1; the two are deliberately separate.
func (a *Actor) FinalInstanceCount() int {
	if a.VisibleInFinal {
		return 1
	}
	return 0
}

// FaceInstanceSlot locates a cube face inside the actor's visible-face
// list. The returned position offsets the actor's instance base, so the
// instance drawn for that face reads the list entry holding the face's
// viewport index. The second result is false when the face was culled.
func (a *Actor) FaceInstanceSlot(face int) (int, bool) {
	for i := 0; i < a.VisibleFaceCount; i++ {
		if int(a.VisibleFaces[i]) == face {
			return i, true
		}
	}
	return 0, false
}

// computeModelMatrix is translate(rotationPoint) * rotate * translate(translation).
func (a *Actor) computeModelMatrix() mgl32.Mat4 {
	m := TranslationMatrix(a.RotationPoint)
	if a.RotationAxis.Len() > 0 {
		m = m.Mul4(RotationAbout(a.RotationAmount, a.RotationAxis))
	}
	return m.Mul4(TranslationMatrix(a.Translation))
}
