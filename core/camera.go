package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Perspective holds the projection parameters a frustum needs alongside a
// view matrix.
type Perspective struct {
	HalfFovY float32 // half vertical field of view, radians
	Aspect   float32
	Near     float32
	Far      float32
}

// Camera is the final-pass viewpoint.
type Camera struct {
	Position mgl32.Vec3
	Target   mgl32.Vec3
	HalfFovY float32
	Aspect   float32
	Near     float32
	Far      float32
}

func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return LookAtLH(c.Position, c.Target, mgl32.Vec3{0, 1, 0})
}

func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	return PerspectiveLH(2*c.HalfFovY, c.Aspect, c.Near, c.Far)
}

func (c *Camera) Perspective() Perspective {
	return Perspective{HalfFovY: c.HalfFovY, Aspect: c.Aspect, Near: c.Near, Far: c.Far}
}

// Probe is the reflection camera. It captures one 90 degree view per cube
// face, all sharing a square projection, and is repositioned every frame to
// follow the reflective actor.
type Probe struct {
	Position mgl32.Vec3
	Near     float32
	Far      float32
}

// cubeFaceBasis lists forward/up pairs per face in +X,-X,+Y,-Y,+Z,-Z order.
// The up vectors follow the cube map convention so faces tile seamlessly.
var cubeFaceBasis = [CubeFaces][2]mgl32.Vec3{
	{{1, 0, 0}, {0, 1, 0}},
	{{-1, 0, 0}, {0, 1, 0}},
	{{0, 1, 0}, {0, 0, -1}},
	{{0, -1, 0}, {0, 0, 1}},
	{{0, 0, 1}, {0, 1, 0}},
	{{0, 0, -1}, {0, 1, 0}},
}

// FaceViewMatrix returns the view matrix for one cube face, 0..5.
func (p *Probe) FaceViewMatrix(face int) mgl32.Mat4 {
	basis := cubeFaceBasis[face]
	return LookAtLH(p.Position, p.Position.Add(basis[0]), basis[1])
}

func (p *Probe) ProjectionMatrix() mgl32.Mat4 {
	return PerspectiveLH(math.Pi/2, 1, p.Near, p.Far)
}

func (p *Probe) Perspective() Perspective {
	return Perspective{HalfFovY: math.Pi / 4, Aspect: 1, Near: p.Near, Far: p.Far}
}
