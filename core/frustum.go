package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Frustum holds 6 world-space clip planes in left, right, top, bottom,
// near, far order. Planes are Ax + By + Cz + D = 0 with normals pointing
// into the frustum, so a point is inside when the signed distance to every
// plane is non-negative.
type Frustum struct {
	planes [6]mgl32.Vec4
}

// Reset rebuilds the planes from a view matrix and projection parameters.
// Extraction uses the Gribb/Hartmann row combinations on the view-projection
// matrix; the near plane uses the [0, 1] depth convention of PerspectiveLH.
func (f *Frustum) Reset(view mgl32.Mat4, p Perspective) {
	proj := PerspectiveLH(2*p.HalfFovY, p.Aspect, p.Near, p.Far)
	vp := proj.Mul4(view)

	row := func(i int) mgl32.Vec4 {
		return mgl32.Vec4{vp.At(i, 0), vp.At(i, 1), vp.At(i, 2), vp.At(i, 3)}
	}
	r0, r1, r2, r3 := row(0), row(1), row(2), row(3)

	f.planes[0] = r3.Add(r0) // left
	f.planes[1] = r3.Sub(r0) // right
	f.planes[2] = r3.Sub(r1) // top
	f.planes[3] = r3.Add(r1) // bottom
	f.planes[4] = r2         // near, depth 0 at the near plane
	f.planes[5] = r3.Sub(r2) // far

	for i := range f.planes {
		n := f.planes[i]
		length := float32(math.Sqrt(float64(n.X()*n.X() + n.Y()*n.Y() + n.Z()*n.Z())))
		if length > 0 {
			f.planes[i] = n.Mul(1.0 / length)
		}
	}
}

// IntersectsSphere tests a world-space sphere packed as xyz center plus w
// radius. Spheres straddling a plane count as visible; only spheres fully
// outside some plane are rejected.
func (f *Frustum) IntersectsSphere(sphere mgl32.Vec4) bool {
	center := sphere.Vec3()
	radius := sphere.W()
	for _, p := range f.planes {
		dist := p.X()*center.X() + p.Y()*center.Y() + p.Z()*center.Z() + p.W()
		if dist < -radius {
			return false
		}
	}
	return true
}
