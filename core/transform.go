package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// PerspectiveLH builds a left-handed perspective projection with depth
// mapped to [0, 1], which is what the render targets expect.
func PerspectiveLH(fovyRadians, aspect, near, far float32) mgl32.Mat4 {
	ys := 1.0 / float32(math.Tan(float64(fovyRadians)*0.5))
	xs := ys / aspect
	zs := far / (far - near)
	return mgl32.Mat4{
		xs, 0, 0, 0,
		0, ys, 0, 0,
		0, 0, zs, 1,
		0, 0, -near * zs, 0,
	}
}

// LookAtLH builds a left-handed view matrix from an eye position, a target
// point, and an up vector.
func LookAtLH(eye, target, up mgl32.Vec3) mgl32.Mat4 {
	f := target.Sub(eye).Normalize()
	r := up.Cross(f).Normalize()
	u := f.Cross(r)
	return mgl32.Mat4{
		r.X(), u.X(), f.X(), 0,
		r.Y(), u.Y(), f.Y(), 0,
		r.Z(), u.Z(), f.Z(), 0,
		-r.Dot(eye), -u.Dot(eye), -f.Dot(eye), 1,
	}
}

// RotationAbout builds the rotation matrix for an angle around an arbitrary
// axis. The axis does not need to be normalized.
func RotationAbout(radians float32, axis mgl32.Vec3) mgl32.Mat4 {
	return mgl32.HomogRotate3D(radians, axis.Normalize())
}

// TranslationMatrix builds a translation matrix.
func TranslationMatrix(t mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(t.X(), t.Y(), t.Z())
}
