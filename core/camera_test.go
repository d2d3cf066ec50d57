package core

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const epsilon = 1e-5

func vecNear(t *testing.T, got, want mgl32.Vec4, context string) {
	t.Helper()
	for i := 0; i < 4; i++ {
		if math.Abs(float64(got[i]-want[i])) > epsilon {
			t.Errorf("%s: got %v, want %v", context, got, want)
			return
		}
	}
}

// Each face view matrix must map its axis direction onto the view-space
// forward axis, with the probe at the origin.
func TestProbeFaceViews(t *testing.T) {
	probe := Probe{Near: 50, Far: 3000}

	directions := [CubeFaces]mgl32.Vec4{
		{1, 0, 0, 1},
		{-1, 0, 0, 1},
		{0, 1, 0, 1},
		{0, -1, 0, 1},
		{0, 0, 1, 1},
		{0, 0, -1, 1},
	}

	for face := 0; face < CubeFaces; face++ {
		view := probe.FaceViewMatrix(face)
		got := view.Mul4x1(directions[face])
		vecNear(t, got, mgl32.Vec4{0, 0, 1, 1}, "face forward")
	}
}

func TestProbeProjectionIsSquare(t *testing.T) {
	probe := Probe{Near: 1, Far: 100}
	p := probe.Perspective()

	if math.Abs(float64(p.HalfFovY-math.Pi/4)) > epsilon {
		t.Errorf("probe half fov = %v, want 45 degrees", p.HalfFovY)
	}
	if p.Aspect != 1 {
		t.Errorf("probe aspect = %v, want 1", p.Aspect)
	}

	// fov 90 / aspect 1: a point on the 45 degree boundary lands on the
	// clip-space edge.
	proj := probe.ProjectionMatrix()
	edge := proj.Mul4x1(mgl32.Vec4{10, 0, 10, 1})
	if math.Abs(float64(edge.X()/edge.W()-1)) > epsilon {
		t.Errorf("45 degree point maps to ndc x %v, want 1", edge.X()/edge.W())
	}
}

func TestPerspectiveLHDepthRange(t *testing.T) {
	proj := PerspectiveLH(mgl32.DegToRad(60), 1, 1, 100)

	atNear := proj.Mul4x1(mgl32.Vec4{0, 0, 1, 1})
	if math.Abs(float64(atNear.Z()/atNear.W())) > epsilon {
		t.Errorf("near plane depth = %v, want 0", atNear.Z()/atNear.W())
	}

	atFar := proj.Mul4x1(mgl32.Vec4{0, 0, 100, 1})
	if math.Abs(float64(atFar.Z()/atFar.W()-1)) > epsilon {
		t.Errorf("far plane depth = %v, want 1", atFar.Z()/atFar.W())
	}
}

func TestLookAtLH(t *testing.T) {
	view := LookAtLH(mgl32.Vec3{0, 0, -10}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})

	// The target sits 10 units down the view-space forward axis.
	vecNear(t, view.Mul4x1(mgl32.Vec4{0, 0, 0, 1}), mgl32.Vec4{0, 0, 10, 1}, "target")
	// The eye maps to the view-space origin.
	vecNear(t, view.Mul4x1(mgl32.Vec4{0, 0, -10, 1}), mgl32.Vec4{0, 0, 0, 1}, "eye")
}
