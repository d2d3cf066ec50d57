package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestFrustumSphereCulling(t *testing.T) {
	// Camera at origin looking down +Z.
	// Perspective: 90 deg FOV, aspect 1.0, near 1, far 100.
	cam := Camera{
		Position: mgl32.Vec3{0, 0, 0},
		Target:   mgl32.Vec3{0, 0, 1},
		HalfFovY: mgl32.DegToRad(45),
		Aspect:   1.0,
		Near:     1,
		Far:      100,
	}

	var f Frustum
	f.Reset(cam.ViewMatrix(), cam.Perspective())

	tests := []struct {
		name     string
		sphere   mgl32.Vec4
		expected bool
	}{
		{
			name:     "Inside (center)",
			sphere:   mgl32.Vec4{0, 0, 50, 5},
			expected: true,
		},
		{
			name:     "Outside (left)",
			sphere:   mgl32.Vec4{-20, 0, 10, 1},
			expected: false,
		},
		{
			name:     "Outside (right)",
			sphere:   mgl32.Vec4{20, 0, 10, 1},
			expected: false,
		},
		{
			name:     "Outside (top)",
			sphere:   mgl32.Vec4{0, 20, 10, 1},
			expected: false,
		},
		{
			name:     "Outside (behind near)",
			sphere:   mgl32.Vec4{0, 0, -5, 1},
			expected: false,
		},
		{
			name:     "Outside (beyond far)",
			sphere:   mgl32.Vec4{0, 0, 150, 10},
			expected: false,
		},
		{
			name:     "Straddling (left plane)",
			sphere:   mgl32.Vec4{-10, 0, 10, 3},
			expected: true,
		},
		{
			name:     "Encompassing (huge sphere)",
			sphere:   mgl32.Vec4{0, 0, 50, 1000},
			expected: true,
		},
	}

	for _, tc := range tests {
		visible := f.IntersectsSphere(tc.sphere)
		if visible != tc.expected {
			t.Errorf("Test %s failed: expected %v, got %v", tc.name, tc.expected, visible)
		}
	}
}

// TestFrustumSampleScene pins the demo geometry: the 200-unit sphere at the
// origin must be visible from the default camera.
func TestFrustumSampleScene(t *testing.T) {
	cam := Camera{
		Position: mgl32.Vec3{0, 300, -550},
		Target:   mgl32.Vec3{0, -250, 1000},
		HalfFovY: mgl32.DegToRad(65) / 2,
		Aspect:   16.0 / 9.0,
		Near:     50,
		Far:      3000,
	}

	var f Frustum
	f.Reset(cam.ViewMatrix(), cam.Perspective())

	if !f.IntersectsSphere(mgl32.Vec4{0, 0, 0, 200}) {
		t.Fatal("expected center sphere to be visible from the demo camera")
	}
}

func TestFrustumDeterministic(t *testing.T) {
	cam := Camera{
		Position: mgl32.Vec3{100, 50, -300},
		Target:   mgl32.Vec3{0, 0, 0},
		HalfFovY: mgl32.DegToRad(30),
		Aspect:   1.5,
		Near:     10,
		Far:      2000,
	}

	var a, b Frustum
	a.Reset(cam.ViewMatrix(), cam.Perspective())
	b.Reset(cam.ViewMatrix(), cam.Perspective())

	spheres := []mgl32.Vec4{
		{0, 0, 0, 50},
		{500, 0, 0, 10},
		{-200, 300, 700, 80},
		{0, -1000, 0, 5},
	}
	for _, s := range spheres {
		if a.IntersectsSphere(s) != b.IntersectsSphere(s) {
			t.Errorf("sphere %v: results differ between identical frustums", s)
		}
	}
}
