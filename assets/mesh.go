package assets

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

// VertexGenerics is the interleaved secondary vertex stream. Positions live
// in their own stream so depth-only passes can bind a single buffer.
type VertexGenerics struct {
	Normal    [3]float32
	Tangent   [3]float32
	Bitangent [3]float32
	Texcoord  [2]float32
}

// TextureSlot is an optional per-submesh texture. Present reports whether
// the slot carries an image; callers must not read Image otherwise.
type TextureSlot struct {
	Present bool
	Image   *image.RGBA
}

// Submesh is one index range of a mesh with its texture set.
type Submesh struct {
	Indices   []uint32
	BaseColor TextureSlot
	Normal    TextureSlot
	Specular  TextureSlot
}

// Mesh is a renderable model: one position stream, one generics stream, and
// one or more indexed submeshes. Bounds is the local-space bounding sphere
// packed as xyz center plus w radius.
type Mesh struct {
	Positions []mgl32.Vec3
	Generics  []VertexGenerics
	Submeshes []Submesh
	Bounds    mgl32.Vec4
}

// ComputeBoundingSphere returns the sphere centered on the position
// bounding box that encloses every vertex.
func ComputeBoundingSphere(positions []mgl32.Vec3) mgl32.Vec4 {
	if len(positions) == 0 {
		return mgl32.Vec4{}
	}

	minB := positions[0]
	maxB := positions[0]
	for _, p := range positions[1:] {
		minB = mgl32.Vec3{min(minB.X(), p.X()), min(minB.Y(), p.Y()), min(minB.Z(), p.Z())}
		maxB = mgl32.Vec3{max(maxB.X(), p.X()), max(maxB.Y(), p.Y()), max(maxB.Z(), p.Z())}
	}

	center := minB.Add(maxB).Mul(0.5)
	radius := float32(0)
	for _, p := range positions {
		if d := p.Sub(center).Len(); d > radius {
			radius = d
		}
	}
	return mgl32.Vec4{center.X(), center.Y(), center.Z(), radius}
}

func min(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
