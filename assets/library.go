package assets

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

type AssetId string

func makeAssetId() AssetId {
	return AssetId(uuid.NewString())
}

// Library owns the loaded meshes. The renderer core only ever sees meshes
// through ids handed out here.
type Library struct {
	meshes map[AssetId]*Mesh
}

func NewLibrary() *Library {
	return &Library{meshes: map[AssetId]*Mesh{}}
}

func (l *Library) Mesh(id AssetId) (*Mesh, bool) {
	m, ok := l.meshes[id]
	return m, ok
}

func (l *Library) AddMesh(m *Mesh) AssetId {
	id := makeAssetId()
	l.meshes[id] = m
	return id
}

// CreateSphereMesh builds a UV sphere centered at the origin.
func (l *Library) CreateSphereMesh(radius float32, slices, stacks int) AssetId {
	var positions []mgl32.Vec3
	var generics []VertexGenerics

	for stack := 0; stack <= stacks; stack++ {
		phi := math.Pi * float64(stack) / float64(stacks)
		for slice := 0; slice <= slices; slice++ {
			theta := 2 * math.Pi * float64(slice) / float64(slices)

			nx := float32(math.Sin(phi) * math.Cos(theta))
			ny := float32(math.Cos(phi))
			nz := float32(math.Sin(phi) * math.Sin(theta))
			positions = append(positions, mgl32.Vec3{nx * radius, ny * radius, nz * radius})

			// Tangent follows increasing theta.
			tx := float32(-math.Sin(theta))
			tz := float32(math.Cos(theta))
			n := mgl32.Vec3{nx, ny, nz}
			tan := mgl32.Vec3{tx, 0, tz}
			bit := n.Cross(tan)
			generics = append(generics, VertexGenerics{
				Normal:    [3]float32{nx, ny, nz},
				Tangent:   [3]float32{tan.X(), tan.Y(), tan.Z()},
				Bitangent: [3]float32{bit.X(), bit.Y(), bit.Z()},
				Texcoord:  [2]float32{float32(slice) / float32(slices), float32(stack) / float32(stacks)},
			})
		}
	}

	var indices []uint32
	cols := uint32(slices + 1)
	for stack := 0; stack < stacks; stack++ {
		for slice := 0; slice < slices; slice++ {
			a := uint32(stack)*cols + uint32(slice)
			b := a + cols
			indices = append(indices, a, b, a+1, a+1, b, b+1)
		}
	}

	return l.AddMesh(&Mesh{
		Positions: positions,
		Generics:  generics,
		Submeshes: []Submesh{{Indices: indices}},
		Bounds:    ComputeBoundingSphere(positions),
	})
}

// CreateBoxMesh builds an axis-aligned box centered at the origin with
// per-face normals.
func (l *Library) CreateBoxMesh(sx, sy, sz float32) AssetId {
	hx, hy, hz := sx*0.5, sy*0.5, sz*0.5

	type face struct {
		normal, tangent mgl32.Vec3
	}
	faces := []face{
		{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}},
		{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}},
		{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}},
		{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}},
		{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}},
		{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-1, 0, 0}},
	}
	half := mgl32.Vec3{hx, hy, hz}

	var positions []mgl32.Vec3
	var generics []VertexGenerics
	var indices []uint32

	for _, f := range faces {
		bit := f.normal.Cross(f.tangent)
		base := uint32(len(positions))
		corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
		for i, c := range corners {
			dir := f.normal.Add(f.tangent.Mul(c[0])).Add(bit.Mul(c[1]))
			positions = append(positions, mgl32.Vec3{dir.X() * half.X(), dir.Y() * half.Y(), dir.Z() * half.Z()})
			generics = append(generics, VertexGenerics{
				Normal:    [3]float32{f.normal.X(), f.normal.Y(), f.normal.Z()},
				Tangent:   [3]float32{f.tangent.X(), f.tangent.Y(), f.tangent.Z()},
				Bitangent: [3]float32{bit.X(), bit.Y(), bit.Z()},
				Texcoord:  [2]float32{float32(i & 1), float32(i >> 1)},
			})
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}

	return l.AddMesh(&Mesh{
		Positions: positions,
		Generics:  generics,
		Submeshes: []Submesh{{Indices: indices}},
		Bounds:    ComputeBoundingSphere(positions),
	})
}

// CreatePlaneMesh builds a flat grid on the XZ plane facing +Y.
func (l *Library) CreatePlaneMesh(width, depth float32, tiles int) AssetId {
	var positions []mgl32.Vec3
	var generics []VertexGenerics

	for z := 0; z <= tiles; z++ {
		for x := 0; x <= tiles; x++ {
			fx := (float32(x)/float32(tiles) - 0.5) * width
			fz := (float32(z)/float32(tiles) - 0.5) * depth
			positions = append(positions, mgl32.Vec3{fx, 0, fz})
			generics = append(generics, VertexGenerics{
				Normal:    [3]float32{0, 1, 0},
				Tangent:   [3]float32{1, 0, 0},
				Bitangent: [3]float32{0, 0, 1},
				Texcoord:  [2]float32{float32(x) / float32(tiles), float32(z) / float32(tiles)},
			})
		}
	}

	var indices []uint32
	cols := uint32(tiles + 1)
	for z := 0; z < tiles; z++ {
		for x := 0; x < tiles; x++ {
			a := uint32(z)*cols + uint32(x)
			b := a + cols
			indices = append(indices, a, b, a+1, a+1, b, b+1)
		}
	}

	return l.AddMesh(&Mesh{
		Positions: positions,
		Generics:  generics,
		Submeshes: []Submesh{{Indices: indices}},
		Bounds:    ComputeBoundingSphere(positions),
	})
}
