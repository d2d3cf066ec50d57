// Package params packs per-frame GPU parameter data into ring-buffered
// byte regions. Layouts are written out field by field in little-endian
// order so the Go structs never have to mirror WGSL padding.
package params

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// MaxBuffersInFlight is the ring depth: how many frames of parameter
	// data may be written by the CPU before the oldest GPU read retires.
	MaxBuffersInFlight = 3

	// ActorParamsAlignment is the stride granularity for per-actor slots so
	// bind groups can address them with dynamic offsets.
	ActorParamsAlignment = 256
)

// FrameParams layout:
//
//	  0  lightPosition  vec4
//	 16  lightColor     vec4
//	 32  ambientColor   vec4
//	 48  time           f32 + 12 bytes padding
//	 64  total
const FrameParamsSize = 64

type FrameParams struct {
	LightPosition mgl32.Vec4
	LightColor    mgl32.Vec4
	AmbientColor  mgl32.Vec4
	Time          float32
}

func (p FrameParams) encode(b []byte) {
	putVec4(b, 0, p.LightPosition)
	putVec4(b, 16, p.LightColor)
	putVec4(b, 32, p.AmbientColor)
	putFloat32(b, 48, p.Time)
}

// ViewportParams layout:
//
//	  0  viewProjection  mat4x4
//	 64  cameraPosition  vec4
//	 80  total
const ViewportParamsSize = 80

type ViewportParams struct {
	ViewProjection mgl32.Mat4
	CameraPosition mgl32.Vec4
}

func (p ViewportParams) encode(b []byte) {
	putMat4(b, 0, p.ViewProjection)
	putVec4(b, 64, p.CameraPosition)
}

// ActorParams layout:
//
//	  0  modelMatrix        mat4x4
//	 64  diffuseMultiplier  vec4
//	 80  used, padded to ActorParamsStride
const actorParamsUsedSize = 80

// ActorParamsStride is the aligned per-actor slot size.
const ActorParamsStride = (actorParamsUsedSize + ActorParamsAlignment - 1) / ActorParamsAlignment * ActorParamsAlignment

type ActorParams struct {
	ModelMatrix       mgl32.Mat4
	DiffuseMultiplier mgl32.Vec4
}

func (p ActorParams) encode(b []byte) {
	putMat4(b, 0, p.ModelMatrix)
	putVec4(b, 64, p.DiffuseMultiplier)
}

// InstanceParamsSize is one viewport index per instance slot.
const InstanceParamsSize = 4

func putFloat32(b []byte, off int, v float32) {
	binary.LittleEndian.PutUint32(b[off:], math.Float32bits(v))
}

func putUint32(b []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(b[off:], v)
}

func putVec4(b []byte, off int, v mgl32.Vec4) {
	for i := 0; i < 4; i++ {
		putFloat32(b, off+i*4, v[i])
	}
}

// putMat4 writes the matrix column-major, matching WGSL mat4x4<f32>.
func putMat4(b []byte, off int, m mgl32.Mat4) {
	for i := 0; i < 16; i++ {
		putFloat32(b, off+i*4, m[i])
	}
}
