package cubeprobe

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/cubeprobe/assets"
	"github.com/gekko3d/cubeprobe/core"
)

// SceneDef defines the initial state of a scene.
type SceneDef struct {
	Actors []ActorDef
	Camera core.Camera
	Probe  core.Probe

	LightPosition mgl32.Vec4
	LightColor    mgl32.Vec4
	AmbientColor  mgl32.Vec4
}

// ActorDef defines one actor instantiation. Mirror marks the actor the
// probe follows; at most one actor may set it. BaseColor, when set,
// replaces the base color texture of every submesh of the actor's mesh.
type ActorDef struct {
	Name          string
	Mesh          assets.AssetId
	Translation   mgl32.Vec3
	RotationPoint mgl32.Vec3
	RotationAxis  mgl32.Vec3
	RotationSpeed float32
	Diffuse       mgl32.Vec4
	BaseColor     *image.RGBA
	Material      core.Material
	Passes        core.PassSet
	Mirror        bool
}

// LoadScene resolves mesh ids and builds the actor registry.
func LoadScene(lib *assets.Library, def *SceneDef) (*core.Scene, error) {
	camera := def.Camera
	probe := def.Probe
	scene := core.NewScene(&camera, &probe)

	for i, ad := range def.Actors {
		mesh, ok := lib.Mesh(ad.Mesh)
		if !ok {
			return nil, fmt.Errorf("scene: actor %q references unknown mesh %s", ad.Name, ad.Mesh)
		}
		if ad.BaseColor != nil {
			for s := range mesh.Submeshes {
				mesh.Submeshes[s].BaseColor = assets.TextureSlot{Present: true, Image: ad.BaseColor}
			}
		}

		actor := &core.Actor{
			Name:              ad.Name,
			Translation:       ad.Translation,
			RotationPoint:     ad.RotationPoint,
			RotationAxis:      ad.RotationAxis,
			RotationSpeed:     ad.RotationSpeed,
			DiffuseMultiplier: ad.Diffuse,
			LocalSphere:       mesh.Bounds,
			Meshes:            []*assets.Mesh{mesh},
			Material:          ad.Material,
			Passes:            ad.Passes,
		}
		if err := scene.AddActor(actor); err != nil {
			return nil, err
		}
		if ad.Mirror {
			if scene.MirrorActor >= 0 {
				return nil, fmt.Errorf("scene: actors %q and %q both marked as mirror",
					def.Actors[scene.MirrorActor].Name, ad.Name)
			}
			scene.MirrorActor = i
		}
	}
	return scene, nil
}

// DefaultSceneDef is the demo roster: a chrome sphere in the center, a
// ground plane, and four satellites orbiting the mirror on different axes.
func DefaultSceneDef(lib *assets.Library, aspect float32) *SceneDef {
	mirrorMesh := lib.CreateSphereMesh(200, 48, 32)
	groundMesh := lib.CreatePlaneMesh(4000, 4000, 16)
	satSphere := lib.CreateSphereMesh(90, 32, 24)
	satBox := lib.CreateBoxMesh(140, 140, 140)

	def := &SceneDef{
		Camera: core.Camera{
			Position: mgl32.Vec3{0, 300, -550},
			Target:   mgl32.Vec3{0, -250, 1000},
			HalfFovY: mgl32.DegToRad(65) / 2,
			Aspect:   aspect,
			Near:     50,
			Far:      3000,
		},
		Probe: core.Probe{
			Near: 50,
			Far:  3000,
		},
		LightPosition: mgl32.Vec4{0, 900, -700, 1},
		LightColor:    mgl32.Vec4{1, 1, 1, 1},
		AmbientColor:  mgl32.Vec4{0.12, 0.12, 0.14, 1},
	}

	def.Actors = append(def.Actors, ActorDef{
		Name:     "mirror",
		Mesh:     mirrorMesh,
		Diffuse:  mgl32.Vec4{1, 1, 1, 1},
		Material: core.MaterialMirror,
		Passes:   core.PassFinal,
		Mirror:   true,
	})

	def.Actors = append(def.Actors, ActorDef{
		Name:        "ground",
		Mesh:        groundMesh,
		Translation: mgl32.Vec3{0, -250, 0},
		Diffuse:     mgl32.Vec4{0.7, 0.7, 0.65, 1},
		BaseColor: assets.CheckerTexture(256, 16,
			color.RGBA{92, 92, 96, 255},
			color.RGBA{176, 176, 168, 255}),
		Material: core.MaterialGround,
		Passes:   core.PassAll,
	})

	type satellite struct {
		name    string
		mesh    assets.AssetId
		radius  float32
		axis    mgl32.Vec3
		speed   float32
		phase   float32
		diffuse mgl32.Vec4
	}
	sats := []satellite{
		{"sat-red", satSphere, 425, mgl32.Vec3{0, 1, 0}, 1.0, 0, mgl32.Vec4{0.9, 0.25, 0.2, 1}},
		{"sat-green", satBox, 600, mgl32.Vec3{0, 1, 0.25}, -0.7, math.Pi / 2, mgl32.Vec4{0.25, 0.8, 0.3, 1}},
		{"sat-blue", satSphere, 800, mgl32.Vec3{0.2, 1, 0}, 0.45, math.Pi, mgl32.Vec4{0.25, 0.35, 0.9, 1}},
		{"sat-gold", satBox, 1000, mgl32.Vec3{0, 1, -0.2}, -0.3, 3 * math.Pi / 2, mgl32.Vec4{0.9, 0.75, 0.25, 1}},
	}
	for _, s := range sats {
		x := s.radius * float32(math.Cos(float64(s.phase)))
		z := s.radius * float32(math.Sin(float64(s.phase)))
		def.Actors = append(def.Actors, ActorDef{
			Name:          s.name,
			Mesh:          s.mesh,
			Translation:   mgl32.Vec3{x, 0, z},
			RotationAxis:  s.axis,
			RotationSpeed: s.speed,
			Diffuse:       s.diffuse,
			Material:      core.MaterialLit,
			Passes:        core.PassAll,
		})
	}

	return def
}
