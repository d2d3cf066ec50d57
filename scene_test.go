package cubeprobe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/cubeprobe/assets"
	"github.com/gekko3d/cubeprobe/core"
)

func TestDefaultSceneLoads(t *testing.T) {
	lib := assets.NewLibrary()
	def := DefaultSceneDef(lib, 16.0/9.0)

	scene, err := LoadScene(lib, def)
	require.NoError(t, err)

	require.Len(t, scene.Actors, 6)
	assert.Equal(t, 0, scene.MirrorActor, "mirror sphere should be the first actor")

	mirror := scene.Actors[scene.MirrorActor]
	assert.Equal(t, core.MaterialMirror, mirror.Material)
	assert.True(t, mirror.Passes.Has(core.PassFinal))
	assert.False(t, mirror.Passes.Has(core.PassReflection),
		"mirror must not render into its own cube map")

	for _, a := range scene.Actors {
		require.NotEmpty(t, a.Meshes, "actor %s has no mesh", a.Name)
		assert.Greater(t, a.LocalSphere.W(), float32(0), "actor %s has no bounds", a.Name)
		if a.Material != core.MaterialMirror {
			assert.True(t, a.Passes.Has(core.PassReflection),
				"actor %s should appear in the reflection", a.Name)
		}
		if a.Name == "ground" {
			for _, sm := range a.Meshes[0].Submeshes {
				assert.True(t, sm.BaseColor.Present, "ground should carry the checker texture")
				assert.NotNil(t, sm.BaseColor.Image)
			}
		}
	}
}

func TestLoadSceneAppliesBaseColor(t *testing.T) {
	lib := assets.NewLibrary()
	meshID := lib.CreateBoxMesh(10, 10, 10)
	img := assets.WhiteTexture()

	_, err := LoadScene(lib, &SceneDef{Actors: []ActorDef{
		{Name: "textured", Mesh: meshID, BaseColor: img},
	}})
	require.NoError(t, err)

	mesh, ok := lib.Mesh(meshID)
	require.True(t, ok)
	for _, sm := range mesh.Submeshes {
		require.True(t, sm.BaseColor.Present)
		assert.Same(t, img, sm.BaseColor.Image)
	}
}

func TestLoadSceneUnknownMesh(t *testing.T) {
	lib := assets.NewLibrary()
	def := &SceneDef{Actors: []ActorDef{{Name: "ghost", Mesh: "no-such-mesh"}}}

	_, err := LoadScene(lib, def)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}

func TestLoadSceneRejectsTwoMirrors(t *testing.T) {
	lib := assets.NewLibrary()
	mesh := lib.CreateSphereMesh(10, 8, 8)
	def := &SceneDef{Actors: []ActorDef{
		{Name: "a", Mesh: mesh, Mirror: true},
		{Name: "b", Mesh: mesh, Mirror: true},
	}}

	_, err := LoadScene(lib, def)
	require.Error(t, err)
}

func TestDefaultSceneVisibility(t *testing.T) {
	lib := assets.NewLibrary()
	scene, err := LoadScene(lib, DefaultSceneDef(lib, 16.0/9.0))
	require.NoError(t, err)

	scene.Advance()
	scene.UpdateVisibility()

	mirror := scene.Actors[scene.MirrorActor]
	assert.True(t, mirror.VisibleInFinal, "mirror sphere must be on screen")
	assert.Zero(t, mirror.VisibleFaceCount)

	// The ground plane surrounds the probe; every cube face sees it.
	var ground *core.Actor
	for _, a := range scene.Actors {
		if a.Name == "ground" {
			ground = a
		}
	}
	require.NotNil(t, ground)
	assert.Equal(t, core.CubeFaces, ground.VisibleFaceCount)
}
