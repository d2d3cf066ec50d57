package shaders

import (
	_ "embed"
)

//go:embed scene.wgsl
var SceneWGSL string

//go:embed mirror.wgsl
var MirrorWGSL string
