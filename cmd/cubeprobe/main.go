package main

import (
	"flag"
	"os"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gekko3d/cubeprobe"
	"github.com/gekko3d/cubeprobe/assets"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	debug := flag.Bool("debug", false, "Enable debug logging")
	width := flag.Int("width", 1280, "Window width")
	height := flag.Int("height", 720, "Window height")
	groundTexture := flag.String("ground-texture", "", "PNG or JPEG for the ground plane")
	flag.Parse()

	if err := glfw.Init(); err != nil {
		panic(err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	window, err := glfw.CreateWindow(*width, *height, "Cube Probe", nil, nil)
	if err != nil {
		panic(err)
	}
	defer window.Destroy()

	logger := cubeprobe.NewDefaultLogger("cubeprobe", *debug)
	app := cubeprobe.NewApp(window, logger)
	if *groundTexture != "" {
		f, err := os.Open(*groundTexture)
		if err != nil {
			panic(err)
		}
		img, err := assets.DecodeTexture(f)
		f.Close()
		if err != nil {
			panic(err)
		}
		app.GroundTexture = img
	}
	if err := app.Init(); err != nil {
		panic(err)
	}
	defer app.Release()

	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		app.Resize(width, height)
	})
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
		}
	})

	for !window.ShouldClose() {
		glfw.PollEvents()
		app.Render()
	}
}
