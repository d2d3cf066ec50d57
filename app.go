package cubeprobe

import (
	"fmt"
	"image"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gekko3d/cubeprobe/assets"
	"github.com/gekko3d/cubeprobe/core"
	"github.com/gekko3d/cubeprobe/gpu"
	"github.com/gekko3d/cubeprobe/params"
)

// App owns the window, the WebGPU device, and the frame loop. Everything
// GPU-fallible is created in Init; once Render starts there are no
// recoverable error paths left, only capacity checks.
type App struct {
	Window   *glfw.Window
	Instance *wgpu.Instance
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue
	Surface  *wgpu.Surface
	Config   *wgpu.SurfaceConfiguration

	Library *assets.Library
	Scene   *core.Scene
	Light   params.FrameParams
	// GroundTexture, when set before Init, replaces the procedural checker
	// on the ground plane.
	GroundTexture *image.RGBA

	Packer     *params.Packer
	Gate       *params.FrameGate
	Buffers    *gpu.BufferSet
	Pipelines  *gpu.PipelineSet
	Targets    *gpu.Targets
	Dispatcher *gpu.Dispatcher

	Log Logger

	frame          uint64
	FrameCount     int
	FPS            float64
	FPSTime        float64
	LastRenderTime float64
}

func NewApp(window *glfw.Window, logger Logger) *App {
	if logger == nil {
		logger = NewNopLogger()
	}
	return &App{
		Window:  window,
		Library: assets.NewLibrary(),
		Packer:  params.NewPacker(),
		Gate:    params.NewFrameGate(),
		Log:     logger,
	}
}

func (a *App) Init() error {
	a.Instance = wgpu.CreateInstance(nil)

	a.Surface = a.Instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(a.Window))

	adapter, err := a.Instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: a.Surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return fmt.Errorf("request adapter: %w", err)
	}
	a.Adapter = adapter

	a.Device, err = adapter.RequestDevice(nil)
	if err != nil {
		return fmt.Errorf("request device: %w", err)
	}
	a.Queue = a.Device.GetQueue()

	width, height := a.Window.GetFramebufferSize()
	caps := a.Surface.GetCapabilities(adapter)
	a.Config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	a.Surface.Configure(adapter, a.Device, a.Config)

	a.Pipelines, err = gpu.NewPipelineSet(a.Device, a.Config.Format)
	if err != nil {
		return err
	}
	a.Buffers, err = gpu.NewBufferSet(a.Device)
	if err != nil {
		return err
	}
	a.Targets, err = gpu.NewTargets(a.Device, a.Config.Width, a.Config.Height)
	if err != nil {
		return err
	}
	a.Dispatcher, err = gpu.NewDispatcher(a.Device, a.Pipelines, a.Buffers, a.Targets)
	if err != nil {
		return err
	}

	aspect := float32(width) / float32(height)
	def := DefaultSceneDef(a.Library, aspect)
	if a.GroundTexture != nil {
		for i := range def.Actors {
			if def.Actors[i].Name == "ground" {
				def.Actors[i].BaseColor = a.GroundTexture
			}
		}
	}
	a.Scene, err = LoadScene(a.Library, def)
	if err != nil {
		return err
	}
	a.Light = params.FrameParams{
		LightPosition: def.LightPosition,
		LightColor:    def.LightColor,
		AmbientColor:  def.AmbientColor,
	}

	uploader, err := gpu.NewUploader(a.Device, a.Queue, a.Pipelines.SceneMaterialLayout, a.Pipelines.Sampler)
	if err != nil {
		return err
	}
	for _, actor := range a.Scene.Actors {
		for _, src := range actor.Meshes {
			uploaded, err := uploader.Upload(src)
			if err != nil {
				return fmt.Errorf("upload mesh for actor %q: %w", actor.Name, err)
			}
			a.Dispatcher.RegisterMesh(src, uploaded)
		}
	}

	a.Log.Infof("renderer ready: %d actors, surface %dx%d", len(a.Scene.Actors), width, height)
	return nil
}

func (a *App) Resize(width, height int) {
	if width == 0 || height == 0 {
		return
	}
	a.Config.Width = uint32(width)
	a.Config.Height = uint32(height)
	a.Surface.Configure(a.Adapter, a.Device, a.Config)
	if err := a.Targets.Resize(a.Device, a.Config.Width, a.Config.Height); err != nil {
		a.Log.Errorf("resize depth target: %v", err)
	}
	a.Scene.Camera.Aspect = float32(width) / float32(height)
}

// Render produces one frame. The gate blocks until the oldest in-flight
// frame's GPU work has retired, which hands this frame's ring slot back to
// the CPU; the reflection command buffer is submitted before the final pass
// is even encoded so the GPU starts early.
func (a *App) Render() {
	a.Gate.Acquire()
	slot := params.SlotForFrame(a.frame)
	a.frame++

	a.Scene.Advance()
	a.Scene.UpdateVisibility()

	fp := a.Light
	fp.Time = float32(glfw.GetTime())
	if err := a.Packer.PackScene(slot, a.Scene, fp); err != nil {
		a.Log.Errorf("pack frame: %v", err)
		a.Gate.Release()
		return
	}
	a.Buffers.Upload(a.Queue, slot, a.Packer)

	reflEnc, err := a.Device.CreateCommandEncoder(nil)
	if err != nil {
		a.Log.Errorf("reflection encoder: %v", err)
		a.Gate.Release()
		return
	}
	if err := a.Dispatcher.EncodeReflectionPass(reflEnc, slot, a.Scene.Actors); err != nil {
		a.Log.Errorf("encode reflection pass: %v", err)
		a.Gate.Release()
		return
	}
	reflCmd, err := reflEnc.Finish(nil)
	if err != nil {
		a.Log.Errorf("finish reflection commands: %v", err)
		a.Gate.Release()
		return
	}
	a.Queue.Submit(reflCmd)

	// From here on the reflection submission references this ring slot, so
	// every exit, error or not, must wait for the GPU before returning the
	// token.
	releaseWhenRetired := func() {
		a.Gate.ReleaseAfter(func() { a.Device.Poll(true, nil) })
	}

	surfaceTexture, err := a.Surface.GetCurrentTexture()
	if err != nil {
		a.Log.Errorf("get surface texture: %v", err)
		releaseWhenRetired()
		return
	}
	defer surfaceTexture.Release()

	surfaceView, err := surfaceTexture.CreateView(nil)
	if err != nil {
		a.Log.Errorf("surface view: %v", err)
		releaseWhenRetired()
		return
	}
	defer surfaceView.Release()

	finalEnc, err := a.Device.CreateCommandEncoder(nil)
	if err != nil {
		a.Log.Errorf("final encoder: %v", err)
		releaseWhenRetired()
		return
	}
	if err := a.Dispatcher.EncodeFinalPass(finalEnc, slot, a.Scene.Actors, surfaceView); err != nil {
		a.Log.Errorf("encode final pass: %v", err)
		releaseWhenRetired()
		return
	}
	finalCmd, err := finalEnc.Finish(nil)
	if err != nil {
		a.Log.Errorf("finish final commands: %v", err)
		releaseWhenRetired()
		return
	}
	a.Queue.Submit(finalCmd)

	// The second submission of the frame carries the release: once the
	// queue drains past it, both passes for this ring slot have retired.
	releaseWhenRetired()

	a.Surface.Present()

	now := glfw.GetTime()
	if a.LastRenderTime > 0 {
		a.FrameCount++
		a.FPSTime += now - a.LastRenderTime
		if a.FPSTime >= 1.0 {
			a.FPS = float64(a.FrameCount) / a.FPSTime
			if a.Log.DebugEnabled() {
				a.Log.Debugf("fps %.1f", a.FPS)
			}
			a.FrameCount = 0
			a.FPSTime = 0
		}
	}
	a.LastRenderTime = now
}

// Release tears down GPU resources. Outstanding frames are drained first
// so nothing is freed while the GPU still reads it.
func (a *App) Release() {
	for i := 0; i < params.MaxBuffersInFlight; i++ {
		a.Gate.Acquire()
	}
	if a.Buffers != nil {
		a.Buffers.Release()
	}
	if a.Targets != nil {
		a.Targets.Release()
	}
}
