package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gekko3d/cubeprobe/core"
)

// CubeFaceSize is the edge length of each reflection cubemap face.
const CubeFaceSize = 512

// DepthFormat is shared by both passes.
const DepthFormat = wgpu.TextureFormatDepth32Float

// CubeColorFormat is the reflection target format.
const CubeColorFormat = wgpu.TextureFormatRGBA8Unorm

// Targets owns the render attachments: the 6-layer reflection cubemap with
// its depth buffer, and the final pass depth buffer sized to the surface.
type Targets struct {
	CubeColor *wgpu.Texture
	// CubeFaceViews are single-layer render views, one per face pass.
	// Layered color attachments need a device feature the renderer does not
	// require, so each face gets its own pass instead.
	CubeFaceViews [core.CubeFaces]*wgpu.TextureView
	// CubeSampleView is the cube-dimension view the mirror material samples.
	CubeSampleView *wgpu.TextureView
	// CubeDepth is shared by all face passes; each pass clears it.
	CubeDepth     *wgpu.Texture
	CubeDepthView *wgpu.TextureView

	Depth     *wgpu.Texture
	DepthView *wgpu.TextureView
}

func NewTargets(device *wgpu.Device, width, height uint32) (*Targets, error) {
	t := &Targets{}

	var err error
	t.CubeColor, err = device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "ReflectionCube",
		Size:          wgpu.Extent3D{Width: CubeFaceSize, Height: CubeFaceSize, DepthOrArrayLayers: core.CubeFaces},
		Format:        CubeColorFormat,
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding,
		Dimension:     wgpu.TextureDimension2D,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create reflection cube: %w", err)
	}

	for face := 0; face < core.CubeFaces; face++ {
		t.CubeFaceViews[face], err = t.CubeColor.CreateView(&wgpu.TextureViewDescriptor{
			Label:           fmt.Sprintf("ReflectionFace%d", face),
			Format:          CubeColorFormat,
			Dimension:       wgpu.TextureViewDimension2D,
			BaseMipLevel:    0,
			MipLevelCount:   1,
			BaseArrayLayer:  uint32(face),
			ArrayLayerCount: 1,
			Aspect:          wgpu.TextureAspectAll,
		})
		if err != nil {
			t.Release()
			return nil, fmt.Errorf("gpu: create cube face view %d: %w", face, err)
		}
	}

	t.CubeSampleView, err = t.CubeColor.CreateView(&wgpu.TextureViewDescriptor{
		Label:           "ReflectionCubeSample",
		Format:          CubeColorFormat,
		Dimension:       wgpu.TextureViewDimensionCube,
		BaseMipLevel:    0,
		MipLevelCount:   1,
		BaseArrayLayer:  0,
		ArrayLayerCount: core.CubeFaces,
		Aspect:          wgpu.TextureAspectAll,
	})
	if err != nil {
		t.Release()
		return nil, fmt.Errorf("gpu: create cube sample view: %w", err)
	}

	t.CubeDepth, err = device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "ReflectionDepth",
		Size:          wgpu.Extent3D{Width: CubeFaceSize, Height: CubeFaceSize, DepthOrArrayLayers: 1},
		Format:        DepthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
		Dimension:     wgpu.TextureDimension2D,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		t.Release()
		return nil, fmt.Errorf("gpu: create cube depth: %w", err)
	}

	t.CubeDepthView, err = t.CubeDepth.CreateView(nil)
	if err != nil {
		t.Release()
		return nil, fmt.Errorf("gpu: create cube depth view: %w", err)
	}

	if err := t.resizeDepth(device, width, height); err != nil {
		t.Release()
		return nil, err
	}
	return t, nil
}

// Resize recreates the final-pass depth buffer after the surface changes.
// The cubemap is fixed-size and untouched.
func (t *Targets) Resize(device *wgpu.Device, width, height uint32) error {
	if t.DepthView != nil {
		t.DepthView.Release()
		t.DepthView = nil
	}
	if t.Depth != nil {
		t.Depth.Release()
		t.Depth = nil
	}
	return t.resizeDepth(device, width, height)
}

func (t *Targets) resizeDepth(device *wgpu.Device, width, height uint32) error {
	var err error
	t.Depth, err = device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "FinalDepth",
		Size:          wgpu.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		Format:        DepthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
		Dimension:     wgpu.TextureDimension2D,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return fmt.Errorf("gpu: create final depth: %w", err)
	}
	t.DepthView, err = t.Depth.CreateView(nil)
	if err != nil {
		return fmt.Errorf("gpu: create final depth view: %w", err)
	}
	return nil
}

func (t *Targets) Release() {
	views := []*wgpu.TextureView{t.CubeSampleView, t.CubeDepthView, t.DepthView}
	views = append(views, t.CubeFaceViews[:]...)
	for _, v := range views {
		if v != nil {
			v.Release()
		}
	}
	for _, tex := range []*wgpu.Texture{t.CubeColor, t.CubeDepth, t.Depth} {
		if tex != nil {
			tex.Release()
		}
	}
}
