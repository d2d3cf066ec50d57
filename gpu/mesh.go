package gpu

import (
	"fmt"
	"image"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gekko3d/cubeprobe/assets"
)

// Submesh is the GPU half of assets.Submesh: an index buffer plus the
// material bind group with its textures resolved (absent slots fall back to
// a shared 1x1 white).
type Submesh struct {
	IndexBuffer *wgpu.Buffer
	IndexCount  uint32
	BindGroup   *wgpu.BindGroup
}

// Mesh keeps the two vertex streams and the submeshes of one uploaded model.
type Mesh struct {
	Positions *wgpu.Buffer
	Generics  *wgpu.Buffer
	Submeshes []Submesh
}

// Uploader turns assets meshes into GPU meshes. It owns the fallback white
// texture shared by every absent texture slot.
type Uploader struct {
	device    *wgpu.Device
	queue     *wgpu.Queue
	layout    *wgpu.BindGroupLayout
	sampler   *wgpu.Sampler
	whiteView *wgpu.TextureView
}

func NewUploader(device *wgpu.Device, queue *wgpu.Queue, sceneLayout *wgpu.BindGroupLayout, sampler *wgpu.Sampler) (*Uploader, error) {
	white, err := uploadTexture(device, queue, assets.WhiteTexture(), "White1x1")
	if err != nil {
		return nil, err
	}
	return &Uploader{
		device:    device,
		queue:     queue,
		layout:    sceneLayout,
		sampler:   sampler,
		whiteView: white,
	}, nil
}

func (u *Uploader) Upload(m *assets.Mesh) (*Mesh, error) {
	positions := make([][3]float32, len(m.Positions))
	for i, p := range m.Positions {
		positions[i] = [3]float32{p.X(), p.Y(), p.Z()}
	}

	posBuf, err := u.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "MeshPositions",
		Contents: wgpu.ToBytes(positions),
		Usage:    wgpu.BufferUsageVertex,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: position buffer: %w", err)
	}

	genBuf, err := u.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "MeshGenerics",
		Contents: wgpu.ToBytes(m.Generics),
		Usage:    wgpu.BufferUsageVertex,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: generics buffer: %w", err)
	}

	out := &Mesh{Positions: posBuf, Generics: genBuf}
	for i, sm := range m.Submeshes {
		idxBuf, err := u.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
			Label:    "SubmeshIndices",
			Contents: wgpu.ToBytes(sm.Indices),
			Usage:    wgpu.BufferUsageIndex,
		})
		if err != nil {
			return nil, fmt.Errorf("gpu: index buffer for submesh %d: %w", i, err)
		}

		bg, err := u.materialBindGroup(sm)
		if err != nil {
			return nil, fmt.Errorf("gpu: material for submesh %d: %w", i, err)
		}

		out.Submeshes = append(out.Submeshes, Submesh{
			IndexBuffer: idxBuf,
			IndexCount:  uint32(len(sm.Indices)),
			BindGroup:   bg,
		})
	}
	return out, nil
}

func (u *Uploader) materialBindGroup(sm assets.Submesh) (*wgpu.BindGroup, error) {
	slotView := func(slot assets.TextureSlot, label string) (*wgpu.TextureView, error) {
		if !slot.Present {
			return u.whiteView, nil
		}
		return uploadTexture(u.device, u.queue, slot.Image, label)
	}

	base, err := slotView(sm.BaseColor, "BaseColor")
	if err != nil {
		return nil, err
	}
	normal, err := slotView(sm.Normal, "Normal")
	if err != nil {
		return nil, err
	}
	specular, err := slotView(sm.Specular, "Specular")
	if err != nil {
		return nil, err
	}

	return u.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "SubmeshMaterial",
		Layout: u.layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: base},
			{Binding: 1, TextureView: normal},
			{Binding: 2, TextureView: specular},
			{Binding: 3, Sampler: u.sampler},
		},
	})
}

func uploadTexture(device *wgpu.Device, queue *wgpu.Queue, img *image.RGBA, label string) (*wgpu.TextureView, error) {
	w := uint32(img.Bounds().Dx())
	h := uint32(img.Bounds().Dy())
	extent := wgpu.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1}

	tex, err := device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         label,
		Size:          extent,
		Format:        wgpu.TextureFormatRGBA8Unorm,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension:     wgpu.TextureDimension2D,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create texture %s: %w", label, err)
	}

	queue.WriteTexture(tex.AsImageCopy(), img.Pix, &wgpu.TextureDataLayout{
		Offset:       0,
		BytesPerRow:  w * 4,
		RowsPerImage: h,
	}, &extent)

	view, err := tex.CreateView(nil)
	if err != nil {
		return nil, fmt.Errorf("gpu: texture view %s: %w", label, err)
	}
	return view, nil
}
