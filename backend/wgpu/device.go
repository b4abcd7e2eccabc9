package wgpu

import (
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/guitex"
)

func init() {
	guitex.OnSetLogger(hal.SetLogger)
}

// Device implements guitex.Device on a HAL device and queue.
//
// Device does not own the HAL device: closing it is up to whoever opened
// it (see Open for the cleanup function it returns).
type Device struct {
	device hal.Device
	queue  hal.Queue
	limits gputypes.Limits
}

var _ guitex.Device = (*Device)(nil)

// NewDevice creates a Device using device for resource creation and
// queue for uploads. Limits default to gputypes.DefaultLimits().
func NewDevice(device hal.Device, queue hal.Queue) *Device {
	if device == nil || queue == nil {
		panic("wgpu: NewDevice called with nil device or queue")
	}
	return &Device{device: device, queue: queue, limits: gputypes.DefaultLimits()}
}

// HalDevice returns the HAL device.
func (d *Device) HalDevice() hal.Device { return d.device }

// HalQueue returns the HAL queue.
func (d *Device) HalQueue() hal.Queue { return d.queue }

// Limits returns the limits of the adapter the device was opened on, for
// use with guitex.WithLimits.
func (d *Device) Limits() gputypes.Limits { return d.limits }

// CreateTexture implements guitex.Device.
func (d *Device) CreateTexture(desc *guitex.TextureDesc, initial []guitex.Color32) (guitex.Texture, error) {
	if desc.Width < 1 || desc.Height < 1 ||
		uint64(desc.Width) > math.MaxUint32 || uint64(desc.Height) > math.MaxUint32 {
		return nil, fmt.Errorf("wgpu: invalid texture size %dx%d", desc.Width, desc.Height)
	}
	//nolint:gosec // G115: dimensions are validated to fit uint32
	size := hal.Extent3D{Width: uint32(desc.Width), Height: uint32(desc.Height), DepthOrArrayLayers: 1}

	raw, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label:         desc.Label,
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        desc.Format,
		Usage:         desc.Usage | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create texture %q: %w", desc.Label, err)
	}

	t := &Texture{raw: raw, width: desc.Width, height: desc.Height, owner: d}
	if len(initial) > 0 {
		if err := d.upload(t, initial); err != nil {
			d.device.DestroyTexture(raw)
			return nil, err
		}
	}
	guitex.Logger().Debug("wgpu: texture created", "label", desc.Label,
		"width", desc.Width, "height", desc.Height)
	return t, nil
}

// upload writes px over the whole of t.
func (d *Device) upload(t *Texture, px []guitex.Color32) error {
	if len(px) != t.width*t.height {
		return fmt.Errorf("wgpu: upload %d pixels to %dx%d texture", len(px), t.width, t.height)
	}
	//nolint:gosec // G115: dimensions are validated positive
	w, h := uint32(t.width), uint32(t.height)
	err := d.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: t.raw, MipLevel: 0, Aspect: gputypes.TextureAspectAll},
		pixelBytes(px),
		&hal.ImageDataLayout{Offset: 0, BytesPerRow: w * 4, RowsPerImage: h},
		&hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	)
	if err != nil {
		return fmt.Errorf("wgpu: write texture: %w", err)
	}
	return nil
}

// texture resolves tex to a live *Texture.
func texture(tex guitex.Texture) (*Texture, error) {
	t, ok := tex.(*Texture)
	if !ok || t == nil {
		return nil, fmt.Errorf("%w: %T", ErrForeignTexture, tex)
	}
	if t.raw == nil {
		return nil, ErrDestroyed
	}
	return t, nil
}

// DestroyTexture implements guitex.Device. Textures that were not created
// by d, including wrapped native textures, are left alone.
func (d *Device) DestroyTexture(tex guitex.Texture) {
	t, ok := tex.(*Texture)
	if !ok || t == nil || t.raw == nil {
		return
	}
	if t.owner != d {
		guitex.Logger().Warn("wgpu: refusing to destroy texture not owned by this device")
		return
	}
	d.device.DestroyTexture(t.raw)
	t.raw = nil
	t.staging = nil
	t.mapped = false
}

// CreateView implements guitex.Device.
func (d *Device) CreateView(tex guitex.Texture) (guitex.View, error) {
	t, err := texture(tex)
	if err != nil {
		return nil, err
	}
	raw, err := d.device.CreateTextureView(t.raw, &hal.TextureViewDescriptor{
		Label:         "guitex_view",
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create texture view: %w", err)
	}
	return &View{raw: raw, tex: t}, nil
}

// DestroyView implements guitex.Device.
func (d *Device) DestroyView(view guitex.View) {
	v, ok := view.(*View)
	if !ok || v == nil || v.raw == nil {
		return
	}
	d.device.DestroyTextureView(v.raw)
	v.raw = nil
}

// MapDiscard implements guitex.Device. The returned slice is zeroed.
func (d *Device) MapDiscard(tex guitex.Texture) ([]guitex.Color32, error) {
	t, err := texture(tex)
	if err != nil {
		return nil, err
	}
	if t.mapped {
		return nil, ErrAlreadyMapped
	}
	n := t.width * t.height
	if cap(t.staging) < n {
		t.staging = make([]guitex.Color32, n)
	} else {
		t.staging = t.staging[:n]
		clear(t.staging)
	}
	t.mapped = true
	return t.staging, nil
}

// Unmap implements guitex.Device. It uploads the whole staging slice.
func (d *Device) Unmap(tex guitex.Texture) error {
	t, err := texture(tex)
	if err != nil {
		return err
	}
	if !t.mapped {
		return ErrNotMapped
	}
	t.mapped = false
	return d.upload(t, t.staging)
}
