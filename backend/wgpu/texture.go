package wgpu

import (
	"unsafe"

	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/guitex"
)

// Texture is a HAL texture usable by guitex.
//
// A Texture is either created by Device.CreateTexture, in which case the
// pool owns it, or wraps a texture of the host application (see Wrap).
type Texture struct {
	raw    hal.Texture
	width  int
	height int

	// owner is the device that created raw, nil for wrapped textures.
	owner *Device

	// staging backs the slice returned by MapDiscard. It is kept between
	// mappings to avoid reallocating for every patch.
	staging []guitex.Color32
	mapped  bool
}

// Wrap makes a texture created by the host application usable with
// TexturePool.RegisterNativeTexture. The texture must be RGBA8 with
// TextureBinding usage. guitex never destroys it.
func Wrap(raw hal.Texture, width, height int) *Texture {
	return &Texture{raw: raw, width: width, height: height}
}

// Width returns the texture width in pixels.
func (t *Texture) Width() int { return t.width }

// Height returns the texture height in pixels.
func (t *Texture) Height() int { return t.height }

// Raw returns the underlying HAL texture, or nil once destroyed.
func (t *Texture) Raw() hal.Texture { return t.raw }

// View is a shader view of a Texture, bound by the draw stage.
type View struct {
	raw hal.TextureView
	tex *Texture
}

// Raw returns the underlying HAL texture view.
func (v *View) Raw() hal.TextureView { return v.raw }

// Texture returns the texture the view samples.
func (v *View) Texture() *Texture { return v.tex }

// pixelBytes reinterprets pixels as RGBA8 bytes without copying.
// Color32 is four uint8 fields with no padding.
func pixelBytes(px []guitex.Color32) []byte {
	if len(px) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&px[0])), len(px)*4) //nolint:gosec // Color32 layout is RGBA8
}
