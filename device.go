package guitex

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// Texture is a GPU texture object created by a Device, or supplied by the
// host application as a native texture.
type Texture = gpucontext.Texture

// View is a shader-bindable handle derived from a Texture.
//
// View is a type token: the concrete type is defined by the Device that
// created it, and the draw stage type-asserts to that type when binding.
type View interface{}

// TextureFormat is the only pixel format the pool creates.
const TextureFormat = gputypes.TextureFormatRGBA8Unorm

// TextureUsage is the usage every managed texture is created with: it is
// sampled by shaders and written from the CPU.
const TextureUsage = gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst

// TextureDesc describes a texture to create.
type TextureDesc struct {
	// Label is an optional debug name.
	Label string

	// Width and Height are the texture size in pixels, both at least 1.
	Width  int
	Height int

	// Format is the pixel format, always TextureFormat for pool textures.
	Format gputypes.TextureFormat

	// Usage specifies how the texture will be used.
	Usage gputypes.TextureUsage
}

// Device is the GPU capability a TexturePool consumes.
//
// Implementations are used from a single goroutine, the one owning the
// device context. See backend/wgpu for an implementation on gogpu/wgpu.
type Device interface {
	// CreateTexture creates a dynamic, CPU-writable texture initialized
	// with initial, which holds exactly Width*Height pixels. initial is
	// not retained after the call returns.
	CreateTexture(desc *TextureDesc, initial []Color32) (Texture, error)

	// DestroyTexture releases a texture created by CreateTexture.
	DestroyTexture(tex Texture)

	// CreateView creates a shader resource view of tex. tex may be a
	// texture created by CreateTexture or a native texture of the host.
	CreateView(tex Texture) (View, error)

	// DestroyView releases a view created by CreateView.
	DestroyView(view View)

	// MapDiscard maps the whole of tex for CPU writes. The previous
	// contents are discarded: the returned slice holds Width*Height
	// pixels of undefined value.
	MapDiscard(tex Texture) ([]Color32, error)

	// Unmap commits the writes made through the slice returned by
	// MapDiscard. The slice must not be used afterwards.
	Unmap(tex Texture) error
}
