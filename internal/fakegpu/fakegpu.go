// Package fakegpu provides an in-memory guitex.Device for tests.
//
// The device stores texture content, so tests can compare what the GPU
// would sample against what they expect. It is deliberately strict:
//   - MapDiscard fills the mapping with Poison, exposing any pixel the
//     caller forgets to rewrite;
//   - destroying a resource twice, or destroying a native texture, panics;
//   - using a destroyed texture returns ErrUseAfterFree;
//   - any operation can be made to fail once with FailNext.
package fakegpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/guitex"
)

// Poison is the value MapDiscard fills mapped memory with.
var Poison = guitex.Color32{R: 0xCD, G: 0xCD, B: 0xCD, A: 0xCD}

// Device errors.
var (
	// ErrUseAfterFree is returned when a destroyed texture is used.
	ErrUseAfterFree = errors.New("fakegpu: texture used after destroy")

	// ErrAlreadyMapped is returned by MapDiscard on a mapped texture.
	ErrAlreadyMapped = errors.New("fakegpu: texture already mapped")

	// ErrNotMapped is returned by Unmap on a texture that is not mapped.
	ErrNotMapped = errors.New("fakegpu: texture not mapped")

	// ErrForeignTexture is returned for textures another device created.
	ErrForeignTexture = errors.New("fakegpu: texture does not belong to this device")

	// ErrInvalidDesc is returned by CreateTexture for unusable descriptors.
	ErrInvalidDesc = errors.New("fakegpu: invalid texture descriptor")
)

// Op identifies a Device operation for call counting and failure injection.
type Op uint8

const (
	OpCreateTexture Op = iota
	OpDestroyTexture
	OpCreateView
	OpDestroyView
	OpMap
	OpUnmap
	opCount
)

// String returns the operation name.
func (o Op) String() string {
	switch o {
	case OpCreateTexture:
		return "CreateTexture"
	case OpDestroyTexture:
		return "DestroyTexture"
	case OpCreateView:
		return "CreateView"
	case OpDestroyView:
		return "DestroyView"
	case OpMap:
		return "MapDiscard"
	case OpUnmap:
		return "Unmap"
	default:
		return fmt.Sprintf("Op(%d)", o)
	}
}

// Texture is a texture living in Device memory.
type Texture struct {
	dev       *Device
	id        uint64
	label     string
	width     int
	height    int
	pixels    []guitex.Color32
	mapped    []guitex.Color32
	native    bool
	destroyed bool
}

// Width returns the texture width in pixels.
func (t *Texture) Width() int { return t.width }

// Height returns the texture height in pixels.
func (t *Texture) Height() int { return t.height }

// Label returns the debug label given at creation.
func (t *Texture) Label() string { return t.label }

// Native reports whether t was created with NewNativeTexture.
func (t *Texture) Native() bool { return t.native }

// Destroyed reports whether t has been destroyed.
func (t *Texture) Destroyed() bool { return t.destroyed }

// Pixels returns a copy of the texture content as the GPU would sample it.
func (t *Texture) Pixels() []guitex.Color32 {
	px := make([]guitex.Color32, len(t.pixels))
	copy(px, t.pixels)
	return px
}

// View is a shader view of a Texture.
type View struct {
	id        uint64
	tex       *Texture
	destroyed bool
}

// Texture returns the texture v was created for.
func (v *View) Texture() *Texture { return v.tex }

// Destroyed reports whether v has been destroyed.
func (v *View) Destroyed() bool { return v.destroyed }

// Device is an in-memory guitex.Device.
type Device struct {
	nextID   uint64
	textures map[*Texture]struct{}
	views    map[*View]struct{}
	calls    [opCount]int
	fail     [opCount]error
}

var _ guitex.Device = (*Device)(nil)

// New creates an empty device.
func New() *Device {
	return &Device{
		textures: make(map[*Texture]struct{}),
		views:    make(map[*View]struct{}),
	}
}

// FailNext makes the next call of op return err without side effects.
func (d *Device) FailNext(op Op, err error) {
	d.fail[op] = err
}

// Calls returns how many times op has been called, failed calls included.
func (d *Device) Calls(op Op) int {
	return d.calls[op]
}

// Live returns the number of textures created by CreateTexture and views
// created by CreateView that have not been destroyed. Native textures are
// not counted.
func (d *Device) Live() (textures, views int) {
	return len(d.textures), len(d.views)
}

// NewNativeTexture creates a texture owned by the caller, as a host
// application would, filled with c.
func (d *Device) NewNativeTexture(w, h int, c guitex.Color32) *Texture {
	d.nextID++
	img := guitex.NewColorImage(w, h, c)
	return &Texture{
		dev:    d,
		id:     d.nextID,
		label:  fmt.Sprintf("native_%d", d.nextID),
		width:  w,
		height: h,
		pixels: img.Pixels,
		native: true,
	}
}

// DestroyNativeTexture destroys a texture created by NewNativeTexture.
// It panics if t is still mapped or already destroyed.
func (d *Device) DestroyNativeTexture(t *Texture) {
	if !t.native {
		panic("fakegpu: DestroyNativeTexture called with a managed texture")
	}
	if t.destroyed {
		panic("fakegpu: native texture destroyed twice")
	}
	t.destroyed = true
}

func (d *Device) begin(op Op) error {
	d.calls[op]++
	if err := d.fail[op]; err != nil {
		d.fail[op] = nil
		return err
	}
	return nil
}

func (d *Device) texture(tex guitex.Texture) (*Texture, error) {
	t, ok := tex.(*Texture)
	if !ok || t == nil || t.dev != d {
		return nil, fmt.Errorf("%w: %T", ErrForeignTexture, tex)
	}
	if t.destroyed {
		return nil, fmt.Errorf("%w: %s", ErrUseAfterFree, t.label)
	}
	return t, nil
}

// CreateTexture implements guitex.Device.
func (d *Device) CreateTexture(desc *guitex.TextureDesc, initial []guitex.Color32) (guitex.Texture, error) {
	if err := d.begin(OpCreateTexture); err != nil {
		return nil, err
	}
	if desc == nil || desc.Width < 1 || desc.Height < 1 {
		return nil, ErrInvalidDesc
	}
	if desc.Format != guitex.TextureFormat {
		return nil, fmt.Errorf("%w: format %v", ErrInvalidDesc, desc.Format)
	}
	if len(initial) != desc.Width*desc.Height {
		return nil, fmt.Errorf("%w: %d initial pixels for %dx%d",
			ErrInvalidDesc, len(initial), desc.Width, desc.Height)
	}

	d.nextID++
	t := &Texture{
		dev:    d,
		id:     d.nextID,
		label:  desc.Label,
		width:  desc.Width,
		height: desc.Height,
		pixels: make([]guitex.Color32, len(initial)),
	}
	copy(t.pixels, initial)
	d.textures[t] = struct{}{}
	return t, nil
}

// DestroyTexture implements guitex.Device.
// It panics on native, foreign or already destroyed textures.
func (d *Device) DestroyTexture(tex guitex.Texture) {
	d.calls[OpDestroyTexture]++
	t, ok := tex.(*Texture)
	switch {
	case !ok || t == nil || t.dev != d:
		panic(fmt.Sprintf("fakegpu: DestroyTexture on foreign texture %T", tex))
	case t.native:
		panic("fakegpu: DestroyTexture on a native texture " + t.label)
	case t.destroyed:
		panic("fakegpu: texture destroyed twice " + t.label)
	}
	t.destroyed = true
	t.mapped = nil
	delete(d.textures, t)
}

// CreateView implements guitex.Device.
func (d *Device) CreateView(tex guitex.Texture) (guitex.View, error) {
	if err := d.begin(OpCreateView); err != nil {
		return nil, err
	}
	t, err := d.texture(tex)
	if err != nil {
		return nil, err
	}
	d.nextID++
	v := &View{id: d.nextID, tex: t}
	d.views[v] = struct{}{}
	return v, nil
}

// DestroyView implements guitex.Device.
// It panics on foreign or already destroyed views.
func (d *Device) DestroyView(view guitex.View) {
	d.calls[OpDestroyView]++
	v, ok := view.(*View)
	switch {
	case !ok || v == nil:
		panic(fmt.Sprintf("fakegpu: DestroyView on foreign view %T", view))
	case v.destroyed:
		panic("fakegpu: view destroyed twice")
	}
	if _, live := d.views[v]; !live {
		panic("fakegpu: DestroyView on a view of another device")
	}
	v.destroyed = true
	delete(d.views, v)
}

// MapDiscard implements guitex.Device.
// The returned memory is filled with Poison.
func (d *Device) MapDiscard(tex guitex.Texture) ([]guitex.Color32, error) {
	if err := d.begin(OpMap); err != nil {
		return nil, err
	}
	t, err := d.texture(tex)
	if err != nil {
		return nil, err
	}
	if t.mapped != nil {
		return nil, ErrAlreadyMapped
	}
	t.mapped = make([]guitex.Color32, t.width*t.height)
	for i := range t.mapped {
		t.mapped[i] = Poison
	}
	return t.mapped, nil
}

// Unmap implements guitex.Device.
func (d *Device) Unmap(tex guitex.Texture) error {
	if err := d.begin(OpUnmap); err != nil {
		return err
	}
	t, err := d.texture(tex)
	if err != nil {
		return err
	}
	if t.mapped == nil {
		return ErrNotMapped
	}
	copy(t.pixels, t.mapped)
	t.mapped = nil
	return nil
}
