package guitex

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
)

// managedTexture is a texture created and exclusively owned by the pool.
type managedTexture struct {
	tex  Texture
	view View

	// pixels mirrors the texture content. MapDiscard invalidates the
	// whole texture, so this is the only source for the pixels a patch
	// does not cover. len(pixels) == width*height at all times.
	pixels []Color32
	width  int
	height int
}

// sizeBytes returns the GPU memory held by the texture.
func (t *managedTexture) sizeBytes() uint64 {
	//nolint:gosec // G115: dimensions are validated positive
	return uint64(t.width) * uint64(t.height) * 4
}

// borrowed holds a texture owned by the host application. The pool never
// destroys it; release hands it back.
type borrowed struct {
	tex Texture
}

func (b borrowed) release() Texture { return b.tex }

// nativeEntry is a registered native texture and the view the pool made
// for it. The view is owned by the pool, the texture is not.
type nativeEntry struct {
	tex  borrowed
	view View
}

// TexturePool maps the texture ids used by a GUI framework to GPU
// textures. Managed textures are created, patched and freed by Update;
// native textures are registered and removed by the host application.
//
// A TexturePool is not safe for concurrent use. Update, ShaderView and
// draw submission must all happen on the goroutine owning the device.
type TexturePool struct {
	device Device
	opts   poolOptions

	managed      map[uint64]*managedTexture
	native       map[uint64]nativeEntry
	nextNativeID uint64

	counters poolCounters
}

// NewTexturePool creates an empty pool creating its textures on device.
func NewTexturePool(device Device, opts ...PoolOption) *TexturePool {
	if device == nil {
		panic("guitex: NewTexturePool called with nil device")
	}
	o := defaultPoolOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &TexturePool{
		device:  device,
		opts:    o,
		managed: make(map[uint64]*managedTexture),
		native:  make(map[uint64]nativeEntry),
	}
}

func (p *TexturePool) log() *slog.Logger {
	if p.opts.logger != nil {
		return p.opts.logger
	}
	return Logger()
}

// Update applies one frame's texture instructions.
//
// Set entries are applied in order; entries for User ids are ignored.
// A whole-image entry creates a new texture and replaces any previous
// texture with the same id; zero-area images are skipped. A patch entry
// updates a rectangle of an existing texture; patches for unknown ids are
// logged and dropped. Managed ids in Free are released afterwards.
//
// The first failing entry aborts the batch and its error is returned.
// Entries applied before it are kept.
func (p *TexturePool) Update(delta TexturesDelta) error {
	for _, e := range delta.Set {
		if !e.ID.IsManaged() {
			continue
		}
		id := e.ID.Value()

		if pos := e.Delta.Pos; pos != nil {
			tex, ok := p.managed[id]
			if !ok {
				p.counters.droppedPatches++
				p.log().Warn("guitex: partial update for unknown texture, ignored", "id", e.ID)
				continue
			}
			if err := p.updatePartial(tex, e.Delta.Image, *pos); err != nil {
				return fmt.Errorf("guitex: update %v: %w", e.ID, err)
			}
			continue
		}

		img := e.Delta.Image
		if img.IsEmpty() {
			p.log().Debug("guitex: zero-area texture skipped", "id", e.ID)
			continue
		}
		tex, err := p.createTexture(id, img)
		if err != nil {
			return fmt.Errorf("guitex: update %v: %w", e.ID, err)
		}
		if old, ok := p.managed[id]; ok {
			p.destroyManaged(old)
		}
		p.managed[id] = tex
		p.counters.creates++
		p.log().Debug("guitex: texture created", "id", e.ID, "width", tex.width, "height", tex.height)
	}

	for _, id := range delta.Free {
		if !id.IsManaged() {
			continue
		}
		tex, ok := p.managed[id.Value()]
		if !ok {
			continue
		}
		delete(p.managed, id.Value())
		p.destroyManaged(tex)
		p.counters.frees++
		p.log().Debug("guitex: texture freed", "id", id)
	}
	return nil
}

// createTexture creates a texture holding img and its shader view.
func (p *TexturePool) createTexture(id uint64, img ColorImage) (*managedTexture, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	w, h := img.Width(), img.Height()
	if uint64(w) > math.MaxUint32 || uint64(h) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %dx%d", ErrTextureTooLarge, w, h)
	}
	if maxDim := int64(p.opts.limits.MaxTextureDimension2D); maxDim > 0 &&
		(int64(w) > maxDim || int64(h) > maxDim) {
		return nil, fmt.Errorf("%w: %dx%d, max %d", ErrTextureTooLarge, w, h, maxDim)
	}

	pixels := make([]Color32, len(img.Pixels))
	copy(pixels, img.Pixels)

	tex, err := p.device.CreateTexture(&TextureDesc{
		Label:  p.opts.label + "_managed_" + strconv.FormatUint(id, 10),
		Width:  w,
		Height: h,
		Format: TextureFormat,
		Usage:  TextureUsage,
	}, pixels)
	if err != nil {
		return nil, fmt.Errorf("create texture: %w", err)
	}

	view, err := p.device.CreateView(tex)
	if err != nil {
		p.device.DestroyTexture(tex)
		return nil, fmt.Errorf("create view: %w", err)
	}

	return &managedTexture{
		tex:    tex,
		view:   view,
		pixels: pixels,
		width:  w,
		height: h,
	}, nil
}

// updatePartial writes img into tex with its top-left corner at pos.
//
// The texture is mapped with discard semantics, so the whole shadow is
// copied into the mapping before the patch is overlaid. Skipping that
// copy would leave every pixel outside the patch undefined.
func (p *TexturePool) updatePartial(tex *managedTexture, img ColorImage, pos [2]int) error {
	if err := img.Validate(); err != nil {
		return err
	}
	ox, oy := pos[0], pos[1]
	pw, ph := img.Width(), img.Height()
	if ox < 0 || oy < 0 || ox > tex.width || oy > tex.height ||
		pw > tex.width-ox || ph > tex.height-oy {
		return fmt.Errorf("%w: %dx%d at (%d,%d) in %dx%d texture",
			ErrPatchOutOfBounds, pw, ph, ox, oy, tex.width, tex.height)
	}
	if pw == 0 || ph == 0 {
		return nil
	}

	mapped, err := p.device.MapDiscard(tex.tex)
	if err != nil {
		return fmt.Errorf("map texture: %w", err)
	}
	if len(mapped) < len(tex.pixels) {
		_ = p.device.Unmap(tex.tex)
		return fmt.Errorf("map texture: got %d pixels, want %d", len(mapped), len(tex.pixels))
	}

	copy(mapped, tex.pixels)
	for y := 0; y < ph; y++ {
		row := (oy+y)*tex.width + ox
		copy(mapped[row:row+pw], img.Pixels[y*pw:(y+1)*pw])
	}

	// The shadow only takes the patch once the device has it.
	if err := p.device.Unmap(tex.tex); err != nil {
		return fmt.Errorf("unmap texture: %w", err)
	}
	for y := 0; y < ph; y++ {
		row := (oy+y)*tex.width + ox
		copy(tex.pixels[row:row+pw], img.Pixels[y*pw:(y+1)*pw])
	}
	p.counters.patches++
	return nil
}

// destroyManaged releases the view and then the texture of t.
func (p *TexturePool) destroyManaged(t *managedTexture) {
	p.device.DestroyView(t.view)
	p.device.DestroyTexture(t.tex)
	*t = managedTexture{}
}

// RegisterNativeTexture makes a texture owned by the host application
// available to the GUI and returns the User id to reference it with.
//
// The pool keeps tex until RemoveNativeTexture but never destroys it.
// Ids are assigned from 0 upwards and never reused.
func (p *TexturePool) RegisterNativeTexture(tex Texture) (TextureID, error) {
	if tex == nil {
		return TextureID{}, ErrNilTexture
	}
	view, err := p.device.CreateView(tex)
	if err != nil {
		return TextureID{}, fmt.Errorf("guitex: create native view: %w", err)
	}

	id := p.nextNativeID
	p.nextNativeID++
	p.native[id] = nativeEntry{tex: borrowed{tex: tex}, view: view}
	p.log().Debug("guitex: native texture registered", "id", User(id),
		"width", tex.Width(), "height", tex.Height())
	return User(id), nil
}

// RemoveNativeTexture unregisters a native texture and returns it to the
// caller, who owns it exclusively again. It returns false if id is not
// registered.
//
// RemoveNativeTexture panics if id is a Managed id: managed textures are
// only ever released through Update.
func (p *TexturePool) RemoveNativeTexture(id TextureID) (Texture, bool) {
	if !id.IsUser() {
		panic(fmt.Sprintf("guitex: RemoveNativeTexture called with managed id %v", id))
	}
	e, ok := p.native[id.Value()]
	if !ok {
		return nil, false
	}
	delete(p.native, id.Value())
	p.device.DestroyView(e.view)
	p.log().Debug("guitex: native texture removed", "id", id)
	return e.tex.release(), true
}

// ReplaceNativeTexture swaps the texture behind an existing User id, so
// that draw calls referencing id sample tex from now on. The previous
// texture is returned to the caller.
//
// ReplaceNativeTexture panics if id is a Managed id.
func (p *TexturePool) ReplaceNativeTexture(id TextureID, tex Texture) (Texture, error) {
	if !id.IsUser() {
		panic(fmt.Sprintf("guitex: ReplaceNativeTexture called with managed id %v", id))
	}
	if tex == nil {
		return nil, ErrNilTexture
	}
	old, ok := p.native[id.Value()]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnknownTexture, id)
	}
	view, err := p.device.CreateView(tex)
	if err != nil {
		return nil, fmt.Errorf("guitex: create native view: %w", err)
	}
	p.native[id.Value()] = nativeEntry{tex: borrowed{tex: tex}, view: view}
	p.device.DestroyView(old.view)
	return old.tex.release(), nil
}

// ShaderView returns the shader resource view to bind when drawing id.
// It returns false if no texture is known under id.
func (p *TexturePool) ShaderView(id TextureID) (View, bool) {
	switch id.space {
	case spaceManaged:
		if t, ok := p.managed[id.n]; ok {
			return t.view, true
		}
	case spaceUser:
		if e, ok := p.native[id.n]; ok {
			return e.view, true
		}
	}
	return nil, false
}

// ManagedImage returns a copy of the current content of a managed
// texture, as last written to the GPU. It returns false for unknown ids
// and for User ids, whose content the pool never sees.
func (p *TexturePool) ManagedImage(id TextureID) (ColorImage, bool) {
	if !id.IsManaged() {
		return ColorImage{}, false
	}
	t, ok := p.managed[id.Value()]
	if !ok {
		return ColorImage{}, false
	}
	px := make([]Color32, len(t.pixels))
	copy(px, t.pixels)
	return ColorImage{Size: [2]int{t.width, t.height}, Pixels: px}, true
}

// Len returns the number of managed and native textures in the pool.
func (p *TexturePool) Len() (managed, native int) {
	return len(p.managed), len(p.native)
}

// Release destroys every managed texture and every view the pool created.
// Native textures are left to their owners. The pool is empty afterwards
// and may be used again; native ids keep counting from where they were.
func (p *TexturePool) Release() {
	for id, t := range p.managed {
		delete(p.managed, id)
		p.destroyManaged(t)
	}
	for id, e := range p.native {
		delete(p.native, id)
		p.device.DestroyView(e.view)
	}
}
