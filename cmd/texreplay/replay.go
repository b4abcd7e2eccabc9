package main

import (
	"image"
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"os"
	"path/filepath"
	"sort"

	"github.com/eapache/queue"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp" // register decoder
	"golang.org/x/image/draw"

	"github.com/gogpu/guitex"
	"github.com/gogpu/guitex/backend/wgpu"
)

// native is a texture the replayer creates in the role of the host
// application. The replayer destroys tex after removing it from the pool.
type native struct {
	id  guitex.TextureID
	tex *wgpu.Texture
}

// Replayer feeds script frames to a TexturePool one at a time.
type Replayer struct {
	dev     *wgpu.Device
	pool    *guitex.TexturePool
	frames  *queue.Queue
	baseDir string

	natives map[string]native
	managed map[guitex.TextureID]struct{}
	played  int
}

// NewReplayer queues the frames of s for replay on dev. Image paths in
// the script are resolved against baseDir.
func NewReplayer(dev *wgpu.Device, s *Script, baseDir string) *Replayer {
	q := queue.New()
	for i := range s.Frames {
		q.Add(&s.Frames[i])
	}
	return &Replayer{
		dev:     dev,
		pool:    guitex.NewTexturePool(dev, guitex.WithLabel("texreplay"), guitex.WithLimits(dev.Limits())),
		frames:  q,
		baseDir: baseDir,
		natives: make(map[string]native),
		managed: make(map[guitex.TextureID]struct{}),
	}
}

// Pool returns the pool frames are replayed into.
func (r *Replayer) Pool() *guitex.TexturePool { return r.pool }

// Pending returns the number of frames not replayed yet.
func (r *Replayer) Pending() int { return r.frames.Length() }

// Played returns the number of frames replayed so far.
func (r *Replayer) Played() int { return r.played }

// Run replays all pending frames.
func (r *Replayer) Run() error {
	for r.frames.Length() > 0 {
		if err := r.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Step replays the next frame. It does nothing when no frame is pending.
func (r *Replayer) Step() error {
	if r.frames.Length() == 0 {
		return nil
	}
	f := r.frames.Remove().(*Frame)
	n := r.played
	r.played++

	for _, spec := range f.Register {
		if err := r.register(spec); err != nil {
			return errors.Wrapf(err, "frame %d: register %q", n, spec.Name)
		}
	}

	delta, err := r.delta(f)
	if err != nil {
		return errors.Wrapf(err, "frame %d", n)
	}
	if err := r.pool.Update(delta); err != nil {
		return errors.Wrapf(err, "frame %d", n)
	}

	for _, name := range f.Remove {
		if err := r.remove(name); err != nil {
			return errors.Wrapf(err, "frame %d", n)
		}
	}
	guitex.Logger().Debug("texreplay: frame replayed", "frame", n, "stats", r.pool.Stats().String())
	return nil
}

// resolve maps a script id to a TextureID.
func (r *Replayer) resolve(s string) (guitex.TextureID, error) {
	if id, ok := ParseManagedID(s); ok {
		return id, nil
	}
	if nt, ok := r.natives[s]; ok {
		return nt.id, nil
	}
	return guitex.TextureID{}, errors.Errorf("unknown texture %q", s)
}

func (r *Replayer) delta(f *Frame) (guitex.TexturesDelta, error) {
	var d guitex.TexturesDelta
	for _, e := range f.Set {
		id, err := r.resolve(e.ID)
		if err != nil {
			return d, err
		}
		img, err := e.Image()
		if err != nil {
			return d, errors.Wrapf(err, "set %q", e.ID)
		}
		delta := guitex.FullDelta(img)
		if e.Pos != nil {
			delta = guitex.PartialDelta(e.Pos[0], e.Pos[1], img)
		}
		d.Set = append(d.Set, guitex.SetEntry{ID: id, Delta: delta})
		if id.IsManaged() {
			r.managed[id] = struct{}{}
		}
	}
	for _, s := range f.Free {
		id, err := r.resolve(s)
		if err != nil {
			return d, err
		}
		d.Free = append(d.Free, id)
	}
	return d, nil
}

// register creates a native texture on the HAL device, the way a host
// application would, and registers it with the pool.
func (r *Replayer) register(spec NativeSpec) error {
	if _, dup := r.natives[spec.Name]; dup {
		return errors.New("name already registered")
	}
	img, err := r.nativeImage(spec)
	if err != nil {
		return err
	}

	w, h := img.Width(), img.Height()
	hd := r.dev.HalDevice()
	//nolint:gosec // G115: sizes validated positive
	size := hal.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1}
	raw, err := hd.CreateTexture(&hal.TextureDescriptor{
		Label:         "native_" + spec.Name,
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        guitex.TextureFormat,
		Usage:         guitex.TextureUsage | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return errors.Wrap(err, "create native texture")
	}

	rgba := img.ToRGBA()
	err = r.dev.HalQueue().WriteTexture(
		&hal.ImageCopyTexture{Texture: raw, Aspect: gputypes.TextureAspectAll},
		rgba.Pix,
		&hal.ImageDataLayout{BytesPerRow: uint32(rgba.Stride), RowsPerImage: size.Height}, //nolint:gosec // stride of a positive-size image
		&size,
	)
	if err != nil {
		hd.DestroyTexture(raw)
		return errors.Wrap(err, "upload native texture")
	}

	tex := wgpu.Wrap(raw, w, h)
	id, err := r.pool.RegisterNativeTexture(tex)
	if err != nil {
		hd.DestroyTexture(raw)
		return err
	}
	r.natives[spec.Name] = native{id: id, tex: tex}
	return nil
}

// nativeImage builds the content of a native texture: the decoded image
// file scaled to Size, or a Size rectangle of Fill.
func (r *Replayer) nativeImage(spec NativeSpec) (guitex.ColorImage, error) {
	fill, err := parseFill(spec.Fill)
	if err != nil {
		return guitex.ColorImage{}, err
	}
	if spec.Image == "" {
		return guitex.NewColorImage(spec.Size[0], spec.Size[1], fill), nil
	}

	path := spec.Image
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.baseDir, path)
	}
	src, err := decodeImage(path)
	if err != nil {
		return guitex.ColorImage{}, err
	}
	return guitex.ColorImageFromImage(scaleTo(src, spec.Size)), nil
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open image")
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode %q", path)
	}
	return img, nil
}

// scaleTo resizes src to size with bilinear filtering. A zero size, or
// the image's own size, returns src unchanged.
func scaleTo(src image.Image, size [2]int) image.Image {
	b := src.Bounds()
	if size[0] < 1 || size[1] < 1 || (size[0] == b.Dx() && size[1] == b.Dy()) {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, size[0], size[1]))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

// remove unregisters a native texture and destroys it, since the
// replayer plays the host that owns it.
func (r *Replayer) remove(name string) error {
	nt, ok := r.natives[name]
	if !ok {
		return errors.Errorf("remove: unknown native texture %q", name)
	}
	delete(r.natives, name)
	tex, ok := r.pool.RemoveNativeTexture(nt.id)
	if !ok {
		return errors.Errorf("remove: %q not registered", name)
	}
	r.dev.HalDevice().DestroyTexture(tex.(*wgpu.Texture).Raw())
	return nil
}

// Textures returns the live managed ids in ascending order and the
// registered native names in lexical order.
func (r *Replayer) Textures() (managed []guitex.TextureID, natives []string) {
	for id := range r.managed {
		if _, ok := r.pool.ShaderView(id); ok {
			managed = append(managed, id)
		}
	}
	sort.Slice(managed, func(i, j int) bool { return managed[i].Value() < managed[j].Value() })
	for name := range r.natives {
		natives = append(natives, name)
	}
	sort.Strings(natives)
	return managed, natives
}

// Close releases the pool and destroys the native textures still
// registered.
func (r *Replayer) Close() {
	r.pool.Release()
	for name, nt := range r.natives {
		r.dev.HalDevice().DestroyTexture(nt.tex.Raw())
		delete(r.natives, name)
	}
}
