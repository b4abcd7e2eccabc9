package main

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"golang.org/x/image/bmp"

	"github.com/gogpu/guitex"
	"github.com/gogpu/guitex/backend/wgpu"
)

// encoders maps the -format values to image encoders.
var encoders = map[string]func(f *os.File, img image.Image) error{
	"png": func(f *os.File, img image.Image) error { return png.Encode(f, img) },
	"bmp": func(f *os.File, img image.Image) error { return bmp.Encode(f, img) },
}

// WriteTextures reads every live texture of r back from the device and
// writes it to dir as managed_<n>.<format> or native_<name>.<format>.
// It returns the paths written.
func WriteTextures(r *Replayer, dir, format string) ([]string, error) {
	encode, ok := encoders[format]
	if !ok {
		return nil, errors.Errorf("unsupported format %q", format)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create output directory")
	}

	managed, natives := r.Textures()
	var written []string
	write := func(name string, id guitex.TextureID) error {
		img, err := readback(r.Pool(), id)
		if err != nil {
			return errors.Wrapf(err, "%s", name)
		}
		path := filepath.Join(dir, name+"."+format)
		f, err := os.Create(path)
		if err != nil {
			return errors.Wrap(err, "failed to create output file")
		}
		if err := encode(f, img.ToRGBA()); err != nil {
			f.Close()
			return errors.Wrapf(err, "failed to encode %s", path)
		}
		if err := f.Close(); err != nil {
			return errors.Wrapf(err, "failed to write %s", path)
		}
		written = append(written, path)
		return nil
	}

	for _, id := range managed {
		if err := write(fmt.Sprintf("managed_%d", id.Value()), id); err != nil {
			return written, err
		}
	}
	for _, name := range natives {
		id, _ := r.resolve(name)
		if err := write("native_"+name, id); err != nil {
			return written, err
		}
	}
	return written, nil
}

// readback returns the device content of the texture bound for id.
func readback(pool *guitex.TexturePool, id guitex.TextureID) (guitex.ColorImage, error) {
	v, ok := pool.ShaderView(id)
	if !ok {
		return guitex.ColorImage{}, errors.Errorf("no texture for %v", id)
	}
	view, ok := v.(*wgpu.View)
	if !ok {
		return guitex.ColorImage{}, errors.Errorf("unexpected view type %T", v)
	}
	tex := view.Texture()
	px, ok := wgpu.Readback(tex)
	if !ok {
		return guitex.ColorImage{}, errors.New("device does not support readback")
	}
	return guitex.ColorImage{Size: [2]int{tex.Width(), tex.Height()}, Pixels: px}, nil
}
