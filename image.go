package guitex

import (
	"fmt"
	"image"
	"math/bits"

	"golang.org/x/image/draw"
)

// ColorImage is a rectangular block of Color32 pixels in row-major order.
type ColorImage struct {
	// Size is [width, height] in pixels.
	Size [2]int

	// Pixels holds Size[0]*Size[1] texels, row by row.
	Pixels []Color32
}

// NewColorImage creates a w×h image filled with c.
func NewColorImage(w, h int, c Color32) ColorImage {
	if w < 0 || h < 0 {
		w, h = 0, 0
	}
	px := make([]Color32, w*h)
	if c != (Color32{}) {
		for i := range px {
			px[i] = c
		}
	}
	return ColorImage{Size: [2]int{w, h}, Pixels: px}
}

// ColorImageFromImage converts any image.Image to a ColorImage.
// The result is alpha-premultiplied, as draw.Src produces for *image.RGBA.
func ColorImageFromImage(src image.Image) ColorImage {
	b := src.Bounds()
	rgba, ok := src.(*image.RGBA)
	if !ok || rgba.Rect.Min != (image.Point{}) || rgba.Stride != 4*b.Dx() {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), src, b.Min, draw.Src)
	}

	img := ColorImage{Size: [2]int{b.Dx(), b.Dy()}, Pixels: make([]Color32, b.Dx()*b.Dy())}
	for i := range img.Pixels {
		p := rgba.Pix[i*4 : i*4+4 : i*4+4]
		img.Pixels[i] = Color32{R: p[0], G: p[1], B: p[2], A: p[3]}
	}
	return img
}

// Width returns the image width in pixels.
func (m ColorImage) Width() int { return m.Size[0] }

// Height returns the image height in pixels.
func (m ColorImage) Height() int { return m.Size[1] }

// IsEmpty reports whether the image has zero area.
func (m ColorImage) IsEmpty() bool { return m.Size[0] == 0 || m.Size[1] == 0 }

// At returns the pixel at (x, y).
// Out-of-range coordinates return Transparent.
func (m ColorImage) At(x, y int) Color32 {
	if x < 0 || y < 0 || x >= m.Size[0] || y >= m.Size[1] {
		return Transparent
	}
	return m.Pixels[y*m.Size[0]+x]
}

// Validate checks that the pixel count matches the declared size.
func (m ColorImage) Validate() error {
	if m.Size[0] < 0 || m.Size[1] < 0 {
		return fmt.Errorf("%w: size %dx%d, %d pixels",
			ErrImageSizeMismatch, m.Size[0], m.Size[1], len(m.Pixels))
	}
	if hi, lo := bits.Mul64(uint64(m.Size[0]), uint64(m.Size[1])); hi != 0 || lo != uint64(len(m.Pixels)) {
		return fmt.Errorf("%w: size %dx%d, %d pixels",
			ErrImageSizeMismatch, m.Size[0], m.Size[1], len(m.Pixels))
	}
	return nil
}

// Clone returns a deep copy of m.
func (m ColorImage) Clone() ColorImage {
	px := make([]Color32, len(m.Pixels))
	copy(px, m.Pixels)
	return ColorImage{Size: m.Size, Pixels: px}
}

// ToRGBA converts m to an *image.RGBA.
func (m ColorImage) ToRGBA() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, m.Size[0], m.Size[1]))
	for i, c := range m.Pixels {
		out.Pix[i*4+0] = c.R
		out.Pix[i*4+1] = c.G
		out.Pix[i*4+2] = c.B
		out.Pix[i*4+3] = c.A
	}
	return out
}
