package main

import (
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/guitex"
)

// Script is a recorded stream of texture deltas.
//
//	frames:
//	  - set:
//	      - {id: "managed:0", size: [4, 4], fill: "#000"}
//	      - {id: "managed:0", size: [2, 2], pos: [1, 1], fill: "#fff"}
//	    register:
//	      - {name: video, size: [64, 64], image: frame.png}
//	  - free: ["managed:0"]
//	    remove: [video]
type Script struct {
	Frames []Frame `yaml:"frames"`
}

// Frame holds the instructions of one GUI frame. Native textures are
// registered first, then Set and Free are applied as one TexturesDelta,
// then native textures are removed.
type Frame struct {
	Set      []SetSpec    `yaml:"set"`
	Free     []string     `yaml:"free"`
	Register []NativeSpec `yaml:"register"`
	Remove   []string     `yaml:"remove"`
}

// SetSpec describes one set entry. Without Pos it is a full replace.
type SetSpec struct {
	ID      string  `yaml:"id"`
	Size    [2]int  `yaml:"size"`
	Pos     *[2]int `yaml:"pos,omitempty"`
	Fill    string  `yaml:"fill,omitempty"`
	Pattern string  `yaml:"pattern,omitempty"`
}

// NativeSpec describes a texture the host application creates and
// registers with the pool.
type NativeSpec struct {
	Name  string `yaml:"name"`
	Size  [2]int `yaml:"size"`
	Fill  string `yaml:"fill,omitempty"`
	Image string `yaml:"image,omitempty"`
}

const managedPrefix = "managed:"

// LoadScript reads and validates a script file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read script")
	}
	s, err := ParseScript(data)
	if err != nil {
		return nil, errors.Wrapf(err, "script %q", path)
	}
	return s, nil
}

// ParseScript decodes and validates a YAML script.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(err, "failed to decode yaml")
	}
	for i, f := range s.Frames {
		if err := f.validate(); err != nil {
			return nil, errors.Wrapf(err, "frame %d", i)
		}
	}
	return &s, nil
}

func (f *Frame) validate() error {
	for i, e := range f.Set {
		if e.ID == "" {
			return errors.Errorf("set %d: missing id", i)
		}
		if e.Size[0] < 0 || e.Size[1] < 0 {
			return errors.Errorf("set %d: negative size %v", i, e.Size)
		}
		if _, err := e.Image(); err != nil {
			return errors.Wrapf(err, "set %d", i)
		}
	}
	for i, n := range f.Register {
		if n.Name == "" || strings.HasPrefix(n.Name, managedPrefix) {
			return errors.Errorf("register %d: invalid name %q", i, n.Name)
		}
		if n.Image == "" && (n.Size[0] < 1 || n.Size[1] < 1) {
			return errors.Errorf("register %q: size %v without image", n.Name, n.Size)
		}
		if _, err := parseFill(n.Fill); err != nil {
			return errors.Wrapf(err, "register %q", n.Name)
		}
	}
	return nil
}

// ParseManagedID parses "managed:N". It returns false for anything else,
// which the replayer treats as a native texture name.
func ParseManagedID(s string) (guitex.TextureID, bool) {
	rest, ok := strings.CutPrefix(s, managedPrefix)
	if !ok {
		return guitex.TextureID{}, false
	}
	n, err := strconv.ParseUint(rest, 10, 64)
	if err != nil {
		return guitex.TextureID{}, false
	}
	return guitex.Managed(n), true
}

func parseFill(fill string) (guitex.Color32, error) {
	if fill == "" {
		return guitex.Transparent, nil
	}
	c, ok := guitex.Hex(fill)
	if !ok {
		return guitex.Color32{}, errors.Errorf("invalid fill color %q", fill)
	}
	return c, nil
}

// Image builds the pixels of e from its fill color or pattern.
func (e SetSpec) Image() (guitex.ColorImage, error) {
	fill, err := parseFill(e.Fill)
	if err != nil {
		return guitex.ColorImage{}, err
	}
	w, h := e.Size[0], e.Size[1]
	img := guitex.NewColorImage(w, h, fill)

	switch e.Pattern {
	case "":
	case "checker":
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if (x+y)%2 == 1 {
					img.Pixels[y*w+x] = guitex.White
				} else {
					img.Pixels[y*w+x] = guitex.Black
				}
			}
		}
	case "gradient":
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				img.Pixels[y*w+x] = guitex.RGBA(ramp(x, w), ramp(y, h), 0, 255)
			}
		}
	default:
		return guitex.ColorImage{}, errors.Errorf("unknown pattern %q", e.Pattern)
	}
	return img, nil
}

// ramp maps i in [0, n) onto [0, 255].
func ramp(i, n int) uint8 {
	if n < 2 {
		return 0
	}
	return uint8(i * 255 / (n - 1)) //nolint:gosec // i < n
}
