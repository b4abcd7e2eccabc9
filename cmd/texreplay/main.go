// Command texreplay replays a scripted stream of GUI texture deltas
// against a guitex pool on the software GPU backend and writes the
// resulting textures to image files.
//
// Usage:
//
//	texreplay -script frames.yaml -out out/ [-format png|bmp] [-v]
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gogpu/guitex"
	"github.com/gogpu/guitex/backend/wgpu"
)

func main() {
	var (
		script  = flag.String("script", "", "YAML script to replay (required)")
		out     = flag.String("out", "texreplay_out", "output directory")
		format  = flag.String("format", "png", "output image format: png or bmp")
		verbose = flag.Bool("v", false, "debug logging to stderr")
	)
	flag.Parse()

	if *script == "" {
		flag.Usage()
		os.Exit(2)
	}
	if _, ok := encoders[*format]; !ok {
		log.Fatalf("Unsupported format %q", *format)
	}
	if *verbose {
		guitex.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	s, err := LoadScript(*script)
	if err != nil {
		log.Fatalf("Failed to load: %v", err)
	}

	dev, cleanup, err := wgpu.OpenSoftware()
	if err != nil {
		log.Fatalf("Failed to open device: %v", err)
	}
	defer cleanup()

	r := NewReplayer(dev, s, filepath.Dir(*script))
	defer r.Close()

	if err := r.Run(); err != nil {
		log.Fatalf("Replay failed: %v", err)
	}

	paths, err := WriteTextures(r, *out, *format)
	if err != nil {
		log.Fatalf("Failed to write textures: %v", err)
	}

	log.Printf("Replayed %d frames, wrote %d textures to %s\n", r.Played(), len(paths), *out)
	log.Printf("%s\n", r.Pool().Stats())
}
