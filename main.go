package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/yt-project/meshray/internal/config"
	"github.com/yt-project/meshray/internal/logger"
	"github.com/yt-project/meshray/pkg/core"
	"github.com/yt-project/meshray/pkg/geometry"
	"github.com/yt-project/meshray/pkg/renderer"
	"github.com/yt-project/meshray/pkg/scene"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	sceneName := flag.String("scene", "hexgrid", "Scene: 'hexgrid', 'hex', 'tet' or 'wedge'")
	workers := flag.Int("workers", 0, "Worker count (0 = one per CPU)")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		fmt.Println("Mesh Ray Caster")
		fmt.Println("Usage: meshray [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Available scenes:")
		fmt.Println("  hexgrid - 8x8x8 hexahedron grid with a radial field")
		fmt.Println("  hex     - single unit hexahedron")
		fmt.Println("  tet     - single tetrahedron")
		fmt.Println("  wedge   - single triangular prism")
		fmt.Println()
		fmt.Println("Output will be saved to <output.dir>/<scene>_<timestamp>.png")
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *workers > 0 {
		cfg.Render.Workers = *workers
	}

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.LogFile)
	if err != nil {
		fmt.Printf("Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, *sceneName, log); err != nil {
		log.Error("render failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, sceneName string, log *zap.Logger) error {
	mesh, err := scene.ByName(sceneName)
	if err != nil {
		return err
	}

	buildStart := time.Now()
	bvh, err := geometry.NewMeshBVH(mesh.Vertices, mesh.Connectivity, mesh.Fields, mesh.VertsPerElement,
		&geometry.MeshBVHOptions{Logger: log})
	if err != nil {
		return err
	}
	log.Info("mesh loaded",
		zap.String("scene", sceneName),
		zap.Int("elements", bvh.ElementCount()),
		zap.Int("triangles", bvh.TriangleCount()),
		zap.Duration("buildTime", time.Since(buildStart)),
	)

	d := cfg.Camera.Direction
	camera := renderer.NewOrthoCamera(bvh.Bounds(), core.NewVec3(d[0], d[1], d[2]),
		cfg.Render.Width, cfg.Render.Height)
	caster := renderer.NewCaster(bvh, cfg.Render.Workers)

	castStart := time.Now()
	values := caster.CastShared(camera.Origins(), camera.Direction)
	log.Info("ray cast complete",
		zap.Int("rays", len(values)),
		zap.Int("workers", caster.NumWorkers()),
		zap.Duration("castTime", time.Since(castStart)),
	)

	if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(cfg.Output.Dir, fmt.Sprintf("%s_%s.png", sceneName, timestamp))

	if err := writeImage(filename, values, cfg.Render.Width, cfg.Render.Height); err != nil {
		return err
	}
	log.Info("image written", zap.String("file", filename))
	return nil
}

// writeImage tone-maps the sampled values to grayscale and writes a
// PNG. No-data rays render as black.
func writeImage(filename string, values []float64, width, height int) error {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	scale := 0.0
	if hi > lo {
		scale = 1.0 / (hi - lo)
	}

	img := image.NewGray(image.Rect(0, 0, width, height))
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		g := uint8(255 * (v - lo) * scale)
		img.SetGray(i%width, i/width, color.Gray{Y: g})
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating image file: %w", err)
	}
	defer file.Close()
	return png.Encode(file, img)
}
