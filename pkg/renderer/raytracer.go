package renderer

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/df07/go-pinhole-raytracer/pkg/core"
	"github.com/df07/go-pinhole-raytracer/pkg/geometry"
)

// ErrInvalidConfig is returned when a RenderConfig cannot be used
var ErrInvalidConfig = errors.New("invalid render config")

// RenderConfig contains rendering configuration
type RenderConfig struct {
	Width      int     // Image width
	Height     int     // Image height
	ColorScale float64 // Multiplier from [0,1] channels to integers (core.ColorScale)
	NumWorkers int     // Number of parallel row workers (0 = use CPU count, 1 = sequential)
}

// DefaultRenderConfig returns sensible default values
func DefaultRenderConfig(width, height int) RenderConfig {
	return RenderConfig{
		Width:      width,
		Height:     height,
		ColorScale: core.ColorScale,
		NumWorkers: 0,
	}
}

// Validate checks the config before rendering
func (c RenderConfig) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: image size must be positive, got %dx%d", ErrInvalidConfig, c.Width, c.Height)
	}
	if !(c.ColorScale > 0) {
		return fmt.Errorf("%w: color scale must be positive, got %v", ErrInvalidConfig, c.ColorScale)
	}
	return nil
}

// Raytracer casts one ray per pixel and shades it with a pluggable strategy
type Raytracer struct {
	world  World
	camera *geometry.Camera
	shader Shader
	config RenderConfig
	logger core.Logger
}

// NewRaytracer creates a new raytracer
func NewRaytracer(world World, camera *geometry.Camera, shader Shader, config RenderConfig, logger core.Logger) *Raytracer {
	if logger == nil {
		logger = NewDefaultLogger()
	}
	return &Raytracer{
		world:  world,
		camera: camera,
		shader: shader,
		config: config,
		logger: logger,
	}
}

// numWorkers resolves the configured worker count
func (rt *Raytracer) numWorkers() int {
	workers := rt.config.NumWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return min(workers, rt.config.Height)
}

// Render produces the full image. Output row r holds camera row y = Height-1-r,
// so the top of the viewport comes first, and pixels run left to right.
// Rows may render in parallel; each goroutine writes only its own row.
func (rt *Raytracer) Render(ctx context.Context) (*Image, RenderStats, error) {
	if err := rt.config.Validate(); err != nil {
		return nil, RenderStats{}, err
	}

	startTime := time.Now()
	img := NewImage(rt.config.Width, rt.config.Height)
	rows := make([]rowStats, rt.config.Height)
	workers := rt.numWorkers()

	rt.logger.Printf("Rendering %dx%d using %d workers...\n", rt.config.Width, rt.config.Height, workers)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for row := 0; row < rt.config.Height; row++ {
		if gctx.Err() != nil {
			break
		}
		row := row // per-iteration copy; go directive is below 1.22
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			stats, err := rt.renderRow(row, img.Row(row))
			if err != nil {
				return err
			}
			rows[row] = stats
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, RenderStats{}, err
	}
	// g.Wait does not report a cancel that happened before any row started
	if err := ctx.Err(); err != nil {
		return nil, RenderStats{}, err
	}

	stats := RenderStats{
		TotalPixels: rt.config.Width * rt.config.Height,
		Workers:     workers,
	}
	for _, row := range rows {
		stats.merge(row)
	}
	stats.Elapsed = time.Since(startTime)

	rt.logger.Printf("Render completed in %v (%d hits, %d misses)\n", stats.Elapsed, stats.Hits, stats.Misses)
	return img, stats, nil
}

// renderRow shades output row `row` into dst
func (rt *Raytracer) renderRow(row int, dst []core.Color) (rowStats, error) {
	var stats rowStats
	world := &countingWorld{world: rt.world}
	y := rt.config.Height - 1 - row

	for x := 0; x < rt.config.Width; x++ {
		color, err := rt.ShadePixel(x, y, world)
		if err != nil {
			return stats, fmt.Errorf("pixel (%d, %d): %w", x, y, err)
		}
		dst[x] = color

		if world.lastHit {
			stats.hits++
		} else {
			stats.misses++
		}
		world.lastHit = false
	}
	return stats, nil
}

// SampleAt returns the viewport sample for camera pixel (x, y), y counted from the bottom
func (rt *Raytracer) SampleAt(x, y int) Sample {
	u := float64(x) / float64(rt.config.Width)
	v := float64(y) / float64(rt.config.Height)

	return Sample{
		X:   x,
		Y:   y,
		U:   u,
		V:   v,
		Ray: rt.camera.GetRay(u, v),
	}
}

// ShadePixel maps camera pixel (x, y), y counted from the bottom, to a colour
func (rt *Raytracer) ShadePixel(x, y int, world World) (core.Color, error) {
	colorVec, err := rt.shader.Shade(rt.SampleAt(x, y), world)
	if err != nil {
		return core.Color{}, err
	}
	if !colorVec.IsFinite() {
		return core.Color{}, fmt.Errorf("shader produced non-finite colour %v", colorVec)
	}
	return core.ToColor(colorVec, rt.config.ColorScale), nil
}

// countingWorld records whether the shader's last query hit anything.
// One instance is used per row, so it is never shared between goroutines.
type countingWorld struct {
	world   World
	lastHit bool
}

func (c *countingWorld) Hit(ray core.Ray) (geometry.Intersection, bool) {
	hit, isHit := c.world.Hit(ray)
	c.lastHit = c.lastHit || isHit
	return hit, isHit
}
