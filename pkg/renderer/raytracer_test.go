package renderer

import (
	"context"
	"errors"
	"testing"

	"github.com/df07/go-pinhole-raytracer/pkg/core"
	"github.com/df07/go-pinhole-raytracer/pkg/geometry"
	"github.com/df07/go-pinhole-raytracer/pkg/scene"
)

func newTestRaytracer(s *scene.Scene, shader Shader, workers int) *Raytracer {
	config := DefaultRenderConfig(s.Width, s.Height)
	config.NumWorkers = workers
	return NewRaytracer(s, geometry.NewCamera(s.Camera), shader, config, NewDiscardLogger())
}

func TestRaytracer_SkyOnlyTwoByOne(t *testing.T) {
	s := scene.NewSkyScene()
	s.Width, s.Height = 2, 1

	img, stats, err := newTestRaytracer(s, NormalShader{}, 1).Render(context.Background())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	// u = x/width, v = 0: directions (-2,-1,-1) and (0,-1,-1)
	expected := []core.Color{{R: 218, G: 233, B: 255}, {R: 237, G: 244, B: 255}}
	if len(img.Pixels) != len(expected) {
		t.Fatalf("Expected %d pixels, got %d", len(expected), len(img.Pixels))
	}
	for i, want := range expected {
		if img.Pixels[i] != want {
			t.Errorf("Pixel %d: expected %v, got %v", i, want, img.Pixels[i])
		}
	}

	if stats.Hits != 0 || stats.Misses != 2 || stats.TotalPixels != 2 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
}

func TestRaytracer_RowOrderTopFirst(t *testing.T) {
	s := scene.NewSkyScene()
	s.Width, s.Height = 2, 2

	img, _, err := newTestRaytracer(s, UVShader{Blue: 0.2}, 1).Render(context.Background())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	// Row 0 is the top of the viewport (v = 0.5), row 1 the bottom (v = 0)
	tests := []struct {
		x, row   int
		expected core.Color
	}{
		{0, 0, core.Color{R: 0, G: 127, B: 51}},
		{1, 0, core.Color{R: 127, G: 127, B: 51}},
		{0, 1, core.Color{R: 0, G: 0, B: 51}},
		{1, 1, core.Color{R: 127, G: 0, B: 51}},
	}
	for _, tt := range tests {
		if got := img.At(tt.x, tt.row); got != tt.expected {
			t.Errorf("Pixel (%d, row %d): expected %v, got %v", tt.x, tt.row, tt.expected, got)
		}
	}
}

func TestRaytracer_CenterPixelHitsSphere(t *testing.T) {
	s := scene.NewDefaultScene()
	rt := newTestRaytracer(s, NormalShader{}, 1)

	// (100, 50) of 200x100 maps to u = v = 0.5, straight down -Z; normal there is (0,0,1)
	color, err := rt.ShadePixel(100, 50, s)
	if err != nil {
		t.Fatalf("ShadePixel failed: %v", err)
	}
	expected := core.Color{R: 127, G: 127, B: 255}
	if color != expected {
		t.Errorf("Expected %v, got %v", expected, color)
	}
}

func TestRaytracer_ParallelMatchesSequential(t *testing.T) {
	s := scene.NewSpheresScene()
	s.Width, s.Height = 64, 32

	sequential, seqStats, err := newTestRaytracer(s, NormalShader{}, 1).Render(context.Background())
	if err != nil {
		t.Fatalf("Sequential render failed: %v", err)
	}
	parallel, parStats, err := newTestRaytracer(s, NormalShader{}, 8).Render(context.Background())
	if err != nil {
		t.Fatalf("Parallel render failed: %v", err)
	}

	for i := range sequential.Pixels {
		if sequential.Pixels[i] != parallel.Pixels[i] {
			t.Fatalf("Pixel %d differs: sequential %v, parallel %v", i, sequential.Pixels[i], parallel.Pixels[i])
		}
	}
	if seqStats.Hits != parStats.Hits || seqStats.Misses != parStats.Misses {
		t.Errorf("Stats differ: sequential %+v, parallel %+v", seqStats, parStats)
	}
	if parStats.Workers != 8 {
		t.Errorf("Expected 8 workers, got %d", parStats.Workers)
	}
}

func TestRaytracer_Stats(t *testing.T) {
	s := scene.NewDefaultScene()
	s.Width, s.Height = 40, 20

	_, stats, err := newTestRaytracer(s, NormalShader{}, 0).Render(context.Background())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if stats.Hits == 0 || stats.Misses == 0 {
		t.Errorf("Expected both hits and misses, got %+v", stats)
	}
	if stats.Hits+stats.Misses != stats.TotalPixels {
		t.Errorf("Hits + misses should equal total pixels: %+v", stats)
	}
	if ratio := stats.HitRatio(); ratio <= 0 || ratio >= 1 {
		t.Errorf("Expected hit ratio in (0,1), got %f", ratio)
	}

	// The sky shader never queries the scene
	_, skyStats, err := newTestRaytracer(s, SkyShader{}, 0).Render(context.Background())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if skyStats.Hits != 0 {
		t.Errorf("Expected no hits from the sky shader, got %d", skyStats.Hits)
	}
}

func TestRaytracer_CancelledContext(t *testing.T) {
	s := scene.NewDefaultScene()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	img, _, err := newTestRaytracer(s, NormalShader{}, 2).Render(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if img != nil {
		t.Error("Expected nil image on cancellation")
	}
}

func TestRaytracer_DegenerateRayFails(t *testing.T) {
	s := scene.NewSkyScene()
	s.Width, s.Height = 4, 2
	// The lower-left pixel's direction is lowerLeftCorner - origin = 0
	s.Camera.Origin = s.Camera.LowerLeftCorner

	_, _, err := newTestRaytracer(s, SkyShader{}, 1).Render(context.Background())
	if !errors.Is(err, core.ErrDegenerateVector) {
		t.Errorf("Expected ErrDegenerateVector, got %v", err)
	}
}

func TestRaytracer_InvalidConfig(t *testing.T) {
	s := scene.NewDefaultScene()
	tests := []struct {
		name   string
		config RenderConfig
	}{
		{"zero width", RenderConfig{Width: 0, Height: 10, ColorScale: core.ColorScale}},
		{"negative height", RenderConfig{Width: 10, Height: -1, ColorScale: core.ColorScale}},
		{"zero color scale", RenderConfig{Width: 10, Height: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := NewRaytracer(s, geometry.NewCamera(s.Camera), NormalShader{}, tt.config, NewDiscardLogger())
			if _, _, err := rt.Render(context.Background()); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestRenderScene(t *testing.T) {
	s := scene.NewDefaultScene()
	s.Width, s.Height = 20, 10

	img, stats, err := RenderScene(context.Background(), s, NormalShader{}, Options{Logger: NewDiscardLogger()})
	if err != nil {
		t.Fatalf("RenderScene failed: %v", err)
	}
	if img.Width != 20 || img.Height != 10 || len(img.Pixels) != 200 {
		t.Errorf("Unexpected image size %dx%d (%d pixels)", img.Width, img.Height, len(img.Pixels))
	}
	if stats.TotalPixels != 200 {
		t.Errorf("Expected 200 pixels in stats, got %d", stats.TotalPixels)
	}

	s.Shapes = append(s.Shapes, geometry.NewSphere(core.NewVec3(0, 0, -1), 0))
	if _, _, err := RenderScene(context.Background(), s, NormalShader{}, Options{Logger: NewDiscardLogger()}); !errors.Is(err, scene.ErrInvalidScene) {
		t.Errorf("Expected ErrInvalidScene, got %v", err)
	}
}

func TestRaytracer_SampleAt(t *testing.T) {
	s := scene.NewDefaultScene()
	rt := NewSceneRaytracer(s, NormalShader{}, Options{Logger: NewDiscardLogger()})

	sample := rt.SampleAt(50, 25)
	if sample.U != 0.25 || sample.V != 0.25 {
		t.Errorf("Expected u = v = 0.25, got u=%g v=%g", sample.U, sample.V)
	}
	// lowerLeft + 0.25*horizontal + 0.25*vertical - origin
	expected := core.NewVec3(-1, -0.5, -1)
	if !sample.Ray.Direction.NearEqual(expected, 1e-12) {
		t.Errorf("Expected direction %v, got %v", expected, sample.Ray.Direction)
	}
}
