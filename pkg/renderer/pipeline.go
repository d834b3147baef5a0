package renderer

import (
	"context"

	"github.com/df07/go-pinhole-raytracer/pkg/core"
	"github.com/df07/go-pinhole-raytracer/pkg/geometry"
	"github.com/df07/go-pinhole-raytracer/pkg/scene"
)

// Options tweak a scene render; zero values fall back to defaults
type Options struct {
	ColorScale float64     // 0 = core.ColorScale
	NumWorkers int         // 0 = use CPU count
	Logger     core.Logger // nil = DefaultLogger
}

// NewSceneRaytracer builds a raytracer for the scene's size and camera
func NewSceneRaytracer(s *scene.Scene, shader Shader, opts Options) *Raytracer {
	config := DefaultRenderConfig(s.Width, s.Height)
	if opts.ColorScale != 0 {
		config.ColorScale = opts.ColorScale
	}
	config.NumWorkers = opts.NumWorkers

	return NewRaytracer(s, geometry.NewCamera(s.Camera), shader, config, opts.Logger)
}

// RenderScene validates a scene and renders it with the given shader
func RenderScene(ctx context.Context, s *scene.Scene, shader Shader, opts Options) (*Image, RenderStats, error) {
	if err := s.Validate(); err != nil {
		return nil, RenderStats{}, err
	}
	return NewSceneRaytracer(s, shader, opts).Render(ctx)
}
