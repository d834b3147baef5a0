package renderer

import (
	"errors"
	"fmt"
	"sort"

	"github.com/df07/go-pinhole-raytracer/pkg/core"
	"github.com/df07/go-pinhole-raytracer/pkg/geometry"
)

// ErrUnknownShader is returned by ShaderByName for unregistered names
var ErrUnknownShader = errors.New("unknown shader")

var (
	// White is the sky colour straight down
	White = core.NewVec3(1.0, 1.0, 1.0)
	// SkyBlue is the sky colour straight up
	SkyBlue = core.NewVec3(0.5, 0.7, 1.0)
)

// World is the read-only view of a scene the shaders query
type World interface {
	Hit(ray core.Ray) (geometry.Intersection, bool)
}

// Sample is everything known about one pixel before shading
type Sample struct {
	X, Y int      // Pixel coordinates, Y counted up from the bottom row
	U, V float64  // Viewport coordinates in [0,1]
	Ray  core.Ray // Camera ray through (U, V)
}

// Shader resolves a pixel sample to a [0,1] colour
type Shader interface {
	Shade(sample Sample, world World) (core.Vec3, error)
}

// ShaderFunc adapts a function to the Shader interface
type ShaderFunc func(sample Sample, world World) (core.Vec3, error)

// Shade calls f(sample, world)
func (f ShaderFunc) Shade(sample Sample, world World) (core.Vec3, error) {
	return f(sample, world)
}

// SkyGradient returns the white-to-blue background for a ray.
// The direction is normalized here, so callers may pass any non-zero direction.
func SkyGradient(ray core.Ray) (core.Vec3, error) {
	unitDirection, err := ray.Direction.Normalize()
	if err != nil {
		return core.Vec3{}, fmt.Errorf("sky gradient: %w", err)
	}

	// Map y from [-1,1] to [0,1]
	t := 0.5 * (unitDirection.Y + 1.0)
	return core.Lerp(White, SkyBlue, t), nil
}

// NormalShader colours hits by their surface normal and misses by the sky gradient
type NormalShader struct{}

// Shade maps the unit normal n at the nearest hit to 0.5*(n+1)
func (NormalShader) Shade(sample Sample, world World) (core.Vec3, error) {
	hit, isHit := world.Hit(sample.Ray)
	if !isHit {
		return SkyGradient(sample.Ray)
	}

	normal, err := hit.Shape.Normal(hit.Point)
	if err != nil {
		return core.Vec3{}, fmt.Errorf("normal shader: %w", err)
	}
	return normal.Offset(1.0).Multiply(0.5), nil
}

// SkyShader ignores scene objects and returns the background gradient
type SkyShader struct{}

// Shade returns SkyGradient(sample.Ray)
func (SkyShader) Shade(sample Sample, world World) (core.Vec3, error) {
	return SkyGradient(sample.Ray)
}

// UVShader paints viewport coordinates: red grows to the right, green upwards
type UVShader struct {
	Blue float64
}

// Shade returns (u, v, Blue)
func (s UVShader) Shade(sample Sample, world World) (core.Vec3, error) {
	return core.NewVec3(sample.U, sample.V, s.Blue), nil
}

var shaders = map[string]Shader{
	"normals": NormalShader{},
	"sky":     SkyShader{},
	"uv":      UVShader{Blue: 0.2},
}

// ShaderByName returns a registered shading strategy
func ShaderByName(name string) (Shader, error) {
	shader, ok := shaders[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownShader, name, ShaderNames())
	}
	return shader, nil
}

// ShaderNames lists the registered shaders in sorted order
func ShaderNames() []string {
	names := make([]string, 0, len(shaders))
	for name := range shaders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
