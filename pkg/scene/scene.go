package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-pinhole-raytracer/pkg/core"
	"github.com/df07/go-pinhole-raytracer/pkg/geometry"
)

// MinHitDistance is the smallest ray parameter that counts as a hit.
// Surfaces at or behind the ray origin are ignored.
const MinHitDistance = 0.0

var (
	// ErrInvalidScene wraps every scene validation failure
	ErrInvalidScene = errors.New("invalid scene")
	// ErrUnknownScene is returned when a scene name matches no built-in scene or file
	ErrUnknownScene = errors.New("unknown scene")
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name        string
	Description string
	Width       int                   // Image width in pixels
	Height      int                   // Image height in pixels
	Camera      geometry.CameraConfig // Viewport the camera rays pass through
	Shapes      []geometry.Shape      // Objects in the scene, in insertion order
}

// NewScene creates an empty scene with the default viewport
func NewScene(name string, width, height int) *Scene {
	return &Scene{
		Name:   name,
		Width:  width,
		Height: height,
		Camera: geometry.DefaultCameraConfig(),
		Shapes: make([]geometry.Shape, 0),
	}
}

// AddSphere validates and appends a sphere
func (s *Scene) AddSphere(center core.Vec3, radius float64) error {
	sphere := geometry.NewSphere(center, radius)
	if err := sphere.Validate(); err != nil {
		return fmt.Errorf("%w: sphere %d: %w", ErrInvalidScene, len(s.Shapes), err)
	}
	s.Shapes = append(s.Shapes, sphere)
	return nil
}

// Hit returns the nearest shape in front of the ray origin.
// When two shapes report the same distance the one added first wins.
func (s *Scene) Hit(ray core.Ray) (geometry.Intersection, bool) {
	var closest geometry.Intersection
	hitAnything := false

	for _, shape := range s.Shapes {
		t, isHit := shape.Hit(ray)
		if !isHit || t <= MinHitDistance {
			continue
		}
		if !hitAnything || t < closest.T {
			closest = geometry.Intersection{T: t, Shape: shape}
			hitAnything = true
		}
	}

	if hitAnything {
		closest.Point = ray.At(closest.T)
	}
	return closest, hitAnything
}

// Validate checks the scene before rendering
func (s *Scene) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("%w: image size must be positive, got %dx%d", ErrInvalidScene, s.Width, s.Height)
	}
	if err := s.Camera.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidScene, err)
	}
	for i, shape := range s.Shapes {
		if shape == nil {
			return fmt.Errorf("%w: shape %d is nil", ErrInvalidScene, i)
		}
		if validator, ok := shape.(geometry.Validator); ok {
			if err := validator.Validate(); err != nil {
				return fmt.Errorf("%w: shape %d: %w", ErrInvalidScene, i, err)
			}
		}
	}
	return nil
}

// GetPrimitiveCount returns the number of shapes in the scene
func (s *Scene) GetPrimitiveCount() int {
	return len(s.Shapes)
}
