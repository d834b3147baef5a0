package scene

import (
	"github.com/df07/go-pinhole-raytracer/pkg/core"
	"github.com/df07/go-pinhole-raytracer/pkg/geometry"
)

const (
	defaultWidth  = 200
	defaultHeight = 100
)

// NewDefaultScene creates the single-sphere scene: a sphere of radius 0.5
// one unit in front of the camera
func NewDefaultScene() *Scene {
	s := NewScene("default", defaultWidth, defaultHeight)
	s.Description = "Single sphere in front of a white-to-blue sky"
	s.Shapes = append(s.Shapes, geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5))
	return s
}

// NewSkyScene creates a scene with no objects, only the background gradient
func NewSkyScene() *Scene {
	s := NewScene("sky", defaultWidth, defaultHeight)
	s.Description = "Empty scene showing the white-to-blue sky gradient"
	return s
}

// NewSpheresScene creates several overlapping spheres at different depths
func NewSpheresScene() *Scene {
	s := NewScene("spheres", 400, 200)
	s.Description = "Overlapping spheres at different depths"

	// Listed back to front so nearest-hit selection decides visibility, not order
	s.Shapes = append(s.Shapes,
		geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100), // ground
		geometry.NewSphere(core.NewVec3(1, 0, -2), 0.5),
		geometry.NewSphere(core.NewVec3(-1, 0, -2), 0.5),
		geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5),
		geometry.NewSphere(core.NewVec3(0.35, 0.25, -0.7), 0.15),
	)
	return s
}
