package geometry

import (
	"errors"

	"github.com/df07/go-pinhole-raytracer/pkg/core"
)

// ErrDegenerateViewport is returned when the viewport spans no area
var ErrDegenerateViewport = errors.New("viewport horizontal and vertical spans must be non-zero and not parallel")

// CameraConfig describes a pinhole camera and the viewport rays pass through
type CameraConfig struct {
	Origin          core.Vec3
	LowerLeftCorner core.Vec3
	Horizontal      core.Vec3
	Vertical        core.Vec3
}

// DefaultCameraConfig returns the 2:1 viewport one unit in front of the origin
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Origin:          core.NewVec3(0, 0, 0),
		LowerLeftCorner: core.NewVec3(-2, -1, -1),
		Horizontal:      core.NewVec3(4, 0, 0),
		Vertical:        core.NewVec3(0, 2, 0),
	}
}

// Validate rejects viewports whose spans are zero or parallel
func (c CameraConfig) Validate() error {
	if c.Horizontal.Cross(c.Vertical).LengthSquared() == 0 {
		return ErrDegenerateViewport
	}
	return nil
}

// Camera generates rays for rendering
type Camera struct {
	origin          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
}

// NewCamera creates a camera from a viewport description
func NewCamera(config CameraConfig) *Camera {
	return &Camera{
		origin:          config.Origin,
		lowerLeftCorner: config.LowerLeftCorner,
		horizontal:      config.Horizontal,
		vertical:        config.Vertical,
	}
}

// GetRay generates a ray for viewport coordinates (u, v) where 0 <= u,v <= 1.
// The direction is not normalized.
func (c *Camera) GetRay(u, v float64) core.Ray {
	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(u)).
		Add(c.vertical.Multiply(v)).
		Subtract(c.origin)

	return core.NewRay(c.origin, direction)
}
