package geometry

import (
	"github.com/df07/go-pinhole-raytracer/pkg/core"
)

// Shape interface for objects that can be hit by rays
type Shape interface {
	// Hit returns the ray parameter of the nearest root and whether the ray
	// meets the shape at all. The returned t may be negative when the surface
	// lies behind the ray origin; callers decide which range counts as a hit.
	Hit(ray core.Ray) (float64, bool)

	// Normal returns the outward unit normal at a point on the surface
	Normal(point core.Vec3) (core.Vec3, error)
}

// Validator is implemented by shapes whose construction parameters can be invalid
type Validator interface {
	Validate() error
}

// Intersection describes the nearest surface a ray reached
type Intersection struct {
	T     float64   // Parameter t along the ray
	Point core.Vec3 // Point of intersection
	Shape Shape     // Shape that was hit
}
