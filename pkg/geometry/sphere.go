package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-pinhole-raytracer/pkg/core"
)

// ErrInvalidRadius is returned for spheres whose radius is not a positive finite number
var ErrInvalidRadius = errors.New("sphere radius must be positive and finite")

// Sphere represents a sphere shape
type Sphere struct {
	Center core.Vec3
	Radius float64
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64) *Sphere {
	return &Sphere{
		Center: center,
		Radius: radius,
	}
}

// Validate rejects non-positive or non-finite radii and centers
func (s *Sphere) Validate() error {
	if !(s.Radius > 0) || math.IsInf(s.Radius, 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidRadius, s.Radius)
	}
	if !s.Center.IsFinite() {
		return fmt.Errorf("sphere center must be finite: got %v", s.Center)
	}
	return nil
}

// Hit solves |O + tD - C| = r for the nearer root.
// A tangent ray (zero discriminant) counts as a hit with a repeated root.
func (s *Sphere) Hit(ray core.Ray) (float64, bool) {
	// Vector from sphere center to ray origin
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + bt + c = 0
	a := ray.Direction.Dot(ray.Direction)
	b := 2.0 * oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	// A zero direction never moves along the ray
	if a == 0 {
		return 0, false
	}

	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return 0, false
	}

	// 2a is a single divisor; (-b - sqrtD) / 2 * a would scale by a instead
	return (-b - math.Sqrt(discriminant)) / (2 * a), true
}

// Normal returns the outward unit normal at a point on the sphere
func (s *Sphere) Normal(point core.Vec3) (core.Vec3, error) {
	normal, err := point.Subtract(s.Center).Normalize()
	if err != nil {
		return core.Vec3{}, fmt.Errorf("sphere normal at %v: %w", point, err)
	}
	return normal, nil
}
