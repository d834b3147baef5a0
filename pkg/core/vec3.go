package core

import (
	"errors"
	"fmt"
	"math"
)

// ErrDegenerateVector is returned when a zero-length vector is normalized
var ErrDegenerateVector = errors.New("degenerate vector: zero length")

// Vec3 represents a point or a free direction in 3D space
type Vec3 struct {
	X, Y, Z float64
}

// NewVec3 creates a new Vec3
func NewVec3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Vec3FromSlice builds a vector from up to the first three values.
// Missing trailing components are 0 and values past the third are ignored.
func Vec3FromSlice(values []float64) Vec3 {
	var v Vec3
	for i, value := range values {
		switch i {
		case 0:
			v.X = value
		case 1:
			v.Y = value
		case 2:
			v.Z = value
		default:
			return v
		}
	}
	return v
}

// Add returns the sum of two vectors
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Subtract returns the difference of two vectors
func (v Vec3) Subtract(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Negate returns the negative of the vector
func (v Vec3) Negate() Vec3 {
	return Vec3{
		X: -v.X,
		Y: -v.Y,
		Z: -v.Z,
	}
}

// Multiply returns the vector scaled by a scalar
func (v Vec3) Multiply(scalar float64) Vec3 {
	return Vec3{v.X * scalar, v.Y * scalar, v.Z * scalar}
}

// ScalarDivide divides k by each component of v: (k/v.X, k/v.Y, k/v.Z).
// This is not (1/k)*v.
func ScalarDivide(k float64, v Vec3) Vec3 {
	return Vec3{k / v.X, k / v.Y, k / v.Z}
}

// Offset adds k to every component
func (v Vec3) Offset(k float64) Vec3 {
	return Vec3{v.X + k, v.Y + k, v.Z + k}
}

// Dot returns the dot product of two vectors
func (v Vec3) Dot(other Vec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross returns the cross product of two vectors
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		X: v.Y*other.Z - v.Z*other.Y,
		Y: v.Z*other.X - v.X*other.Z,
		Z: v.X*other.Y - v.Y*other.X,
	}
}

// LengthSquared returns the squared magnitude of the vector
func (v Vec3) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Length returns the magnitude of the vector
func (v Vec3) Length() float64 {
	return math.Sqrt(v.LengthSquared())
}

// Normalize returns a unit vector in the same direction.
// A zero-length vector yields ErrDegenerateVector instead of NaN components.
func (v Vec3) Normalize() (Vec3, error) {
	length := v.Length()
	if length == 0 {
		return Vec3{}, ErrDegenerateVector
	}
	return v.Multiply(1.0 / length), nil
}

// Clamp returns a vector with components clamped to [min, max]
func (v Vec3) Clamp(minVal, maxVal float64) Vec3 {
	return Vec3{
		X: max(minVal, min(maxVal, v.X)),
		Y: max(minVal, min(maxVal, v.Y)),
		Z: max(minVal, min(maxVal, v.Z)),
	}
}

// IsFinite reports whether no component is NaN or infinite
func (v Vec3) IsFinite() bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// NearEqual reports whether every component is within eps of other
func (v Vec3) NearEqual(other Vec3, eps float64) bool {
	return math.Abs(v.X-other.X) <= eps &&
		math.Abs(v.Y-other.Y) <= eps &&
		math.Abs(v.Z-other.Z) <= eps
}

// String formats the vector as "x y z"
func (v Vec3) String() string {
	return fmt.Sprintf("%g %g %g", v.X, v.Y, v.Z)
}

// Lerp linearly interpolates between a and b: (1-t)*a + t*b
func Lerp(a, b Vec3, t float64) Vec3 {
	return a.Multiply(1.0 - t).Add(b.Multiply(t))
}

// Ray represents a ray with an origin and direction
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// NewRay creates a new ray. The direction is stored as given, not normalized.
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}
