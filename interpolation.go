package interp

import (
	"fmt"
	"strings"
)

// Order selects how a NumericList computes values between knots.
type Order int

// Interpolation orders.
const (
	// Step holds the value of the preceding knot.
	Step Order = iota
	// Linear blends the two bracketing knots.
	Linear
	// Parabolic passes a parabola through three neighbouring knots.
	Parabolic
	// Cubic is Hermite interpolation with tangents estimated from the
	// neighbouring knots.
	Cubic
	// CubicStep is Hermite interpolation with zero tangents.
	CubicStep
	// SphericalLinear slerps the rotation of pose values and blends the
	// position linearly.
	SphericalLinear
	// SphericalCubic interpolates the rotation of pose values with a
	// quaternion Hermite curve and the position with a cubic Hermite curve.
	SphericalCubic

	numOrders
)

var orderNames = [numOrders]string{
	Step:            "Step",
	Linear:          "Linear",
	Parabolic:       "Parabolic",
	Cubic:           "Cubic",
	CubicStep:       "CubicStep",
	SphericalLinear: "SphericalLinear",
	SphericalCubic:  "SphericalCubic",
}

// String returns the order's name.
func (o Order) String() string {
	if o < 0 || o >= numOrders {
		return fmt.Sprintf("Order(%d)", int(o))
	}
	return orderNames[o]
}

// ParseOrder returns the order named s. Matching ignores case.
func ParseOrder(s string) (Order, error) {
	for o, name := range orderNames {
		if strings.EqualFold(name, s) {
			return Order(o), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown interpolation order %q", ErrInvalidArgument, s)
}

// IsSpherical reports whether o treats pose values as rotations.
func (o Order) IsSpherical() bool {
	return o == SphericalLinear || o == SphericalCubic
}

// Interpolation describes how a NumericList fills in values between and
// beyond its knots.
type Interpolation struct {
	Order Order

	// ExtendData holds the first or last knot value outside the knot range.
	// When false those values are zero.
	ExtendData bool
}

// DefaultInterpolation is step interpolation with zero outside the knots.
func DefaultInterpolation() Interpolation {
	return Interpolation{Order: Step}
}

// Validate checks that the order is known.
func (in Interpolation) Validate() error {
	if in.Order < 0 || in.Order >= numOrders {
		return fmt.Errorf("%w: unknown interpolation order %d", ErrInvalidArgument, int(in.Order))
	}
	return nil
}

// String returns the interpolation as "[ Order extend ]".
func (in Interpolation) String() string {
	return fmt.Sprintf("[ %s %t ]", in.Order, in.ExtendData)
}

// ValueShape tells a NumericList how to read its knot vectors. Pose shapes
// enable the spherical orders; every other order treats values as plain
// numbers regardless of shape.
type ValueShape int

// Value shapes.
const (
	// ShapePlain is an unstructured vector.
	ShapePlain ValueShape = iota
	// ShapeAxisAngle is a rotation (ax, ay, az, degrees).
	ShapeAxisAngle
	// ShapePoseAxisAngle is a position followed by an axis-angle rotation
	// (px, py, pz, ax, ay, az, degrees).
	ShapePoseAxisAngle
	// ShapePoseMatrix is a row-major 4x4 rigid transform.
	ShapePoseMatrix

	numShapes
)

var shapeNames = [numShapes]string{
	ShapePlain:         "plain",
	ShapeAxisAngle:     "axisAngle",
	ShapePoseAxisAngle: "poseAxisAngle",
	ShapePoseMatrix:    "poseMatrix",
}

// ShapeForSize returns the pose shape whose vector size is vsize, or
// ShapePlain.
func ShapeForSize(vsize int) ValueShape {
	switch vsize {
	case axisAngleSize:
		return ShapeAxisAngle
	case poseAxisAngleSize:
		return ShapePoseAxisAngle
	case poseMatrixSize:
		return ShapePoseMatrix
	default:
		return ShapePlain
	}
}

// ParseShape returns the shape named s. Matching ignores case.
func ParseShape(s string) (ValueShape, error) {
	for sh, name := range shapeNames {
		if strings.EqualFold(name, s) {
			return ValueShape(sh), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown value shape %q", ErrInvalidArgument, s)
}

// String returns the shape's name.
func (sh ValueShape) String() string {
	if sh < 0 || sh >= numShapes {
		return fmt.Sprintf("ValueShape(%d)", int(sh))
	}
	return shapeNames[sh]
}

// Size returns the vector size a pose shape requires, or 0 for ShapePlain.
func (sh ValueShape) Size() int {
	switch sh {
	case ShapeAxisAngle:
		return axisAngleSize
	case ShapePoseAxisAngle:
		return poseAxisAngleSize
	case ShapePoseMatrix:
		return poseMatrixSize
	default:
		return 0
	}
}

// IsPose reports whether the shape carries a rotation.
func (sh ValueShape) IsPose() bool {
	return sh == ShapeAxisAngle || sh == ShapePoseAxisAngle || sh == ShapePoseMatrix
}

// HasPosition reports whether the shape carries a position.
func (sh ValueShape) HasPosition() bool {
	return sh == ShapePoseAxisAngle || sh == ShapePoseMatrix
}

// derivSize is the length of derivative vectors under order o: angular
// velocity replaces the rotation encoding for spherical orders.
func (sh ValueShape) derivSize(o Order, vsize int) int {
	if !o.IsSpherical() || !sh.IsPose() {
		return vsize
	}
	if sh.HasPosition() {
		return poseDerivSize
	}
	return vec3Size
}
