// Package geom provides the rotation algebra used for spherical
// interpolation of pose data. Rotations are unit quaternions from gonum's
// num/quat package and vectors are gonum spatial/r3 values.
package geom

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Identity is the unit quaternion with no rotation.
var Identity = quat.Number{Real: 1}

// VecPart returns the imaginary part of q as a vector.
func VecPart(q quat.Number) r3.Vec {
	return r3.Vec{X: q.Imag, Y: q.Jmag, Z: q.Kmag}
}

// Pure returns the pure quaternion (0, v).
func Pure(v r3.Vec) quat.Number {
	return quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
}

// Normalize scales q to unit length. The zero quaternion maps to Identity.
func Normalize(q quat.Number) quat.Number {
	n := quat.Abs(q)
	if n == 0 {
		return Identity
	}
	return quat.Scale(1/n, q)
}

// Rotate applies the rotation q to v, returning q v q⁻¹.
func Rotate(q quat.Number, v r3.Vec) r3.Vec {
	return VecPart(quat.Mul(quat.Mul(q, Pure(v)), quat.Conj(q)))
}

// InverseRotate applies the inverse of the rotation q to v.
func InverseRotate(q quat.Number, v r3.Vec) r3.Vec {
	return VecPart(quat.Mul(quat.Mul(quat.Conj(q), Pure(v)), q))
}

// MulInverseLeft returns q0⁻¹ q1 for unit quaternions.
func MulInverseLeft(q0, q1 quat.Number) quat.Number {
	return quat.Mul(quat.Conj(q0), q1)
}

// Log returns the half-angle rotation vector of q, choosing the shorter of
// the two equivalent rotations. Its length is at most π/2.
func Log(q quat.Number) r3.Vec {
	u := VecPart(q)
	mag := r3.Norm(u)
	if mag < epsilon {
		return r3.Vec{}
	}
	ang := math.Atan2(mag, q.Real)
	if ang > math.Pi/2 {
		ang -= math.Pi
	}
	return r3.Scale(ang/mag, u)
}

// Exp returns the unit quaternion (cos(scale|v|), sin(scale|v|) v/|v|).
func Exp(scale float64, v r3.Vec) quat.Number {
	ang := r3.Norm(v)
	if ang < epsilon {
		return Identity
	}
	s := math.Sin(scale*ang) / ang
	return quat.Number{
		Real: math.Cos(scale * ang),
		Imag: s * v.X,
		Jmag: s * v.Y,
		Kmag: s * v.Z,
	}
}

// Slerp interpolates along the shortest arc from q0 (r = 0) to q1 (r = 1).
func Slerp(q0, q1 quat.Number, r float64) quat.Number {
	v := Log(MulInverseLeft(q0, q1))
	if r3.Norm(v) < epsilon {
		return Normalize(q0)
	}
	return Normalize(quat.Mul(q0, Exp(r, v)))
}

// ExtrapolateWorld rotates q by the world-frame angular velocity w applied
// for duration t.
func ExtrapolateWorld(q quat.Number, w r3.Vec, t float64) quat.Number {
	wmag := r3.Norm(w)
	ang := wmag * t
	if math.Abs(ang) < epsilon {
		return Normalize(q)
	}
	sin, cos := math.Sincos(ang / halfAngleDivisor)
	dq := quat.Number{
		Real: cos,
		Imag: sin * w.X / wmag,
		Jmag: sin * w.Y / wmag,
		Kmag: sin * w.Z / wmag,
	}
	return Normalize(quat.Mul(dq, q))
}

// AngularVelocity returns the constant world-frame angular velocity that
// carries q0 to q1 in time h.
func AngularVelocity(q0, q1 quat.Number, h float64) r3.Vec {
	w := Log(MulInverseLeft(q0, q1))
	return Rotate(q0, r3.Scale(2/h, w))
}

// AngularVelocity3 estimates the world-frame angular velocity at q0 from
// three successive rotations spanning time h. Routing through q1 keeps the
// estimate consistent when the direct arc from q0 to q2 would take the
// other way around.
func AngularVelocity3(q0, q1, q2 quat.Number, h float64) r3.Vec {
	w := r3.Add(Log(MulInverseLeft(q0, q1)), Log(MulInverseLeft(q1, q2)))
	return Rotate(q0, r3.Scale(2/h, w))
}

// SphericalHermite interpolates a rotation on an interval of duration h at
// normalized position s in [0, 1], given end rotations q0, q1 and their
// world-frame angular velocities w0, w1. It also returns the world-frame
// angular velocity of the curve at s.
//
// The curve is the cumulative quaternion Bezier form from Kim, Kim and Shin,
// "A General Construction Scheme for Unit Quaternion Curves" (1995).
func SphericalHermite(q0 quat.Number, w0 r3.Vec, q1 quat.Number, w1 r3.Vec, s, h float64) (quat.Number, r3.Vec) {
	v0 := InverseRotate(q0, r3.Scale(h/bezierDivisor, w0))
	qz := quat.Mul(q0, Exp(((s-3)*s+3)*s, v0))
	vr := Rotate(qz, r3.Scale((3*s-6)*s+3, v0))

	qa := ExtrapolateWorld(q0, w0, h/bezierThird)
	qb := ExtrapolateWorld(q1, w1, -h/bezierThird)
	vm := Log(MulInverseLeft(qa, qb))
	qz = quat.Mul(qz, Exp((-2*s+3)*s*s, vm))
	vr = r3.Add(vr, Rotate(qz, r3.Scale((-6*s+6)*s, vm)))

	v1 := InverseRotate(q1, r3.Scale(h/bezierDivisor, w1))
	qz = Normalize(quat.Mul(qz, Exp(s*s*s, v1)))
	vr = r3.Add(vr, Rotate(qz, r3.Scale(3*s*s, v1)))

	return qz, r3.Scale(2/h, vr)
}
