package geom

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// FromAxisAngle returns the rotation of deg degrees about axis. The axis
// need not be unit length; a zero axis yields Identity.
func FromAxisAngle(axis r3.Vec, deg float64) quat.Number {
	n := r3.Norm(axis)
	if n == 0 {
		return Identity
	}
	sin, cos := math.Sincos(deg * degToRad / halfAngleDivisor)
	s := sin / n
	return quat.Number{Real: cos, Imag: s * axis.X, Jmag: s * axis.Y, Kmag: s * axis.Z}
}

// ToAxisAngle returns the unit axis and angle in degrees of q. The angle
// lies in [-180, 180]; a rotation too small to define an axis reports
// (1, 0, 0).
func ToAxisAngle(q quat.Number) (r3.Vec, float64) {
	u := VecPart(q)
	mag := r3.Norm(u)
	ang := math.Atan2(mag, q.Real)
	if ang > math.Pi/2 {
		ang -= math.Pi
	}
	if mag < epsilon {
		return r3.Vec{X: 1}, halfAngleDivisor * ang * radToDeg
	}
	return r3.Scale(1/mag, u), halfAngleDivisor * ang * radToDeg
}

// FromMatrix returns the unit quaternion for a row-major 3x3 rotation
// matrix, with a non-negative scalar part.
func FromMatrix(m [9]float64) quat.Number {
	m00, m01, m02 := m[0], m[1], m[2]
	m10, m11, m12 := m[3], m[4], m[5]
	m20, m21, m22 := m[6], m[7], m[8]

	sumC := m00 + m11 + m22
	sumX := m00 - m11 - m22
	sumY := m11 - m22 - m00
	sumZ := m22 - m00 - m11

	// Pivot on the largest of the four candidate components.
	var q quat.Number
	switch largest(sumC, sumX, sumY, sumZ) {
	case 0:
		a := math.Sqrt(1+sumC) / 2
		q.Real = a
		a *= 4
		q.Imag = (m21 - m12) / a
		q.Jmag = (m02 - m20) / a
		q.Kmag = (m10 - m01) / a
	case 1:
		a := math.Sqrt(1+sumX) / 2
		q.Imag = a
		a *= 4
		q.Real = (m21 - m12) / a
		q.Jmag = (m01 + m10) / a
		q.Kmag = (m02 + m20) / a
	case 2:
		a := math.Sqrt(1+sumY) / 2
		q.Jmag = a
		a *= 4
		q.Real = (m02 - m20) / a
		q.Imag = (m01 + m10) / a
		q.Kmag = (m21 + m12) / a
	default:
		a := math.Sqrt(1+sumZ) / 2
		q.Kmag = a
		a *= 4
		q.Real = (m10 - m01) / a
		q.Jmag = (m21 + m12) / a
		q.Imag = (m02 + m20) / a
	}
	if q.Real < 0 {
		q = quat.Scale(-1, q)
	}
	return q
}

// ToMatrix returns the row-major 3x3 rotation matrix of q. q need not be
// unit length.
func ToMatrix(q quat.Number) [9]float64 {
	n2 := 1 / (q.Real*q.Real + q.Imag*q.Imag + q.Jmag*q.Jmag + q.Kmag*q.Kmag)
	qr, qi, qj, qk := q.Real, q.Imag, q.Jmag, q.Kmag
	return [9]float64{
		1 - 2*n2*(qj*qj+qk*qk), 2 * n2 * (qi*qj - qk*qr), 2 * n2 * (qi*qk + qj*qr),
		2 * n2 * (qi*qj + qk*qr), 1 - 2*n2*(qi*qi+qk*qk), 2 * n2 * (qj*qk - qi*qr),
		2 * n2 * (qi*qk - qj*qr), 2 * n2 * (qj*qk + qi*qr), 1 - 2*n2*(qi*qi+qj*qj),
	}
}

// largest returns the index of the maximum argument, preferring earlier
// arguments on ties.
func largest(vals ...float64) int {
	idx := 0
	for i, v := range vals {
		if v > vals[idx] {
			idx = i
		}
	}
	return idx
}
