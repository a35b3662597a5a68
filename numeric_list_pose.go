package interp

import (
	"github.com/tphakala/go-curve-interp/internal/geom"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Element offsets of pose encodings.
const (
	poseAxisOffset = 3 // axis of ShapePoseAxisAngle
	poseAngleIndex = 6 // angle of ShapePoseAxisAngle
	axisAngleIndex = 3 // angle of ShapeAxisAngle
)

// poseMatrixRot and poseMatrixPos index the rotation and translation of a
// row-major 4x4 transform.
var (
	poseMatrixRot = [9]int{0, 1, 2, 4, 5, 6, 8, 9, 10}
	poseMatrixPos = [3]int{3, 7, 11}
	poseMatrixRow = [4]int{12, 13, 14, 15}
)

// rotation decodes the rotation stored in v.
func (sh ValueShape) rotation(v []float64) quat.Number {
	switch sh {
	case ShapeAxisAngle:
		return geom.FromAxisAngle(r3.Vec{X: v[0], Y: v[1], Z: v[2]}, v[axisAngleIndex])
	case ShapePoseAxisAngle:
		o := poseAxisOffset
		return geom.FromAxisAngle(r3.Vec{X: v[o], Y: v[o+1], Z: v[o+2]}, v[poseAngleIndex])
	case ShapePoseMatrix:
		var m [9]float64
		for i, j := range poseMatrixRot {
			m[i] = v[j]
		}
		return geom.FromMatrix(m)
	default:
		return geom.Identity
	}
}

// setRotation encodes q into dst. For axis-angle shapes the axis is
// oriented to agree with the rotation stored in ref, so interpolated values
// do not flip between equivalent encodings.
func (sh ValueShape) setRotation(dst []float64, q quat.Number, ref []float64) {
	switch sh {
	case ShapeAxisAngle:
		putAxisAngle(dst[:axisAngleSize], q, ref[:axisAngleSize])
	case ShapePoseAxisAngle:
		putAxisAngle(dst[poseAxisOffset:poseAxisAngleSize], q, ref[poseAxisOffset:poseAxisAngleSize])
	case ShapePoseMatrix:
		m := geom.ToMatrix(q)
		for i, j := range poseMatrixRot {
			dst[j] = m[i]
		}
		dst[poseMatrixRow[0]], dst[poseMatrixRow[1]], dst[poseMatrixRow[2]] = 0, 0, 0
		dst[poseMatrixRow[3]] = 1
	}
}

func putAxisAngle(dst []float64, q quat.Number, ref []float64) {
	axis, deg := geom.ToAxisAngle(q)
	if axis.X*ref[0]+axis.Y*ref[1]+axis.Z*ref[2] < 0 {
		axis = r3.Scale(-1, axis)
		deg = -deg
	}
	dst[0], dst[1], dst[2], dst[3] = axis.X, axis.Y, axis.Z, deg
}

// position decodes the position stored in v.
func (sh ValueShape) position(v []float64) r3.Vec {
	switch sh {
	case ShapePoseAxisAngle:
		return r3.Vec{X: v[0], Y: v[1], Z: v[2]}
	case ShapePoseMatrix:
		return r3.Vec{X: v[poseMatrixPos[0]], Y: v[poseMatrixPos[1]], Z: v[poseMatrixPos[2]]}
	default:
		return r3.Vec{}
	}
}

// setPosition encodes p into dst.
func (sh ValueShape) setPosition(dst []float64, p r3.Vec) {
	switch sh {
	case ShapePoseAxisAngle:
		dst[0], dst[1], dst[2] = p.X, p.Y, p.Z
	case ShapePoseMatrix:
		dst[poseMatrixPos[0]], dst[poseMatrixPos[1]], dst[poseMatrixPos[2]] = p.X, p.Y, p.Z
	}
}

// setVelocity stores a derivative vector: the position velocity, when the
// shape has one, followed by the angular velocity w.
func (sh ValueShape) setVelocity(dst []float64, v, w r3.Vec) {
	if sh.HasPosition() {
		dst[0], dst[1], dst[2] = v.X, v.Y, v.Z
		dst = dst[vec3Size:]
	}
	dst[0], dst[1], dst[2] = w.X, w.Y, w.Z
}
