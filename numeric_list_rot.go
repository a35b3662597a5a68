package interp

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/tphakala/go-curve-interp/internal/geom"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// RotationRep selects how rotation subvectors of a NumericList are encoded.
type RotationRep int

// Rotation encodings.
const (
	// RotAxisAngle is (ax, ay, az, degrees).
	RotAxisAngle RotationRep = iota
	// RotAxisAngleRad is (ax, ay, az, radians).
	RotAxisAngleRad
	// RotQuaternion is a unit quaternion (w, x, y, z).
	RotQuaternion
	// RotRotationVector is the rotation axis scaled by the angle in radians.
	RotRotationVector
	// RotMatrix is a row-major 3x3 rotation matrix.
	RotMatrix

	numRotationReps
)

var rotationRepNames = [numRotationReps]string{
	RotAxisAngle:      "AxisAngle",
	RotAxisAngleRad:   "AxisAngleRad",
	RotQuaternion:     "Quaternion",
	RotRotationVector: "RotationVector",
	RotMatrix:         "Matrix",
}

// String returns the encoding's name.
func (r RotationRep) String() string {
	if r < 0 || r >= numRotationReps {
		return fmt.Sprintf("RotationRep(%d)", int(r))
	}
	return rotationRepNames[r]
}

// ParseRotationRep returns the encoding named s. Matching ignores case.
func ParseRotationRep(s string) (RotationRep, error) {
	for r, name := range rotationRepNames {
		if strings.EqualFold(name, s) {
			return RotationRep(r), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown rotation representation %q", ErrInvalidArgument, s)
}

// Size returns the number of vector elements one rotation occupies.
func (r RotationRep) Size() int {
	switch r {
	case RotAxisAngle, RotAxisAngleRad:
		return axisAngleSize
	case RotQuaternion:
		return quaternionSize
	case RotRotationVector:
		return rotationVectorSize
	default:
		return rotationMatrixSize
	}
}

// rotation decodes the rotation stored at the start of v.
func (r RotationRep) rotation(v []float64) quat.Number {
	switch r {
	case RotAxisAngle:
		return geom.FromAxisAngle(r3.Vec{X: v[0], Y: v[1], Z: v[2]}, v[3])
	case RotAxisAngleRad:
		return geom.FromAxisAngle(r3.Vec{X: v[0], Y: v[1], Z: v[2]}, v[3]/degToRad)
	case RotQuaternion:
		return geom.Normalize(quat.Number{Real: v[0], Imag: v[1], Jmag: v[2], Kmag: v[3]})
	case RotRotationVector:
		return geom.Exp(1/halfDivisor, r3.Vec{X: v[0], Y: v[1], Z: v[2]})
	default:
		var m [rotationMatrixSize]float64
		copy(m[:], v)
		return geom.FromMatrix(m)
	}
}

// put encodes q into dst, choosing among equivalent encodings the one
// closest to ref.
func (r RotationRep) put(dst []float64, q quat.Number, ref []float64) {
	switch r {
	case RotAxisAngle:
		putAxisAngle(dst, q, ref)
	case RotAxisAngleRad:
		putAxisAngle(dst, q, ref)
		dst[3] *= degToRad
	case RotQuaternion:
		if q.Real*ref[0]+q.Imag*ref[1]+q.Jmag*ref[2]+q.Kmag*ref[3] < 0 {
			q = quat.Scale(-1, q)
		}
		dst[0], dst[1], dst[2], dst[3] = q.Real, q.Imag, q.Jmag, q.Kmag
	case RotRotationVector:
		putRotationVector(dst, q, ref)
	default:
		m := geom.ToMatrix(q)
		copy(dst, m[:])
	}
}

// putRotationVector stores q as the rotation vector nearest to ref. The
// equivalent vectors differ by whole turns about the rotation axis.
func putRotationVector(dst []float64, q quat.Number, ref []float64) {
	rv := r3.Scale(halfDivisor, geom.Log(q))
	if ang := r3.Norm(rv); ang > 0 {
		u := r3.Scale(1/ang, rv)
		rr := r3.Vec{X: ref[0], Y: ref[1], Z: ref[2]}
		k := math.Round((r3.Dot(rr, u) - ang) / fullTurn)
		rv = r3.Add(rv, r3.Scale(fullTurn*k, u))
	}
	dst[0], dst[1], dst[2] = rv.X, rv.Y, rv.Z
}

// checkRotationOffsets fails unless every subvector fits in the vector and
// the subvectors are ascending without overlap.
func checkRotationOffsets(vsize int, rep RotationRep, offsets []int) error {
	if rep < 0 || rep >= numRotationReps {
		return fmt.Errorf("%w: unknown rotation representation %d", ErrInvalidArgument, int(rep))
	}
	size := rep.Size()
	for i, off := range offsets {
		switch {
		case off < 0:
			return fmt.Errorf("%w: rotation subvector %d has negative offset %d", ErrInvalidArgument, i, off)
		case i > 0 && off < offsets[i-1]+size:
			return fmt.Errorf("%w: rotation subvector %d overlaps the previous one", ErrInvalidArgument, i)
		case off+size > vsize:
			return fmt.Errorf("%w: rotation subvector %d extends beyond vector size %d", ErrInvalidArgument, i, vsize)
		}
	}
	return nil
}

// NewNumericListRotations returns an empty list of vsize-element vectors
// holding rotation subvectors encoded as rep at the given offsets. The other
// elements are plain values. Linear, Cubic and CubicStep interpolation move
// each rotation subvector along the rotation group, and derivatives report
// its world-frame angular velocity in three elements.
func NewNumericListRotations(vsize int, rep RotationRep, offsets ...int) (*NumericList, error) {
	if vsize < 1 {
		return nil, fmt.Errorf("%w: vector size %d", ErrInvalidArgument, vsize)
	}
	if err := checkRotationOffsets(vsize, rep, offsets); err != nil {
		return nil, err
	}
	l := newNumericList(vsize, ShapePlain)
	if len(offsets) > 0 {
		l.rotRep, l.rotOffsets = rep, slices.Clone(offsets)
	}
	return l, nil
}

// RotationSubvectors returns the rotation encoding and a copy of the
// rotation subvector offsets. The offsets are empty for lists without
// rotation subvectors.
func (l *NumericList) RotationSubvectors() (RotationRep, []int) {
	return l.rotRep, slices.Clone(l.rotOffsets)
}

// NumRotationSubvectors returns the number of rotation subvectors.
func (l *NumericList) NumRotationSubvectors() int {
	return len(l.rotOffsets)
}

func (l *NumericList) rotAt(v []float64, off int) quat.Number {
	return l.rotRep.rotation(v[off : off+l.rotRep.Size()])
}

// setRotations overwrites each rotation subvector of dst with the rotation
// rot returns for its offset, encoded to agree with ref.
func (l *NumericList) setRotations(dst, ref []float64, rot func(off int) quat.Number) {
	size := l.rotRep.Size()
	for _, off := range l.rotOffsets {
		l.rotRep.put(dst[off:off+size], rot(off), ref[off:off+size])
	}
}

// packDeriv fills a derivative vector. full receives one element-wise
// derivative per value element. With rotation subvectors those elements are
// computed into scratch space and each subvector is replaced by the angular
// velocity rot returns for its offset.
func (l *NumericList) packDeriv(dst []float64, full func(d []float64), rot func(off int) r3.Vec) {
	if len(l.rotOffsets) == 0 {
		full(dst)
		return
	}
	tmp := make([]float64, l.vsize)
	full(tmp)
	i, j := 0, 0
	for _, off := range l.rotOffsets {
		j += copy(dst[j:], tmp[i:off])
		w := rot(off)
		dst[j], dst[j+1], dst[j+2] = w.X, w.Y, w.Z
		i = off + l.rotRep.Size()
		j += vec3Size
	}
	copy(dst[j:], tmp[i:])
}

func (l *NumericList) derivSize() int {
	if n := len(l.rotOffsets); n > 0 {
		return l.vsize - n*(l.rotRep.Size()-vec3Size)
	}
	return l.shape.derivSize(l.interp.Order, l.vsize)
}

// AdjustRotations copies vals into dst and re-encodes each rotation
// subvector in the form closest to the one stored in the knot nearest t, so
// that interpolating towards it takes the short way round. dst is reused
// when it has room and may be vals itself.
func (l *NumericList) AdjustRotations(dst, vals []float64, t float64) ([]float64, error) {
	if len(vals) != l.vsize {
		return dst, fmt.Errorf("%w: %d values for vector size %d", ErrInvalidArgument, len(vals), l.vsize)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	dst = sized(dst, l.vsize)
	l.adjustRotations(dst, vals, t)
	return dst, nil
}

func (l *NumericList) adjustRotations(dst, vals []float64, t float64) {
	copy(dst, vals)
	if len(l.rotOffsets) == 0 {
		return
	}
	near := l.findClosest(t, l.last)
	if near == nil {
		return
	}
	l.last = near
	l.setRotations(dst, near.v, func(off int) quat.Number { return l.rotAt(vals, off) })
}

// AddAdjusted is Add with the rotation subvectors of vals first adjusted
// as by AdjustRotations.
func (l *NumericList) AddAdjusted(t float64, vals ...float64) (*NumericListKnot, error) {
	if len(vals) < l.vsize {
		return nil, fmt.Errorf("%w: %d values for vector size %d", ErrInvalidArgument, len(vals), l.vsize)
	}
	if math.IsNaN(t) {
		return nil, fmt.Errorf("%w: knot time is NaN", ErrInvalidArgument)
	}
	k := NewNumericListKnot(t, vals[:l.vsize]...)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.adjustRotations(k.v, k.v, t)
	l.insert(k, l.last)
	l.last = k
	return k, nil
}

// RigidTransform is a rotation R followed by a translation P.
type RigidTransform struct {
	R quat.Number
	P r3.Vec
}

// HasPositionStructure reports whether the elements between rotation
// subvectors (or all elements, without any) can be read as 3D points, that
// is whether each such run has a length divisible by three.
func (l *NumericList) HasPositionStructure() bool {
	off := 0
	for _, roff := range l.rotOffsets {
		if (roff-off)%vec3Size != 0 {
			return false
		}
		off = roff + l.rotRep.Size()
	}
	return (l.vsize-off)%vec3Size == 0
}

// TransformPositionData applies x to every knot, treating the runs between
// rotation subvectors as 3D points and rotating the subvectors themselves.
// It fails with ErrImproperState unless HasPositionStructure holds.
func (l *NumericList) TransformPositionData(x RigidTransform) error {
	if !l.HasPositionStructure() {
		return fmt.Errorf("%w: list data has no position structure", ErrImproperState)
	}
	r := geom.Normalize(x.R)
	l.mu.Lock()
	defer l.mu.Unlock()
	ends := append(slices.Clone(l.rotOffsets), l.vsize)
	var ref []float64
	for k := l.head; k != nil; k = k.next {
		if ref == nil {
			ref = slices.Clone(k.v)
		}
		off := 0
		for _, roff := range ends {
			for ; off+vec3Size <= roff; off += vec3Size {
				p := r3.Vec{X: k.v[off], Y: k.v[off+1], Z: k.v[off+2]}
				p = r3.Add(geom.Rotate(r, p), x.P)
				k.v[off], k.v[off+1], k.v[off+2] = p.X, p.Y, p.Z
			}
			if roff < l.vsize {
				size := l.rotRep.Size()
				q := quat.Mul(r, l.rotAt(k.v, roff))
				l.rotRep.put(k.v[roff:roff+size], q, ref[roff:roff+size])
				off = roff + size
			}
		}
		ref = k.v
	}
	l.minMaxValid = false
	return nil
}

// TransformVectorData rotates every consecutive triple of every knot by
// x.R; the translation does not apply to vectors. It fails with
// ErrImproperState unless the vector size is a multiple of three.
func (l *NumericList) TransformVectorData(x RigidTransform) error {
	if l.vsize%vec3Size != 0 {
		return fmt.Errorf("%w: vector size %d does not hold 3-vectors", ErrImproperState, l.vsize)
	}
	r := geom.Normalize(x.R)
	l.mu.Lock()
	defer l.mu.Unlock()
	for k := l.head; k != nil; k = k.next {
		for off := 0; off < l.vsize; off += vec3Size {
			v := geom.Rotate(r, r3.Vec{X: k.v[off], Y: k.v[off+1], Z: k.v[off+2]})
			k.v[off], k.v[off+1], k.v[off+2] = v.X, v.Y, v.Z
		}
	}
	l.minMaxValid = false
	return nil
}
