package interp

import (
	"fmt"

	"github.com/tphakala/go-curve-interp/internal/geom"
	"github.com/tphakala/go-curve-interp/internal/mathutil"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// segment is the interval [p.t, n.t) containing an evaluation time, with
// the outer neighbours used for tangent estimates.
type segment struct {
	pp, p, n, nn *NumericListKnot
	h, s         float64
	t            float64
}

func newSegment(prev *NumericListKnot, t float64) segment {
	next := prev.next
	h := next.t - prev.t
	return segment{
		pp: prev.prev, p: prev, n: next, nn: next.next,
		h: h, s: (t - prev.t) / h, t: t,
	}
}

// interpolator evaluates one interpolation order over a segment. dst has
// the list's vector size for eval and its derivative size for deriv.
type interpolator interface {
	eval(l *NumericList, sg segment, dst []float64)
	deriv(l *NumericList, sg segment, dst []float64) error
}

var interpolators = [numOrders]interpolator{
	Step:            stepInterp{},
	Linear:          linearInterp{},
	Parabolic:       parabolicInterp{},
	Cubic:           cubicInterp{},
	CubicStep:       cubicStepInterp{},
	SphericalLinear: sphericalLinearInterp{},
	SphericalCubic:  sphericalCubicInterp{},
}

// effectiveOrder downgrades orders the segment or the value shape cannot
// support: spherical orders need pose values and cubic orders need at least
// one outer neighbour.
func (l *NumericList) effectiveOrder(o Order, prev *NumericListKnot) Order {
	pose := l.shape.IsPose()
	noOuter := prev.prev == nil && prev.next.next == nil
	switch o {
	case SphericalLinear:
		if !pose {
			return Linear
		}
	case Cubic:
		if noOuter {
			return Linear
		}
	case SphericalCubic:
		switch {
		case noOuter && pose:
			return SphericalLinear
		case noOuter:
			return Linear
		case !pose:
			return Cubic
		}
	}
	return o
}

// sized returns dst resliced to n elements, allocating when it is too short.
func sized(dst []float64, n int) []float64 {
	if cap(dst) < n {
		return make([]float64, n)
	}
	return dst[:n]
}

// Interpolate computes the value at time t into dst and returns it. dst is
// reused when it has room for VectorSize elements.
func (l *NumericList) Interpolate(dst []float64, t float64) []float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	dst = sized(dst, l.vsize)
	l.last = l.interpolate(dst, t, l.interp, l.last)
	return dst
}

// InterpolateWith computes the value at time t with an explicit
// interpolation, starting the knot search at hint. It returns the value and
// the knot preceding t, which is a good hint for the next call.
func (l *NumericList) InterpolateWith(dst []float64, t float64, in Interpolation, hint *NumericListKnot) ([]float64, *NumericListKnot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	dst = sized(dst, l.vsize)
	if in.Validate() != nil {
		in.Order = Linear
	}
	return dst, l.interpolate(dst, t, in, hint)
}

func (l *NumericList) interpolate(dst []float64, t float64, in Interpolation, hint *NumericListKnot) *NumericListKnot {
	if l.head == nil {
		clear(dst)
		return nil
	}
	prev := l.findAtOrBefore(t, hint)
	if t <= prev.t || prev.next == nil {
		if in.ExtendData || prev.t == t {
			copy(dst, prev.v)
		} else {
			clear(dst)
		}
		return prev
	}
	order := l.effectiveOrder(in.Order, prev)
	interpolators[order].eval(l, newSegment(prev, t), dst)
	return prev
}

// InterpolateDeriv computes the time derivative at t of the interpolated
// curve into dst, which is reused when it has room for DerivSize elements.
// For spherical orders the rotation part of pose values is replaced by the
// world-frame angular velocity. Parabolic interpolation has no derivative.
func (l *NumericList) InterpolateDeriv(dst []float64, t float64) ([]float64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	dst = sized(dst, l.derivSize())
	prev, err := l.interpolateDeriv(dst, t, l.interp.Order, l.last)
	if prev != nil {
		l.last = prev
	}
	return dst, err
}

func (l *NumericList) interpolateDeriv(dst []float64, t float64, o Order, hint *NumericListKnot) (*NumericListKnot, error) {
	clear(dst)
	if l.head == nil {
		return nil, nil
	}
	prev := l.findAtOrBefore(t, hint)
	if prev.t > t {
		return prev, nil
	}
	if prev.next == nil {
		// the last knot itself takes the derivative from its left
		if prev.t != t || prev.prev == nil {
			return prev, nil
		}
		prev = prev.prev
	}
	order := l.effectiveOrder(o, prev)
	return prev, interpolators[order].deriv(l, newSegment(prev, t), dst)
}

// NumericalDeriv estimates the time derivative at t from three neighbouring
// knots, blending the two adjacent difference quotients. It falls back to
// the linear derivative when only two knots are available.
func (l *NumericList) NumericalDeriv(dst []float64, t float64) []float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	dst = sized(dst, l.derivSize())
	clear(dst)
	if l.head == nil {
		return dst
	}
	prev := l.findAtOrBefore(t, l.last)
	l.last = prev
	next := prev.next
	if prev.t > t {
		return dst
	}
	if next == nil {
		if prev.t != t || prev.prev == nil {
			return dst
		}
		next = prev
		prev = prev.prev
	}

	k0, k1 := prev, next
	var k2 *NumericListKnot
	if t-prev.t > (next.t-prev.t)/halfDivisor {
		k2 = next.next
	} else if prev.prev != nil {
		k0, k1, k2 = prev.prev, prev, next
	}

	spherical := l.interp.Order.IsSpherical() && l.shape.IsPose()
	if k2 == nil {
		sg := newSegment(prev, t)
		if spherical {
			_ = sphericalLinearInterp{}.deriv(l, sg, dst)
		} else {
			_ = linearInterp{}.deriv(l, sg, dst)
		}
		return dst
	}

	h0, h1 := k1.t-k0.t, k2.t-k1.t
	s := (halfDivisor*t - (k0.t + k1.t)) / (h0 + h1)
	a0 := (s - 1) / h0
	a1 := (1-s)/h0 - s/h1
	a2 := s / h1
	if !spherical {
		l.packDeriv(dst, func(d []float64) {
			for i := range d {
				d[i] = a0*k0.v[i] + a1*k1.v[i] + a2*k2.v[i]
			}
		}, func(off int) r3.Vec {
			q0, q1, q2 := l.rotAt(k0.v, off), l.rotAt(k1.v, off), l.rotAt(k2.v, off)
			return r3.Add(
				r3.Scale(1-s, geom.AngularVelocity(q0, q1, h0)),
				r3.Scale(s, geom.AngularVelocity(q1, q2, h1)))
		})
		return dst
	}

	sh := l.shape
	q0, q1, q2 := sh.rotation(k0.v), sh.rotation(k1.v), sh.rotation(k2.v)
	w := r3.Add(
		r3.Scale(1-s, geom.AngularVelocity(q0, q1, h0)),
		r3.Scale(s, geom.AngularVelocity(q1, q2, h1)))
	p0, p1, p2 := sh.position(k0.v), sh.position(k1.v), sh.position(k2.v)
	v := r3.Add(r3.Add(r3.Scale(a0, p0), r3.Scale(a1, p1)), r3.Scale(a2, p2))
	sh.setVelocity(dst, v, w)
	return dst
}

type stepInterp struct{}

func (stepInterp) eval(_ *NumericList, sg segment, dst []float64) {
	copy(dst, sg.p.v)
}

func (stepInterp) deriv(_ *NumericList, _ segment, dst []float64) error {
	clear(dst)
	return nil
}

type linearInterp struct{}

func (linearInterp) eval(l *NumericList, sg segment, dst []float64) {
	l.ops.Lerp(dst, sg.p.v, sg.n.v, sg.s)
	l.setRotations(dst, sg.reference(), func(off int) quat.Number {
		return geom.Slerp(l.rotAt(sg.p.v, off), l.rotAt(sg.n.v, off), sg.s)
	})
}

func (linearInterp) deriv(l *NumericList, sg segment, dst []float64) error {
	l.packDeriv(dst, func(d []float64) {
		for i := range d {
			d[i] = (sg.n.v[i] - sg.p.v[i]) / sg.h
		}
	}, func(off int) r3.Vec {
		return geom.AngularVelocity(l.rotAt(sg.p.v, off), l.rotAt(sg.n.v, off), sg.h)
	})
	return nil
}

// parabolicInterp passes a parabola through the segment and the knot before
// it, or the knot after it at the start of the list.
type parabolicInterp struct{}

func (parabolicInterp) eval(l *NumericList, sg segment, dst []float64) {
	k0, k1, k2 := sg.pp, sg.p, sg.n
	if k0 == nil {
		k0, k1, k2 = sg.p, sg.n, sg.nn
	}
	if k2 == nil {
		linearInterp{}.eval(l, sg, dst)
		return
	}
	// times relative to the segment start keep the system well scaled
	inv, err := mathutil.InverseVandermonde3(k0.t-sg.p.t, k1.t-sg.p.t, k2.t-sg.p.t)
	if err != nil {
		linearInterp{}.eval(l, sg, dst)
		return
	}
	u := sg.t - sg.p.t
	for i := range dst {
		y0, y1, y2 := k0.v[i], k1.v[i], k2.v[i]
		var c [3]float64
		for j := range c {
			c[j] = inv.At(j, 0)*y0 + inv.At(j, 1)*y1 + inv.At(j, 2)*y2
		}
		dst[i] = c[0] + (c[1]+c[2]*u)*u
	}
}

func (parabolicInterp) deriv(_ *NumericList, _ segment, _ []float64) error {
	return fmt.Errorf("%w: parabolic interpolation has no derivative", ErrInvalidArgument)
}

// cubicTangents returns the outer differences used as tangents at the
// segment ends, and the spans they were taken over. Missing neighbours fall
// back to the segment itself.
func (sg segment) cubicTangents() (pp, nn *NumericListKnot, hp, hn float64) {
	pp, hp = sg.p, sg.h
	if sg.pp != nil {
		pp, hp = sg.pp, sg.n.t-sg.pp.t
	}
	nn, hn = sg.n, sg.h
	if sg.nn != nil {
		nn, hn = sg.nn, sg.nn.t-sg.p.t
	}
	return pp, nn, hp, hn
}

type cubicInterp struct{}

// subvectorCurve returns the quaternion Hermite curve of the rotation
// subvector at off.
func (sg segment) subvectorCurve(l *NumericList, off int) (q0, q1 quat.Number, w0, w1 r3.Vec) {
	return sg.rotationCurve(func(v []float64) quat.Number { return l.rotAt(v, off) })
}

func (cubicInterp) eval(l *NumericList, sg segment, dst []float64) {
	pp, nn, hp, hn := sg.cubicTangents()
	s, h := sg.s, sg.h
	b1 := (hermiteTwo*s - hermiteThree) * s * s
	b2 := ((s-hermiteTwo)*s + 1) * s * h
	b3 := (s - 1) * s * s * h
	for i := range dst {
		p, n := sg.p.v[i], sg.n.v[i]
		vp := (n - pp.v[i]) / hp
		vn := (nn.v[i] - p) / hn
		dst[i] = b1*(p-n) + b2*vp + b3*vn + p
	}
	l.setRotations(dst, sg.reference(), func(off int) quat.Number {
		q0, q1, w0, w1 := sg.subvectorCurve(l, off)
		q, _ := geom.SphericalHermite(q0, w0, q1, w1, s, h)
		return q
	})
}

func (cubicInterp) deriv(l *NumericList, sg segment, dst []float64) error {
	pp, nn, hp, hn := sg.cubicTangents()
	s := sg.s
	c1 := hermiteSix * s * (s - 1) / sg.h
	c2 := (hermiteThree*s-4)*s + 1
	c3 := s * (hermiteThree*s - hermiteTwo)
	l.packDeriv(dst, func(d []float64) {
		for i := range d {
			p, n := sg.p.v[i], sg.n.v[i]
			vp := (n - pp.v[i]) / hp
			vn := (nn.v[i] - p) / hn
			d[i] = c1*(p-n) + c2*vp + c3*vn
		}
	}, func(off int) r3.Vec {
		q0, q1, w0, w1 := sg.subvectorCurve(l, off)
		_, w := geom.SphericalHermite(q0, w0, q1, w1, s, sg.h)
		return w
	})
	return nil
}

type cubicStepInterp struct{}

func (cubicStepInterp) eval(l *NumericList, sg segment, dst []float64) {
	s := sg.s
	b1 := (hermiteTwo*s - hermiteThree) * s * s
	for i := range dst {
		p := sg.p.v[i]
		dst[i] = b1*(p-sg.n.v[i]) + p
	}
	l.setRotations(dst, sg.reference(), func(off int) quat.Number {
		q, _ := geom.SphericalHermite(l.rotAt(sg.p.v, off), r3.Vec{}, l.rotAt(sg.n.v, off), r3.Vec{}, s, sg.h)
		return q
	})
}

func (cubicStepInterp) deriv(l *NumericList, sg segment, dst []float64) error {
	s := sg.s
	c1 := hermiteSix * s * (s - 1) / sg.h
	l.packDeriv(dst, func(d []float64) {
		for i := range d {
			d[i] = c1 * (sg.p.v[i] - sg.n.v[i])
		}
	}, func(off int) r3.Vec {
		_, w := geom.SphericalHermite(l.rotAt(sg.p.v, off), r3.Vec{}, l.rotAt(sg.n.v, off), r3.Vec{}, s, sg.h)
		return w
	})
	return nil
}

// reference picks the knot whose rotation encoding an interpolated value
// should agree with.
func (sg segment) reference() []float64 {
	if sg.s < 1.0/halfDivisor {
		return sg.p.v
	}
	return sg.n.v
}

type sphericalLinearInterp struct{}

func (sphericalLinearInterp) eval(l *NumericList, sg segment, dst []float64) {
	sh := l.shape
	if sh.HasPosition() {
		sh.setPosition(dst, r3.Add(
			r3.Scale(1-sg.s, sh.position(sg.p.v)),
			r3.Scale(sg.s, sh.position(sg.n.v))))
	}
	q := geom.Slerp(sh.rotation(sg.p.v), sh.rotation(sg.n.v), sg.s)
	sh.setRotation(dst, q, sg.reference())
}

func (sphericalLinearInterp) deriv(l *NumericList, sg segment, dst []float64) error {
	sh := l.shape
	w := geom.AngularVelocity(sh.rotation(sg.p.v), sh.rotation(sg.n.v), sg.h)
	v := r3.Scale(1/sg.h, r3.Sub(sh.position(sg.n.v), sh.position(sg.p.v)))
	sh.setVelocity(dst, v, w)
	return nil
}

type sphericalCubicInterp struct{}

// rotationCurve returns the end rotations and angular velocities of the
// quaternion Hermite curve over the segment, reading rotations with rot.
func (sg segment) rotationCurve(rot func([]float64) quat.Number) (q0, q1 quat.Number, w0, w1 r3.Vec) {
	q0, q1 = rot(sg.p.v), rot(sg.n.v)
	if sg.pp != nil {
		w0 = geom.AngularVelocity3(rot(sg.pp.v), q0, q1, sg.n.t-sg.pp.t)
	} else {
		w0 = geom.AngularVelocity(q0, q1, sg.h)
	}
	if sg.nn != nil {
		w1 = geom.AngularVelocity3(q0, q1, rot(sg.nn.v), sg.nn.t-sg.p.t)
	} else {
		w1 = geom.AngularVelocity(q0, q1, sg.h)
	}
	return q0, q1, w0, w1
}

// positionCurve returns the end positions and velocities of the position
// Hermite curve over the segment.
func (sg segment) positionCurve(sh ValueShape) (p0, p1, v0, v1 r3.Vec) {
	p0, p1 = sh.position(sg.p.v), sh.position(sg.n.v)
	chord := r3.Scale(1/sg.h, r3.Sub(p1, p0))
	v0, v1 = chord, chord
	if sg.pp != nil {
		v0 = r3.Scale(1/(sg.n.t-sg.pp.t), r3.Sub(p1, sh.position(sg.pp.v)))
	}
	if sg.nn != nil {
		v1 = r3.Scale(1/(sg.nn.t-sg.p.t), r3.Sub(sh.position(sg.nn.v), p0))
	}
	return p0, p1, v0, v1
}

func (sphericalCubicInterp) eval(l *NumericList, sg segment, dst []float64) {
	sh := l.shape
	if sh.HasPosition() {
		p0, p1, v0, v1 := sg.positionCurve(sh)
		sh.setPosition(dst, hermitePoint(p0, v0, p1, v1, sg.s, sg.h))
	}
	q0, q1, w0, w1 := sg.rotationCurve(sh.rotation)
	q, _ := geom.SphericalHermite(q0, w0, q1, w1, sg.s, sg.h)
	sh.setRotation(dst, q, sg.reference())
}

func (sphericalCubicInterp) deriv(l *NumericList, sg segment, dst []float64) error {
	sh := l.shape
	var v r3.Vec
	if sh.HasPosition() {
		p0, p1, v0, v1 := sg.positionCurve(sh)
		v = hermiteVelocity(p0, v0, p1, v1, sg.s, sg.h)
	}
	q0, q1, w0, w1 := sg.rotationCurve(sh.rotation)
	_, w := geom.SphericalHermite(q0, w0, q1, w1, sg.s, sg.h)
	sh.setVelocity(dst, v, w)
	return nil
}

// hermitePoint evaluates the cubic Hermite curve with end points p0, p1 and
// end velocities v0, v1 over a segment of duration h, at fraction s.
func hermitePoint(p0, v0, p1, v1 r3.Vec, s, h float64) r3.Vec {
	s2 := s * s
	s3 := s2 * s
	h00 := hermiteTwo*s3 - hermiteThree*s2 + 1
	h10 := s3 - hermiteTwo*s2 + s
	h01 := -hermiteTwo*s3 + hermiteThree*s2
	h11 := s3 - s2
	return r3.Add(
		r3.Add(r3.Scale(h00, p0), r3.Scale(h10*h, v0)),
		r3.Add(r3.Scale(h01, p1), r3.Scale(h11*h, v1)))
}

// hermiteVelocity is the time derivative of hermitePoint.
func hermiteVelocity(p0, v0, p1, v1 r3.Vec, s, h float64) r3.Vec {
	s2 := s * s
	d00 := hermiteSix*s2 - hermiteSix*s
	d10 := hermiteThree*s2 - 4*s + 1
	d01 := -d00
	d11 := hermiteThree*s2 - hermiteTwo*s
	return r3.Add(
		r3.Add(r3.Scale(d00/h, p0), r3.Scale(d10, v0)),
		r3.Add(r3.Scale(d01/h, p1), r3.Scale(d11, v1)))
}
