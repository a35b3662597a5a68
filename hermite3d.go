package interp

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/spatial/r3"
)

// HermiteKnot3d is a knot of a CubicHermiteSpline3d. The segment leaving
// the knot is x(s) = a0 + a1*d + a2*d² + a3*d³ with d = s - S(), where a0
// is the knot value and a1 its derivative.
type HermiteKnot3d struct {
	s              float64
	a0, a1, a2, a3 r3.Vec
	index          int
}

// S returns the knot parameter.
func (k HermiteKnot3d) S() float64 { return k.s }

// X returns the value at the knot.
func (k HermiteKnot3d) X() r3.Vec { return k.a0 }

// Dx returns the derivative at the knot.
func (k HermiteKnot3d) Dx() r3.Vec { return k.a1 }

// A2 returns the quadratic coefficient of the outgoing segment.
func (k HermiteKnot3d) A2() r3.Vec { return k.a2 }

// A3 returns the cubic coefficient of the outgoing segment.
func (k HermiteKnot3d) A3() r3.Vec { return k.a3 }

// Index returns the position of the knot within its spline.
func (k HermiteKnot3d) Index() int { return k.index }

// Eval evaluates the outgoing segment at s.
func (k HermiteKnot3d) Eval(s float64) r3.Vec {
	d := s - k.s
	x := r3.Add(k.a2, r3.Scale(d, k.a3))
	x = r3.Add(k.a1, r3.Scale(d, x))
	return r3.Add(k.a0, r3.Scale(d, x))
}

// EvalDx evaluates the first derivative of the outgoing segment at s.
func (k HermiteKnot3d) EvalDx(s float64) r3.Vec {
	d := s - k.s
	dx := r3.Add(r3.Scale(hermiteTwo, k.a2), r3.Scale(hermiteThree*d, k.a3))
	return r3.Add(k.a1, r3.Scale(d, dx))
}

// EvalDx2 evaluates the second derivative of the outgoing segment at s.
func (k HermiteKnot3d) EvalDx2(s float64) r3.Vec {
	d := s - k.s
	return r3.Add(r3.Scale(hermiteTwo, k.a2), r3.Scale(hermiteSix*d, k.a3))
}

// computeCoefficients derives a2 and a3 for a segment of length h ending at
// next. A nil next clears them.
func (k *HermiteKnot3d) computeCoefficients(next *HermiteKnot3d, h float64) {
	if next == nil {
		k.a2, k.a3 = r3.Vec{}, r3.Vec{}
		return
	}
	x0h := r3.Scale(1/h, k.a0)
	x1h := r3.Scale(1/h, next.a0)
	// a2 = (-3x0/h - 2dx0 + 3x1/h - dx1)/h
	a2 := r3.Sub(r3.Scale(hermiteThree, r3.Sub(x1h, x0h)), r3.Add(r3.Scale(hermiteTwo, k.a1), next.a1))
	k.a2 = r3.Scale(1/h, a2)
	// a3 = (2x0/h + dx0 - 2x1/h + dx1)/h²
	a3 := r3.Add(r3.Scale(hermiteTwo, r3.Sub(x0h, x1h)), r3.Add(k.a1, next.a1))
	k.a3 = r3.Scale(1/(h*h), a3)
}

// CubicHermiteSpline3d is a piecewise cubic x(s) in three dimensions. An
// open spline extends linearly beyond its end knots. A closed spline joins
// its last knot back to the first over an explicit closing length, and
// evaluation wraps s periodically.
//
// The zero value is an empty open spline ready to use. A
// CubicHermiteSpline3d is not safe for concurrent mutation.
type CubicHermiteSpline3d struct {
	knots         []HermiteKnot3d
	closingLength float64
}

// NewCubicHermiteSpline3d returns an empty open spline.
func NewCubicHermiteSpline3d() *CubicHermiteSpline3d {
	return &CubicHermiteSpline3d{}
}

// NewCubicHermiteSpline3dFrom returns an open spline with the given knots.
// See Set.
func NewCubicHermiteSpline3dFrom(svals []float64, xs, dxs []r3.Vec) (*CubicHermiteSpline3d, error) {
	sp := &CubicHermiteSpline3d{}
	if err := sp.Set(svals, xs, dxs); err != nil {
		return nil, err
	}
	return sp, nil
}

// NumKnots returns the number of knots.
func (sp *CubicHermiteSpline3d) NumKnots() int {
	return len(sp.knots)
}

// Knot returns the i-th knot. It panics if i is out of range.
func (sp *CubicHermiteSpline3d) Knot(i int) HermiteKnot3d {
	return sp.knots[i]
}

// Knots returns a copy of all knots in order.
func (sp *CubicHermiteSpline3d) Knots() []HermiteKnot3d {
	return slices.Clone(sp.knots)
}

// First returns the first knot, if any.
func (sp *CubicHermiteSpline3d) First() (HermiteKnot3d, bool) {
	if len(sp.knots) == 0 {
		return HermiteKnot3d{}, false
	}
	return sp.knots[0], true
}

// Last returns the last knot, if any.
func (sp *CubicHermiteSpline3d) Last() (HermiteKnot3d, bool) {
	if len(sp.knots) == 0 {
		return HermiteKnot3d{}, false
	}
	return sp.knots[len(sp.knots)-1], true
}

// S0 returns the parameter of the first knot, or 0.
func (sp *CubicHermiteSpline3d) S0() float64 {
	if len(sp.knots) == 0 {
		return 0
	}
	return sp.knots[0].s
}

// SLast returns the parameter of the last knot, or 0.
func (sp *CubicHermiteSpline3d) SLast() float64 {
	if len(sp.knots) == 0 {
		return 0
	}
	return sp.knots[len(sp.knots)-1].s
}

// SLength returns the parameter span of the spline, including the closing
// segment when closed.
func (sp *CubicHermiteSpline3d) SLength() float64 {
	return sp.SLast() - sp.S0() + sp.closingLength
}

// IsClosed reports whether the spline wraps around.
func (sp *CubicHermiteSpline3d) IsClosed() bool {
	return sp.closingLength > 0
}

// ClosingLength returns the parameter length of the closing segment, or 0
// for an open spline.
func (sp *CubicHermiteSpline3d) ClosingLength() float64 {
	return sp.closingLength
}

// SetClosed closes the spline with a closing segment of the given length.
// A length <= 0 opens it.
func (sp *CubicHermiteSpline3d) SetClosed(length float64) {
	sp.closingLength = max(length, 0)
	if n := len(sp.knots); n > 0 {
		sp.reknitKnot(n - 1)
	}
}

// NormalizeS maps s into [S0, S0+SLength) for a closed spline. Open splines
// return s unchanged.
func (sp *CubicHermiteSpline3d) NormalizeS(s float64) float64 {
	if !sp.IsClosed() || len(sp.knots) == 0 {
		return s
	}
	s0 := sp.knots[0].s
	l := sp.SLength()
	if s >= s0 && s < s0+l {
		return s
	}
	r := math.Mod(s-s0, l)
	if r < 0 {
		r += l
	}
	if r >= l {
		r = 0
	}
	return s0 + r
}

// Clear removes all knots. The closing length is kept.
func (sp *CubicHermiteSpline3d) Clear() {
	sp.knots = sp.knots[:0]
}

// AddKnot inserts a knot at s, replacing in place any knot already at
// exactly s. Affected coefficients, including the closing segment, are
// recomputed. The stored knot is returned.
func (sp *CubicHermiteSpline3d) AddKnot(s float64, x, dx r3.Vec) HermiteKnot3d {
	k := HermiteKnot3d{s: s, a0: x, a1: dx}
	i := sp.PrecedingIndex(s)
	if i >= 0 && sp.knots[i].s == s {
		k.index = i
		sp.knots[i] = k
	} else {
		i++
		sp.knots = slices.Insert(sp.knots, i, k)
		sp.reindex(i)
	}
	sp.reknit(i)
	return sp.knots[i]
}

// RemoveKnot removes the i-th knot. It reports false if i is out of range.
func (sp *CubicHermiteSpline3d) RemoveKnot(i int) bool {
	if i < 0 || i >= len(sp.knots) {
		return false
	}
	sp.knots = slices.Delete(sp.knots, i, i+1)
	sp.reindex(i)
	sp.reknitAll()
	return true
}

// Set replaces the knots. svals must be strictly increasing and all slices
// must have equal length; on error the spline is unchanged. The closing
// length is kept.
func (sp *CubicHermiteSpline3d) Set(svals []float64, xs, dxs []r3.Vec) error {
	if len(xs) != len(svals) || len(dxs) != len(svals) {
		return fmt.Errorf("%w: %d parameters, %d values, %d derivatives",
			ErrInvalidArgument, len(svals), len(xs), len(dxs))
	}
	if err := checkAscending(svals); err != nil {
		return err
	}
	sp.knots = make([]HermiteKnot3d, len(svals))
	for i := range svals {
		sp.knots[i] = HermiteKnot3d{s: svals[i], a0: xs[i], a1: dxs[i], index: i}
	}
	sp.reknitAll()
	return nil
}

// PrecedingIndex returns the index of the last knot with parameter <= s, or
// -1 if there is none. For closed splines s is normalized first.
func (sp *CubicHermiteSpline3d) PrecedingIndex(s float64) int {
	i, _ := sp.PrecedingIndexAt(Cursor{}, s)
	return i
}

// PrecedingIndexAt is PrecedingIndex with a search hint.
func (sp *CubicHermiteSpline3d) PrecedingIndexAt(c Cursor, s float64) (int, Cursor) {
	s = sp.NormalizeS(s)
	i := precedingIndex(len(sp.knots), func(i int) float64 { return sp.knots[i].s }, c, s)
	return i, cursorAt(i)
}

// Eval returns the spline value at s.
func (sp *CubicHermiteSpline3d) Eval(s float64) r3.Vec {
	x, _ := sp.EvalAt(Cursor{}, s)
	return x
}

// EvalAt is Eval with a search hint.
func (sp *CubicHermiteSpline3d) EvalAt(c Cursor, s float64) (r3.Vec, Cursor) {
	if len(sp.knots) == 0 {
		return r3.Vec{}, c
	}
	k, s, inside, c := sp.segment(c, s)
	if !inside {
		return r3.Add(k.a0, r3.Scale(s-k.s, k.a1)), c
	}
	return k.Eval(s), c
}

// EvalDx returns the derivative at s.
func (sp *CubicHermiteSpline3d) EvalDx(s float64) r3.Vec {
	dx, _ := sp.EvalDxAt(Cursor{}, s)
	return dx
}

// EvalDxAt is EvalDx with a search hint.
func (sp *CubicHermiteSpline3d) EvalDxAt(c Cursor, s float64) (r3.Vec, Cursor) {
	if len(sp.knots) == 0 {
		return r3.Vec{}, c
	}
	k, s, inside, c := sp.segment(c, s)
	if !inside {
		return k.a1, c
	}
	return k.EvalDx(s), c
}

// EvalDx2 returns the second derivative at s. For open splines it is zero
// beyond the end knots, and the left limit at the last knot.
func (sp *CubicHermiteSpline3d) EvalDx2(s float64) r3.Vec {
	ddx, _ := sp.EvalDx2At(Cursor{}, s)
	return ddx
}

// EvalDx2At is EvalDx2 with a search hint.
func (sp *CubicHermiteSpline3d) EvalDx2At(c Cursor, s float64) (r3.Vec, Cursor) {
	n := len(sp.knots)
	if n == 0 {
		return r3.Vec{}, c
	}
	k, s, inside, c := sp.segment(c, s)
	if !inside {
		if sp.IsClosed() || n < 2 || k.index != n-1 || s != k.s {
			return r3.Vec{}, c
		}
		k = &sp.knots[n-2]
	}
	return k.EvalDx2(s), c
}

// segment returns the knot whose polynomial applies at s together with the
// normalized parameter. inside is false when an open spline must be
// extrapolated from the returned boundary knot.
func (sp *CubicHermiteSpline3d) segment(c Cursor, s float64) (*HermiteKnot3d, float64, bool, Cursor) {
	s = sp.NormalizeS(s)
	i, c := sp.PrecedingIndexAt(c, s)
	switch {
	case i < 0:
		return &sp.knots[0], s, false, c
	case i == len(sp.knots)-1 && !sp.IsClosed():
		return &sp.knots[i], s, false, c
	}
	return &sp.knots[i], s, true, c
}

// SampledValues returns numv+1 values sampled uniformly from S0 to SLast.
// It returns nil when the parameter range is empty.
func (sp *CubicHermiteSpline3d) SampledValues(numv int) []r3.Vec {
	s0, sl := sp.S0(), sp.SLast()
	if !(sl > s0) || numv < 1 {
		return nil
	}
	vals := make([]r3.Vec, 0, numv+1)
	var c Cursor
	for i := 0; i <= numv; i++ {
		var x r3.Vec
		x, c = sp.EvalAt(c, s0+float64(i)*(sl-s0)/float64(numv))
		vals = append(vals, x)
	}
	return vals
}

// ArcLength approximates the curve length between S0 and SLast (plus the
// closing segment for closed splines) by summing n chords.
func (sp *CubicHermiteSpline3d) ArcLength(n int) float64 {
	if len(sp.knots) == 0 || n < 1 || (len(sp.knots) < 2 && !sp.IsClosed()) {
		return 0
	}
	s0, l := sp.S0(), sp.SLength()
	var total float64
	prev, c := sp.EvalAt(Cursor{}, s0)
	for i := 1; i <= n; i++ {
		s := s0 + float64(i)*l/float64(n)
		var x r3.Vec
		if i == n && sp.IsClosed() {
			x = sp.knots[0].a0
		} else {
			x, c = sp.EvalAt(c, s)
		}
		total += r3.Norm(r3.Sub(x, prev))
		prev = x
	}
	return total
}

// Copy returns a deep copy of the spline.
func (sp *CubicHermiteSpline3d) Copy() *CubicHermiteSpline3d {
	return &CubicHermiteSpline3d{knots: slices.Clone(sp.knots), closingLength: sp.closingLength}
}

// Equal reports whether both splines have identical knots and closure.
func (sp *CubicHermiteSpline3d) Equal(other *CubicHermiteSpline3d) bool {
	return sp.EpsilonEqual(other, 0)
}

// EpsilonEqual reports whether both splines have the same closing length
// and number of knots, with parameters, values and derivatives within tol.
func (sp *CubicHermiteSpline3d) EpsilonEqual(other *CubicHermiteSpline3d, tol float64) bool {
	if len(sp.knots) != len(other.knots) || !withinTol(sp.closingLength, other.closingLength, tol) {
		return false
	}
	for i, k := range sp.knots {
		o := other.knots[i]
		if !withinTol(k.s, o.s, tol) || !vecWithinTol(k.a0, o.a0, tol) || !vecWithinTol(k.a1, o.a1, tol) {
			return false
		}
	}
	return true
}

// reknit recomputes the coefficients depending on knot i: its own, its
// predecessor's and, for a closed spline whose first knot changed, the
// closing segment's.
func (sp *CubicHermiteSpline3d) reknit(i int) {
	if i > 0 {
		sp.reknitKnot(i - 1)
	}
	sp.reknitKnot(i)
	if i == 0 && sp.IsClosed() {
		sp.reknitKnot(len(sp.knots) - 1)
	}
}

func (sp *CubicHermiteSpline3d) reknitAll() {
	for j := range sp.knots {
		sp.reknitKnot(j)
	}
}

func (sp *CubicHermiteSpline3d) reknitKnot(j int) {
	n := len(sp.knots)
	k := &sp.knots[j]
	switch {
	case j+1 < n:
		next := &sp.knots[j+1]
		k.computeCoefficients(next, next.s-k.s)
	case sp.IsClosed():
		k.computeCoefficients(&sp.knots[0], sp.closingLength)
	default:
		k.computeCoefficients(nil, 0)
	}
}

func (sp *CubicHermiteSpline3d) reindex(from int) {
	for j := from; j < len(sp.knots); j++ {
		sp.knots[j].index = j
	}
}

func vecWithinTol(a, b r3.Vec, tol float64) bool {
	return withinTol(a.X, b.X, tol) && withinTol(a.Y, b.Y, tol) && withinTol(a.Z, b.Z, tol)
}
