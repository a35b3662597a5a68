package interp

import (
	"fmt"
	"math"
	"slices"

	"github.com/tphakala/go-curve-interp/internal/mathutil"
	"gonum.org/v1/gonum/mat"
)

// HermiteKnot1d is a knot of a CubicHermiteSpline1d. Besides its position,
// value and derivative it stores the a2 and a3 coefficients of the cubic
// running from this knot to the next, in powers of (x - X()). The
// coefficients of the last knot are zero.
type HermiteKnot1d struct {
	x, y, dy float64
	a2, a3   float64
	index    int
}

// X returns the knot position.
func (k HermiteKnot1d) X() float64 { return k.x }

// Y returns the value at the knot.
func (k HermiteKnot1d) Y() float64 { return k.y }

// Dy returns the first derivative at the knot.
func (k HermiteKnot1d) Dy() float64 { return k.dy }

// A2 returns the quadratic coefficient of the outgoing segment.
func (k HermiteKnot1d) A2() float64 { return k.a2 }

// A3 returns the cubic coefficient of the outgoing segment.
func (k HermiteKnot1d) A3() float64 { return k.a3 }

// Index returns the position of the knot within its spline.
func (k HermiteKnot1d) Index() int { return k.index }

// EvalY evaluates the outgoing segment polynomial at x.
func (k HermiteKnot1d) EvalY(x float64) float64 {
	d := x - k.x
	return k.y + (k.dy+(k.a2+k.a3*d)*d)*d
}

// EvalDy evaluates the first derivative of the outgoing segment at x.
func (k HermiteKnot1d) EvalDy(x float64) float64 {
	d := x - k.x
	return k.dy + (hermiteTwo*k.a2+hermiteThree*k.a3*d)*d
}

// EvalDy2 evaluates the second derivative of the outgoing segment at x.
func (k HermiteKnot1d) EvalDy2(x float64) float64 {
	return hermiteTwo*k.a2 + hermiteSix*k.a3*(x-k.x)
}

// EvalDy3 returns the (constant) third derivative of the outgoing segment.
func (k HermiteKnot1d) EvalDy3(float64) float64 {
	return hermiteSix * k.a3
}

// computeCoefficients derives a2 and a3 from this knot and next. A nil next
// marks the last knot.
func (k *HermiteKnot1d) computeCoefficients(next *HermiteKnot1d) {
	if next == nil {
		k.a2, k.a3 = 0, 0
		return
	}
	h := next.x - k.x
	y0h := k.y / h
	y1h := next.y / h
	k.a2 = (-3*y0h - 2*k.dy + 3*y1h - next.dy) / h
	k.a3 = (2*y0h + k.dy - 2*y1h + next.dy) / (h * h)
}

// CubicHermiteSpline1d is a piecewise cubic y(x) defined by knots carrying
// a value and a first derivative. Outside the knot range it extends
// linearly from the boundary knot. The zero value is an empty spline ready
// to use.
//
// A CubicHermiteSpline1d is not safe for concurrent mutation.
type CubicHermiteSpline1d struct {
	knots      []HermiteKnot1d
	invertible tristate
}

// NewCubicHermiteSpline1d returns an empty spline.
func NewCubicHermiteSpline1d() *CubicHermiteSpline1d {
	return &CubicHermiteSpline1d{}
}

// NewCubicHermiteSpline1dFrom returns a spline with the given knots. See Set.
func NewCubicHermiteSpline1dFrom(xs, ys, dys []float64) (*CubicHermiteSpline1d, error) {
	sp := &CubicHermiteSpline1d{}
	if err := sp.Set(xs, ys, dys); err != nil {
		return nil, err
	}
	return sp, nil
}

// NumKnots returns the number of knots.
func (sp *CubicHermiteSpline1d) NumKnots() int {
	return len(sp.knots)
}

// Knot returns the i-th knot. It panics if i is out of range.
func (sp *CubicHermiteSpline1d) Knot(i int) HermiteKnot1d {
	return sp.knots[i]
}

// Knots returns a copy of all knots in order.
func (sp *CubicHermiteSpline1d) Knots() []HermiteKnot1d {
	return slices.Clone(sp.knots)
}

// First returns the first knot, if any.
func (sp *CubicHermiteSpline1d) First() (HermiteKnot1d, bool) {
	if len(sp.knots) == 0 {
		return HermiteKnot1d{}, false
	}
	return sp.knots[0], true
}

// Last returns the last knot, if any.
func (sp *CubicHermiteSpline1d) Last() (HermiteKnot1d, bool) {
	if len(sp.knots) == 0 {
		return HermiteKnot1d{}, false
	}
	return sp.knots[len(sp.knots)-1], true
}

// Clear removes all knots.
func (sp *CubicHermiteSpline1d) Clear() {
	sp.knots = sp.knots[:0]
	sp.invertible = unknown
}

// AddKnot inserts a knot. A knot already at exactly x is replaced in place,
// keeping its index. The coefficients of the new knot and its predecessor
// are recomputed. The stored knot is returned.
func (sp *CubicHermiteSpline1d) AddKnot(x, y, dy float64) HermiteKnot1d {
	k := HermiteKnot1d{x: x, y: y, dy: dy}
	i := sp.PrecedingIndex(x)
	if i >= 0 && sp.knots[i].x == x {
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

// RemoveKnot removes the i-th knot and recomputes the coefficients of its
// predecessor. It reports false if i is out of range.
func (sp *CubicHermiteSpline1d) RemoveKnot(i int) bool {
	if i < 0 || i >= len(sp.knots) {
		return false
	}
	sp.knots = slices.Delete(sp.knots, i, i+1)
	sp.reindex(i)
	sp.reknit(i - 1)
	return true
}

// Set replaces the knots. xs must be strictly increasing and the slices
// must have equal length; on error the spline is unchanged.
func (sp *CubicHermiteSpline1d) Set(xs, ys, dys []float64) error {
	if len(ys) != len(xs) || len(dys) != len(xs) {
		return fmt.Errorf("%w: %d positions, %d values, %d derivatives",
			ErrInvalidArgument, len(xs), len(ys), len(dys))
	}
	if err := checkAscending(xs); err != nil {
		return err
	}
	sp.knots = make([]HermiteKnot1d, len(xs))
	for i := range xs {
		sp.knots[i] = HermiteKnot1d{x: xs[i], y: ys[i], dy: dys[i], index: i}
	}
	sp.reknitAll()
	return nil
}

// SetNatural replaces the knots with the natural cubic spline through the
// points (xs[i], ys[i]) whose second derivative is ddy0 at the first knot
// and ddyL at the last. Two points give a single linear segment and one
// point a constant.
//
// Inputs are validated before the spline is modified; if the solve itself
// fails the spline is left empty.
func (sp *CubicHermiteSpline1d) SetNatural(xs, ys []float64, ddy0, ddyL float64) error {
	n := len(xs)
	if len(ys) != n {
		return fmt.Errorf("%w: %d positions, %d values", ErrInvalidArgument, n, len(ys))
	}
	if err := checkAscending(xs); err != nil {
		return err
	}
	sp.Clear()
	switch n {
	case 0:
		return nil
	case 1:
		sp.AddKnot(xs[0], ys[0], 0)
		return nil
	case 2:
		slope := (ys[1] - ys[0]) / (xs[1] - xs[0])
		return sp.Set(xs, ys, []float64{slope, slope})
	}

	// Unknowns are c[k] = y''(x[k])/2 for the interior knots.
	m := n - 2
	h := make([]float64, n-1)
	for k := range h {
		h[k] = xs[k+1] - xs[k]
	}
	c0, cL := ddy0/halfDivisor, ddyL/halfDivisor
	dl := make([]float64, m-1)
	d := make([]float64, m)
	du := make([]float64, m-1)
	rhs := mat.NewDense(m, 1, nil)
	for r := range m {
		k := r + 1
		d[r] = 2 * (h[k-1] + h[k])
		if r > 0 {
			dl[r-1] = h[k-1]
		}
		if r < m-1 {
			du[r] = h[k]
		}
		b := 3 * ((ys[k+1]-ys[k])/h[k] - (ys[k]-ys[k-1])/h[k-1])
		if k == 1 {
			b -= h[0] * c0
		}
		if k == n-2 {
			b -= h[n-2] * cL
		}
		rhs.Set(r, 0, b)
	}
	sol, err := mathutil.SolveTridiag(dl, d, du, rhs)
	if err != nil {
		return fmt.Errorf("%w: natural spline: %w", ErrInvalidArgument, err)
	}

	c := make([]float64, n)
	c[0], c[n-1] = c0, cL
	for r := range m {
		c[r+1] = sol.At(r, 0)
	}
	sp.knots = make([]HermiteKnot1d, n)
	for k := range n {
		sp.knots[k] = HermiteKnot1d{x: xs[k], y: ys[k], index: k}
	}
	for k := range n - 1 {
		sp.knots[k].dy = (ys[k+1]-ys[k])/h[k] - h[k]*(2*c[k]+c[k+1])/hermiteThree
	}
	// Slope at the end of the last segment.
	hl := h[n-2]
	sp.knots[n-1].dy = (ys[n-1]-ys[n-2])/hl + hl*(c[n-2]+2*c[n-1])/hermiteThree
	sp.reknitAll()
	return nil
}

// PrecedingIndex returns the index of the last knot with position <= x, or
// -1 if there is none.
func (sp *CubicHermiteSpline1d) PrecedingIndex(x float64) int {
	i, _ := sp.PrecedingIndexAt(Cursor{}, x)
	return i
}

// PrecedingIndexAt is PrecedingIndex with a search hint.
func (sp *CubicHermiteSpline1d) PrecedingIndexAt(c Cursor, x float64) (int, Cursor) {
	i := precedingIndex(len(sp.knots), func(i int) float64 { return sp.knots[i].x }, c, x)
	return i, cursorAt(i)
}

// EvalY returns the spline value at x.
func (sp *CubicHermiteSpline1d) EvalY(x float64) float64 {
	y, _ := sp.EvalYAt(Cursor{}, x)
	return y
}

// EvalYAt is EvalY with a search hint.
func (sp *CubicHermiteSpline1d) EvalYAt(c Cursor, x float64) (float64, Cursor) {
	if len(sp.knots) == 0 {
		return 0, c
	}
	k, inside, c := sp.segment(c, x)
	if !inside {
		return k.y + k.dy*(x-k.x), c
	}
	return k.EvalY(x), c
}

// EvalDy returns the first derivative at x.
func (sp *CubicHermiteSpline1d) EvalDy(x float64) float64 {
	dy, _ := sp.EvalDyAt(Cursor{}, x)
	return dy
}

// EvalDyAt is EvalDy with a search hint.
func (sp *CubicHermiteSpline1d) EvalDyAt(c Cursor, x float64) (float64, Cursor) {
	if len(sp.knots) == 0 {
		return 0, c
	}
	k, inside, c := sp.segment(c, x)
	if !inside {
		return k.dy, c
	}
	return k.EvalDy(x), c
}

// EvalDy2 returns the second derivative at x. It is zero outside the knot
// range; at the last knot the left limit is returned.
func (sp *CubicHermiteSpline1d) EvalDy2(x float64) float64 {
	ddy, _ := sp.EvalDy2At(Cursor{}, x)
	return ddy
}

// EvalDy2At is EvalDy2 with a search hint.
func (sp *CubicHermiteSpline1d) EvalDy2At(c Cursor, x float64) (float64, Cursor) {
	k, ok, c := sp.segmentClosed(c, x)
	if !ok {
		return 0, c
	}
	return k.EvalDy2(x), c
}

// EvalDy3 returns the third derivative at x, with the same end handling as
// EvalDy2.
func (sp *CubicHermiteSpline1d) EvalDy3(x float64) float64 {
	dddy, _ := sp.EvalDy3At(Cursor{}, x)
	return dddy
}

// EvalDy3At is EvalDy3 with a search hint.
func (sp *CubicHermiteSpline1d) EvalDy3At(c Cursor, x float64) (float64, Cursor) {
	k, ok, c := sp.segmentClosed(c, x)
	if !ok {
		return 0, c
	}
	return k.EvalDy3(x), c
}

// segment returns the knot whose polynomial applies at x. inside is false
// when x lies outside the knot range (or exactly on the last knot), in
// which case the returned knot is the boundary knot to extrapolate from.
func (sp *CubicHermiteSpline1d) segment(c Cursor, x float64) (*HermiteKnot1d, bool, Cursor) {
	i, c := sp.PrecedingIndexAt(c, x)
	switch {
	case i < 0:
		return &sp.knots[0], false, c
	case i == len(sp.knots)-1:
		return &sp.knots[i], false, c
	}
	return &sp.knots[i], true, c
}

// segmentClosed is like segment but treats the knot range as closed on
// both ends, reporting false only strictly outside it.
func (sp *CubicHermiteSpline1d) segmentClosed(c Cursor, x float64) (*HermiteKnot1d, bool, Cursor) {
	n := len(sp.knots)
	if n < 2 {
		return nil, false, c
	}
	i, c := sp.PrecedingIndexAt(c, x)
	switch {
	case i < 0:
		return nil, false, c
	case i == n-1:
		if x > sp.knots[i].x {
			return nil, false, c
		}
		i--
	}
	return &sp.knots[i], true, c
}

// YRange returns the smallest and largest knot values.
func (sp *CubicHermiteSpline1d) YRange() (lo, hi float64) {
	if len(sp.knots) == 0 {
		return 0, 0
	}
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, k := range sp.knots {
		lo = min(lo, k.y)
		hi = max(hi, k.y)
	}
	return lo, hi
}

// ScaleX multiplies every knot position by s > 0, adjusting derivatives so
// that the curve shape is preserved.
func (sp *CubicHermiteSpline1d) ScaleX(s float64) error {
	if !(s > 0) {
		return fmt.Errorf("%w: x scale %g must be positive", ErrInvalidArgument, s)
	}
	for i := range sp.knots {
		sp.knots[i].x *= s
		sp.knots[i].dy /= s
	}
	sp.reknitAll()
	return nil
}

// ScaleY multiplies every value and derivative by s.
func (sp *CubicHermiteSpline1d) ScaleY(s float64) {
	for i := range sp.knots {
		sp.knots[i].y *= s
		sp.knots[i].dy *= s
	}
	sp.reknitAll()
}

// Copy returns a deep copy of the spline.
func (sp *CubicHermiteSpline1d) Copy() *CubicHermiteSpline1d {
	return &CubicHermiteSpline1d{knots: slices.Clone(sp.knots), invertible: sp.invertible}
}

// Equal reports whether both splines have identical knots.
func (sp *CubicHermiteSpline1d) Equal(other *CubicHermiteSpline1d) bool {
	return sp.EpsilonEqual(other, 0)
}

// EpsilonEqual reports whether both splines have the same number of knots
// with positions, values and derivatives within tol of each other.
func (sp *CubicHermiteSpline1d) EpsilonEqual(other *CubicHermiteSpline1d, tol float64) bool {
	if len(sp.knots) != len(other.knots) {
		return false
	}
	for i, k := range sp.knots {
		o := other.knots[i]
		if !withinTol(k.x, o.x, tol) || !withinTol(k.y, o.y, tol) || !withinTol(k.dy, o.dy, tol) {
			return false
		}
	}
	return true
}

// reknit recomputes the coefficients that depend on knot i: those of i-1
// and of i itself. Every mutation funnels through here or reknitAll.
func (sp *CubicHermiteSpline1d) reknit(i int) {
	sp.invertible = unknown
	for j := max(i-1, 0); j <= i && j < len(sp.knots); j++ {
		sp.knots[j].computeCoefficients(sp.next(j))
	}
}

func (sp *CubicHermiteSpline1d) reknitAll() {
	sp.invertible = unknown
	for j := range sp.knots {
		sp.knots[j].computeCoefficients(sp.next(j))
	}
}

func (sp *CubicHermiteSpline1d) next(i int) *HermiteKnot1d {
	if i+1 < len(sp.knots) {
		return &sp.knots[i+1]
	}
	return nil
}

func (sp *CubicHermiteSpline1d) reindex(from int) {
	for j := from; j < len(sp.knots); j++ {
		sp.knots[j].index = j
	}
}
