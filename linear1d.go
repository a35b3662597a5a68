package interp

import (
	"fmt"
	"slices"
)

// LinearKnot1d is a knot of a LinearSpline1d.
type LinearKnot1d struct {
	x, y  float64
	index int
}

// X returns the knot position.
func (k LinearKnot1d) X() float64 { return k.x }

// Y returns the value at the knot.
func (k LinearKnot1d) Y() float64 { return k.y }

// Index returns the position of the knot within its spline.
func (k LinearKnot1d) Index() int { return k.index }

// LinearSpline1d is a piecewise linear y(x). Beyond the end knots it
// continues with the slope of the nearest segment. The zero value is an
// empty spline ready to use.
type LinearSpline1d struct {
	knots []LinearKnot1d
}

// NewLinearSpline1d returns a spline through the points (xs[i], ys[i]). See
// Set.
func NewLinearSpline1d(xs, ys []float64) (*LinearSpline1d, error) {
	sp := &LinearSpline1d{}
	if err := sp.Set(xs, ys); err != nil {
		return nil, err
	}
	return sp, nil
}

// NumKnots returns the number of knots.
func (sp *LinearSpline1d) NumKnots() int { return len(sp.knots) }

// Knot returns the i-th knot. It panics if i is out of range.
func (sp *LinearSpline1d) Knot(i int) LinearKnot1d { return sp.knots[i] }

// XValues returns the knot positions in order.
func (sp *LinearSpline1d) XValues() []float64 {
	xs := make([]float64, len(sp.knots))
	for i, k := range sp.knots {
		xs[i] = k.x
	}
	return xs
}

// X0 returns the first knot position, or 0.
func (sp *LinearSpline1d) X0() float64 {
	if len(sp.knots) == 0 {
		return 0
	}
	return sp.knots[0].x
}

// XLast returns the last knot position, or 0.
func (sp *LinearSpline1d) XLast() float64 {
	if len(sp.knots) == 0 {
		return 0
	}
	return sp.knots[len(sp.knots)-1].x
}

// Set replaces the knots. xs must be strictly increasing; on error the
// spline is unchanged.
func (sp *LinearSpline1d) Set(xs, ys []float64) error {
	if len(ys) != len(xs) {
		return fmt.Errorf("%w: %d positions, %d values", ErrInvalidArgument, len(xs), len(ys))
	}
	if err := checkAscending(xs); err != nil {
		return err
	}
	sp.knots = make([]LinearKnot1d, len(xs))
	for i := range xs {
		sp.knots[i] = LinearKnot1d{x: xs[i], y: ys[i], index: i}
	}
	return nil
}

// Add inserts a knot, replacing in place any knot at exactly x.
func (sp *LinearSpline1d) Add(x, y float64) LinearKnot1d {
	k := LinearKnot1d{x: x, y: y}
	i := sp.PrecedingIndex(x)
	if i >= 0 && sp.knots[i].x == x {
		k.index = i
		sp.knots[i] = k
		return k
	}
	i++
	sp.knots = slices.Insert(sp.knots, i, k)
	for j := i; j < len(sp.knots); j++ {
		sp.knots[j].index = j
	}
	return sp.knots[i]
}

// Remove deletes the i-th knot. It reports false if i is out of range.
func (sp *LinearSpline1d) Remove(i int) bool {
	if i < 0 || i >= len(sp.knots) {
		return false
	}
	sp.knots = slices.Delete(sp.knots, i, i+1)
	for j := i; j < len(sp.knots); j++ {
		sp.knots[j].index = j
	}
	return true
}

// Clear removes all knots.
func (sp *LinearSpline1d) Clear() {
	sp.knots = sp.knots[:0]
}

// PrecedingIndex returns the index of the last knot with position <= x, or
// -1 if there is none.
func (sp *LinearSpline1d) PrecedingIndex(x float64) int {
	i, _ := sp.PrecedingIndexAt(Cursor{}, x)
	return i
}

// PrecedingIndexAt is PrecedingIndex with a search hint.
func (sp *LinearSpline1d) PrecedingIndexAt(c Cursor, x float64) (int, Cursor) {
	i := precedingIndex(len(sp.knots), func(i int) float64 { return sp.knots[i].x }, c, x)
	return i, cursorAt(i)
}

// NextKnot returns the first knot whose position exceeds x, if any.
func (sp *LinearSpline1d) NextKnot(x float64) (LinearKnot1d, bool) {
	i := sp.PrecedingIndex(x) + 1
	if i >= len(sp.knots) {
		return LinearKnot1d{}, false
	}
	return sp.knots[i], true
}

// Eval returns the spline value at x. An empty spline evaluates to 0 and a
// single knot to its value.
func (sp *LinearSpline1d) Eval(x float64) float64 {
	y, _ := sp.EvalAt(Cursor{}, x)
	return y
}

// EvalAt is Eval with a search hint.
func (sp *LinearSpline1d) EvalAt(c Cursor, x float64) (float64, Cursor) {
	switch len(sp.knots) {
	case 0:
		return 0, c
	case 1:
		return sp.knots[0].y, cursorAt(0)
	}
	i, c := sp.bounding(c, x)
	k0, k1 := sp.knots[i], sp.knots[i+1]
	t := (x - k0.x) / (k1.x - k0.x)
	return (1-t)*k0.y + t*k1.y, c
}

// EvalDy returns the slope at x: that of the bounding segment, or of the
// nearest end segment outside the knot range.
func (sp *LinearSpline1d) EvalDy(x float64) float64 {
	dy, _ := sp.EvalDyAt(Cursor{}, x)
	return dy
}

// EvalDyAt is EvalDy with a search hint.
func (sp *LinearSpline1d) EvalDyAt(c Cursor, x float64) (float64, Cursor) {
	if len(sp.knots) < 2 {
		return 0, c
	}
	i, c := sp.bounding(c, x)
	k0, k1 := sp.knots[i], sp.knots[i+1]
	return (k1.y - k0.y) / (k1.x - k0.x), c
}

// bounding returns the index of the first knot of the segment used at x,
// clamped to the end segments. It needs at least two knots.
func (sp *LinearSpline1d) bounding(c Cursor, x float64) (int, Cursor) {
	i, c := sp.PrecedingIndexAt(c, x)
	return min(max(i, 0), len(sp.knots)-2), c
}

// ScaleX multiplies every knot position by s > 0.
func (sp *LinearSpline1d) ScaleX(s float64) error {
	if !(s > 0) {
		return fmt.Errorf("%w: x scale %g must be positive", ErrInvalidArgument, s)
	}
	for i := range sp.knots {
		sp.knots[i].x *= s
	}
	return nil
}

// ScaleY multiplies every knot value by s.
func (sp *LinearSpline1d) ScaleY(s float64) {
	for i := range sp.knots {
		sp.knots[i].y *= s
	}
}

// Copy returns a deep copy of the spline.
func (sp *LinearSpline1d) Copy() *LinearSpline1d {
	return &LinearSpline1d{knots: slices.Clone(sp.knots)}
}

// Equal reports whether both splines have identical knots.
func (sp *LinearSpline1d) Equal(other *LinearSpline1d) bool {
	return slices.EqualFunc(sp.knots, other.knots, func(a, b LinearKnot1d) bool {
		return a.x == b.x && a.y == b.y
	})
}
