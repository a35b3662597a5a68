package interp

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/spatial/r3"
)

// LinearKnot3d is a knot of a LinearSpline3d.
type LinearKnot3d struct {
	s     float64
	x     r3.Vec
	index int
}

// S returns the knot parameter.
func (k LinearKnot3d) S() float64 { return k.s }

// X returns the value at the knot.
func (k LinearKnot3d) X() r3.Vec { return k.x }

// Index returns the position of the knot within its spline.
func (k LinearKnot3d) Index() int { return k.index }

// LinearSpline3d is a piecewise linear x(s) in three dimensions, extended
// beyond its end knots with the slope of the nearest segment.
type LinearSpline3d struct {
	knots []LinearKnot3d
}

// NewLinearSpline3d returns a spline through xs at parameters svals. See
// Set.
func NewLinearSpline3d(svals []float64, xs []r3.Vec) (*LinearSpline3d, error) {
	sp := &LinearSpline3d{}
	if err := sp.Set(svals, xs); err != nil {
		return nil, err
	}
	return sp, nil
}

// NumKnots returns the number of knots.
func (sp *LinearSpline3d) NumKnots() int { return len(sp.knots) }

// Knot returns the i-th knot. It panics if i is out of range.
func (sp *LinearSpline3d) Knot(i int) LinearKnot3d { return sp.knots[i] }

// SValues returns the knot parameters in order.
func (sp *LinearSpline3d) SValues() []float64 {
	ss := make([]float64, len(sp.knots))
	for i, k := range sp.knots {
		ss[i] = k.s
	}
	return ss
}

// Set replaces the knots. svals must be strictly increasing; on error the
// spline is unchanged.
func (sp *LinearSpline3d) Set(svals []float64, xs []r3.Vec) error {
	if len(xs) != len(svals) {
		return fmt.Errorf("%w: %d parameters, %d values", ErrInvalidArgument, len(svals), len(xs))
	}
	if err := checkAscending(svals); err != nil {
		return err
	}
	sp.knots = make([]LinearKnot3d, len(svals))
	for i := range svals {
		sp.knots[i] = LinearKnot3d{s: svals[i], x: xs[i], index: i}
	}
	return nil
}

// SetUsingDistance replaces the knots with points parameterized by
// cumulative distance from the first point. A point coinciding with its
// predecessor is dropped.
func (sp *LinearSpline3d) SetUsingDistance(points []r3.Vec) {
	sp.knots = sp.knots[:0]
	if len(points) == 0 {
		return
	}
	var dist float64
	sp.knots = append(sp.knots, LinearKnot3d{x: points[0]})
	for i := 1; i < len(points); i++ {
		d := r3.Norm(r3.Sub(points[i], points[i-1]))
		if d > 0 {
			dist += d
			sp.knots = append(sp.knots, LinearKnot3d{s: dist, x: points[i], index: len(sp.knots)})
		}
	}
}

// Add inserts a knot, replacing in place any knot at exactly s.
func (sp *LinearSpline3d) Add(s float64, x r3.Vec) LinearKnot3d {
	k := LinearKnot3d{s: s, x: x}
	i := sp.PrecedingIndex(s)
	if i >= 0 && sp.knots[i].s == s {
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
func (sp *LinearSpline3d) Remove(i int) bool {
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
func (sp *LinearSpline3d) Clear() {
	sp.knots = sp.knots[:0]
}

// PrecedingIndex returns the index of the last knot with parameter <= s, or
// -1 if there is none.
func (sp *LinearSpline3d) PrecedingIndex(s float64) int {
	i, _ := sp.PrecedingIndexAt(Cursor{}, s)
	return i
}

// PrecedingIndexAt is PrecedingIndex with a search hint.
func (sp *LinearSpline3d) PrecedingIndexAt(c Cursor, s float64) (int, Cursor) {
	i := precedingIndex(len(sp.knots), func(i int) float64 { return sp.knots[i].s }, c, s)
	return i, cursorAt(i)
}

// NextKnot returns the first knot whose parameter exceeds s, if any.
func (sp *LinearSpline3d) NextKnot(s float64) (LinearKnot3d, bool) {
	i := sp.PrecedingIndex(s) + 1
	if i >= len(sp.knots) {
		return LinearKnot3d{}, false
	}
	return sp.knots[i], true
}

// Eval returns the spline value at s.
func (sp *LinearSpline3d) Eval(s float64) r3.Vec {
	x, _ := sp.EvalAt(Cursor{}, s)
	return x
}

// EvalAt is Eval with a search hint.
func (sp *LinearSpline3d) EvalAt(c Cursor, s float64) (r3.Vec, Cursor) {
	switch len(sp.knots) {
	case 0:
		return r3.Vec{}, c
	case 1:
		return sp.knots[0].x, cursorAt(0)
	}
	i, c := sp.bounding(c, s)
	k0, k1 := sp.knots[i], sp.knots[i+1]
	t := (s - k0.s) / (k1.s - k0.s)
	return r3.Add(r3.Scale(1-t, k0.x), r3.Scale(t, k1.x)), c
}

// EvalDx returns the derivative at s.
func (sp *LinearSpline3d) EvalDx(s float64) r3.Vec {
	dx, _ := sp.EvalDxAt(Cursor{}, s)
	return dx
}

// EvalDxAt is EvalDx with a search hint.
func (sp *LinearSpline3d) EvalDxAt(c Cursor, s float64) (r3.Vec, Cursor) {
	if len(sp.knots) < 2 {
		return r3.Vec{}, c
	}
	i, c := sp.bounding(c, s)
	k0, k1 := sp.knots[i], sp.knots[i+1]
	return r3.Scale(1/(k1.s-k0.s), r3.Sub(k1.x, k0.x)), c
}

func (sp *LinearSpline3d) bounding(c Cursor, s float64) (int, Cursor) {
	i, c := sp.PrecedingIndexAt(c, s)
	return min(max(i, 0), len(sp.knots)-2), c
}

// Copy returns a deep copy of the spline.
func (sp *LinearSpline3d) Copy() *LinearSpline3d {
	return &LinearSpline3d{knots: slices.Clone(sp.knots)}
}

// Equal reports whether both splines have identical knots.
func (sp *LinearSpline3d) Equal(other *LinearSpline3d) bool {
	return slices.EqualFunc(sp.knots, other.knots, func(a, b LinearKnot3d) bool {
		return a.s == b.s && a.x == b.x
	})
}
