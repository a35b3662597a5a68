package interp

import (
	"fmt"
	"math"
	"sort"

	"github.com/tphakala/go-curve-interp/internal/mathutil"
)

// IsInvertible reports whether y(x) is strictly monotone over the whole
// knot range, so that SolveX has a unique answer. Every segment must move
// y in the same direction and its derivative may not change sign inside
// the segment; a flat tangent exactly at a knot is tolerated. A single knot
// is invertible iff its derivative is nonzero.
//
// The result is cached until the spline next changes.
func (sp *CubicHermiteSpline1d) IsInvertible() bool {
	if sp.invertible == unknown {
		sp.invertible = tristateOf(sp.computeInvertible())
	}
	return sp.invertible == yes
}

func (sp *CubicHermiteSpline1d) computeInvertible() bool {
	n := len(sp.knots)
	switch n {
	case 0:
		return false
	case 1:
		return sp.knots[0].dy != 0
	}
	dir := sp.direction()
	if dir == 0 {
		return false
	}
	for i := range n - 1 {
		k := &sp.knots[i]
		next := &sp.knots[i+1]
		if dir*(next.y-k.y) <= 0 {
			return false
		}
		if !segmentMonotone(k, next.x-k.x, dir) {
			return false
		}
	}
	return true
}

// segmentMonotone checks the derivative sign between its roots on [0, h].
func segmentMonotone(k *HermiteKnot1d, h, dir float64) bool {
	roots := mathutil.QuadraticRootsIn(hermiteThree*k.a3, hermiteTwo*k.a2, k.dy, 0, h)
	pts := make([]float64, 0, len(roots)+2)
	pts = append(pts, 0)
	pts = append(pts, roots...)
	pts = append(pts, h)
	sort.Float64s(pts)
	for j := 0; j+1 < len(pts); j++ {
		if pts[j+1] <= pts[j] {
			continue
		}
		mid := k.x + (pts[j]+pts[j+1])/halfDivisor
		if dir*k.EvalDy(mid) < 0 {
			return false
		}
	}
	return true
}

// direction returns +1 or -1 for a spline increasing or decreasing
// overall, and 0 for no net change. A single knot uses its derivative.
func (sp *CubicHermiteSpline1d) direction() float64 {
	n := len(sp.knots)
	switch n {
	case 0:
		return 0
	case 1:
		return sign(sp.knots[0].dy)
	}
	return sign(sp.knots[n-1].y - sp.knots[0].y)
}

// SolveX returns the x at which the spline takes value y. The spline must
// be invertible. Targets beyond the knot values are solved on the linear
// extensions.
func (sp *CubicHermiteSpline1d) SolveX(y float64) (float64, error) {
	return sp.SolveXAffine(y, 0)
}

// SolveXAffine returns the x at which y(x) + alpha*x equals y. alpha must be
// zero or have the same sign as the spline's overall direction so that the
// sum stays monotone.
func (sp *CubicHermiteSpline1d) SolveXAffine(y, alpha float64) (float64, error) {
	if !sp.IsInvertible() {
		return 0, fmt.Errorf("%w: spline is not invertible", ErrImproperState)
	}
	dir := sp.direction()
	if alpha != 0 && sign(alpha) != dir {
		return 0, fmt.Errorf("%w: alpha %g opposes spline direction %g", ErrInvalidArgument, alpha, dir)
	}

	n := len(sp.knots)
	f := func(i int) float64 { return sp.knots[i].y + alpha*sp.knots[i].x }
	first, last := &sp.knots[0], &sp.knots[n-1]
	if dir*(y-f(0)) <= 0 {
		return extrapolateX(first, y, alpha)
	}
	if dir*(y-f(n-1)) >= 0 {
		return extrapolateX(last, y, alpha)
	}

	i := sort.Search(n, func(i int) bool { return dir*(f(i)-y) > 0 }) - 1
	if i < 0 || i >= n-1 {
		return 0, fmt.Errorf("%w: no bracketing segment for y=%g", ErrInternal, y)
	}
	return solveSegment(&sp.knots[i], &sp.knots[i+1], y, alpha, dir)
}

// extrapolateX inverts the linear extension through knot k.
func extrapolateX(k *HermiteKnot1d, y, alpha float64) (float64, error) {
	target := y - k.y - alpha*k.x
	slope := k.dy + alpha
	if slope == 0 {
		if target == 0 {
			return k.x, nil
		}
		return 0, fmt.Errorf("%w: y=%g out of range at zero-slope end knot x=%g", ErrInvalidArgument, y, k.x)
	}
	return k.x + target/slope, nil
}

// solveSegment finds the root of the segment cubic in [0, h] closest to a
// zero residual, falling back to bisection if the closed form misbehaves.
func solveSegment(k, next *HermiteKnot1d, y, alpha, dir float64) (float64, error) {
	h := next.x - k.x
	a, b, c, d := k.a3, k.a2, k.dy+alpha, k.y+alpha*k.x-y
	resid := func(u float64) float64 { return mathutil.EvalCubic(a, b, c, d, u) }

	scale := math.Max(math.Abs(y), math.Max(math.Abs(k.y), math.Abs(next.y))) + math.Abs(alpha)*math.Max(math.Abs(k.x), math.Abs(next.x))
	tol := rootSlack * math.Max(scale, 1)

	best, bestRes := math.NaN(), math.Inf(1)
	for _, u := range mathutil.CubicRootsIn(a, b, c, d, 0, h) {
		if r := math.Abs(resid(u)); r < bestRes {
			best, bestRes = u, r
		}
	}
	if bestRes <= tol {
		return k.x + best, nil
	}

	// Bisection on the monotone residual.
	lo, hi := 0.0, h
	if dir*resid(lo) > tol || dir*resid(hi) < -tol {
		return 0, fmt.Errorf("%w: y=%g not bracketed by segment at x=%g", ErrInternal, y, k.x)
	}
	for range bisectIterations {
		mid := (lo + hi) / halfDivisor
		if mid <= lo || mid >= hi {
			break
		}
		if dir*resid(mid) < 0 {
			lo = mid
		} else {
			hi = mid
		}
	}
	return k.x + (lo+hi)/halfDivisor, nil
}
