package interp

import (
	"fmt"

	"github.com/tphakala/go-curve-interp/internal/mathutil"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// SetSingleSegment replaces the spline with one open segment from s0 to s1
// that best fits, in the least-squares sense, points placed uniformly over
// [s0, s1]. At least four points are required.
//
// The cubic is fitted in the normalized parameter (s-s0)/(s1-s0), so the
// resulting curve does not depend on the scale of the interval.
func (sp *CubicHermiteSpline3d) SetSingleSegment(points []r3.Vec, s0, s1 float64) error {
	n := len(points)
	if n < minSingleSegmentPoints {
		return fmt.Errorf("%w: single segment fit needs at least %d points, got %d",
			ErrInvalidArgument, minSingleSegmentPoints, n)
	}
	if !(s1 > s0) {
		return fmt.Errorf("%w: empty interval [%g, %g]", ErrInvalidArgument, s0, s1)
	}

	a := mat.NewDense(n, coeffsPerSegment, nil)
	for i := range n {
		setPowers(a, i, 0, float64(i)/float64(n-1))
	}
	coef, err := mathutil.SolveLeastSquares(a, pointMatrix(points))
	if err != nil {
		return fmt.Errorf("%w: single segment fit: %w", ErrInvalidArgument, err)
	}

	b := segmentCoeffs(coef, 0)
	slen := s1 - s0
	sp.closingLength = 0
	return sp.Set(
		[]float64{s0, s1},
		[]r3.Vec{b[0], segmentEnd(b)},
		[]r3.Vec{r3.Scale(1/slen, b[1]), r3.Scale(1/slen, segmentEndSlope(b))},
	)
}

// SetMultiSegment replaces the spline with an open spline whose knots sit
// at svals and which best fits points placed uniformly over
// [svals[0], svals[last]]. Value and first derivative are continuous at
// every interior knot.
//
// Segment k receives the points with parameter in [svals[k], svals[k+1]),
// and the last segment also receives the final point. Every segment needs
// at least two points and the total must be at least 2*(segments+1).
func (sp *CubicHermiteSpline3d) SetMultiSegment(points []r3.Vec, svals []float64) error {
	nseg := len(svals) - 1
	if nseg < 1 {
		return fmt.Errorf("%w: multi segment fit needs at least 2 knots, got %d", ErrInvalidArgument, len(svals))
	}
	if err := checkAscending(svals); err != nil {
		return err
	}
	n := len(points)
	if need := constraintsPerKnot * (nseg + 1); n < need {
		return fmt.Errorf("%w: %d segments need at least %d points, got %d", ErrInvalidArgument, nseg, need, n)
	}

	// Assign each point to a segment and its local parameter.
	seg := make([]int, n)
	us := make([]float64, n)
	counts := make([]int, nseg)
	s0, sl := svals[0], svals[nseg]
	k := 0
	for i := range n {
		s := s0 + float64(i)*(sl-s0)/float64(n-1)
		if i == n-1 {
			s = sl
		}
		for k < nseg-1 && s >= svals[k+1] {
			k++
		}
		seg[i] = k
		us[i] = (s - svals[k]) / (svals[k+1] - svals[k])
		counts[k]++
	}
	for k, c := range counts {
		if c < minPointsPerSegment {
			return fmt.Errorf("%w: segment %d [%g, %g] has %d points, needs at least %d",
				ErrInvalidArgument, k, svals[k], svals[k+1], c, minPointsPerSegment)
		}
	}

	// Normal equations, block diagonal by segment.
	m := coeffsPerSegment * nseg
	h := mat.NewDense(m, m, nil)
	g := mat.NewDense(m, vec3Size, nil)
	row := make([]float64, coeffsPerSegment)
	for i, p := range points {
		base := coeffsPerSegment * seg[i]
		pw := 1.0
		for j := range row {
			row[j] = pw
			pw *= us[i]
		}
		for r := range row {
			for c := range row {
				h.Set(base+r, base+c, h.At(base+r, base+c)+row[r]*row[c])
			}
			g.Set(base+r, 0, g.At(base+r, 0)+row[r]*p.X)
			g.Set(base+r, 1, g.At(base+r, 1)+row[r]*p.Y)
			g.Set(base+r, 2, g.At(base+r, 2)+row[r]*p.Z)
		}
	}

	// C0 and C1 continuity between consecutive segments.
	var cm, rm *mat.Dense
	if nseg > 1 {
		p := constraintsPerKnot * (nseg - 1)
		cm = mat.NewDense(p, m, nil)
		rm = mat.NewDense(p, vec3Size, nil)
		for k := range nseg - 1 {
			base := coeffsPerSegment * k
			next := base + coeffsPerSegment
			r0 := constraintsPerKnot * k
			hk := svals[k+1] - svals[k]
			hn := svals[k+2] - svals[k+1]
			for j := range coeffsPerSegment {
				cm.Set(r0, base+j, 1)
				cm.Set(r0+1, base+j, float64(j)/hk)
			}
			cm.Set(r0, next, -1)
			cm.Set(r0+1, next+1, -1/hn)
		}
	}
	coef, err := mathutil.SolveKKT(h, cm, g, rm)
	if err != nil {
		return fmt.Errorf("%w: multi segment fit is rank deficient: %w", ErrInvalidArgument, err)
	}

	xs := make([]r3.Vec, nseg+1)
	dxs := make([]r3.Vec, nseg+1)
	for k := range nseg {
		b := segmentCoeffs(coef, k)
		hk := svals[k+1] - svals[k]
		xs[k] = b[0]
		dxs[k] = r3.Scale(1/hk, b[1])
		if k == nseg-1 {
			xs[nseg] = segmentEnd(b)
			dxs[nseg] = r3.Scale(1/hk, segmentEndSlope(b))
		}
	}
	sp.closingLength = 0
	return sp.Set(svals, xs, dxs)
}

// SetNatural replaces the knots with the natural cubic spline through
// points at parameters svals. An open spline has zero second derivative at
// both ends; a closed spline (see SetClosed, which should be called first)
// has a continuous second derivative everywhere, including across the
// closing segment.
//
// Inputs are validated before the spline is modified; if the solve itself
// fails the spline is left empty.
func (sp *CubicHermiteSpline3d) SetNatural(points []r3.Vec, svals []float64) error {
	n := len(points)
	if len(svals) != n {
		return fmt.Errorf("%w: %d points, %d parameters", ErrInvalidArgument, n, len(svals))
	}
	if err := checkAscending(svals); err != nil {
		return err
	}
	sp.Clear()
	if n == 0 {
		return nil
	}

	closed := sp.IsClosed()
	nseg := n - 1
	if closed {
		nseg = n
	}
	h := make([]float64, nseg)
	for k := range nseg {
		if k+1 < n {
			h[k] = svals[k+1] - svals[k]
		} else {
			h[k] = sp.closingLength
		}
	}
	at := func(k int) r3.Vec { return points[(k+n)%n] }

	// c[k] holds half the second derivative at knot k.
	c := make([]r3.Vec, n)
	switch {
	case closed:
		sol, err := sp.solveNaturalClosed(points, h)
		if err != nil {
			return err
		}
		for k := range n {
			c[k] = r3.Vec{X: sol.At(k, 0), Y: sol.At(k, 1), Z: sol.At(k, 2)}
		}
	case n == 1:
		return sp.Set(svals, points, []r3.Vec{{}})
	case n == 2:
		slope := r3.Scale(1/h[0], r3.Sub(points[1], points[0]))
		return sp.Set(svals, points, []r3.Vec{slope, slope})
	default:
		sol, err := solveNaturalOpen(points, h)
		if err != nil {
			return err
		}
		for r := range n - 2 {
			c[r+1] = r3.Vec{X: sol.At(r, 0), Y: sol.At(r, 1), Z: sol.At(r, 2)}
		}
	}

	dxs := make([]r3.Vec, n)
	for k := range nseg {
		slope := r3.Scale(1/h[k], r3.Sub(at(k+1), at(k)))
		curv := r3.Scale(h[k]/hermiteThree, r3.Add(r3.Scale(hermiteTwo, c[k]), c[(k+1)%n]))
		dxs[k] = r3.Sub(slope, curv)
	}
	if !closed {
		hl := h[n-2]
		slope := r3.Scale(1/hl, r3.Sub(points[n-1], points[n-2]))
		curv := r3.Scale(hl/hermiteThree, r3.Add(c[n-2], r3.Scale(hermiteTwo, c[n-1])))
		dxs[n-1] = r3.Add(slope, curv)
	}
	return sp.Set(svals, points, dxs)
}

// solveNaturalOpen solves for the interior curvatures of an open natural
// spline with at least three knots.
func solveNaturalOpen(points []r3.Vec, h []float64) (*mat.Dense, error) {
	n := len(points)
	m := n - 2
	dl := make([]float64, m-1)
	d := make([]float64, m)
	du := make([]float64, m-1)
	rhs := mat.NewDense(m, vec3Size, nil)
	for r := range m {
		k := r + 1
		d[r] = 2 * (h[k-1] + h[k])
		if r > 0 {
			dl[r-1] = h[k-1]
		}
		if r < m-1 {
			du[r] = h[k]
		}
		setRow(rhs, r, curvatureRHS(points[k-1], points[k], points[k+1], h[k-1], h[k]))
	}
	sol, err := mathutil.SolveTridiag(dl, d, du, rhs)
	if err != nil {
		return nil, fmt.Errorf("%w: natural spline: %w", ErrInvalidArgument, err)
	}
	return sol, nil
}

// solveNaturalClosed solves the cyclic system for the curvatures of a
// closed natural spline.
func (sp *CubicHermiteSpline3d) solveNaturalClosed(points []r3.Vec, h []float64) (*mat.Dense, error) {
	n := len(points)
	dl := make([]float64, n-1)
	d := make([]float64, n)
	du := make([]float64, n-1)
	rhs := mat.NewDense(n, vec3Size, nil)
	for k := range n {
		hp := h[(k-1+n)%n]
		d[k] = 2 * (hp + h[k])
		if k > 0 {
			dl[k-1] = hp
		}
		if k < n-1 {
			du[k] = h[k]
		}
		prev := points[(k-1+n)%n]
		next := points[(k+1)%n]
		setRow(rhs, k, curvatureRHS(prev, points[k], next, hp, h[k]))
	}
	corner := h[n-1]
	sol, err := mathutil.SolveCyclicTridiag(dl, d, du, corner, corner, rhs)
	if err != nil {
		return nil, fmt.Errorf("%w: closed natural spline: %w", ErrInvalidArgument, err)
	}
	return sol, nil
}

// curvatureRHS returns 3*((x2-x1)/h1 - (x1-x0)/h0).
func curvatureRHS(x0, x1, x2 r3.Vec, h0, h1 float64) r3.Vec {
	return r3.Scale(hermiteThree, r3.Sub(r3.Scale(1/h1, r3.Sub(x2, x1)), r3.Scale(1/h0, r3.Sub(x1, x0))))
}

func pointMatrix(points []r3.Vec) *mat.Dense {
	b := mat.NewDense(len(points), vec3Size, nil)
	for i, p := range points {
		setRow(b, i, p)
	}
	return b
}

func setRow(m *mat.Dense, i int, v r3.Vec) {
	m.Set(i, 0, v.X)
	m.Set(i, 1, v.Y)
	m.Set(i, 2, v.Z)
}

// setPowers writes 1, u, u², u³ into row i starting at column col.
func setPowers(m *mat.Dense, i, col int, u float64) {
	p := 1.0
	for j := range coeffsPerSegment {
		m.Set(i, col+j, p)
		p *= u
	}
}

// segmentCoeffs extracts the normalized coefficients b0..b3 of segment k.
func segmentCoeffs(coef *mat.Dense, k int) [coeffsPerSegment]r3.Vec {
	var b [coeffsPerSegment]r3.Vec
	for j := range b {
		r := coeffsPerSegment*k + j
		b[j] = r3.Vec{X: coef.At(r, 0), Y: coef.At(r, 1), Z: coef.At(r, 2)}
	}
	return b
}

// segmentEnd returns the normalized segment value at u = 1.
func segmentEnd(b [coeffsPerSegment]r3.Vec) r3.Vec {
	return r3.Add(r3.Add(b[0], b[1]), r3.Add(b[2], b[3]))
}

// segmentEndSlope returns the normalized segment derivative at u = 1.
func segmentEndSlope(b [coeffsPerSegment]r3.Vec) r3.Vec {
	return r3.Add(b[1], r3.Add(r3.Scale(hermiteTwo, b[2]), r3.Scale(hermiteThree, b[3])))
}
