// Package mathutil provides the numerical kernels used by the spline engine:
// bounded polynomial root finding and the linear solvers behind natural and
// least-squares fits.
package mathutil

import (
	"math"
	"slices"
)

// SolveQuadratic finds the real roots of a*x² + b*x + c = 0, sorted ascending.
//
// A negligible leading coefficient reduces the problem to a linear equation.
// If every coefficient is zero a single root at 0 is returned.
func SolveQuadratic(a, b, c float64) []float64 {
	if math.Abs(a) <= degenerateCoeffRatio*math.Max(math.Abs(b), math.Abs(c)) {
		return solveLinear(b, c)
	}
	sc0 := c / a
	sc1 := b / a
	if !isFinite(sc0) || !isFinite(sc1) {
		return solveLinear(b, c)
	}

	disc := sc1*sc1 - quadDiscFactor*sc0
	if !isFinite(disc) {
		// Overflow: one root dominates
		return sorted2(-sc1, sc0/-sc1)
	}
	if disc < 0 {
		return nil
	}
	if disc == 0 {
		return []float64{-sc1 / halfDivisor}
	}

	// Cancellation-free form
	r1 := -(sc1 + math.Copysign(math.Sqrt(disc), sc1)) / halfDivisor
	return sorted2(r1, sc0/r1)
}

// SolveCubic finds the real roots of a*x³ + b*x² + c*x + d = 0, sorted
// ascending. Double roots are reported once.
//
// Uses Blinn's formulation as described in
// https://momentsingraphics.de/CubicRoots.html.
func SolveCubic(a, b, c, d float64) []float64 {
	scale := math.Max(math.Abs(b), math.Max(math.Abs(c), math.Abs(d)))
	if math.Abs(a) <= degenerateCoeffRatio*scale {
		return SolveQuadratic(b, c, d)
	}
	inv := 1 / a
	c2 := b * oneThird * inv
	c1 := c * oneThird * inv
	c0 := d * inv
	if !isFinite(c2) || !isFinite(c1) || !isFinite(c0) {
		return SolveQuadratic(b, c, d)
	}

	d0 := -c2*c2 + c1
	d1 := -c1*c2 + c0
	d2 := c2*c0 - c1*c1
	disc := quadDiscFactor*d0*d2 - d1*d1
	de := -2*c2*d0 + d1

	var roots []float64
	switch {
	case disc < 0:
		sq := math.Sqrt(-disc / quadDiscFactor)
		r := -de / halfDivisor
		roots = []float64{math.Cbrt(r+sq) + math.Cbrt(r-sq) - c2}
	case disc == 0:
		t1 := math.Copysign(math.Sqrt(-d0), de)
		roots = []float64{t1 - c2, -2*t1 - c2}
	default:
		th := math.Atan2(math.Sqrt(disc), -de) * oneThird
		sin, cos := math.Sincos(th)
		ss3 := sin * sqrtThree
		t := 2 * math.Sqrt(-d0)
		roots = []float64{
			t*cos - c2,
			t*(-cos+ss3)/halfDivisor - c2,
			t*(-cos-ss3)/halfDivisor - c2,
		}
	}
	slices.Sort(roots)
	return slices.Compact(roots)
}

// QuadraticRootsIn returns the real roots of a*x² + b*x + c = 0 that lie in
// [lo, hi]. Roots just outside the interval, within a small tolerance
// relative to its width, are clamped onto it.
func QuadraticRootsIn(a, b, c, lo, hi float64) []float64 {
	return clampRoots(SolveQuadratic(a, b, c), lo, hi)
}

// CubicRootsIn returns the real roots of a*x³ + b*x² + c*x + d = 0 that lie
// in [lo, hi], refined with a few Newton steps.
func CubicRootsIn(a, b, c, d, lo, hi float64) []float64 {
	roots := SolveCubic(a, b, c, d)
	for i, r := range roots {
		roots[i] = PolishCubicRoot(a, b, c, d, r)
	}
	return clampRoots(roots, lo, hi)
}

// PolishCubicRoot improves an approximate root of a cubic with Newton steps.
// The estimate is returned unchanged when a step would not reduce the residual.
func PolishCubicRoot(a, b, c, d, x float64) float64 {
	f := ((a*x+b)*x+c)*x + d
	for range newtonPolishSteps {
		df := (3*a*x+2*b)*x + c
		if df == 0 {
			break
		}
		xn := x - f/df
		fn := ((a*xn+b)*xn+c)*xn + d
		if math.Abs(fn) >= math.Abs(f) {
			break
		}
		x, f = xn, fn
	}
	return x
}

// EvalCubic evaluates a*x³ + b*x² + c*x + d with Horner's rule.
func EvalCubic(a, b, c, d, x float64) float64 {
	return ((a*x+b)*x+c)*x + d
}

func clampRoots(roots []float64, lo, hi float64) []float64 {
	if len(roots) == 0 {
		return nil
	}
	tol := rootBoundTolerance * math.Max(hi-lo, 1)
	out := roots[:0]
	for _, r := range roots {
		if r < lo-tol || r > hi+tol || math.IsNaN(r) {
			continue
		}
		out = append(out, min(max(r, lo), hi))
	}
	if len(out) == 0 {
		return nil
	}
	return slices.Compact(out)
}

func solveLinear(b, c float64) []float64 {
	if b == 0 {
		if c == 0 {
			return []float64{0}
		}
		return nil
	}
	return []float64{-c / b}
}

func sorted2(r1, r2 float64) []float64 {
	if !isFinite(r2) {
		return []float64{r1}
	}
	if r1 > r2 {
		return []float64{r2, r1}
	}
	return []float64{r1, r2}
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
