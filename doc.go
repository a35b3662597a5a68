// Package interp provides piecewise-polynomial curves for representing and
// evaluating parameter-indexed data in pure Go.
//
// # Features
//
//   - Cubic Hermite splines over scalars ([CubicHermiteSpline1d]) and 3D
//     vectors ([CubicHermiteSpline3d]), with closed 3D curves
//   - Natural spline fits with prescribed end curvature, and constrained
//     least-squares fits of one or several cubic segments
//   - Monotonicity analysis and inversion of 1D splines ([CubicHermiteSpline1d.SolveX])
//   - Piecewise-linear analogs ([LinearSpline1d], [LinearSpline3d])
//   - Time-ordered vector lists ([NumericList]) with seven interpolation
//     orders, including quaternion interpolation of poses
//   - Moving-average and Savitzky-Golay smoothing of numeric lists
//   - A bracketed text format for every curve type
//
// # Quick Start
//
// Build a spline from knots and evaluate it:
//
//	sp, err := interp.NewCubicHermiteSpline1dFrom(
//	    []float64{0, 1, 3},    // x
//	    []float64{0, 2, 1},    // y
//	    []float64{1, 0, -1},   // dy/dx
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	y := sp.EvalY(0.5)
//
// Or fit a natural spline through points:
//
//	sp := interp.NewCubicHermiteSpline1d()
//	if err := sp.SetNatural(xs, ys, 0, 0); err != nil {
//	    log.Fatal(err)
//	}
//
// # Cursors
//
// Knot lookup is a binary search. Playback usually queries increasing
// parameters, so every evaluation method has an "At" form that takes and
// returns a [Cursor]:
//
//	var c interp.Cursor
//	for _, x := range xs {
//	    var y float64
//	    y, c = sp.EvalYAt(c, x)
//	    ...
//	}
//
// Threading the cursor makes each lookup O(1) amortized. A stale or foreign
// cursor is only a missed hint; results are always correct.
//
// # Inversion
//
// A 1D spline that is strictly monotone over its knots, with zero slope
// allowed only at the end knots, is invertible:
//
//	if sp.IsInvertible() {
//	    x, err := sp.SolveX(1.5)
//	}
//
// [CubicHermiteSpline1d.SolveXAffine] solves y(x) + alpha*x = target for an
// extra linear term.
//
// # Numeric Lists
//
// A [NumericList] holds vectors at increasing times. Vector sizes 4, 7 and
// 16 are read as poses (axis-angle, position plus axis-angle, and a 4x4
// transform), which the [SphericalLinear] and [SphericalCubic] orders
// interpolate on the rotation group:
//
//	list := interp.NewNumericList(7)
//	list.SetInterpolation(interp.Interpolation{Order: interp.SphericalCubic})
//	list.Add(0, 0, 0, 0, 0, 0, 1, 0)
//	list.Add(1, 1, 0, 0, 0, 0, 1, 90)
//	pose := list.Interpolate(nil, 0.5)
//
// # Thread Safety
//
// [NumericList] methods lock an internal mutex, so one goroutine may append
// knots while others interpolate. Splines are not synchronized; concurrent
// mutation must be serialized by the caller.
//
// # Errors
//
// Failures wrap one of [ErrInvalidArgument], [ErrImproperState],
// [ErrInternal] or [ErrSyntax] and can be tested with [errors.Is].
package interp
