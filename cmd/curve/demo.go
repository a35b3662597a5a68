package main

import (
	"fmt"
	"io"
	"math"

	interp "github.com/tphakala/go-curve-interp"
	"gonum.org/v1/gonum/spatial/r3"
)

func runDemo(w io.Writer) {
	fmt.Fprintln(w, "=== Go Curve Interpolation Demo ===")

	// Demo 1: natural fit and inversion
	fmt.Fprintln(w, "\n1. Natural Spline and Inversion")
	fmt.Fprintln(w, "-------------------------------")

	xs := []float64{0, 1, 2, 4}
	ys := []float64{0, 1, 1.8, 3}
	sp := interp.NewCubicHermiteSpline1d()
	if err := sp.SetNatural(xs, ys, 0, 0); err != nil {
		fmt.Fprintf(w, "  SetNatural: Error - %v\n", err)
		return
	}
	fmt.Fprintf(w, "  Knots: %d, invertible: %v\n", sp.NumKnots(), sp.IsInvertible())
	if err := printGrid(w, hermite1d{sp}, xs[0], xs[len(xs)-1], demoSamples, defaultFormat); err != nil {
		return
	}
	if x, err := sp.SolveX(demoTarget); err == nil {
		fmt.Fprintf(w, "  y(x) = %g at x = %.6g (check %.6g)\n", demoTarget, x, sp.EvalY(x))
	}
	if x, err := sp.SolveXAffine(demoTarget, demoAlpha); err == nil {
		fmt.Fprintf(w, "  y(x) + %g*x = %g at x = %.6g\n", demoAlpha, demoTarget, x)
	}

	// Demo 2: closed 3D curve
	fmt.Fprintln(w, "\n2. Closed Natural Curve")
	fmt.Fprintln(w, "-----------------------")

	points := make([]r3.Vec, demoCircleKnots)
	svals := make([]float64, demoCircleKnots)
	step := 2 * math.Pi / demoCircleKnots
	for i := range points {
		a := float64(i) * step
		points[i] = r3.Vec{X: math.Cos(a), Y: math.Sin(a)}
		svals[i] = a
	}
	loop := interp.NewCubicHermiteSpline3d()
	loop.SetClosed(step)
	if err := loop.SetNatural(points, svals); err != nil {
		fmt.Fprintf(w, "  SetNatural: Error - %v\n", err)
		return
	}
	fmt.Fprintf(w, "  Period: %.6g, arc length: %.6g (2*pi = %.6g)\n",
		loop.SLength(), loop.ArcLength(arcLengthSteps), 2*math.Pi)
	for _, s := range []float64{-math.Pi / 2, 3 * math.Pi} {
		p := loop.Eval(s)
		fmt.Fprintf(w, "  s = %7.4f -> (%.4f, %.4f, %.4f)\n", s, p.X, p.Y, p.Z)
	}

	// Demo 3: pose list
	fmt.Fprintln(w, "\n3. Spherical Pose Interpolation")
	fmt.Fprintln(w, "-------------------------------")

	poses := interp.NewNumericList(7)
	if err := poses.SetInterpolation(interp.Interpolation{Order: interp.SphericalCubic}); err != nil {
		fmt.Fprintf(w, "  SetInterpolation: Error - %v\n", err)
		return
	}
	for i, angle := range []float64{0, 45, 90, 135} {
		t := float64(i)
		if _, err := poses.Add(t, t, 0, 0, 0, 0, 1, angle); err != nil {
			fmt.Fprintf(w, "  Add: Error - %v\n", err)
			return
		}
	}
	if err := printGrid(w, list{poses}, 0, 3, demoSamples/2+1, defaultFormat); err != nil {
		return
	}

	fmt.Fprintln(w, "\n=== Demo Complete ===")
}
