package interp

import (
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

// SampleTimes returns n evenly spaced values from x0 to x1 inclusive. n == 1
// gives x0 and n <= 0 gives nil.
func SampleTimes(x0, x1 float64, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{x0}
	default:
		return floats.Span(make([]float64, n), x0, x1)
	}
}

// SampleUniform evaluates f at n evenly spaced points from x0 to x1.
func SampleUniform(f func(float64) float64, x0, x1 float64, n int) []float64 {
	xs := SampleTimes(x0, x1, n)
	for i, x := range xs {
		xs[i] = f(x)
	}
	return xs
}

// SampleSpline1d evaluates sp at n evenly spaced points from x0 to x1,
// threading a cursor so each sample costs O(1) when x0 <= x1.
func SampleSpline1d(sp *CubicHermiteSpline1d, x0, x1 float64, n int) []float64 {
	xs := SampleTimes(x0, x1, n)
	var c Cursor
	for i, x := range xs {
		xs[i], c = sp.EvalYAt(c, x)
	}
	return xs
}

// SampleLinear1d is SampleSpline1d for a linear spline.
func SampleLinear1d(sp *LinearSpline1d, x0, x1 float64, n int) []float64 {
	xs := SampleTimes(x0, x1, n)
	var c Cursor
	for i, x := range xs {
		xs[i], c = sp.EvalAt(c, x)
	}
	return xs
}

// SampleSpline3d evaluates sp at n evenly spaced parameters from s0 to s1.
func SampleSpline3d(sp *CubicHermiteSpline3d, s0, s1 float64, n int) []r3.Vec {
	ss := SampleTimes(s0, s1, n)
	out := make([]r3.Vec, len(ss))
	var c Cursor
	for i, s := range ss {
		out[i], c = sp.EvalAt(c, s)
	}
	return out
}

// SampleList interpolates l at n evenly spaced times from t0 to t1. Each
// row is one sample.
func SampleList(l *NumericList, t0, t1 float64, n int) [][]float64 {
	ts := SampleTimes(t0, t1, n)
	out := make([][]float64, len(ts))
	in := l.Interpolation()
	var hint *NumericListKnot
	for i, t := range ts {
		out[i], hint = l.InterpolateWith(nil, t, in, hint)
	}
	return out
}

// Channels transposes sample rows into one slice per vector element.
func Channels(rows [][]float64) [][]float64 {
	if len(rows) == 0 {
		return nil
	}
	chans := make([][]float64, len(rows[0]))
	for ch := range chans {
		chans[ch] = make([]float64, len(rows))
		for i, row := range rows {
			chans[ch][i] = row[ch]
		}
	}
	return chans
}

// SampleParallel samples every function over the same grid, one goroutine
// per function when parallel is set.
func SampleParallel(fns []func(float64) float64, x0, x1 float64, n int, parallel bool) [][]float64 {
	out := make([][]float64, len(fns))
	if !parallel || len(fns) <= 1 {
		for i, f := range fns {
			out[i] = SampleUniform(f, x0, x1, n)
		}
		return out
	}

	var wg sync.WaitGroup
	for i, f := range fns {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out[i] = SampleUniform(f, x0, x1, n)
		}()
	}
	wg.Wait()
	return out
}
