// Package simdops provides the SIMD-accelerated vector kernels used by
// numeric lists: scaling, dot products and weighted combinations of knot
// vectors.
//
// Two operation sets share one function-pointer layout: the default set
// delegates to github.com/tphakala/simd, and a scalar set written in plain
// Go serves as the reference implementation in tests.
package simdops

import (
	"github.com/tphakala/simd/cpu"
	"github.com/tphakala/simd/f64"
)

// Ops holds the primitive kernels. Derived operations are methods built on
// these primitives so both sets behave identically.
type Ops struct {
	// DotProduct returns Σ a[i]*b[i] over the shorter of the two slices.
	DotProduct func(a, b []float64) float64

	// Sum returns the sum of all elements.
	Sum func(a []float64) float64

	// Scale multiplies each element by scalar s: dst[i] = a[i] * s
	Scale func(dst, a []float64, s float64)
}

var (
	simdOps = Ops{
		DotProduct: f64.DotProduct,
		Sum:        f64.Sum,
		Scale:      f64.Scale,
	}
	scalarOps = Ops{
		DotProduct: scalarDot,
		Sum:        scalarSum,
		Scale:      scalarScale,
	}
)

// Default returns the SIMD operation set.
func Default() *Ops {
	return &simdOps
}

// Scalar returns the pure Go operation set.
func Scalar() *Ops {
	return &scalarOps
}

// Info describes the SIMD features detected on this CPU.
func Info() string {
	return cpu.Info()
}

// SumSquares returns Σ a[i]².
func (o *Ops) SumSquares(a []float64) float64 {
	return o.DotProduct(a, a)
}

// Lerp sets dst[i] = (1-s)*a[i] + s*b[i]. dst may alias a or b.
func (o *Ops) Lerp(dst, a, b []float64, s float64) {
	for i := range dst {
		dst[i] = (1-s)*a[i] + s*b[i]
	}
}

// Combine sets dst[i] = Σₖ wgts[k]*rows[k][i]. scratch must hold at least
// len(rows) elements; it is used to gather one column at a time so each
// element reduces to a single dot product.
func (o *Ops) Combine(dst []float64, wgts []float64, rows [][]float64, scratch []float64) {
	col := scratch[:len(rows)]
	for i := range dst {
		for k, row := range rows {
			col[k] = row[i]
		}
		dst[i] = o.DotProduct(wgts, col)
	}
}

func scalarDot(a, b []float64) float64 {
	n := min(len(a), len(b))
	var sum float64
	for i := range n {
		sum += a[i] * b[i]
	}
	return sum
}

func scalarSum(a []float64) float64 {
	var sum float64
	for _, v := range a {
		sum += v
	}
	return sum
}

func scalarScale(dst, a []float64, s float64) {
	for i := range min(len(dst), len(a)) {
		dst[i] = a[i] * s
	}
}
