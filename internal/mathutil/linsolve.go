package mathutil

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrSingular is returned when a linear system cannot be solved reliably.
var ErrSingular = errors.New("singular or ill-conditioned system")

// SolveTridiag solves A*X = B for a tridiagonal A given by its sub-diagonal
// dl, diagonal d and super-diagonal du. B may hold several right-hand sides,
// one per column. The input slices are not modified.
func SolveTridiag(dl, d, du []float64, b *mat.Dense) (*mat.Dense, error) {
	n := len(d)
	if n == 0 {
		return nil, fmt.Errorf("%w: empty system", ErrSingular)
	}
	if len(dl) != n-1 || len(du) != n-1 {
		return nil, fmt.Errorf("%w: band lengths %d/%d for size %d", ErrSingular, len(dl), len(du), n)
	}
	if r, _ := b.Dims(); r != n {
		return nil, fmt.Errorf("%w: %d right-hand side rows for size %d", ErrSingular, r, n)
	}
	if n == 1 {
		if d[0] == 0 {
			return nil, fmt.Errorf("%w: zero pivot", ErrSingular)
		}
		var x mat.Dense
		x.Scale(1/d[0], b)
		return &x, nil
	}

	a := mat.NewTridiag(n, clone(dl), clone(d), clone(du))
	var x mat.Dense
	if err := a.SolveTo(&x, false, b); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSingular, err)
	}
	if !allFinite(&x) {
		return nil, fmt.Errorf("%w: non-finite solution", ErrSingular)
	}
	return &x, nil
}

// SolveCyclicTridiag solves a tridiagonal system with additional corner
// entries: alpha at (n-1, 0) and beta at (0, n-1). Systems of size 3 or more
// use the Sherman-Morrison correction over SolveTridiag; smaller systems are
// assembled densely and solved with LU.
func SolveCyclicTridiag(dl, d, du []float64, alpha, beta float64, b *mat.Dense) (*mat.Dense, error) {
	n := len(d)
	if n < cyclicMinDirect {
		return solveCyclicDense(dl, d, du, alpha, beta, b)
	}

	gamma := -d[0]
	bb := clone(d)
	bb[0] -= gamma
	bb[n-1] -= alpha * beta / gamma

	// Solve for every right-hand side and the correction vector u at once.
	_, k := b.Dims()
	rhs := mat.NewDense(n, k+1, nil)
	rhs.Copy(b)
	rhs.Set(0, k, gamma)
	rhs.Set(n-1, k, alpha)

	sol, err := SolveTridiag(dl, bb, du, rhs)
	if err != nil {
		return nil, err
	}

	z0, zn := sol.At(0, k), sol.At(n-1, k)
	denom := 1 + z0 + beta*zn/gamma
	if denom == 0 {
		return nil, fmt.Errorf("%w: cyclic correction vanished", ErrSingular)
	}
	x := mat.NewDense(n, k, nil)
	for j := range k {
		fact := (sol.At(0, j) + beta*sol.At(n-1, j)/gamma) / denom
		for i := range n {
			x.Set(i, j, sol.At(i, j)-fact*sol.At(i, k))
		}
	}
	if !allFinite(x) {
		return nil, fmt.Errorf("%w: non-finite solution", ErrSingular)
	}
	return x, nil
}

func solveCyclicDense(dl, d, du []float64, alpha, beta float64, b *mat.Dense) (*mat.Dense, error) {
	n := len(d)
	if n == 0 {
		return nil, fmt.Errorf("%w: empty system", ErrSingular)
	}
	a := mat.NewDense(n, n, nil)
	for i := range n {
		a.Set(i, i, d[i])
	}
	for i := range n - 1 {
		a.Set(i, i+1, a.At(i, i+1)+du[i])
		a.Set(i+1, i, a.At(i+1, i)+dl[i])
	}
	a.Set(n-1, 0, a.At(n-1, 0)+alpha)
	a.Set(0, n-1, a.At(0, n-1)+beta)
	return SolveLU(a, b)
}

// SolveLU solves A*X = B with an LU factorization of the square matrix A.
func SolveLU(a *mat.Dense, b *mat.Dense) (*mat.Dense, error) {
	var lu mat.LU
	lu.Factorize(a)
	var x mat.Dense
	if err := lu.SolveTo(&x, false, b); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSingular, err)
	}
	if !allFinite(&x) {
		return nil, fmt.Errorf("%w: non-finite solution", ErrSingular)
	}
	return &x, nil
}

// SolveLeastSquares returns the X minimizing ||A*X - B|| using a QR
// factorization. A must have at least as many rows as columns.
func SolveLeastSquares(a *mat.Dense, b *mat.Dense) (*mat.Dense, error) {
	r, c := a.Dims()
	if r < c {
		return nil, fmt.Errorf("%w: %d equations for %d unknowns", ErrSingular, r, c)
	}
	var qr mat.QR
	qr.Factorize(a)
	var x mat.Dense
	if err := qr.SolveTo(&x, false, b); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSingular, err)
	}
	if !allFinite(&x) {
		return nil, fmt.Errorf("%w: non-finite solution", ErrSingular)
	}
	return &x, nil
}

// SolveKKT solves the equality constrained quadratic problem
//
//	minimize ½xᵀHx - xᵀG  subject to  Cx = R
//
// through the saddle point system [[H, Cᵀ], [C, 0]] [x; λ] = [G; R].
// Only the primal part x is returned. A nil c means no constraints, in
// which case r is ignored.
func SolveKKT(h, c, g, r *mat.Dense) (*mat.Dense, error) {
	if c == nil {
		return SolveLU(h, g)
	}
	m, _ := h.Dims()
	p, _ := c.Dims()
	_, k := g.Dims()

	kkt := mat.NewDense(m+p, m+p, nil)
	rhs := mat.NewDense(m+p, k, nil)
	for i := range m {
		for j := range m {
			kkt.Set(i, j, h.At(i, j))
		}
		for j := range k {
			rhs.Set(i, j, g.At(i, j))
		}
	}
	for i := range p {
		for j := range m {
			v := c.At(i, j)
			kkt.Set(m+i, j, v)
			kkt.Set(j, m+i, v)
		}
		for j := range k {
			rhs.Set(m+i, j, r.At(i, j))
		}
	}

	sol, err := SolveLU(kkt, rhs)
	if err != nil {
		return nil, err
	}
	x := mat.NewDense(m, k, nil)
	x.Copy(sol)
	return x, nil
}

// InverseVandermonde3 returns the inverse of the 3x3 Vandermonde matrix
// with rows (1, tᵢ, tᵢ²).
func InverseVandermonde3(t0, t1, t2 float64) (*mat.Dense, error) {
	v := mat.NewDense(3, 3, []float64{
		1, t0, t0 * t0,
		1, t1, t1 * t1,
		1, t2, t2 * t2,
	})
	var inv mat.Dense
	if err := inv.Inverse(v); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSingular, err)
	}
	return &inv, nil
}

// SavitzkyGolayWeights returns the convolution weights that evaluate, at
// normalized position x in [0, 1], the least-squares polynomial of degree
// deg fitted to win uniformly spaced samples over [0, 1].
func SavitzkyGolayWeights(deg, win int, x float64) ([]float64, error) {
	if deg < 0 || win < deg+1 || win < 2 {
		return nil, fmt.Errorf("%w: degree %d with window %d", ErrSingular, deg, win)
	}
	v := mat.NewDense(win, deg+1, nil)
	for i := range win {
		u := float64(i) / float64(win-1)
		p := 1.0
		for j := 0; j <= deg; j++ {
			v.Set(i, j, p)
			p *= u
		}
	}
	eye := mat.NewDense(win, win, nil)
	for i := range win {
		eye.Set(i, i, 1)
	}
	// Rows of the pseudo-inverse map samples to polynomial coefficients.
	pinv, err := SolveLeastSquares(v, eye)
	if err != nil {
		return nil, err
	}
	wgts := make([]float64, win)
	p := 1.0
	for j := 0; j <= deg; j++ {
		for i := range win {
			wgts[i] += p * pinv.At(j, i)
		}
		p *= x
	}
	return wgts, nil
}

func allFinite(m mat.Matrix) bool {
	r, c := m.Dims()
	for i := range r {
		for j := range c {
			v := m.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}

func clone(s []float64) []float64 {
	return append([]float64(nil), s...)
}
