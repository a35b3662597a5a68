package mathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

const solveTolerance = 1e-12

// denseTridiag assembles the full matrix for checking residuals.
func denseTridiag(dl, d, du []float64, alpha, beta float64) *mat.Dense {
	n := len(d)
	a := mat.NewDense(n, n, nil)
	for i := range n {
		a.Set(i, i, d[i])
		if i+1 < n {
			a.Set(i, i+1, a.At(i, i+1)+du[i])
			a.Set(i+1, i, a.At(i+1, i)+dl[i])
		}
	}
	a.Set(n-1, 0, a.At(n-1, 0)+alpha)
	a.Set(0, n-1, a.At(0, n-1)+beta)
	return a
}

func assertResidual(t *testing.T, a, x, b *mat.Dense) {
	t.Helper()
	var ax mat.Dense
	ax.Mul(a, x)
	r, c := b.Dims()
	for i := range r {
		for j := range c {
			assert.InDelta(t, b.At(i, j), ax.At(i, j), solveTolerance, "residual at (%d,%d)", i, j)
		}
	}
}

// TestSolveTridiag checks a diagonally dominant system with two right-hand sides.
func TestSolveTridiag(t *testing.T) {
	dl := []float64{1, 1, 1, 1}
	d := []float64{4, 4, 4, 4, 4}
	du := []float64{1, 1, 1, 1}
	b := mat.NewDense(5, 2, []float64{
		1, 0,
		2, 1,
		3, 0,
		4, 1,
		5, 0,
	})

	x, err := SolveTridiag(dl, d, du, b)
	require.NoError(t, err)
	assertResidual(t, denseTridiag(dl, d, du, 0, 0), x, b)

	// inputs are left untouched
	assert.Equal(t, []float64{4, 4, 4, 4, 4}, d)
}

// TestSolveTridiag_Errors checks argument validation.
func TestSolveTridiag_Errors(t *testing.T) {
	_, err := SolveTridiag(nil, nil, nil, mat.NewDense(1, 1, nil))
	require.ErrorIs(t, err, ErrSingular)

	_, err = SolveTridiag([]float64{1}, []float64{1, 1, 1}, []float64{1, 1}, mat.NewDense(3, 1, nil))
	require.ErrorIs(t, err, ErrSingular)
}

// TestSolveCyclicTridiag covers both the Sherman-Morrison and dense paths.
func TestSolveCyclicTridiag(t *testing.T) {
	tests := []struct {
		name        string
		dl, d, du   []float64
		alpha, beta float64
	}{
		{"size 2", []float64{1}, []float64{5, 6}, []float64{2}, 1, 1},
		{"size 3", []float64{1, 2}, []float64{6, 7, 8}, []float64{1, 1}, 2, 1},
		{"size 6", []float64{1, 1, 1, 1, 1}, []float64{4, 4, 4, 4, 4, 4}, []float64{1, 1, 1, 1, 1}, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := len(tt.d)
			b := mat.NewDense(n, 3, nil)
			for i := range n {
				b.Set(i, 0, float64(i+1))
				b.Set(i, 1, float64(n-i))
				b.Set(i, 2, float64(i%2))
			}
			x, err := SolveCyclicTridiag(tt.dl, tt.d, tt.du, tt.alpha, tt.beta, b)
			require.NoError(t, err)
			assertResidual(t, denseTridiag(tt.dl, tt.d, tt.du, tt.alpha, tt.beta), x, b)
		})
	}
}

// TestSolveLeastSquares fits a line through exact data.
func TestSolveLeastSquares(t *testing.T) {
	a := mat.NewDense(4, 2, []float64{
		1, 0,
		1, 1,
		1, 2,
		1, 3,
	})
	b := mat.NewDense(4, 1, []float64{1, 3, 5, 7})
	x, err := SolveLeastSquares(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, x.At(0, 0), solveTolerance)
	assert.InDelta(t, 2.0, x.At(1, 0), solveTolerance)

	_, err = SolveLeastSquares(mat.NewDense(1, 2, []float64{1, 1}), mat.NewDense(1, 1, nil))
	require.ErrorIs(t, err, ErrSingular)
}

// TestSolveKKT minimizes a quadratic subject to a linear constraint.
func TestSolveKKT(t *testing.T) {
	// minimize x² + y² subject to x + y = 2 -> (1, 1)
	h := mat.NewDense(2, 2, []float64{2, 0, 0, 2})
	c := mat.NewDense(1, 2, []float64{1, 1})
	g := mat.NewDense(2, 1, nil)
	r := mat.NewDense(1, 1, []float64{2})

	x, err := SolveKKT(h, c, g, r)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, x.At(0, 0), solveTolerance)
	assert.InDelta(t, 1.0, x.At(1, 0), solveTolerance)

	// rank-deficient constraints
	c = mat.NewDense(2, 2, []float64{1, 1, 2, 2})
	r = mat.NewDense(2, 1, []float64{2, 4})
	_, err = SolveKKT(h, c, g, r)
	require.ErrorIs(t, err, ErrSingular)
}

// TestInverseVandermonde3 checks the inverse against the identity.
func TestInverseVandermonde3(t *testing.T) {
	inv, err := InverseVandermonde3(-1, 0, 2)
	require.NoError(t, err)
	v := mat.NewDense(3, 3, []float64{1, -1, 1, 1, 0, 0, 1, 2, 4})
	var p mat.Dense
	p.Mul(v, inv)
	for i := range 3 {
		for j := range 3 {
			want := 0.0
			if i == j {
				want = 1
			}
			assert.InDelta(t, want, p.At(i, j), solveTolerance)
		}
	}

	_, err = InverseVandermonde3(1, 1, 2)
	require.ErrorIs(t, err, ErrSingular)
}

// TestSavitzkyGolayWeights checks the weight set properties.
func TestSavitzkyGolayWeights(t *testing.T) {
	// Weights always sum to one and reproduce polynomials of the fit degree.
	for _, x := range []float64{0, 0.25, 0.5, 1} {
		w, err := SavitzkyGolayWeights(2, 5, x)
		require.NoError(t, err)
		var sum, quad float64
		for i, wi := range w {
			u := float64(i) / 4
			sum += wi
			quad += wi * (3*u*u - u + 2)
		}
		assert.InDelta(t, 1.0, sum, 1e-10)
		assert.InDelta(t, 3*x*x-x+2, quad, 1e-10)
	}

	// Degree 1, window 3 at the center is the moving average.
	w, err := SavitzkyGolayWeights(1, 3, 0.5)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1.0 / 3, 1.0 / 3, 1.0 / 3}, w, 1e-12)

	_, err = SavitzkyGolayWeights(3, 2, 0.5)
	require.ErrorIs(t, err, ErrSingular)
}
