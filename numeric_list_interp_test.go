package interp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-curve-interp/internal/testutil"
)

func newTestList(t *testing.T, vsize int, in Interpolation, rows ...[]float64) *NumericList {
	t.Helper()
	l := NewNumericList(vsize)
	require.NoError(t, l.SetInterpolation(in))
	require.NoError(t, l.SetValues(rows))
	return l
}

func component(l *NumericList, i int) func(float64) float64 {
	return func(t float64) float64 { return l.Interpolate(nil, t)[i] }
}

func derivComponent(l *NumericList, i int) func(float64) float64 {
	return func(t float64) float64 {
		d, _ := l.InterpolateDeriv(nil, t)
		return d[i]
	}
}

// =============================================================================
// Scalar Orders
// =============================================================================

// TestNumericList_Orders checks each order at interior times.
func TestNumericList_Orders(t *testing.T) {
	rows := [][]float64{{0, 0}, {1, 1}, {2, 0}, {3, 1}}

	tests := []struct {
		order Order
		t     float64
		want  float64
	}{
		{Step, 1.25, 1},
		{Linear, 1.25, 0.75},
		{Cubic, 1.25, 0.84375},
		{Cubic, 1.5, 0.5},
		{CubicStep, 1.25, 0.84375},
		{CubicStep, 0.5, 0.5},
		// plain values fall back to the scalar orders
		{SphericalLinear, 1.25, 0.75},
		{SphericalCubic, 1.25, 0.84375},
	}
	for _, tt := range tests {
		t.Run(tt.order.String(), func(t *testing.T) {
			l := newTestList(t, 1, Interpolation{Order: tt.order}, rows...)
			assert.InDelta(t, tt.want, l.Interpolate(nil, tt.t)[0], testutil.DefaultTolerance)
		})
	}
}

// TestNumericList_Parabolic checks that parabolic interpolation reproduces a
// quadratic on every segment, including the first.
func TestNumericList_Parabolic(t *testing.T) {
	rows := make([][]float64, 0, 4)
	for _, x := range []float64{0, 1, 3, 4} {
		rows = append(rows, []float64{x, x * x, 1 - x})
	}
	l := newTestList(t, 2, Interpolation{Order: Parabolic}, rows...)

	for _, x := range []float64{0.5, 2, 2.75, 3.5} {
		got := l.Interpolate(nil, x)
		assert.InDelta(t, x*x, got[0], 1e-9, "t=%g", x)
		assert.InDelta(t, 1-x, got[1], 1e-9, "t=%g", x)
	}

	_, err := l.InterpolateDeriv(nil, 2)
	require.ErrorIs(t, err, ErrInvalidArgument)

	two := newTestList(t, 1, Interpolation{Order: Parabolic}, []float64{0, 0}, []float64{2, 4})
	assert.InDelta(t, 1.0, two.Interpolate(nil, 0.5)[0], testutil.DefaultTolerance)
}

// TestNumericList_CubicReproducesLinear checks that the estimated tangents
// are exact for linear data on an uneven grid.
func TestNumericList_CubicReproducesLinear(t *testing.T) {
	var rows [][]float64
	for _, x := range []float64{0, 0.5, 2, 2.25, 4, 7} {
		rows = append(rows, []float64{x, 2*x + 1})
	}
	for _, o := range []Order{Linear, Cubic, SphericalCubic} {
		l := newTestList(t, 1, Interpolation{Order: o}, rows...)
		for _, x := range testutil.Linspace(0, 7, 29) {
			assert.InDelta(t, 2*x+1, l.Interpolate(nil, x)[0], 1e-9, "%s t=%g", o, x)
		}
	}
}

// TestNumericList_TwoKnotCubic checks that cubic orders without outer
// neighbours degrade to linear.
func TestNumericList_TwoKnotCubic(t *testing.T) {
	l := newTestList(t, 1, Interpolation{Order: Cubic}, []float64{0, 0}, []float64{2, 1})
	assert.InDelta(t, 0.25, l.Interpolate(nil, 0.5)[0], testutil.DefaultTolerance)
	d, err := l.InterpolateDeriv(nil, 0.5)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, d[0], testutil.DefaultTolerance)
}

// =============================================================================
// Derivatives
// =============================================================================

// TestNumericList_InterpolateDeriv checks analytic derivatives against
// central differences inside segments.
func TestNumericList_InterpolateDeriv(t *testing.T) {
	rows := [][]float64{{0, 0}, {1, 2}, {2.5, 1}, {3, 4}, {5, 0}}
	ts := []float64{0.3, 0.7, 1.2, 2, 2.7, 3.5, 4.4}

	for _, o := range []Order{Step, Linear, Cubic, CubicStep} {
		t.Run(o.String(), func(t *testing.T) {
			l := newTestList(t, 1, Interpolation{Order: o}, rows...)
			assert.Equal(t, 1, l.DerivSize())
			testutil.AssertDerivative(t, component(l, 0), derivComponent(l, 0), ts, testutil.DerivativeTolerance)
		})
	}
}

// TestNumericList_DerivBoundaries checks derivatives at and beyond the ends.
func TestNumericList_DerivBoundaries(t *testing.T) {
	l := newTestList(t, 1, Interpolation{Order: Linear}, []float64{0, 0}, []float64{1, 2}, []float64{2, 3})

	tests := []struct {
		name string
		t    float64
		want float64
	}{
		{"before", -1, 0},
		{"first knot", 0, 2},
		{"last knot", 2, 1},
		{"after", 3, 0},
	}
	for _, tt := range tests {
		d, err := l.InterpolateDeriv(nil, tt.t)
		require.NoError(t, err)
		assert.InDelta(t, tt.want, d[0], testutil.DefaultTolerance, tt.name)
	}

	single := newTestList(t, 1, Interpolation{Order: Linear}, []float64{1, 5})
	d, err := single.InterpolateDeriv(nil, 1)
	require.NoError(t, err)
	assert.Zero(t, d[0])
	assert.Equal(t, []float64{0}, single.NumericalDeriv(nil, 1))

	empty := NewNumericList(2)
	d, err = empty.InterpolateDeriv(nil, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0}, d)
}

// TestNumericList_NumericalDeriv checks the three-knot estimate, which is
// exact for quadratic data on a uniform grid.
func TestNumericList_NumericalDeriv(t *testing.T) {
	var rows [][]float64
	for _, x := range []float64{0, 1, 2, 3} {
		rows = append(rows, []float64{x, x * x})
	}
	l := newTestList(t, 1, Interpolation{Order: Linear}, rows...)

	for _, x := range []float64{0.5, 1.4, 1.5, 1.6, 2.5} {
		assert.InDelta(t, 2*x, l.NumericalDeriv(nil, x)[0], 1e-12, "t=%g", x)
	}
	// no outer knot on the chosen side: linear slope
	assert.InDelta(t, 1.0, l.NumericalDeriv(nil, 0.2)[0], 1e-12)
	assert.InDelta(t, 5.0, l.NumericalDeriv(nil, 2.8)[0], 1e-12)
	assert.InDelta(t, 5.0, l.NumericalDeriv(nil, 3)[0], 1e-12)
	assert.Zero(t, l.NumericalDeriv(nil, 3.5)[0])
	assert.Zero(t, l.NumericalDeriv(nil, -1)[0])
}

// =============================================================================
// Poses
// =============================================================================

// zRotations returns axis-angle knots rotating about z by 90 degrees per
// second.
func zRotations(t *testing.T, o Order, n int) *NumericList {
	t.Helper()
	rows := make([][]float64, n)
	for i := range n {
		rows[i] = []float64{float64(i), 0, 0, 1, 90 * float64(i)}
	}
	return newTestList(t, 4, Interpolation{Order: o}, rows...)
}

// TestNumericList_AxisAngle checks spherical interpolation of rotations.
func TestNumericList_AxisAngle(t *testing.T) {
	for _, o := range []Order{SphericalLinear, SphericalCubic} {
		t.Run(o.String(), func(t *testing.T) {
			l := zRotations(t, o, 3)
			assert.Equal(t, 3, l.DerivSize())

			for _, x := range []float64{0.25, 0.5, 1.5} {
				got := l.Interpolate(nil, x)
				assert.InDeltaSlice(t, []float64{0, 0, 1, 90 * x}, got, 1e-9, "t=%g", x)

				w, err := l.InterpolateDeriv(nil, x)
				require.NoError(t, err)
				assert.InDeltaSlice(t, []float64{0, 0, math.Pi / 2}, w, 1e-9, "w(%g)", x)
				assert.InDeltaSlice(t, []float64{0, 0, math.Pi / 2}, l.NumericalDeriv(nil, x), 1e-9, "nw(%g)", x)
			}
		})
	}
}

// TestNumericList_AxisAngleSign checks that interpolated axes follow the
// sign convention of the neighbouring knots.
func TestNumericList_AxisAngleSign(t *testing.T) {
	l := newTestList(t, 4, Interpolation{Order: SphericalLinear},
		[]float64{0, 0, 0, -1, -30},
		[]float64{1, 0, 0, -1, -90},
	)
	assert.InDeltaSlice(t, []float64{0, 0, -1, -60}, l.Interpolate(nil, 0.5), 1e-9)
	assert.InDeltaSlice(t, []float64{0, 0, -1, -45}, l.Interpolate(nil, 0.25), 1e-9)

	// the linear order treats the same values as plain numbers
	require.NoError(t, l.SetInterpolation(Interpolation{Order: Linear}))
	assert.InDeltaSlice(t, []float64{0, 0, -1, -60}, l.Interpolate(nil, 0.5), 1e-12)
	assert.Equal(t, 4, l.DerivSize())
}

// TestNumericList_PoseAxisAngle checks position and rotation together.
func TestNumericList_PoseAxisAngle(t *testing.T) {
	l := newTestList(t, 7, Interpolation{Order: SphericalLinear},
		[]float64{0, 0, 0, 0, 0, 0, 1, 0},
		[]float64{2, 2, 4, 6, 0, 0, 1, 90},
	)
	assert.Equal(t, 6, l.DerivSize())
	assert.InDeltaSlice(t, []float64{1, 2, 3, 0, 0, 1, 45}, l.Interpolate(nil, 1), 1e-9)

	d, err := l.InterpolateDeriv(nil, 1)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 2, 3, 0, 0, math.Pi / 4}, d, 1e-9)
	assert.InDeltaSlice(t, d, l.NumericalDeriv(nil, 1), 1e-9)
}

// TestNumericList_PoseMatrix checks rigid transforms stored as 4x4 matrices.
func TestNumericList_PoseMatrix(t *testing.T) {
	c := math.Sqrt2 / 2
	l := newTestList(t, 16, Interpolation{Order: SphericalLinear},
		[]float64{0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1},
		[]float64{1, 1, 0, 0, 1, 0, 0, -1, 2, 0, 1, 0, 3, 0, 0, 0, 1},
	)
	want := []float64{1, 0, 0, 0.5, 0, c, -c, 1, 0, c, c, 1.5, 0, 0, 0, 1}
	assert.InDeltaSlice(t, want, l.Interpolate(nil, 0.5), 1e-9)

	d, err := l.InterpolateDeriv(nil, 0.5)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 2, 3, math.Pi / 2, 0, 0}, d, 1e-9)
}

// TestNumericList_SphericalCubicSmooth checks continuity of the spherical
// cubic across knots on an irregular rotation sequence.
func TestNumericList_SphericalCubicSmooth(t *testing.T) {
	l := newTestList(t, 7, Interpolation{Order: SphericalCubic},
		[]float64{0, 0, 0, 0, 1, 0, 0, 10},
		[]float64{1, 1, 0, 0, 0, 1, 0, 40},
		[]float64{2.5, 1, 2, 0, 0, 0, 1, 70},
		[]float64{3, 0, 2, 1, 1, 1, 0, 20},
	)
	for _, knot := range []float64{1, 2.5} {
		before, err := l.InterpolateDeriv(nil, knot-1e-7)
		require.NoError(t, err)
		after, err := l.InterpolateDeriv(nil, knot+1e-7)
		require.NoError(t, err)
		assert.InDeltaSlice(t, before, after, 1e-5, "velocity jump at %g", knot)
	}
	testutil.AssertNoNaNOrInf(t, l.Interpolate(nil, 2.7))
}
