package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func column(l *NumericList, i int) []float64 {
	var out []float64
	for _, row := range l.Values() {
		out = append(out, row[i+1])
	}
	return out
}

func spikeList(t *testing.T, vals ...float64) *NumericList {
	t.Helper()
	l := NewNumericList(2)
	for i, v := range vals {
		_, err := l.Add(float64(i), v, 7)
		require.NoError(t, err)
	}
	return l
}

// TestMovingAverageSmoothing checks window handling near the ends.
func TestMovingAverageSmoothing(t *testing.T) {
	tests := []struct {
		name string
		win  int
		want []float64
	}{
		{"window 3", 3, []float64{0, 1, 1, 1, 0}},
		{"even window rounds up", 2, []float64{0, 1, 1, 1, 0}},
		{"window 1 is a no-op", 1, []float64{0, 0, 3, 0, 0}},
		{"window 0 is a no-op", 0, []float64{0, 0, 3, 0, 0}},
		{"window clipped to list", 9, []float64{0, 1, 0.6, 1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := spikeList(t, 0, 0, 3, 0, 0)
			l.ApplyMovingAverageSmoothing(tt.win)
			assert.InDeltaSlice(t, tt.want, column(l, 0), 1e-12)
			assert.InDeltaSlice(t, []float64{7, 7, 7, 7, 7}, column(l, 1), 1e-12)
		})
	}
}

// TestSavitzkyGolaySmoothing checks that polynomials up to the fit degree
// pass through unchanged and that the ends are fitted, not copied.
func TestSavitzkyGolaySmoothing(t *testing.T) {
	var sq []float64
	for i := range 7 {
		sq = append(sq, float64(i*i))
	}
	l := spikeList(t, sq...)
	require.NoError(t, l.ApplySavitzkyGolaySmoothing(5, 2))
	assert.InDeltaSlice(t, sq, column(l, 0), 1e-9)
	assert.InDeltaSlice(t, []float64{7, 7, 7, 7, 7, 7, 7}, column(l, 1), 1e-9)

	l = spikeList(t, 0, 1, 0, 1, 0)
	require.NoError(t, l.ApplySavitzkyGolaySmoothing(3, 1))
	third := 1.0 / 3
	assert.InDeltaSlice(t, []float64{third, third, 2 * third, third, third}, column(l, 0), 1e-12)

	// min/max are recomputed after smoothing
	assert.InDelta(t, third, l.MinValues()[0], 1e-12)
}

// TestSavitzkyGolaySmoothing_Args checks argument validation.
func TestSavitzkyGolaySmoothing_Args(t *testing.T) {
	l := spikeList(t, 0, 1, 2)
	require.ErrorIs(t, l.ApplySavitzkyGolaySmoothing(5, 0), ErrInvalidArgument)
	require.ErrorIs(t, l.ApplySavitzkyGolaySmoothing(2, 2), ErrInvalidArgument)

	// too few knots for the window: unchanged
	short := spikeList(t, 0, 5)
	require.NoError(t, short.ApplySavitzkyGolaySmoothing(5, 2))
	assert.Equal(t, []float64{0, 5}, column(short, 0))
}
