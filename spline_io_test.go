package interp

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

// TestCubicHermiteSpline1d_TextFormat checks the exact output and a round
// trip at full precision.
func TestCubicHermiteSpline1d_TextFormat(t *testing.T) {
	sp := sampleSpline1d(t)
	want := "[\n  0 -0.5 -0.1\n  1 0.5 2\n  3 0.5 2\n  6 -0.5 -0.1\n]\n"
	assert.Equal(t, want, sp.String())

	single, err := NewCubicHermiteSpline1dFrom([]float64{1}, []float64{2}, []float64{3})
	require.NoError(t, err)
	assert.Equal(t, "[ 1 2 3 ]\n", single.String())
	assert.Equal(t, "[ ]\n", NewCubicHermiteSpline1d().String())

	var buf bytes.Buffer
	require.NoError(t, sp.Write(&buf, "%.17g"))
	check := NewCubicHermiteSpline1d()
	require.NoError(t, check.Scan(&buf))
	assert.True(t, check.Equal(sp))
}

// TestCubicHermiteSpline3d_TextFormat checks open and closed output.
func TestCubicHermiteSpline3d_TextFormat(t *testing.T) {
	sp, err := NewCubicHermiteSpline3dFrom(
		[]float64{0, 2},
		[]r3.Vec{{X: 1}, {Y: 1}},
		[]r3.Vec{{Z: -1}, {X: 0.5}},
	)
	require.NoError(t, err)
	want := "[\n  0\n  (1 0 0)\n  (0 0 -1)\n  2\n  (0 1 0)\n  (0.5 0 0)\n]\n"
	assert.Equal(t, want, sp.String())

	sp.SetClosed(1.5)
	assert.True(t, strings.HasSuffix(sp.String(), "  CLOSED 1.5\n]\n"))

	check := NewCubicHermiteSpline3d()
	require.NoError(t, check.Scan(strings.NewReader(sp.String())))
	assert.True(t, check.Equal(sp))
	assert.InDelta(t, 1.5, check.ClosingLength(), 0)

	empty := NewCubicHermiteSpline3d()
	empty.SetClosed(2)
	require.NoError(t, check.Scan(strings.NewReader(empty.String())))
	assert.Zero(t, check.NumKnots())
	assert.True(t, check.IsClosed())
}

// TestCubicHermiteSpline3d_ScanBareVectors checks that parentheses are
// optional on input.
func TestCubicHermiteSpline3d_ScanBareVectors(t *testing.T) {
	sp := NewCubicHermiteSpline3d()
	require.NoError(t, sp.Scan(strings.NewReader("[ 1 0 0 0 1 1 1 0 (1 1 1) -1 -2 -3 ]")))
	require.Equal(t, 2, sp.NumKnots())
	assert.Equal(t, r3.Vec{X: 1, Y: 1, Z: 1}, sp.Knot(1).Dx())
	assert.Equal(t, r3.Vec{X: 1, Y: 1, Z: 1}, sp.Knot(0).X())
	assert.Equal(t, r3.Vec{X: -1, Y: -2, Z: -3}, sp.Knot(0).Dx())
	assert.False(t, sp.IsClosed())
}

// TestLinearSpline_TextFormat checks round trips of the linear splines.
func TestLinearSpline_TextFormat(t *testing.T) {
	sp1 := sampleLinear1d(t)
	assert.Equal(t, "[\n  0 -0.5\n  1 0.5\n  3 0\n  6 4\n]\n", sp1.String())
	check1 := &LinearSpline1d{}
	require.NoError(t, check1.Scan(strings.NewReader("[ 6 4 0 -0.5 3 0 1 0.5 ]")))
	assert.True(t, check1.Equal(sp1))

	sp3, err := NewLinearSpline3d([]float64{0, 1}, []r3.Vec{{X: 1}, {Y: -2}})
	require.NoError(t, err)
	assert.Equal(t, "[\n  0\n  (1 0 0)\n  1\n  (0 -2 0)\n]\n", sp3.String())
	check3 := &LinearSpline3d{}
	require.NoError(t, check3.Scan(strings.NewReader(sp3.String())))
	assert.True(t, check3.Equal(sp3))
}

// TestSplineScan_Errors checks that malformed input fails with ErrSyntax
// and leaves the target unchanged.
func TestSplineScan_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		scan  func(string) error
	}{
		{"1d missing bracket", "0 1 2 ]", scan1d},
		{"1d short knot", "[ 0 1 ]", scan1d},
		{"1d word", "[ 0 one 2 ]", scan1d},
		{"1d unterminated", "[ 0 1 2", scan1d},
		{"3d bad keyword", "[ 0 (1 2 3) (0 0 0) OPEN 2 ]", scan3d},
		{"3d unclosed paren", "[ 0 (1 2 3 (0 0 0) ]", scan3d},
		{"3d closed without length", "[ CLOSED ]", scan3d},
		{"linear3d short vector", "[ 0 (1 2) ]", scanLinear3d},
		{"linear1d odd count", "[ 0 1 2 ]", scanLinear1d},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, tt.scan(tt.input), ErrSyntax)
		})
	}

	sp := sampleSpline1d(t)
	ref := sp.Copy()
	require.Error(t, sp.Scan(strings.NewReader("[ 0 1 2 3 ]")))
	assert.True(t, sp.Equal(ref))
}

func scan1d(s string) error { return NewCubicHermiteSpline1d().Scan(strings.NewReader(s)) }

func scan3d(s string) error { return NewCubicHermiteSpline3d().Scan(strings.NewReader(s)) }

func scanLinear1d(s string) error { return new(LinearSpline1d).Scan(strings.NewReader(s)) }

func scanLinear3d(s string) error { return new(LinearSpline3d).Scan(strings.NewReader(s)) }
