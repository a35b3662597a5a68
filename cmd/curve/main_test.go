package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCurve_Kinds(t *testing.T) {
	tests := []struct {
		kind   string
		text   string
		lo, hi float64
		header string
	}{
		{"hermite1d", "[ 0 0 1\n 2 2 1 ]", 0, 2, "x y dy"},
		{"Hermite3D", "[ 0 (0 0 0) (1 0 0)\n 1 (1 0 0) (1 0 0) ]", 0, 1, "s x y z dx dy dz"},
		{"linear1d", "[ 1 0\n 3 4 ]", 1, 3, "x y dy"},
		{"linear3d", "[ 0 (0 0 0)\n 5 (3 4 0) ]", 0, 5, "s x y z dx dy dz"},
		{"list", "[ vsize=2 knots=[ 0 1 2\n 1 3 4 ] ]", 0, 1, "t v[2] d[2]"},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			c, err := loadCurve(tt.kind, strings.NewReader(tt.text))
			require.NoError(t, err)
			lo, hi := c.span()
			assert.InDelta(t, tt.lo, lo, 1e-12)
			assert.InDelta(t, tt.hi, hi, 1e-12)
			assert.Equal(t, tt.header, c.header())
		})
	}
}

func TestLoadCurve_Errors(t *testing.T) {
	_, err := loadCurve("bezier", strings.NewReader("[ ]"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown curve kind")

	_, err = loadCurve("hermite1d", strings.NewReader("[ 0 0"))
	require.Error(t, err)
}

func TestPrintGrid_Linear(t *testing.T) {
	c, err := loadCurve("linear1d", strings.NewReader("[ 0 0\n 2 4 ]"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, printGrid(&buf, c, 0, 2, 3, "%g"))
	assert.Equal(t, "# x y dy\n0 0 2\n1 2 2\n2 4 2\n", buf.String())
}

func TestPrintGrid_ListRows(t *testing.T) {
	c, err := loadCurve("list", strings.NewReader("[ vsize=1 interpolation=[ Linear false ] knots=[ 0 0\n 2 4 ] ]"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, printGrid(&buf, c, 0.5, 1.5, 2, "%g"))
	assert.Equal(t, "# t v[1] d[1]\n0.5 1 2\n1.5 3 2\n", buf.String())
}

func TestRunDemo(t *testing.T) {
	var buf bytes.Buffer
	runDemo(&buf)
	out := buf.String()
	assert.Contains(t, out, "invertible: true")
	assert.Contains(t, out, "Closed Natural Curve")
	assert.Contains(t, out, "=== Demo Complete ===")
}
