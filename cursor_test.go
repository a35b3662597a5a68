package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestCursor_Index checks the zero value and index round trip.
func TestCursor_Index(t *testing.T) {
	var c Cursor
	assert.Equal(t, -1, c.Index())
	assert.Equal(t, 3, cursorAt(3).Index())
	assert.Equal(t, Cursor{}, cursorAt(-1))
}

// TestPrecedingIndex checks lookups with good, stale and out-of-range
// hints against a plain search.
func TestPrecedingIndex(t *testing.T) {
	params := []float64{0, 1, 1.5, 4, 10}
	param := func(i int) float64 { return params[i] }

	tests := []struct {
		name string
		x    float64
		want int
	}{
		{"before first", -1, -1},
		{"at first", 0, 0},
		{"between", 1.2, 1},
		{"at interior knot", 4, 3},
		{"at last", 10, 4},
		{"after last", 11, 4},
	}
	hints := []Cursor{{}, cursorAt(0), cursorAt(2), cursorAt(4), cursorAt(9)}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, h := range hints {
				assert.Equal(t, tt.want, precedingIndex(len(params), param, h, tt.x), "hint %d", h.Index())
			}
		})
	}

	assert.Equal(t, -1, precedingIndex(0, param, cursorAt(0), 1))
}
