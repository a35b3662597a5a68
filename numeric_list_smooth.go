package interp

import (
	"fmt"

	"github.com/tphakala/go-curve-interp/internal/mathutil"
)

// oddWindow rounds win up to an odd size and shrinks it to fit numk knots.
func oddWindow(win, numk int) int {
	if win%2 == 0 {
		win++
	}
	if win > numk {
		if numk%2 == 0 {
			return numk - 1
		}
		return numk
	}
	return win
}

// rows returns the knot vectors in time order.
func (l *NumericList) rows() [][]float64 {
	rows := make([][]float64, 0, l.numKnots)
	for k := l.head; k != nil; k = k.next {
		rows = append(rows, k.v)
	}
	return rows
}

// store writes smoothed vectors back into the knots.
func (l *NumericList) store(vals [][]float64) {
	i := 0
	for k := l.head; k != nil; k = k.next {
		copy(k.v, vals[i])
		i++
	}
	l.minMaxValid = false
}

// ApplyMovingAverageSmoothing replaces each knot value with the mean over a
// centred window of win knots. Even sizes are rounded up to the next odd
// size, the window shrinks symmetrically near the ends, and windows smaller
// than three knots leave the list unchanged.
func (l *NumericList) ApplyMovingAverageSmoothing(win int) {
	if win <= 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	numk := l.numKnots
	win = oddWindow(win, numk)
	if win < minSmoothingWindow {
		return
	}
	rows := l.rows()
	out := make([][]float64, numk)
	wgts := make([]float64, win)
	scratch := make([]float64, win)
	for k := range numk {
		hs := min(win/2, k, numk-1-k)
		n := 2*hs + 1
		for i := range n {
			wgts[i] = 1 / float64(n)
		}
		out[k] = make([]float64, l.vsize)
		l.ops.Combine(out[k], wgts[:n], rows[k-hs:k+hs+1], scratch)
	}
	l.store(out)
}

// ApplySavitzkyGolaySmoothing replaces each knot value with a local
// least-squares polynomial fit of degree deg over a centred window of win
// knots. Knots within half a window of either end take the value of the
// first or last fit at their position. Even sizes are rounded up and
// windows too small for the degree leave the list unchanged.
func (l *NumericList) ApplySavitzkyGolaySmoothing(win, deg int) error {
	if deg < 1 {
		return fmt.Errorf("%w: degree %d must be at least 1", ErrInvalidArgument, deg)
	}
	if win < deg+1 {
		return fmt.Errorf("%w: window %d must be at least degree+1", ErrInvalidArgument, win)
	}
	minWin := deg + 2
	if deg%2 == 0 {
		minWin = deg + 1
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	numk := l.numKnots
	win = oddWindow(win, numk)
	if win < minWin {
		return nil
	}

	// one weight set per window position so the ends can be fitted too
	wgts := make([][]float64, win)
	for i := range win {
		w, err := mathutil.SavitzkyGolayWeights(deg, win, float64(i)/float64(win-1))
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}
		wgts[i] = w
	}

	rows := l.rows()
	out := make([][]float64, numk)
	scratch := make([]float64, win)
	half := win / 2
	smooth := func(k, start, j int) {
		out[k] = make([]float64, l.vsize)
		l.ops.Combine(out[k], wgts[j], rows[start:start+win], scratch)
	}
	last := numk - win
	for start := 0; start <= last; start++ {
		if start == 0 {
			for j := range half {
				smooth(j, 0, j)
			}
		}
		smooth(start+half, start, half)
		if start == last {
			for j := half + 1; j < win; j++ {
				smooth(start+j, start, j)
			}
		}
	}
	l.store(out)
	return nil
}
