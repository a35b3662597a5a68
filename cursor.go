package interp

import "sort"

// Cursor carries the knot found by one lookup into the next. Threading the
// returned cursor through queries with non-decreasing parameters makes each
// lookup O(1) amortized instead of a fresh O(log n) search.
//
// The zero Cursor carries no hint. A Cursor is only a hint: using one with
// a different spline, or after the spline changes, gives correct results,
// just without the speedup.
type Cursor struct {
	idx int // knot index + 1; zero means none
}

// cursorAt returns a cursor hinting at knot i, or the zero cursor for i < 0.
func cursorAt(i int) Cursor {
	if i < 0 {
		return Cursor{}
	}
	return Cursor{idx: i + 1}
}

// Index returns the knot index the cursor points at, or -1.
func (c Cursor) Index() int {
	return c.idx - 1
}

// precedingIndex returns the largest i with param(i) <= x among n ordered
// knots, or -1 if x precedes them all. A usable hint starts a forward walk;
// otherwise the knots are binary searched.
func precedingIndex(n int, param func(i int) float64, c Cursor, x float64) int {
	if n == 0 {
		return -1
	}
	if i := c.Index(); i >= 0 && i < n && param(i) <= x {
		for i+1 < n && param(i+1) <= x {
			i++
		}
		return i
	}
	return sort.Search(n, func(i int) bool { return param(i) > x }) - 1
}
