package interp

import (
	"fmt"
	"iter"
	"math"
	"slices"
	"sync"

	"github.com/tphakala/go-curve-interp/internal/simdops"
)

// NumericListKnot is a time-stamped vector in a NumericList.
type NumericListKnot struct {
	t          float64
	v          []float64
	prev, next *NumericListKnot
	list       *NumericList
}

// NewNumericListKnot returns a detached knot at time t holding a copy of
// vals.
func NewNumericListKnot(t float64, vals ...float64) *NumericListKnot {
	return &NumericListKnot{t: t, v: slices.Clone(vals)}
}

// T returns the knot time.
func (k *NumericListKnot) T() float64 { return k.t }

// Values returns a copy of the knot vector.
func (k *NumericListKnot) Values() []float64 { return slices.Clone(k.v) }

// Value returns element i of the knot vector.
func (k *NumericListKnot) Value(i int) float64 { return k.v[i] }

// Prev returns the preceding knot, or nil.
func (k *NumericListKnot) Prev() *NumericListKnot { return k.prev }

// Next returns the following knot, or nil.
func (k *NumericListKnot) Next() *NumericListKnot { return k.next }

// NumericList is a time-ordered list of vector knots with a selectable
// interpolation order. Mutators and evaluation methods are safe to call from
// several goroutines; iteration through All and the knot links is not.
type NumericList struct {
	mu sync.Mutex

	vsize  int
	shape  ValueShape
	interp Interpolation
	ops    *simdops.Ops

	rotRep     RotationRep
	rotOffsets []int // rotation subvector offsets, ascending

	head, tail *NumericListKnot
	last       *NumericListKnot // search hint
	numKnots   int

	minVals, maxVals []float64
	minMaxValid      bool
}

// NewNumericList returns an empty list of vsize-element vectors. Vectors of
// size 4, 7 and 16 are read as poses; use NewNumericListShape to choose
// otherwise. It panics if vsize < 1.
func NewNumericList(vsize int) *NumericList {
	if vsize < 1 {
		panic(fmt.Sprintf("interp: numeric list vector size %d", vsize))
	}
	return newNumericList(vsize, ShapeForSize(vsize))
}

// NewNumericListShape returns an empty list with an explicit value shape.
// A pose shape must match vsize.
func NewNumericListShape(vsize int, shape ValueShape) (*NumericList, error) {
	if vsize < 1 {
		return nil, fmt.Errorf("%w: vector size %d", ErrInvalidArgument, vsize)
	}
	if shape < 0 || shape >= numShapes {
		return nil, fmt.Errorf("%w: unknown value shape %d", ErrInvalidArgument, int(shape))
	}
	if shape.IsPose() && shape.Size() != vsize {
		return nil, fmt.Errorf("%w: shape %s needs vector size %d, got %d",
			ErrInvalidArgument, shape, shape.Size(), vsize)
	}
	return newNumericList(vsize, shape), nil
}

func newNumericList(vsize int, shape ValueShape) *NumericList {
	return &NumericList{
		vsize:   vsize,
		shape:   shape,
		interp:  DefaultInterpolation(),
		ops:     simdops.Default(),
		minVals: make([]float64, vsize),
		maxVals: make([]float64, vsize),
	}
}

// VectorSize returns the knot vector size.
func (l *NumericList) VectorSize() int { return l.vsize }

// Shape returns the value shape.
func (l *NumericList) Shape() ValueShape { return l.shape }

// DerivSize returns the length of vectors produced by InterpolateDeriv and
// NumericalDeriv under the current interpolation. Each rotation subvector
// contributes three elements.
func (l *NumericList) DerivSize() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.derivSize()
}

// Interpolation returns the interpolation settings.
func (l *NumericList) Interpolation() Interpolation {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.interp
}

// SetInterpolation replaces the interpolation settings.
func (l *NumericList) SetInterpolation(in Interpolation) error {
	if err := in.Validate(); err != nil {
		return err
	}
	l.mu.Lock()
	l.interp = in
	l.mu.Unlock()
	return nil
}

// NumKnots returns the number of knots.
func (l *NumericList) NumKnots() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.numKnots
}

// IsEmpty reports whether the list has no knots.
func (l *NumericList) IsEmpty() bool {
	return l.NumKnots() == 0
}

// First returns the earliest knot, or nil.
func (l *NumericList) First() *NumericListKnot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.head
}

// Last returns the latest knot, or nil.
func (l *NumericList) Last() *NumericListKnot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tail
}

// Knot returns the i-th knot in time order, or nil if i is out of range.
// It walks the list.
func (l *NumericList) Knot(i int) *NumericListKnot {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i < 0 || i >= l.numKnots {
		return nil
	}
	k := l.head
	for ; i > 0; i-- {
		k = k.next
	}
	return k
}

// All iterates over the knots in time order.
func (l *NumericList) All() iter.Seq[*NumericListKnot] {
	return func(yield func(*NumericListKnot) bool) {
		for k := l.head; k != nil; k = k.next {
			if !yield(k) {
				return
			}
		}
	}
}

// Add inserts a knot at time t holding a copy of vals and returns it. A knot
// already at t is replaced.
func (l *NumericList) Add(t float64, vals ...float64) (*NumericListKnot, error) {
	if len(vals) < l.vsize {
		return nil, fmt.Errorf("%w: %d values for vector size %d", ErrInvalidArgument, len(vals), l.vsize)
	}
	k := NewNumericListKnot(t, vals[:l.vsize]...)
	if _, err := l.AddKnot(k); err != nil {
		return nil, err
	}
	return k, nil
}

// AddKnot inserts k, which must not belong to a list, and returns the knot
// it replaced at the same time, if any.
func (l *NumericList) AddKnot(k *NumericListKnot) (*NumericListKnot, error) {
	if len(k.v) != l.vsize {
		return nil, fmt.Errorf("%w: knot vector size %d, expecting %d", ErrInvalidArgument, len(k.v), l.vsize)
	}
	if k.list != nil {
		return nil, fmt.Errorf("%w: knot already belongs to a list", ErrInvalidArgument)
	}
	if math.IsNaN(k.t) {
		return nil, fmt.Errorf("%w: knot time is NaN", ErrInvalidArgument)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	replaced := l.insert(k, l.last)
	l.last = k
	return replaced, nil
}

// insert links k after the knot found from hint.
func (l *NumericList) insert(k, hint *NumericListKnot) *NumericListKnot {
	k.list = l
	l.minMaxValid = false
	if l.head == nil {
		k.prev, k.next = nil, nil
		l.head, l.tail = k, k
		l.numKnots = 1
		return nil
	}
	anchor := l.findAtOrBefore(k.t, hint)
	switch {
	case anchor.t < k.t:
		k.prev, k.next = anchor, anchor.next
		if anchor.next == nil {
			l.tail = k
		} else {
			anchor.next.prev = k
		}
		anchor.next = k
	case anchor.t > k.t:
		// k precedes every knot
		k.prev, k.next = nil, anchor
		anchor.prev = k
		l.head = k
	default:
		k.prev, k.next = anchor.prev, anchor.next
		if anchor.prev == nil {
			l.head = k
		} else {
			anchor.prev.next = k
		}
		if anchor.next == nil {
			l.tail = k
		} else {
			anchor.next.prev = k
		}
		anchor.prev, anchor.next, anchor.list = nil, nil, nil
		return anchor
	}
	l.numKnots++
	return nil
}

// Remove unlinks k and reports whether it belonged to the list.
func (l *NumericList) Remove(k *NumericListKnot) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if k == nil || k.list != l {
		return false
	}
	l.unlink(k)
	return true
}

// RemoveAt removes and returns the knot whose time equals t exactly, or
// returns nil.
func (l *NumericList) RemoveAt(t float64) *NumericListKnot {
	l.mu.Lock()
	defer l.mu.Unlock()
	k := l.findClosest(t, l.last)
	if k == nil || k.t != t {
		return nil
	}
	l.unlink(k)
	return k
}

func (l *NumericList) unlink(k *NumericListKnot) {
	if k.prev == nil {
		l.head = k.next
	} else {
		k.prev.next = k.next
	}
	if k.next == nil {
		l.tail = k.prev
	} else {
		k.next.prev = k.prev
	}
	if l.last == k {
		l.last = nil
	}
	k.prev, k.next, k.list = nil, nil, nil
	l.numKnots--
	l.minMaxValid = false
}

// ClearAfter removes every knot following k.
func (l *NumericList) ClearAfter(k *NumericListKnot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if k == nil || k.list != l {
		return
	}
	for x := k.next; x != nil; {
		next := x.next
		x.prev, x.next, x.list = nil, nil, nil
		l.numKnots--
		x = next
	}
	k.next = nil
	l.tail = k
	l.last = k
	l.minMaxValid = false
}

// Clear removes every knot.
func (l *NumericList) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.clear()
}

func (l *NumericList) clear() {
	for k := l.head; k != nil; {
		next := k.next
		k.prev, k.next, k.list = nil, nil, nil
		k = next
	}
	l.head, l.tail, l.last = nil, nil, nil
	l.numKnots = 0
	l.minMaxValid = false
}

// FindKnotAtOrBefore returns the last knot with time <= t, the first knot
// when t precedes the list, or nil for an empty list. The search starts from
// hint when it belongs to this list, which makes nearby lookups O(1).
func (l *NumericList) FindKnotAtOrBefore(t float64, hint *NumericListKnot) *NumericListKnot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.findAtOrBefore(t, hint)
}

func (l *NumericList) findAtOrBefore(t float64, hint *NumericListKnot) *NumericListKnot {
	k := hint
	if k == nil || k.list != l {
		if l.head == nil {
			return nil
		}
		// start from whichever end is nearer
		if t <= (l.head.t+l.tail.t)/halfDivisor {
			k = l.head
		} else {
			k = l.tail
		}
	}
	if k.t > t {
		for k.t > t && k.prev != nil {
			k = k.prev
		}
		return k
	}
	for k.next != nil && k.next.t <= t {
		k = k.next
	}
	return k
}

// FindKnotClosest returns the knot nearest to t, or nil for an empty list.
func (l *NumericList) FindKnotClosest(t float64) *NumericListKnot {
	l.mu.Lock()
	defer l.mu.Unlock()
	k := l.findClosest(t, l.last)
	if k != nil {
		l.last = k
	}
	return k
}

func (l *NumericList) findClosest(t float64, hint *NumericListKnot) *NumericListKnot {
	k := l.findAtOrBefore(t, hint)
	if k == nil || k.t >= t || k.next == nil {
		return k
	}
	if math.Abs(k.t-t) < math.Abs(k.next.t-t) {
		return k
	}
	return k.next
}

// MinValues returns the per-element minimum over all knots, or zeros for an
// empty list.
func (l *NumericList) MinValues() []float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.updateMinMax()
	return slices.Clone(l.minVals)
}

// MaxValues returns the per-element maximum over all knots, or zeros for an
// empty list.
func (l *NumericList) MaxValues() []float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.updateMinMax()
	return slices.Clone(l.maxVals)
}

// MinMax returns the smallest and largest element over all knots.
func (l *NumericList) MinMax() (lo, hi float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.updateMinMax()
	if l.head == nil {
		return 0, 0
	}
	return slices.Min(l.minVals), slices.Max(l.maxVals)
}

func (l *NumericList) updateMinMax() {
	if l.minMaxValid {
		return
	}
	if l.head == nil {
		clear(l.minVals)
		clear(l.maxVals)
	} else {
		copy(l.minVals, l.head.v)
		copy(l.maxVals, l.head.v)
		for k := l.head.next; k != nil; k = k.next {
			for i, x := range k.v {
				l.minVals[i] = min(l.minVals[i], x)
				l.maxVals[i] = max(l.maxVals[i], x)
			}
		}
	}
	l.minMaxValid = true
}

// SumSquaredValues returns, per element, the sum of squares over all knots.
func (l *NumericList) SumSquaredValues() []float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	sums := make([]float64, l.vsize)
	col := make([]float64, 0, l.numKnots)
	for i := range sums {
		col = col[:0]
		for k := l.head; k != nil; k = k.next {
			col = append(col, k.v[i])
		}
		sums[i] = l.ops.SumSquares(col)
	}
	return sums
}

// Scale multiplies every knot value by s.
func (l *NumericList) Scale(s float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for k := l.head; k != nil; k = k.next {
		l.ops.Scale(k.v, k.v, s)
	}
	l.minMaxValid = false
}

// ShiftTime adds dt to every knot time.
func (l *NumericList) ShiftTime(dt float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for k := l.head; k != nil; k = k.next {
		k.t += dt
	}
}

// Values returns one row per knot holding its time followed by its vector.
func (l *NumericList) Values() [][]float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	rows := make([][]float64, 0, l.numKnots)
	for k := l.head; k != nil; k = k.next {
		row := make([]float64, 0, l.vsize+1)
		row = append(row, k.t)
		rows = append(rows, append(row, k.v...))
	}
	return rows
}

// SetValues replaces the knots with rows of the form returned by Values.
// On error the list is unchanged.
func (l *NumericList) SetValues(rows [][]float64) error {
	for i, row := range rows {
		if len(row) != l.vsize+1 {
			return fmt.Errorf("%w: row %d has %d columns, expecting %d",
				ErrInvalidArgument, i, len(row), l.vsize+1)
		}
		if math.IsNaN(row[0]) {
			return fmt.Errorf("%w: row %d time is NaN", ErrInvalidArgument, i)
		}
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.clear()
	var last *NumericListKnot
	for _, row := range rows {
		k := NewNumericListKnot(row[0], row[1:]...)
		l.insert(k, last)
		last = k
	}
	return nil
}

// SetValuesFrom replaces the knots with those of src, mapping each time t
// to tscale*t + toffset and keeping the leading VectorSize elements of each
// vector.
func (l *NumericList) SetValuesFrom(src *NumericList, tscale, toffset float64) error {
	if src.vsize < l.vsize {
		return fmt.Errorf("%w: source vector size %d less than %d", ErrInvalidArgument, src.vsize, l.vsize)
	}
	if math.IsNaN(tscale) || math.IsNaN(toffset) {
		return fmt.Errorf("%w: NaN time mapping", ErrInvalidArgument)
	}
	rows := src.Values()
	for _, row := range rows {
		row[0] = tscale*row[0] + toffset
	}
	if tscale < 0 {
		slices.Reverse(rows)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.clear()
	var last *NumericListKnot
	for _, row := range rows {
		k := NewNumericListKnot(row[0], row[1:l.vsize+1]...)
		l.insert(k, last)
		last = k
	}
	return nil
}

// Equal reports whether both lists have the same size, shape, rotation
// subvectors, interpolation and knots.
func (l *NumericList) Equal(other *NumericList) bool {
	if l == other {
		return true
	}
	if other == nil {
		return false
	}
	a, b := l.Values(), other.Values()
	if l.vsize != other.vsize || l.shape != other.shape ||
		l.rotRep != other.rotRep || !slices.Equal(l.rotOffsets, other.rotOffsets) ||
		l.Interpolation() != other.Interpolation() || len(a) != len(b) {
		return false
	}
	for i := range a {
		if !slices.Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the list.
func (l *NumericList) Clone() *NumericList {
	l.mu.Lock()
	defer l.mu.Unlock()
	c := newNumericList(l.vsize, l.shape)
	c.interp = l.interp
	c.ops = l.ops
	c.rotRep, c.rotOffsets = l.rotRep, slices.Clone(l.rotOffsets)
	var last *NumericListKnot
	for k := l.head; k != nil; k = k.next {
		nk := NewNumericListKnot(k.t, k.v...)
		c.insert(nk, last)
		last = nk
	}
	return c
}
