package interp

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tphakala/go-curve-interp/internal/textio"
)

// Write prints the list as
//
//	[
//	  vsize=N
//	  shape=NAME
//	  rotationRep=NAME
//	  rotationSubvecOffsets=[ off ... ]
//	  interpolation=[ Order extend ]
//	  knots=[
//	    t v0 v1 ...
//	  ]
//	]
//
// with numbers formatted by the fmt verb format. The rotation fields appear
// only for lists with rotation subvectors.
func (l *NumericList) Write(w io.Writer, format string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	tw := textio.NewWriter(w, format)
	tw.Line("[")
	tw.Line(knotIndent + "vsize=" + strconv.Itoa(l.vsize))
	tw.Line(knotIndent + "shape=" + l.shape.String())
	if len(l.rotOffsets) > 0 {
		offs := make([]string, len(l.rotOffsets))
		for i, off := range l.rotOffsets {
			offs[i] = strconv.Itoa(off)
		}
		tw.Line(knotIndent + "rotationRep=" + l.rotRep.String())
		tw.Line(knotIndent+"rotationSubvecOffsets=[", strings.Join(offs, " "), "]")
	}
	tw.Line(knotIndent + "interpolation=" + l.interp.String())
	tw.Line(knotIndent + "knots=[")
	for k := l.head; k != nil; k = k.next {
		tw.Line(knotIndent+knotIndent+tw.Num(k.t), tw.Nums(k.v...))
	}
	tw.Line(knotIndent + "]")
	tw.Line("]")
	return tw.Flush()
}

// Scan reads a list in the format produced by Write, replacing the vector
// size, shape, rotation subvectors, interpolation and knots. Fields may
// appear in any order except that vsize must precede knots; a missing shape
// is inferred from the vector size. On error the list is unchanged.
func (l *NumericList) Scan(r io.Reader) error {
	s := textio.NewScanner(r, "")
	if err := s.Expect('['); err != nil {
		return err
	}
	var (
		vsize    int
		shape    ValueShape
		hasShape bool
		in       = DefaultInterpolation()
		rows     [][]float64
		rotRep   RotationRep
		offsets  []int
	)
	for s.Peek() != ']' {
		name, err := s.Field()
		if err != nil {
			return err
		}
		switch name {
		case "vsize":
			if vsize, err = s.Int(); err != nil {
				return err
			}
			if vsize < 1 {
				return s.Errorf("vector size %d", vsize)
			}
		case "shape":
			word, err := s.Word()
			if err != nil {
				return err
			}
			if shape, err = ParseShape(word); err != nil {
				return s.Errorf("%v", err)
			}
			hasShape = true
		case "rotationRep":
			word, err := s.Word()
			if err != nil {
				return err
			}
			if rotRep, err = ParseRotationRep(word); err != nil {
				return s.Errorf("%v", err)
			}
		case "rotationSubvecOffsets":
			if offsets, err = scanInts(s); err != nil {
				return err
			}
		case "interpolation":
			if in, err = scanInterpolation(s); err != nil {
				return err
			}
		case "knots":
			if vsize == 0 {
				return s.Errorf("knots before vsize")
			}
			if rows, err = scanRows(s, vsize); err != nil {
				return err
			}
		default:
			return s.Errorf("unknown field %q", name)
		}
	}
	s.Next()
	if vsize == 0 {
		return s.Errorf("missing vsize")
	}
	var (
		tmp *NumericList
		err error
	)
	switch {
	case len(offsets) > 0:
		if hasShape && shape != ShapePlain {
			return s.Errorf("rotation subvectors need shape %s, got %s", ShapePlain, shape)
		}
		tmp, err = NewNumericListRotations(vsize, rotRep, offsets...)
	case hasShape:
		tmp, err = NewNumericListShape(vsize, shape)
	default:
		tmp, err = NewNumericListShape(vsize, ShapeForSize(vsize))
	}
	if err != nil {
		return s.Errorf("%v", err)
	}
	tmp.interp = in
	if err := tmp.SetValues(rows); err != nil {
		return s.Errorf("%v", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.clear()
	l.vsize, l.shape, l.interp, l.ops = tmp.vsize, tmp.shape, tmp.interp, tmp.ops
	l.rotRep, l.rotOffsets = tmp.rotRep, tmp.rotOffsets
	l.minVals, l.maxVals = tmp.minVals, tmp.maxVals
	var last *NumericListKnot
	for k := tmp.head; k != nil; {
		next := k.next
		k.prev, k.next, k.list = nil, nil, nil
		l.insert(k, last)
		last = k
		k = next
	}
	return nil
}

func scanInterpolation(s *textio.Scanner) (Interpolation, error) {
	var in Interpolation
	if err := s.Expect('['); err != nil {
		return in, err
	}
	word, err := s.Word()
	if err != nil {
		return in, err
	}
	if in.Order, err = ParseOrder(word); err != nil {
		return in, s.Errorf("%v", err)
	}
	if in.ExtendData, err = s.Bool(); err != nil {
		return in, err
	}
	return in, s.Expect(']')
}

func scanInts(s *textio.Scanner) ([]int, error) {
	if err := s.Expect('['); err != nil {
		return nil, err
	}
	var vals []int
	for s.Peek() != ']' {
		v, err := s.Int()
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	s.Next()
	return vals, nil
}

func scanRows(s *textio.Scanner, vsize int) ([][]float64, error) {
	if err := s.Expect('['); err != nil {
		return nil, err
	}
	var rows [][]float64
	for s.Peek() != ']' {
		row := make([]float64, vsize+1)
		for i := range row {
			x, err := s.Number()
			if err != nil {
				return nil, err
			}
			row[i] = x
		}
		rows = append(rows, row)
	}
	s.Next()
	return rows, nil
}

// String returns the list in its text format.
func (l *NumericList) String() string {
	var b strings.Builder
	if err := l.Write(&b, DefaultFormat); err != nil {
		return fmt.Sprintf("NumericList(%v)", err)
	}
	return b.String()
}
