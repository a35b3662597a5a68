package interp

import (
	"io"
	"strings"

	"github.com/tphakala/go-curve-interp/internal/textio"
	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultFormat is the number format used by String and by Write when the
// format argument is empty.
const DefaultFormat = textio.DefaultFormat

const knotIndent = "  "

// Write prints the spline as "[ x y dy ... ]", one knot per line, with
// numbers formatted by the fmt verb format.
func (sp *CubicHermiteSpline1d) Write(w io.Writer, format string) error {
	tw := textio.NewWriter(w, format)
	switch len(sp.knots) {
	case 0:
		tw.Line("[", "]")
	case 1:
		k := sp.knots[0]
		tw.Line("[", tw.Nums(k.x, k.y, k.dy), "]")
	default:
		tw.Line("[")
		for _, k := range sp.knots {
			tw.Line(knotIndent + tw.Nums(k.x, k.y, k.dy))
		}
		tw.Line("]")
	}
	return tw.Flush()
}

// Scan reads a spline in the format produced by Write, replacing the
// current knots. On error the spline is unchanged.
func (sp *CubicHermiteSpline1d) Scan(r io.Reader) error {
	s := textio.NewScanner(r, "")
	if err := s.Expect('['); err != nil {
		return err
	}
	tmp := &CubicHermiteSpline1d{}
	for s.Peek() != ']' {
		var v [3]float64
		for i := range v {
			x, err := s.Number()
			if err != nil {
				return err
			}
			v[i] = x
		}
		tmp.AddKnot(v[0], v[1], v[2])
	}
	s.Next()
	*sp = *tmp
	return nil
}

// String returns the spline in its text format.
func (sp *CubicHermiteSpline1d) String() string {
	var b strings.Builder
	_ = sp.Write(&b, DefaultFormat)
	return b.String()
}

// Write prints the spline with the parameter, value and derivative of each
// knot on separate lines and vectors as "(x y z)". A closed spline ends
// with a "CLOSED length" line.
func (sp *CubicHermiteSpline3d) Write(w io.Writer, format string) error {
	tw := textio.NewWriter(w, format)
	if len(sp.knots) == 0 && !sp.IsClosed() {
		tw.Line("[", "]")
		return tw.Flush()
	}
	tw.Line("[")
	for _, k := range sp.knots {
		tw.Line(knotIndent + tw.Num(k.s))
		tw.Line(knotIndent + vecString(tw, k.a0))
		tw.Line(knotIndent + vecString(tw, k.a1))
	}
	if sp.IsClosed() {
		tw.Line(knotIndent+closedKeyword, tw.Num(sp.closingLength))
	}
	tw.Line("]")
	return tw.Flush()
}

// Scan reads a spline in the format produced by Write. Parentheses around
// vectors are optional. On error the spline is unchanged.
func (sp *CubicHermiteSpline3d) Scan(r io.Reader) error {
	s := textio.NewScanner(r, "")
	if err := s.Expect('['); err != nil {
		return err
	}
	tmp := &CubicHermiteSpline3d{}
	var closing float64
	for {
		tok := s.Peek()
		if tok == ']' {
			s.Next()
			break
		}
		if tok == textio.Word {
			word, _ := s.Word()
			if word != closedKeyword {
				return s.Errorf("unexpected %q", word)
			}
			length, err := s.Number()
			if err != nil {
				return err
			}
			closing = length
			continue
		}
		param, err := s.Number()
		if err != nil {
			return err
		}
		x, err := s.Vec3()
		if err != nil {
			return err
		}
		dx, err := s.Vec3()
		if err != nil {
			return err
		}
		tmp.AddKnot(param, vecOf(x), vecOf(dx))
	}
	tmp.SetClosed(closing)
	*sp = *tmp
	return nil
}

// String returns the spline in its text format.
func (sp *CubicHermiteSpline3d) String() string {
	var b strings.Builder
	_ = sp.Write(&b, DefaultFormat)
	return b.String()
}

// Write prints the spline as "[ x y ... ]", one knot per line.
func (sp *LinearSpline1d) Write(w io.Writer, format string) error {
	tw := textio.NewWriter(w, format)
	if len(sp.knots) == 0 {
		tw.Line("[", "]")
		return tw.Flush()
	}
	tw.Line("[")
	for _, k := range sp.knots {
		tw.Line(knotIndent + tw.Nums(k.x, k.y))
	}
	tw.Line("]")
	return tw.Flush()
}

// Scan reads a spline in the format produced by Write. Knots may appear in
// any order. On error the spline is unchanged.
func (sp *LinearSpline1d) Scan(r io.Reader) error {
	s := textio.NewScanner(r, "")
	if err := s.Expect('['); err != nil {
		return err
	}
	tmp := &LinearSpline1d{}
	for s.Peek() != ']' {
		x, err := s.Number()
		if err != nil {
			return err
		}
		y, err := s.Number()
		if err != nil {
			return err
		}
		tmp.Add(x, y)
	}
	s.Next()
	*sp = *tmp
	return nil
}

// String returns the spline in its text format.
func (sp *LinearSpline1d) String() string {
	var b strings.Builder
	_ = sp.Write(&b, DefaultFormat)
	return b.String()
}

// Write prints the spline with each knot's parameter and value on separate
// lines.
func (sp *LinearSpline3d) Write(w io.Writer, format string) error {
	tw := textio.NewWriter(w, format)
	if len(sp.knots) == 0 {
		tw.Line("[", "]")
		return tw.Flush()
	}
	tw.Line("[")
	for _, k := range sp.knots {
		tw.Line(knotIndent + tw.Num(k.s))
		tw.Line(knotIndent + vecString(tw, k.x))
	}
	tw.Line("]")
	return tw.Flush()
}

// Scan reads a spline in the format produced by Write. On error the spline
// is unchanged.
func (sp *LinearSpline3d) Scan(r io.Reader) error {
	s := textio.NewScanner(r, "")
	if err := s.Expect('['); err != nil {
		return err
	}
	tmp := &LinearSpline3d{}
	for s.Peek() != ']' {
		param, err := s.Number()
		if err != nil {
			return err
		}
		x, err := s.Vec3()
		if err != nil {
			return err
		}
		tmp.Add(param, vecOf(x))
	}
	s.Next()
	*sp = *tmp
	return nil
}

// String returns the spline in its text format.
func (sp *LinearSpline3d) String() string {
	var b strings.Builder
	_ = sp.Write(&b, DefaultFormat)
	return b.String()
}

func vecString(tw *textio.Writer, v r3.Vec) string {
	return tw.Vec3(v.X, v.Y, v.Z)
}

func vecOf(a [3]float64) r3.Vec {
	return r3.Vec{X: a[0], Y: a[1], Z: a[2]}
}
