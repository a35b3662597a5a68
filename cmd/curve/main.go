// Command curve loads a curve in text format and prints it evaluated on a
// uniform grid.
//
// Usage:
//
//	curve -kind hermite1d -n 21 spline.txt
//	curve -kind list -from 0 -to 2 pose.txt
//	cat path.txt | curve -kind hermite3d -
//	curve -demo
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	interp "github.com/tphakala/go-curve-interp"
	"github.com/tphakala/go-curve-interp/internal/simdops"
	"gonum.org/v1/gonum/spatial/r3"
)

func main() {
	var (
		kind    = flag.String("kind", defaultKind, "Curve kind: hermite1d, hermite3d, linear1d, linear3d, list")
		from    = flag.Float64("from", 0, "First parameter value (defaults to the first knot)")
		to      = flag.Float64("to", 0, "Last parameter value (defaults to the last knot)")
		samples = flag.Int("n", defaultSamples, "Number of samples")
		format  = flag.String("format", defaultFormat, "Number format for printed values")
		demo    = flag.Bool("demo", false, "Run a demonstration")
		verbose = flag.Bool("v", false, "Verbose output")
	)
	flag.Parse()

	if *verbose {
		log.Printf("SIMD: %s", simdops.Info())
	}

	if *demo {
		runDemo(os.Stdout)
		return
	}

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] curve.txt|-\n\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	in, closeIn, err := openInput(flag.Arg(0))
	if err != nil {
		log.Fatalf("Failed to open curve: %v", err)
	}
	defer closeIn()

	c, err := loadCurve(*kind, in)
	if err != nil {
		log.Fatalf("Failed to load curve: %v", err)
	}
	lo, hi := c.span()
	if *verbose {
		log.Printf("Loaded %s over [%g, %g]", *kind, lo, hi)
	}
	if *from != 0 || *to != 0 {
		lo, hi = *from, *to
	}
	if err := printGrid(os.Stdout, c, lo, hi, *samples, *format); err != nil {
		log.Fatalf("Failed to print samples: %v", err)
	}
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}

// curve adapts every curve kind to a row-per-parameter evaluator. Each row
// holds the value followed by its first derivative.
type curve interface {
	span() (lo, hi float64)
	header() string
	row(x float64) []float64
}

type hermite1d struct{ sp *interp.CubicHermiteSpline1d }

func (c hermite1d) span() (float64, float64) { return knotSpan1d(c.sp.First, c.sp.Last) }
func (c hermite1d) header() string          { return "x y dy" }
func (c hermite1d) row(x float64) []float64 {
	return []float64{x, c.sp.EvalY(x), c.sp.EvalDy(x)}
}

type hermite3d struct{ sp *interp.CubicHermiteSpline3d }

func (c hermite3d) span() (float64, float64) {
	if c.sp.IsClosed() {
		return c.sp.S0(), c.sp.S0() + c.sp.SLength()
	}
	return c.sp.S0(), c.sp.SLast()
}
func (c hermite3d) header() string { return "s x y z dx dy dz" }
func (c hermite3d) row(s float64) []float64 {
	return vecRow(s, c.sp.Eval(s), c.sp.EvalDx(s))
}

type linear1d struct{ sp *interp.LinearSpline1d }

func (c linear1d) span() (float64, float64) { return c.sp.X0(), c.sp.XLast() }
func (c linear1d) header() string          { return "x y dy" }
func (c linear1d) row(x float64) []float64 {
	return []float64{x, c.sp.Eval(x), c.sp.EvalDy(x)}
}

type linear3d struct{ sp *interp.LinearSpline3d }

func (c linear3d) span() (float64, float64) {
	ss := c.sp.SValues()
	if len(ss) == 0 {
		return 0, 0
	}
	return ss[0], ss[len(ss)-1]
}
func (c linear3d) header() string { return "s x y z dx dy dz" }
func (c linear3d) row(s float64) []float64 {
	return vecRow(s, c.sp.Eval(s), c.sp.EvalDx(s))
}

type list struct{ l *interp.NumericList }

func (c list) span() (float64, float64) {
	if c.l.IsEmpty() {
		return 0, 0
	}
	return c.l.First().T(), c.l.Last().T()
}
func (c list) header() string {
	return fmt.Sprintf("t v[%d] d[%d]", c.l.VectorSize(), c.l.DerivSize())
}
func (c list) row(t float64) []float64 {
	r := append([]float64{t}, c.l.Interpolate(nil, t)...)
	d, err := c.l.InterpolateDeriv(nil, t)
	if err != nil {
		d = c.l.NumericalDeriv(nil, t)
	}
	return append(r, d...)
}

func knotSpan1d(first, last func() (interp.HermiteKnot1d, bool)) (float64, float64) {
	k0, ok := first()
	if !ok {
		return 0, 0
	}
	k1, _ := last()
	return k0.X(), k1.X()
}

func vecRow(s float64, x, dx r3.Vec) []float64 {
	return []float64{s, x.X, x.Y, x.Z, dx.X, dx.Y, dx.Z}
}

// loadCurve scans a curve of the named kind from r.
func loadCurve(kind string, r io.Reader) (curve, error) {
	switch strings.ToLower(kind) {
	case "hermite1d":
		sp := interp.NewCubicHermiteSpline1d()
		return hermite1d{sp}, sp.Scan(r)
	case "hermite3d":
		sp := interp.NewCubicHermiteSpline3d()
		return hermite3d{sp}, sp.Scan(r)
	case "linear1d":
		sp := new(interp.LinearSpline1d)
		return linear1d{sp}, sp.Scan(r)
	case "linear3d":
		sp := new(interp.LinearSpline3d)
		return linear3d{sp}, sp.Scan(r)
	case "list":
		l := interp.NewNumericList(1)
		return list{l}, l.Scan(r)
	default:
		return nil, fmt.Errorf("unknown curve kind %q", kind)
	}
}

// printGrid writes a header line and n rows sampled from lo to hi.
func printGrid(w io.Writer, c curve, lo, hi float64, n int, format string) error {
	if _, err := fmt.Fprintf(w, "# %s\n", c.header()); err != nil {
		return err
	}
	for _, x := range interp.SampleTimes(lo, hi, n) {
		row := c.row(x)
		fields := make([]string, len(row))
		for i, v := range row {
			fields[i] = fmt.Sprintf(format, v)
		}
		if _, err := fmt.Fprintln(w, strings.Join(fields, " ")); err != nil {
			return err
		}
	}
	return nil
}
