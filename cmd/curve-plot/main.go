// Command curve-plot draws a curve stored in text format to an image.
//
// Usage:
//
//	curve-plot -kind hermite1d -o spline.png spline.txt
//	curve-plot -kind hermite3d -o path.svg path.txt   # x-y projection
//	curve-plot -kind list -n 400 -o channels.pdf list.txt
//
// The image format follows the output file extension.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	interp "github.com/tphakala/go-curve-interp"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const (
	// Output image size
	defaultWidth  = 6 * vg.Inch
	defaultHeight = 4 * vg.Inch

	// Sampling
	defaultSamples = 200
	defaultOutput  = "curve.png"

	// Knot marker radius
	knotRadius = vg.Length(2.5)
)

func main() {
	var (
		kind    = flag.String("kind", "hermite1d", "Curve kind: hermite1d, hermite3d, linear1d, list")
		samples = flag.Int("n", defaultSamples, "Samples along the curve")
		output  = flag.String("o", defaultOutput, "Output image (.png, .svg, .pdf, .eps)")
		title   = flag.String("title", "", "Plot title (defaults to the input name)")
	)
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] curve.txt\n\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	path := flag.Arg(0)
	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("Failed to open curve: %v", err)
	}
	defer func() { _ = f.Close() }()

	p, err := buildPlot(*kind, f, *samples)
	if err != nil {
		log.Fatalf("Failed to plot curve: %v", err)
	}
	p.Title.Text = *title
	if p.Title.Text == "" {
		p.Title.Text = filepath.Base(path)
	}
	if err := p.Save(defaultWidth, defaultHeight, *output); err != nil {
		log.Fatalf("Failed to save plot: %v", err)
	}
	fmt.Printf("Wrote %s\n", *output)
}

// buildPlot scans a curve of the named kind from r and plots n samples of
// it together with its knots.
func buildPlot(kind string, r io.Reader, n int) (*plot.Plot, error) {
	if n < 2 {
		return nil, fmt.Errorf("need at least 2 samples, got %d", n)
	}
	p := plot.New()
	p.Add(plotter.NewGrid())

	switch strings.ToLower(kind) {
	case "hermite1d":
		sp := interp.NewCubicHermiteSpline1d()
		if err := sp.Scan(r); err != nil {
			return nil, err
		}
		k0, ok := sp.First()
		if !ok {
			return nil, fmt.Errorf("empty spline")
		}
		k1, _ := sp.Last()
		xs := interp.SampleTimes(k0.X(), k1.X(), n)
		knots := make(plotter.XYs, 0, sp.NumKnots())
		for _, k := range sp.Knots() {
			knots = append(knots, plotter.XY{X: k.X(), Y: k.Y()})
		}
		p.X.Label.Text, p.Y.Label.Text = "x", "y"
		return p, addSeries(p, "y", 0, zip(xs, interp.SampleSpline1d(sp, k0.X(), k1.X(), n)), knots)

	case "linear1d":
		sp := new(interp.LinearSpline1d)
		if err := sp.Scan(r); err != nil {
			return nil, err
		}
		if sp.NumKnots() == 0 {
			return nil, fmt.Errorf("empty spline")
		}
		xs := interp.SampleTimes(sp.X0(), sp.XLast(), n)
		knots := make(plotter.XYs, sp.NumKnots())
		for i := range knots {
			knots[i] = plotter.XY{X: sp.Knot(i).X(), Y: sp.Knot(i).Y()}
		}
		p.X.Label.Text, p.Y.Label.Text = "x", "y"
		return p, addSeries(p, "y", 0, zip(xs, interp.SampleLinear1d(sp, sp.X0(), sp.XLast(), n)), knots)

	case "hermite3d":
		sp := interp.NewCubicHermiteSpline3d()
		if err := sp.Scan(r); err != nil {
			return nil, err
		}
		if sp.NumKnots() == 0 {
			return nil, fmt.Errorf("empty spline")
		}
		s1 := sp.SLast()
		if sp.IsClosed() {
			s1 = sp.S0() + sp.SLength()
		}
		path := make(plotter.XYs, 0, n)
		for _, v := range interp.SampleSpline3d(sp, sp.S0(), s1, n) {
			path = append(path, plotter.XY{X: v.X, Y: v.Y})
		}
		knots := make(plotter.XYs, 0, sp.NumKnots())
		for _, k := range sp.Knots() {
			knots = append(knots, plotter.XY{X: k.X().X, Y: k.X().Y})
		}
		p.X.Label.Text, p.Y.Label.Text = "x", "y"
		return p, addSeries(p, "path", 0, path, knots)

	case "list":
		l := interp.NewNumericList(1)
		if err := l.Scan(r); err != nil {
			return nil, err
		}
		if l.IsEmpty() {
			return nil, fmt.Errorf("empty list")
		}
		t0, t1 := l.First().T(), l.Last().T()
		ts := interp.SampleTimes(t0, t1, n)
		chans := interp.Channels(interp.SampleList(l, t0, t1, n))
		for ch, ys := range chans {
			knots := make(plotter.XYs, 0, l.NumKnots())
			for k := range l.All() {
				knots = append(knots, plotter.XY{X: k.T(), Y: k.Value(ch)})
			}
			if err := addSeries(p, fmt.Sprintf("v[%d]", ch), ch, zip(ts, ys), knots); err != nil {
				return nil, err
			}
		}
		p.X.Label.Text, p.Y.Label.Text = "t", "value"
		return p, nil

	default:
		return nil, fmt.Errorf("unknown curve kind %q", kind)
	}
}

// addSeries adds a sampled line and its knot markers in palette color i.
func addSeries(p *plot.Plot, name string, i int, line, knots plotter.XYs) error {
	l, err := plotter.NewLine(line)
	if err != nil {
		return fmt.Errorf("line %s: %w", name, err)
	}
	c := plotutil.Color(i)
	l.Color = c
	s, err := plotter.NewScatter(knots)
	if err != nil {
		return fmt.Errorf("knots %s: %w", name, err)
	}
	s.GlyphStyle = draw.GlyphStyle{Color: darken(c), Radius: knotRadius, Shape: draw.CircleGlyph{}}
	p.Add(l, s)
	p.Legend.Add(name, l)
	return nil
}

func darken(c color.Color) color.Color {
	r, g, b, a := c.RGBA()
	return color.RGBA64{R: uint16(r / 2), G: uint16(g / 2), B: uint16(b / 2), A: uint16(a)}
}

func zip(xs, ys []float64) plotter.XYs {
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i] = plotter.XY{X: xs[i], Y: ys[i]}
	}
	return pts
}
