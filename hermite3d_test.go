package interp

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/tphakala/go-curve-interp/internal/testutil"
)

func diag(v float64) r3.Vec { return r3.Vec{X: v, Y: v, Z: v} }

func arr(v r3.Vec) [3]float64 { return [3]float64{v.X, v.Y, v.Z} }

func diags(vals ...float64) []r3.Vec {
	out := make([]r3.Vec, len(vals))
	for i, v := range vals {
		out[i] = diag(v)
	}
	return out
}

func sampleSpline3d(t *testing.T, closing float64) *CubicHermiteSpline3d {
	t.Helper()
	sp, err := NewCubicHermiteSpline3dFrom(
		[]float64{0, 1, 3, 6},
		diags(-0.5, 0.5, 0.5, -0.5),
		diags(-0.1, 2, 2, -0.1),
	)
	require.NoError(t, err)
	sp.SetClosed(closing)
	return sp
}

// =============================================================================
// Evaluation
// =============================================================================

// TestCubicHermiteSpline3d_Interior checks values and slopes that do not
// depend on closure.
func TestCubicHermiteSpline3d_Interior(t *testing.T) {
	ss := []float64{0, 1, 2, 3, 6}
	xs := []float64{-0.5, 0.5, 0.5, 0.5, -0.5}
	dxs := []float64{-0.1, 2, -1, 2, -0.1}

	for _, closing := range []float64{0, 2} {
		sp := sampleSpline3d(t, closing)
		for i, s := range ss {
			testutil.AssertVec3InDelta(t, arr(diag(xs[i])), arr(sp.Eval(s)), testutil.DefaultTolerance,
				"x(%g) closing %g", s, closing)
			testutil.AssertVec3InDelta(t, arr(diag(dxs[i])), arr(sp.EvalDx(s)), testutil.DefaultTolerance,
				"dx(%g) closing %g", s, closing)
		}
	}
}

// TestCubicHermiteSpline3d_Open checks linear extension past the ends.
func TestCubicHermiteSpline3d_Open(t *testing.T) {
	sp := sampleSpline3d(t, 0)
	assert.False(t, sp.IsClosed())

	tests := []struct {
		s, x, dx float64
	}{
		{-1, -0.4, -0.1},
		{8, -0.7, -0.1},
		{9, -0.8, -0.1},
	}
	for _, tt := range tests {
		testutil.AssertVec3InDelta(t, arr(diag(tt.x)), arr(sp.Eval(tt.s)), testutil.DefaultTolerance, "x(%g)", tt.s)
		testutil.AssertVec3InDelta(t, arr(diag(tt.dx)), arr(sp.EvalDx(tt.s)), testutil.DefaultTolerance, "dx(%g)", tt.s)
	}

	assert.Equal(t, r3.Vec{}, sp.EvalDx2(9))
	assert.Equal(t, r3.Vec{}, sp.EvalDx2(-1))

	// left limit at the last knot
	k := sp.Knot(2)
	testutil.AssertVec3InDelta(t, arr(k.EvalDx2(6)), arr(sp.EvalDx2(6)), testutil.DefaultTolerance)
}

// TestCubicHermiteSpline3d_Closed checks wrap-around through the closing
// segment.
func TestCubicHermiteSpline3d_Closed(t *testing.T) {
	sp := sampleSpline3d(t, 2)
	require.True(t, sp.IsClosed())
	assert.InDelta(t, 2.0, sp.ClosingLength(), 0)
	assert.InDelta(t, 8.0, sp.SLength(), 0)

	tests := []struct {
		s, x, dx float64
	}{
		{-1, -0.5, 0.05},
		{-0.5, -0.48125, 0.0125},
		{6.5, -0.51875, 0.0125},
		{8, -0.5, -0.1},
		{9.5, 0.875, -0.25},
	}
	for _, tt := range tests {
		testutil.AssertVec3InDelta(t, arr(diag(tt.x)), arr(sp.Eval(tt.s)), testutil.DefaultTolerance, "x(%g)", tt.s)
		testutil.AssertVec3InDelta(t, arr(diag(tt.dx)), arr(sp.EvalDx(tt.s)), testutil.DefaultTolerance, "dx(%g)", tt.s)
	}

	// the closing segment meets the first knot smoothly
	last, ok := sp.Last()
	require.True(t, ok)
	testutil.AssertVec3InDelta(t, arr(sp.Knot(0).X()), arr(last.Eval(8)), testutil.DefaultTolerance)
	testutil.AssertVec3InDelta(t, arr(sp.Knot(0).Dx()), arr(last.EvalDx(8)), testutil.DefaultTolerance)

	sp.SetClosed(0)
	assert.False(t, sp.IsClosed())
	testutil.AssertVec3InDelta(t, arr(diag(-0.7)), arr(sp.Eval(8)), testutil.DefaultTolerance)
}

// TestCubicHermiteSpline3d_NormalizeS checks periodic reduction.
func TestCubicHermiteSpline3d_NormalizeS(t *testing.T) {
	sp := sampleSpline3d(t, 2)
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{7.5, 7.5},
		{8, 0},
		{-1, 7},
		{17, 1},
		{-16, 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, sp.NormalizeS(tt.in), testutil.DefaultTolerance, "NormalizeS(%g)", tt.in)
	}

	open := sampleSpline3d(t, 0)
	assert.InDelta(t, -1.0, open.NormalizeS(-1), 0)
}

// TestCubicHermiteSpline3d_Mutation checks knot insertion and removal.
func TestCubicHermiteSpline3d_Mutation(t *testing.T) {
	sp := sampleSpline3d(t, 2)
	ref := sp.Copy()

	k := sp.AddKnot(2, diag(0.5), diag(-1))
	assert.Equal(t, 2, k.Index())
	assert.Equal(t, 5, sp.NumKnots())
	// the new knot lies on the curve, so the curve is unchanged
	for _, s := range testutil.Linspace(0, 8, 17) {
		testutil.AssertVec3InDelta(t, arr(ref.Eval(s)), arr(sp.Eval(s)), 1e-9, "x(%g)", s)
	}

	require.True(t, sp.RemoveKnot(2))
	assert.True(t, sp.EpsilonEqual(ref, 1e-12))
	assert.False(t, sp.RemoveKnot(7))

	// replacing the first knot also updates the closing segment
	sp.AddKnot(0, diag(1), diag(0))
	last, _ := sp.Last()
	testutil.AssertVec3InDelta(t, arr(diag(1)), arr(last.Eval(8)), testutil.DefaultTolerance)

	sp.Clear()
	assert.Zero(t, sp.NumKnots())
	assert.True(t, sp.IsClosed())
	_, ok := sp.First()
	assert.False(t, ok)
	assert.Equal(t, r3.Vec{}, sp.Eval(1))
}

// TestCubicHermiteSpline3d_Set checks Set validation.
func TestCubicHermiteSpline3d_Set(t *testing.T) {
	sp := sampleSpline3d(t, 0)
	ref := sp.Copy()

	err := sp.Set([]float64{0, 1}, diags(0), diags(0, 0))
	require.ErrorIs(t, err, ErrInvalidArgument)
	err = sp.Set([]float64{1, 0}, diags(0, 0), diags(0, 0))
	require.ErrorIs(t, err, ErrInvalidArgument)
	assert.True(t, sp.Equal(ref))
}

// TestCubicHermiteSpline3d_Sampling checks SampledValues and ArcLength.
func TestCubicHermiteSpline3d_Sampling(t *testing.T) {
	line, err := NewCubicHermiteSpline3dFrom(
		[]float64{0, 1},
		[]r3.Vec{{}, {X: 3, Y: 4}},
		[]r3.Vec{{X: 3, Y: 4}, {X: 3, Y: 4}},
	)
	require.NoError(t, err)

	vals := line.SampledValues(4)
	require.Len(t, vals, 5)
	testutil.AssertVec3InDelta(t, [3]float64{0.75, 1, 0}, arr(vals[1]), testutil.DefaultTolerance)
	testutil.AssertVec3InDelta(t, [3]float64{3, 4, 0}, arr(vals[4]), testutil.DefaultTolerance)
	assert.InDelta(t, 5.0, line.ArcLength(10), testutil.DefaultTolerance)

	assert.Nil(t, NewCubicHermiteSpline3d().SampledValues(4))
	assert.Zero(t, NewCubicHermiteSpline3d().ArcLength(10))

	// a unit circle through four quadrant points
	circle := NewCubicHermiteSpline3d()
	circle.SetClosed(1)
	pts := []r3.Vec{{X: 1}, {Y: 1}, {X: -1}, {Y: -1}}
	require.NoError(t, circle.SetNatural(pts, []float64{0, 1, 2, 3}))
	assert.InDelta(t, 2*math.Pi, circle.ArcLength(400), 0.1)
}

// TestCubicHermiteSpline3d_Cursor checks that a threaded cursor matches
// plain lookups on a closed spline.
func TestCubicHermiteSpline3d_Cursor(t *testing.T) {
	sp := sampleSpline3d(t, 2)
	var c Cursor
	for _, s := range testutil.Linspace(-3, 20, 93) {
		var x r3.Vec
		x, c = sp.EvalAt(c, s)
		assert.Equal(t, sp.Eval(s), x, "s=%g", s)
		assert.Equal(t, sp.PrecedingIndex(s), c.Index(), "s=%g", s)
	}
}

// =============================================================================
// Natural Fits
// =============================================================================

func assertNatural3d(t *testing.T, sp *CubicHermiteSpline3d, points []r3.Vec, svals []float64) {
	t.Helper()
	n := len(points)
	require.Equal(t, n, sp.NumKnots())
	knots := sp.Knots()
	for i, k := range knots {
		assert.InDelta(t, svals[i], k.S(), 0)
		testutil.AssertVec3InDelta(t, arr(points[i]), arr(k.X()), testutil.DefaultTolerance, "knot %d", i)
	}

	numi := n - 1
	if sp.IsClosed() {
		numi = n
	} else {
		testutil.AssertVec3InDelta(t, [3]float64{}, arr(knots[0].A2()), testutil.ContinuityTolerance, "first a2")
		testutil.AssertVec3InDelta(t, [3]float64{}, arr(knots[n-1].A2()), testutil.ContinuityTolerance, "last a2")
	}
	for k := range numi {
		cur := knots[k]
		next := knots[(k+1)%n]
		h := sp.ClosingLength()
		if k+1 < n {
			h = next.S() - cur.S()
		}
		if !sp.IsClosed() && n == 2 {
			continue
		}
		dx := r3.Add(cur.Dx(), r3.Scale(h, r3.Add(r3.Scale(3*h, cur.A3()), r3.Scale(2, cur.A2()))))
		testutil.AssertVec3InDelta(t, arr(next.Dx()), arr(dx), testutil.ContinuityTolerance, "C1 at %d", k)
		ddx := r3.Add(r3.Scale(2, cur.A2()), r3.Scale(6*h, cur.A3()))
		testutil.AssertVec3InDelta(t, arr(r3.Scale(2, next.A2())), arr(ddx), testutil.ContinuityTolerance, "C2 at %d", k)
	}

	var buf bytes.Buffer
	require.NoError(t, sp.Write(&buf, "%g"))
	check := NewCubicHermiteSpline3d()
	require.NoError(t, check.Scan(&buf))
	assert.True(t, check.EpsilonEqual(sp, 1e-5), "round trip:\n%s", sp)
}

// TestCubicHermiteSpline3d_SetNatural fits open and closed natural splines.
func TestCubicHermiteSpline3d_SetNatural(t *testing.T) {
	points := []r3.Vec{
		{X: 1, Y: 0, Z: 0},
		{X: 2, Y: 1, Z: 0.5},
		{X: 0, Y: 3, Z: 1},
		{X: -2, Y: 1, Z: 0},
		{X: -1, Y: -1, Z: -1},
	}
	svals := []float64{0, 1, 2.5, 3, 5}

	for _, closing := range []float64{0, 1} {
		for n := 1; n <= len(points); n++ {
			sp := NewCubicHermiteSpline3d()
			sp.SetClosed(closing)
			require.NoError(t, sp.SetNatural(points[:n], svals[:n]), "n=%d closing=%g", n, closing)
			assertNatural3d(t, sp, points[:n], svals[:n])
		}
	}
}

// TestCubicHermiteSpline3d_SetNaturalTwo checks the open two-point case.
func TestCubicHermiteSpline3d_SetNaturalTwo(t *testing.T) {
	sp := NewCubicHermiteSpline3d()
	require.NoError(t, sp.SetNatural([]r3.Vec{{X: 1}, {X: 3, Y: 2}}, []float64{1, 3}))
	for _, k := range sp.Knots() {
		testutil.AssertVec3InDelta(t, [3]float64{1, 1, 0}, arr(k.Dx()), testutil.DefaultTolerance)
		testutil.AssertVec3InDelta(t, [3]float64{}, arr(k.A2()), testutil.DefaultTolerance)
		testutil.AssertVec3InDelta(t, [3]float64{}, arr(k.A3()), testutil.DefaultTolerance)
	}
}

// TestCubicHermiteSpline3d_SetNaturalErrors checks input validation.
func TestCubicHermiteSpline3d_SetNaturalErrors(t *testing.T) {
	sp := NewCubicHermiteSpline3d()
	require.ErrorIs(t, sp.SetNatural(diags(0, 1), []float64{0}), ErrInvalidArgument)
	require.ErrorIs(t, sp.SetNatural(diags(0, 1, 2), []float64{0, 2, 1}), ErrInvalidArgument)
}

// =============================================================================
// Least-Squares Fits
// =============================================================================

// TestCubicHermiteSpline3d_SingleMatchesMulti checks that a one-segment
// multi fit is the single-segment fit.
func TestCubicHermiteSpline3d_SingleMatchesMulti(t *testing.T) {
	points := diags(0, 1, -1, 0)

	single := NewCubicHermiteSpline3d()
	require.NoError(t, single.SetSingleSegment(points, 1, 3))
	multi := NewCubicHermiteSpline3d()
	require.NoError(t, multi.SetMultiSegment(points, []float64{1, 3}))

	assert.True(t, single.EpsilonEqual(multi, testutil.FitTolerance), "single:\n%s\nmulti:\n%s", single, multi)
	// four points determine the cubic exactly
	for i, p := range points {
		s := 1 + 2*float64(i)/3
		testutil.AssertVec3InDelta(t, arr(p), arr(single.Eval(s)), testutil.FitTolerance, "point %d", i)
	}
}

// TestCubicHermiteSpline3d_MultiReproduces checks that sampling a spline
// and fitting the samples recovers it.
func TestCubicHermiteSpline3d_MultiReproduces(t *testing.T) {
	svals := []float64{1, 2, 4, 7}
	curve, err := NewCubicHermiteSpline3dFrom(svals,
		[]r3.Vec{{X: 0, Y: 1, Z: 2}, {X: 1, Y: 3, Z: 0}, {X: -1, Y: 2, Z: 1}, {X: 2, Y: 0, Z: -1}},
		[]r3.Vec{{X: 1, Y: 0, Z: 0}, {X: 0.5, Y: -1, Z: 1}, {X: 0, Y: 0, Z: 2}, {X: -1, Y: 1, Z: 0}},
	)
	require.NoError(t, err)

	points := SampleSpline3d(curve, 1, 7, 10)
	fit := NewCubicHermiteSpline3d()
	require.NoError(t, fit.SetMultiSegment(points, svals))
	assert.True(t, fit.EpsilonEqual(curve, testutil.FitTolerance), "fit:\n%s\ncurve:\n%s", fit, curve)
	assert.False(t, fit.IsClosed())
}

// TestCubicHermiteSpline3d_FitErrors checks fit validation.
func TestCubicHermiteSpline3d_FitErrors(t *testing.T) {
	sp := NewCubicHermiteSpline3d()

	tests := []struct {
		name string
		fit  func() error
	}{
		{"single too few", func() error { return sp.SetSingleSegment(diags(0, 1, 2), 0, 1) }},
		{"single empty interval", func() error { return sp.SetSingleSegment(diags(0, 1, 2, 3), 1, 1) }},
		{"multi one knot", func() error { return sp.SetMultiSegment(diags(0, 1, 2, 3), []float64{0}) }},
		{"multi descending", func() error { return sp.SetMultiSegment(diags(0, 1, 2, 3, 4, 5), []float64{0, 2, 1}) }},
		{"multi too few", func() error { return sp.SetMultiSegment(diags(0, 1, 2, 3, 4), []float64{0, 1, 2}) }},
		{"multi sparse segment", func() error { return sp.SetMultiSegment(diags(0, 1, 2, 3, 4, 5), []float64{0, 0.1, 1}) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, tt.fit(), ErrInvalidArgument)
		})
	}

	err := sp.SetMultiSegment(diags(0, 1, 2, 3, 4, 5), []float64{0, 0.1, 1})
	assert.ErrorContains(t, err, "segment 0")
}

var specialPoints = []float64{
	-5.790109701418277, -0.40413900140877795, -95.51778916625788,
	-5.858089408811325, -0.345048947303665, -91.69707759960757,
	-5.9415927212011175, 0.0949108948745013, -87.87636603295725,
	-5.839714792847682, 0.18813076215817495, -84.05565446630695,
	-6.383579166501213, 0.24749426478917497, -80.23494289965663,
	-6.16766703944191, 0.4730462781190479, -76.41423133300631,
	-6.2973418836963555, 0.6219940258728125, -72.593519766356,
	-6.604916197274285, 0.5167126408081895, -68.77280819970568,
	-6.2472021054611515, 0.609420319102813, -64.95209663305536,
	-6.47163011890169, 0.798302759744324, -61.13138506640505,
	-6.6029351807244145, 0.6934582398076794, -57.310673499754735,
	-6.573298588753738, 0.6673270109788324, -53.48996193310442,
	-6.66207383899891, 0.629303948188886, -49.66925036645411,
	-6.939657048615982, 0.5741021455101036, -45.8485387998038,
	-6.997350977704658, 0.4918469487404932, -42.02782723315348,
	-7.096176091461781, 0.6425063716787286, -38.207115666503164,
	-6.929307613533561, 0.7341485243827719, -34.38640409985285,
	-6.928167795286697, 0.682193556583469, -30.565692533202537,
	-6.365260314119892, 0.6605996763614664, -26.74498096655222,
	-6.601661526307616, 0.6197657066610254, -22.924269399901902,
	-6.433241482628366, 0.5661940575241199, -19.103557833251585,
	-6.450666060869214, 0.5116705625326233, -15.282846266601283,
	-6.406572225576416, 0.8206225899320893, -11.462134699950951,
	-6.468405954977701, 0.5747558707472873, -7.641423133300634,
	-6.492924040049117, 0.7078101866411721, -3.8207115666503313,
	-6.468109086166808, 0.7553121632892773, -2.8421709430404007e-14,
	-6.445745533820265, 0.8648266861207469, 3.8207115666502887,
	-6.348311957946551, 0.8094017553720563, 7.641423133300606,
	-6.452298765265033, 0.7465117086580534, 11.462134699950923,
	-6.545058027888685, 0.766538790601578, 15.28284626660124,
	-6.267775633305944, 0.8500176758961573, 19.103557833251557,
	-6.164437966749881, 0.7998352185702743, 22.924269399901874,
	-6.466385085025583, 0.7847816681739548, 26.74498096655219,
	-6.663239219833353, 0.7994859801633627, 30.56569253320251,
	-7.120168696772976, 0.7804213363004474, 34.38640409985281,
	-7.483186925745671, 0.8119199505499535, 38.20711566650313,
	-7.158510892634126, 0.7195958583266775, 42.027827233153445,
	-7.174506558875442, 0.6657291047547556, 45.84853879980376,
	-7.1207144934578475, 0.8914748946109172, 49.66925036645408,
	-7.126450596847796, 0.9586270967781397, 53.4899619331044,
	-6.6128913839386465, 1.2852012604202023, 57.310673499754714,
	-6.442159765474306, 1.1888166689014625, 61.131385066405,
	-5.93921410685743, 1.2860817273691092, 64.95209663305532,
	-5.943423619208598, 1.4753848223160606, 68.77280819970566,
	-5.714437390025073, 1.279974421024228, 72.59351976635598,
	-5.6087623371246265, 1.3075382317128117, 76.4142313330063,
	-5.269367472916887, 1.4155061835409557, 80.23494289965662,
	-5.270958948344881, 1.5278915826916915, 84.05565446630693,
	-5.239297740011321, 1.439816127108665, 87.87636603295722,
	-5.186404423068966, 1.352848779606336, 91.69707759960751,
	-4.717999560383231, 1.4848843011226278, 95.51778916625783,
}

// TestCubicHermiteSpline3d_FitScaleInvariance fits noisy data over [0,1]
// and over its own z range and checks both curves trace the same path.
func TestCubicHermiteSpline3d_FitScaleInvariance(t *testing.T) {
	points := make([]r3.Vec, 0, len(specialPoints)/3)
	for i := 0; i < len(specialPoints); i += 3 {
		points = append(points, r3.Vec{X: specialPoints[i], Y: specialPoints[i+1], Z: specialPoints[i+2]})
	}
	zmin, zmax := points[0].Z, points[len(points)-1].Z

	unit := NewCubicHermiteSpline3d()
	require.NoError(t, unit.SetSingleSegment(points, 0, 1))
	scaled := NewCubicHermiteSpline3d()
	require.NoError(t, scaled.SetSingleSegment(points, zmin, zmax))

	const steps = 33
	for i := 0; i <= steps; i++ {
		s := float64(i) / steps
		x0 := unit.Eval(s)
		x1 := scaled.Eval(zmin + s*(zmax-zmin))
		mag := (r3.Norm(x0) + r3.Norm(x1)) / 2
		assert.Less(t, r3.Norm(r3.Sub(x0, x1))/mag, 1e-10, "s=%g", s)
	}
}

// =============================================================================
// Benchmarks
// =============================================================================

func BenchmarkCubicHermiteSpline3d_EvalAt(b *testing.B) {
	sp := NewCubicHermiteSpline3d()
	pts := make([]r3.Vec, 64)
	svals := make([]float64, 64)
	for i := range pts {
		s := float64(i)
		pts[i] = r3.Vec{X: math.Cos(s / 4), Y: math.Sin(s / 4), Z: s / 10}
		svals[i] = s
	}
	if err := sp.SetNatural(pts, svals); err != nil {
		b.Fatal(err)
	}
	ss := testutil.Linspace(0, 63, 4096)

	for b.Loop() {
		var c Cursor
		for _, s := range ss {
			_, c = sp.EvalAt(c, s)
		}
	}
}
