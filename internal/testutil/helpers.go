// Package testutil provides reusable test helper functions for curve and
// interpolation tests.
package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Default tolerances for various test scenarios.
const (
	DefaultTolerance    = 1e-10
	ContinuityTolerance = 1e-10
	FitTolerance        = 1e-10
	DerivativeTolerance = 1e-5
)

// derivStep is the central-difference step used by NumericDerivative.
const derivStep = 1e-6

// AssertNoNaNOrInf verifies that no elements in the slice are NaN or Inf.
func AssertNoNaNOrInf(t *testing.T, s []float64, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if math.IsNaN(v) {
			return assert.Fail(t, "found NaN", "s[%d] is NaN", i)
		}
		if math.IsInf(v, 0) {
			return assert.Fail(t, "found Inf", "s[%d] is Inf", i)
		}
	}
	return true
}

// AssertAllInRange verifies that all elements are within [min, max].
func AssertAllInRange(t *testing.T, s []float64, minVal, maxVal float64, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if v < minVal || v > maxVal {
			return assert.Fail(t, "value out of range",
				"s[%d]=%f is outside range [%f, %f]", i, v, minVal, maxVal)
		}
	}
	return true
}

// AssertMonotonic verifies that a slice is monotonically increasing.
func AssertMonotonic(t *testing.T, s []float64, msgAndArgs ...any) bool {
	t.Helper()
	for i := 1; i < len(s); i++ {
		if s[i] < s[i-1] {
			return assert.Fail(t, "not monotonic",
				"s[%d]=%f < s[%d]=%f", i, s[i], i-1, s[i-1])
		}
	}
	return true
}

// AssertRelativeError verifies that the relative error between actual and expected is within tolerance.
func AssertRelativeError(t *testing.T, expected, actual, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	if expected == 0 {
		return assert.InDelta(t, expected, actual, tolerance, msgAndArgs...)
	}
	relError := math.Abs(actual-expected) / math.Abs(expected)
	return assert.LessOrEqual(t, relError, tolerance,
		"relative error %e exceeds tolerance %e (expected=%f, actual=%f)",
		relError, tolerance, expected, actual)
}

// AssertInRange verifies that a value is within [min, max].
func AssertInRange(t *testing.T, value, minVal, maxVal float64, msgAndArgs ...any) bool {
	t.Helper()
	if value < minVal || value > maxVal {
		return assert.Fail(t, "value out of range",
			"value %f is outside range [%f, %f]", value, minVal, maxVal)
	}
	return true
}

// AssertVec3InDelta compares two 3-vectors component-wise.
func AssertVec3InDelta(t *testing.T, expected, actual [3]float64, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	return assert.InDeltaSlice(t, expected[:], actual[:], tolerance, msgAndArgs...)
}

// NumericDerivative returns the central difference of f at x.
func NumericDerivative(f func(float64) float64, x float64) float64 {
	return (f(x+derivStep) - f(x-derivStep)) / (2 * derivStep)
}

// AssertDerivative verifies that df agrees with a central difference of f
// at every sample point.
func AssertDerivative(t *testing.T, f, df func(float64) float64, xs []float64, tolerance float64) bool {
	t.Helper()
	ok := true
	for _, x := range xs {
		if !assert.InDelta(t, NumericDerivative(f, x), df(x), tolerance, "derivative at x=%g", x) {
			ok = false
		}
	}
	return ok
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n == 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + (hi-lo)*float64(i)/float64(n-1)
	}
	return out
}
