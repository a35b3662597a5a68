// Package filter designs Kaiser-windowed lowpass FIR filters for
// band-limiting sampled channels before they are resampled by
// interpolation.
package filter

import (
	"fmt"
	"math"

	"github.com/tphakala/simd/f64"
)

const (
	// Filter length limits
	minTaps = 3
	maxTaps = 8191

	// Kaiser length estimate, N = (att - 7.95) / (14.36 * tbw) + 1
	kaiserLengthOffset = 7.95
	kaiserLengthScale  = 14.36

	// Kaiser beta breakpoints in dB
	kaiserAttHigh   = 50.0
	kaiserAttMedium = 21.0

	// Kaiser beta coefficients
	kaiserBetaHighCoeff    = 0.1102
	kaiserBetaHighOffset   = 8.7
	kaiserBetaMediumCoeff1 = 0.5842
	kaiserBetaMediumCoeff2 = 0.07886
	kaiserBetaMediumPower  = 0.4

	// besselEpsilon stops the I0 series once terms stop contributing.
	besselEpsilon = 1e-17

	// Nyquist as a fraction of the sample rate
	nyquist = 0.5
)

// KaiserBeta returns the Kaiser window beta for a stopband attenuation in dB.
func KaiserBeta(att float64) float64 {
	switch {
	case att > kaiserAttHigh:
		return kaiserBetaHighCoeff * (att - kaiserBetaHighOffset)
	case att >= kaiserAttMedium:
		d := att - kaiserAttMedium
		return kaiserBetaMediumCoeff1*math.Pow(d, kaiserBetaMediumPower) + kaiserBetaMediumCoeff2*d
	default:
		return 0
	}
}

// KaiserWindow returns a symmetric Kaiser window of the given length.
func KaiserWindow(length int, beta float64) []float64 {
	if length < 1 {
		return nil
	}
	w := make([]float64, length)
	if length == 1 {
		w[0] = 1
		return w
	}
	half := float64(length-1) / 2
	norm := besselI0(beta)
	for n := range w {
		x := (float64(n) - half) / half
		w[n] = besselI0(beta*math.Sqrt(max(0, 1-x*x))) / norm
	}
	return w
}

// besselI0 sums the power series of the modified Bessel function I0.
func besselI0(x float64) float64 {
	q := x * x / 4
	sum, term := 1.0, 1.0
	for k := 1.0; term > besselEpsilon*sum; k++ {
		term *= q / (k * k)
		sum += term
	}
	return sum
}

// NumTaps estimates the odd filter length that reaches att dB of stopband
// attenuation over a normalized transition band of width tbw.
func NumTaps(att, tbw float64) int {
	if tbw <= 0 {
		return maxTaps
	}
	n := int(math.Ceil((att-kaiserLengthOffset)/(kaiserLengthScale*tbw))) + 1
	if n%2 == 0 {
		n++
	}
	return min(max(n, minTaps), maxTaps)
}

// LowPass designs a linear-phase lowpass filter with unit DC gain. cutoff
// is normalized to the sample rate and must lie in (0, 0.5).
func LowPass(numTaps int, cutoff, att float64) ([]float64, error) {
	if numTaps < minTaps || numTaps > maxTaps {
		return nil, fmt.Errorf("filter length %d outside [%d, %d]", numTaps, minTaps, maxTaps)
	}
	if cutoff <= 0 || cutoff >= nyquist {
		return nil, fmt.Errorf("cutoff %g outside (0, %g)", cutoff, nyquist)
	}
	if att < 0 {
		return nil, fmt.Errorf("negative attenuation %g dB", att)
	}

	taps := KaiserWindow(numTaps, KaiserBeta(att))
	center := float64(numTaps-1) / 2
	for n := range taps {
		x := float64(n) - center
		sinc := 2 * cutoff
		if x != 0 {
			sinc = math.Sin(2*math.Pi*cutoff*x) / (math.Pi * x)
		}
		taps[n] *= sinc
	}
	if sum := f64.Sum(taps); sum != 0 {
		f64.Scale(taps, taps, 1/sum)
	}
	return taps, nil
}

// AntiAlias designs the filter that band-limits a signal sampled at inRate
// for resampling to outRate. It returns nil when outRate does not reduce
// the rate.
func AntiAlias(inRate, outRate, att, passband float64) ([]float64, error) {
	if outRate >= inRate {
		return nil, nil
	}
	ratio := outRate / inRate
	cutoff := nyquist * ratio * passband
	tbw := nyquist*ratio - cutoff
	return LowPass(NumTaps(att, tbw), cutoff, att)
}

// Apply filters signal with a symmetric kernel, holding the end samples
// constant beyond the signal so the output keeps its length and phase.
func Apply(signal, taps []float64) []float64 {
	if len(signal) == 0 || len(taps) == 0 {
		return append([]float64(nil), signal...)
	}
	half := len(taps) / 2
	padded := make([]float64, len(signal)+2*half)
	for i := range half {
		padded[i] = signal[0]
		padded[len(padded)-1-i] = signal[len(signal)-1]
	}
	copy(padded[half:], signal)
	out := make([]float64, len(signal))
	f64.ConvolveValid(out, padded, taps)
	return out
}
