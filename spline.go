package interp

import (
	"fmt"

	"gonum.org/v1/gonum/floats/scalar"
)

// tristate caches a lazily computed boolean property.
type tristate uint8

const (
	unknown tristate = iota
	yes
	no
)

func tristateOf(b bool) tristate {
	if b {
		return yes
	}
	return no
}

// checkAscending fails unless vals is strictly increasing.
func checkAscending(vals []float64) error {
	for i := 1; i < len(vals); i++ {
		if !(vals[i] > vals[i-1]) {
			return fmt.Errorf("%w: parameter values not strictly increasing at index %d (%g after %g)",
				ErrInvalidArgument, i, vals[i], vals[i-1])
		}
	}
	return nil
}

func withinTol(a, b, tol float64) bool {
	return scalar.EqualWithinAbs(a, b, tol)
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
