package mathutil

// Root finding tolerances
const (
	// rootBoundTolerance is the relative slack allowed when accepting a root
	// that falls just outside a bounded interval. Accepted roots are clamped.
	rootBoundTolerance = 1e-10

	// degenerateCoeffRatio marks a leading coefficient as negligible relative
	// to the other coefficients, dropping the polynomial by one degree.
	degenerateCoeffRatio = 1e-14

	// newtonPolishSteps bounds the Newton refinement applied to closed-form roots.
	newtonPolishSteps = 4
)

// Polynomial constants
const (
	oneThird       = 1.0 / 3.0
	quadDiscFactor = 4.0 // b² - 4ac
	halfDivisor    = 2.0 // Division by 2
	sqrtThree      = 1.7320508075688772
)

// Linear solver constants
const (
	// cyclicMinDirect is the smallest system size handled by Sherman-Morrison;
	// smaller cyclic systems are assembled densely and solved with LU.
	cyclicMinDirect = 3
)
