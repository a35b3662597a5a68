package main

// Default command-line flag values
const (
	defaultKind    = "hermite1d"
	defaultSamples = 11
	defaultFormat  = "%.6g"
)

// Demo knot data
const (
	demoCircleKnots = 8    // knots on the closed demo circle
	demoTarget      = 1.5  // y value the inversion demo solves for
	demoAlpha       = 0.25 // extra linear term for the affine solve
)

// Demo sample counts
const (
	demoSamples    = 9
	arcLengthSteps = 200
)
