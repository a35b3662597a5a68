package interp

import "math"

// Numeric tolerances
const (
	// rootSlack is the relative tolerance used when bracketing an inversion
	// target against knot values.
	rootSlack = 1e-12

	// bisectIterations bounds the fallback bisection in SolveX.
	bisectIterations = 200
)

// Polynomial evaluation constants
const (
	hermiteTwo   = 2.0
	hermiteThree = 3.0
	hermiteSix   = 6.0
	halfDivisor  = 2.0
)

// Fitting constants
const (
	minSingleSegmentPoints = 4 // cubic least squares needs four samples
	minPointsPerSegment    = 2 // each constrained segment needs two samples
	coeffsPerSegment       = 4 // b0..b3 per segment and axis
	constraintsPerKnot     = 2 // C0 and C1 at each interior knot
)

// Pose vector sizes
const (
	axisAngleSize     = 4
	poseAxisAngleSize = 7
	poseMatrixSize    = 16
	vec3Size          = 3
	poseDerivSize     = 6
)

// Rotation subvector sizes
const (
	quaternionSize     = 4
	rotationVectorSize = 3
	rotationMatrixSize = 9

	degToRad = math.Pi / 180
	fullTurn = 2 * math.Pi
)

// Smoothing constants
const (
	minSmoothingWindow = 3
)

// Text format constants
const (
	closedKeyword = "CLOSED"
)
