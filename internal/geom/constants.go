package geom

const (
	// epsilon is the angle below which a rotation is treated as identity.
	epsilon = 2.220446049250313e-16

	halfAngleDivisor = 2.0 // quaternion half angle
	bezierDivisor    = 6.0 // h/6 control offsets of the cubic quaternion curve
	bezierThird      = 3.0 // h/3 interior control points

	radToDeg = 180.0 / 3.141592653589793
	degToRad = 3.141592653589793 / 180.0
)
