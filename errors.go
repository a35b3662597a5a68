package interp

import (
	"errors"

	"github.com/tphakala/go-curve-interp/internal/textio"
)

// Common errors returned by splines and numeric lists.
var (
	// ErrInvalidArgument indicates bad input: mismatched lengths, unordered
	// parameters, degenerate fits or an inversion target that cannot be
	// reached.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrImproperState indicates an operation that the current contents do
	// not support, such as inverting a non-monotone spline.
	ErrImproperState = errors.New("improper state")

	// ErrInternal indicates a broken internal invariant.
	ErrInternal = errors.New("internal error")

	// ErrSyntax indicates malformed input to a Scan method.
	ErrSyntax = textio.ErrSyntax
)
