package celestial

import "errors"

// Construction errors. A session must not start with a body that fails any
// of these checks.
var (
	ErrInvalidMass   = errors.New("celestial: mass must be positive and finite")
	ErrInvalidRadius = errors.New("celestial: radius must be positive and finite")
	ErrNonFinite     = errors.New("celestial: initial state contains NaN or Inf")
	ErrInvalidSpin   = errors.New("celestial: spin needs a non-zero axis")
)
