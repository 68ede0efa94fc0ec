package sim

import "errors"

var (
	// ErrNoBodies indicates a simulator was built from an empty body set.
	ErrNoBodies = errors.New("sim: body set is empty")

	// ErrDuplicateBody indicates two bodies share an id.
	ErrDuplicateBody = errors.New("sim: duplicate body id")

	// ErrNilBody indicates a nil entry in the body set.
	ErrNilBody = errors.New("sim: nil body")

	// ErrInvalidConfig indicates a run configuration outside valid bounds.
	ErrInvalidConfig = errors.New("sim: invalid run configuration")

	// ErrInvalidState indicates a body state containing NaN or Inf.
	ErrInvalidState = errors.New("sim: invalid state (NaN or Inf detected)")
)
