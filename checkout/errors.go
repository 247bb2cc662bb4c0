package checkout

import "errors"

// ValidationError is a client-detected precondition failure (gate closed,
// invalid edit, stale reference). It blocks the action locally and never
// reaches the network.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// IsValidationError reports whether err is a local precondition failure.
func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
