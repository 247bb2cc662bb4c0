package hotelapi

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse marks a 2xx response whose body does not match the
// expected schema. Surfaced as a ServiceError rather than propagating
// zero values into the checkout flow.
var ErrMalformedResponse = errors.New("malformed response from hotel api")

// NetworkError wraps a transport-level failure reaching the hotel API.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("hotel api %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServiceError represents an error status returned by the hotel API.
type ServiceError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("hotel api %s: status %d: %s", e.Op, e.StatusCode, e.Message)
}

// IsRemoteError reports whether err came from the network or the remote
// service, as opposed to a local precondition failure.
func IsRemoteError(err error) bool {
	var netErr *NetworkError
	var svcErr *ServiceError

	return errors.As(err, &netErr) || errors.As(err, &svcErr)
}
