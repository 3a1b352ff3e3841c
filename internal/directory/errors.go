package directory

import (
	"errors"
	"fmt"
)

// Error taxonomy. Handlers map these to status codes; everything else that
// escapes the service is a bug.
var (
	// ErrInvalidCountry marks an unrecognized country code — user input,
	// never a silent fallback to a default tenant.
	ErrInvalidCountry = errors.New("invalid country")

	// ErrNotFound marks an absent subscriber or group. The remote call
	// itself succeeded.
	ErrNotFound = errors.New("not found")

	// ErrRemoteUnavailable marks a transport, HTTP, or decoding failure
	// talking to the remote API. The wrapped detail is for logs only and
	// must not reach API clients.
	ErrRemoteUnavailable = errors.New("remote directory unavailable")
)

// remoteErr wraps a failure with the operation name for diagnostics while
// keeping ErrRemoteUnavailable matchable via errors.Is.
func remoteErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrRemoteUnavailable, op, err)
}
