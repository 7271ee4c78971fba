package relay

import "errors"

// Domain errors for the relay package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, relay.ErrUnsupportedPin) {
//	    // handle validation failure
//	}
var (
	// ErrMalformedBody is returned when a trigger request body is not valid JSON.
	ErrMalformedBody = errors.New("relay: malformed request body")

	// ErrUnsupportedPin is returned when the requested pin is absent, not an
	// integer, or not a member of the configured allow-list.
	ErrUnsupportedPin = errors.New("relay: unsupported gpio pin")

	// ErrHardware is returned when a configure/assert/de-assert step fails.
	// The wrapped cause identifies the failing step.
	ErrHardware = errors.New("relay: hardware failure")
)
