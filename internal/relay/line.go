package relay

// PhysicalLine abstracts one requestable digital output line.
//
// The Controller drives implementations through the fixed sequence
// Configure → AssertActive → DeassertActive → Release and guarantees Release
// is called whenever Configure succeeded, regardless of intermediate errors.
//
// Implementations do not need to be safe for concurrent use: the Controller
// serialises all access behind its own mutex.
type PhysicalLine interface {
	// Configure requests the pin as a digital output at the idle (high)
	// level. At most one pin is configured at a time.
	Configure(pin int) error

	// AssertActive drives the configured line to the active (low) level.
	AssertActive() error

	// DeassertActive returns the configured line to the idle (high) level.
	DeassertActive() error

	// Release frees the line back to the system. After Release the line is
	// unrequested and Configure may be called again.
	Release() error
}
