package relay

import (
	"strconv"
	"strings"
	"time"
)

// PulseDuration is how long an asserted line is held at the active level.
//
// It is a contract with the connected relay hardware and is deliberately not
// caller-configurable: every actuation pulses for exactly this long, and the
// controller lock is occupied for the full hold.
const PulseDuration = 250 * time.Millisecond

// LineState describes where a line is in the pulse state machine.
//
// A line is Idle before and after every request. Configured and Asserted are
// transient states owned exclusively by the Controller during one pulse.
type LineState string

const (
	// StateIdle means no line is requested; the safe resting state.
	StateIdle LineState = "idle"

	// StateConfigured means a line is requested as an output at the idle level.
	StateConfigured LineState = "configured"

	// StateAsserted means the line is driven to the active (low) level.
	StateAsserted LineState = "asserted"
)

// PinSet is the fixed, ordered allow-list of BCM pin numbers the service will
// actuate. It is built once at startup and never modified afterwards, so it
// is safe for concurrent reads without locking.
type PinSet []int

// Contains reports whether pin is a member of the set.
//
// Membership is strict: pin 0 is a valid member if listed. (An earlier
// implementation rejected pin 0 via a truthiness check; that behaviour was a
// bug, not a contract.)
func (s PinSet) Contains(pin int) bool {
	for _, p := range s {
		if p == pin {
			return true
		}
	}
	return false
}

// String renders the set for error messages and status responses,
// e.g. "[23, 28]".
func (s PinSet) String() string {
	parts := make([]string, len(s))
	for i, p := range s {
		parts[i] = strconv.Itoa(p)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Outcome describes one completed actuation.
type Outcome struct {
	// ID correlates this actuation across log lines, MQTT events, and
	// WebSocket broadcasts.
	ID string

	// GPIOPin is the BCM pin that was pulsed.
	GPIOPin int

	// PulseDuration is how long the line was held active.
	PulseDuration time.Duration

	// Timestamp is when the pulse completed, UTC.
	Timestamp time.Time
}
