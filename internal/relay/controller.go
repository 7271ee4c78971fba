package relay

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Logger defines the logging interface used by the Controller.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Controller owns the single physical relay resource and runs the pulse
// state machine.
//
// All actuations serialise on one mutex held for the complete
// configure → assert → hold → de-assert → release sequence, so concurrent
// trigger requests each experience the full hold before the next begins.
// There is no queueing policy beyond lock-wait; at the expected request rates
// (a person triggering a door) starvation does not arise.
//
// All public methods are thread-safe.
type Controller struct {
	line PhysicalLine

	// mu serialises hardware access for the full pulse sequence.
	mu sync.Mutex

	// state is the observable position in the state machine.
	state   LineState
	stateMu sync.RWMutex

	logger Logger

	// hold blocks for the pulse duration. Replaceable in tests so pulses
	// don't take wall-clock time.
	hold func(time.Duration)
}

// NewController creates a Controller driving the given line.
// The controller starts Idle.
func NewController(line PhysicalLine) *Controller {
	return &Controller{
		line:   line,
		state:  StateIdle,
		logger: noopLogger{},
		hold:   time.Sleep,
	}
}

// SetLogger sets the logger for the controller.
func (c *Controller) SetLogger(logger Logger) {
	c.logger = logger
}

// State returns the controller's current position in the state machine.
// Outside of an in-flight pulse this is always StateIdle.
func (c *Controller) State() LineState {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.state
}

func (c *Controller) setState(s LineState) {
	c.stateMu.Lock()
	c.state = s
	c.stateMu.Unlock()
}

// Pulse actuates the given pin: configure as output, assert the active (low)
// level, hold for PulseDuration, de-assert, release.
//
// The hardware mutex is held for the entire sequence. The context is checked
// once before any hardware is touched; after that the pulse runs to
// completion; a half-driven relay is worse than a late response, so no
// cancellation or timeout aborts an assertion mid-flight.
//
// Cleanup (de-assert if still asserted, then release) is guaranteed on every
// exit path. A cleanup failure is logged but never replaces the original
// error as the reported cause.
//
// Parameters:
//   - ctx: Checked before hardware access only
//   - pin: The validated BCM pin number
//
// Returns:
//   - Outcome: Populated on success (ID, pin, duration, completion time)
//   - error: ErrHardware-wrapped step failure, or ctx.Err() if cancelled
//     while waiting for the lock
func (c *Controller) Pulse(ctx context.Context, pin int) (Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// The caller may have given up while queued behind another pulse.
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}

	id := uuid.NewString()
	c.logger.Debug("pulse starting", "actuation_id", id, "gpio_pin", pin)

	if err := c.line.Configure(pin); err != nil {
		return Outcome{}, fmt.Errorf("configuring pin %d: %w", pin, err)
	}
	c.setState(StateConfigured)

	// asserted tracks whether cleanup still owes a de-assert. It flips off
	// in the happy path the moment de-assertion has been attempted, so the
	// line sees at most one de-assert per pulse.
	asserted := false

	defer func() {
		if asserted {
			if cleanupErr := c.line.DeassertActive(); cleanupErr != nil {
				c.logger.Error("cleanup: de-assert failed",
					"actuation_id", id,
					"gpio_pin", pin,
					"error", cleanupErr,
				)
			}
		}
		if cleanupErr := c.line.Release(); cleanupErr != nil {
			c.logger.Error("cleanup: release failed",
				"actuation_id", id,
				"gpio_pin", pin,
				"error", cleanupErr,
			)
		}
		c.setState(StateIdle)
	}()

	// From this point the line may be active even if AssertActive errors,
	// so cleanup must drive it back to idle.
	asserted = true
	if err := c.line.AssertActive(); err != nil {
		return Outcome{}, fmt.Errorf("asserting pin %d: %w", pin, err)
	}
	c.setState(StateAsserted)

	// Hold phase: the line stays active for the full pulse duration, and the
	// lock stays occupied with it.
	c.hold(PulseDuration)

	asserted = false
	if err := c.line.DeassertActive(); err != nil {
		return Outcome{}, fmt.Errorf("de-asserting pin %d: %w", pin, err)
	}
	c.setState(StateConfigured)

	outcome := Outcome{
		ID:            id,
		GPIOPin:       pin,
		PulseDuration: PulseDuration,
		Timestamp:     time.Now().UTC(),
	}

	c.logger.Info("pulse complete",
		"actuation_id", id,
		"gpio_pin", pin,
		"pulse_duration", PulseDuration,
	)

	return outcome, nil
}
