package relay

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// Logical levels on the wire. The relay board triggers on LOW.
const (
	levelActive = 0
	levelIdle   = 1
)

// GPIOLine is the hardware-backed PhysicalLine over the Linux GPIO character
// device (/dev/gpiochipN). Each Configure requests the line from the kernel
// and each Release hands it back, mirroring how the relay board expects to be
// driven: lines are only held for the duration of one pulse.
//
// Not safe for concurrent use; the Controller serialises access.
type GPIOLine struct {
	chip     string
	consumer string
	line     *gpiocdev.Line
}

// NewGPIOLine creates a GPIOLine for the given chip.
//
// Parameters:
//   - chip: GPIO character device name, e.g. "gpiochip0"
//   - consumer: label attached to requested lines (visible in gpioinfo)
func NewGPIOLine(chip, consumer string) *GPIOLine {
	return &GPIOLine{
		chip:     chip,
		consumer: consumer,
	}
}

// Configure requests the pin as an output, initialised to the idle level so
// the relay never sees a spurious active edge on acquisition.
func (g *GPIOLine) Configure(pin int) error {
	if g.line != nil {
		return fmt.Errorf("%w: line already configured", ErrHardware)
	}

	line, err := gpiocdev.RequestLine(g.chip, pin,
		gpiocdev.AsOutput(levelIdle),
		gpiocdev.WithConsumer(g.consumer),
	)
	if err != nil {
		return fmt.Errorf("%w: requesting %s offset %d: %w", ErrHardware, g.chip, pin, err)
	}

	g.line = line
	return nil
}

// AssertActive drives the line low, closing the relay contact.
func (g *GPIOLine) AssertActive() error {
	if g.line == nil {
		return fmt.Errorf("%w: line not configured", ErrHardware)
	}
	if err := g.line.SetValue(levelActive); err != nil {
		return fmt.Errorf("%w: asserting active level: %w", ErrHardware, err)
	}
	return nil
}

// DeassertActive returns the line to the idle high level.
func (g *GPIOLine) DeassertActive() error {
	if g.line == nil {
		return fmt.Errorf("%w: line not configured", ErrHardware)
	}
	if err := g.line.SetValue(levelIdle); err != nil {
		return fmt.Errorf("%w: de-asserting to idle level: %w", ErrHardware, err)
	}
	return nil
}

// Release hands the line back to the kernel. Safe to call when nothing is
// configured, so cleanup paths can call it unconditionally.
func (g *GPIOLine) Release() error {
	if g.line == nil {
		return nil
	}
	line := g.line
	g.line = nil
	if err := line.Close(); err != nil {
		return fmt.Errorf("%w: releasing line: %w", ErrHardware, err)
	}
	return nil
}
