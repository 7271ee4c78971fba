package relay

import (
	"encoding/json"
	"fmt"
)

// pinField is the JSON field naming the target pin in a trigger request.
const pinField = "gpio_pin"

// ParseTrigger parses a trigger request body and validates the requested pin
// against the allow-list.
//
// Validation runs only after authentication has succeeded; it never touches
// hardware. The rules map onto the two validation errors:
//
//   - body is not valid JSON → ErrMalformedBody
//   - "gpio_pin" absent, not an integer, or not in supported → ErrUnsupportedPin
//
// Membership is strict set membership. A pin value of 0 is accepted when the
// allow-list contains 0.
//
// Parameters:
//   - rawBody: The request body bytes (already authenticated)
//   - supported: The fixed pin allow-list
//
// Returns:
//   - int: The validated pin number
//   - error: ErrMalformedBody or ErrUnsupportedPin (possibly wrapped)
func ParseTrigger(rawBody []byte, supported PinSet) (int, error) {
	var body any
	if err := json.Unmarshal(rawBody, &body); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrMalformedBody, err)
	}

	obj, ok := body.(map[string]any)
	if !ok {
		// Valid JSON, but not an object, so the pin field is absent.
		return 0, ErrUnsupportedPin
	}

	raw, ok := obj[pinField]
	if !ok {
		return 0, ErrUnsupportedPin
	}

	// encoding/json decodes every JSON number as float64.
	num, ok := raw.(float64)
	if !ok {
		return 0, ErrUnsupportedPin
	}

	pin := int(num)
	if float64(pin) != num {
		// Fractional pin numbers don't address a line.
		return 0, ErrUnsupportedPin
	}

	if !supported.Contains(pin) {
		return 0, ErrUnsupportedPin
	}

	return pin, nil
}
