// Package relay owns the physical relay output lines for Relay Core.
//
// It covers three concerns:
//
//   - Request validation: parsing a trigger request body and checking the
//     requested pin against the fixed allow-list (PinSet).
//   - Actuation: the Controller runs the pulse state machine
//     (Idle → Configured → Asserted → hold → Configured → Idle) under a
//     process-wide mutex, so concurrent requests serialise on the single
//     shared hardware resource.
//   - Hardware abstraction: the PhysicalLine interface with a real
//     implementation over the Linux GPIO character device (GPIOLine) and an
//     in-memory implementation for tests and chip-less hosts (FakeLine).
//
// # Signal Polarity
//
// The relay board triggers on logical LOW and rests at logical HIGH. This
// polarity is a contract inherited from the hardware, not a choice made here:
// asserting a line drives it low for PulseDuration, de-asserting returns it
// high. Lines are always requested at the idle (high) level.
//
// # Safety Invariants
//
//   - At most one line is configured or asserted at any instant, process-wide.
//     The underlying GPIO resource is not scoped per line, so overlapping
//     acquire/release sequences could disturb each other's state.
//   - Every pulse ends with the line released and the controller Idle, on
//     every exit path. Cleanup failures are logged but never replace the
//     original error.
//   - Once assertion begins, de-assertion and release always run to completion
//     on the same call path. No cancellation aborts a pulse mid-flight.
package relay
