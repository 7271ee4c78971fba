package relay

import (
	"sync"
	"time"
)

// Op names recorded by FakeLine.
const (
	OpConfigure = "configure"
	OpAssert    = "assert"
	OpDeassert  = "deassert"
	OpRelease   = "release"
)

// Op is one recorded hardware operation.
type Op struct {
	Name string
	Pin  int // pin for configure ops, the configured pin otherwise
	At   time.Time
}

// FakeLine is an in-memory PhysicalLine.
//
// It serves two purposes: it is the test double for the Controller and API
// tests (recording every operation with a timestamp and supporting injected
// failures), and it backs the "simulated" relay driver so the service runs on
// development hosts without a GPIO chip.
//
// Unlike real implementations, FakeLine is safe for concurrent use, so tests
// inspect it from other goroutines while a pulse is in flight.
type FakeLine struct {
	mu  sync.Mutex
	ops []Op

	configured bool
	asserted   bool
	pin        int

	// Injected failures, returned by the corresponding operation.
	FailConfigure error
	FailAssert    error
	FailDeassert  error
	FailRelease   error
}

// NewFakeLine creates an idle FakeLine.
func NewFakeLine() *FakeLine {
	return &FakeLine{}
}

// Configure implements PhysicalLine.
func (f *FakeLine) Configure(pin int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.record(OpConfigure, pin)
	if f.FailConfigure != nil {
		return f.FailConfigure
	}
	f.configured = true
	f.pin = pin
	return nil
}

// AssertActive implements PhysicalLine.
func (f *FakeLine) AssertActive() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.record(OpAssert, f.pin)
	if f.FailAssert != nil {
		return f.FailAssert
	}
	f.asserted = true
	return nil
}

// DeassertActive implements PhysicalLine.
func (f *FakeLine) DeassertActive() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.record(OpDeassert, f.pin)
	if f.FailDeassert != nil {
		return f.FailDeassert
	}
	f.asserted = false
	return nil
}

// Release implements PhysicalLine.
func (f *FakeLine) Release() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.record(OpRelease, f.pin)
	if f.FailRelease != nil {
		return f.FailRelease
	}
	f.configured = false
	f.asserted = false
	return nil
}

// record appends an op. Caller must hold f.mu.
func (f *FakeLine) record(name string, pin int) {
	f.ops = append(f.ops, Op{Name: name, Pin: pin, At: time.Now()})
}

// Ops returns a snapshot of all recorded operations in order.
func (f *FakeLine) Ops() []Op {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]Op, len(f.ops))
	copy(out, f.ops)
	return out
}

// Count returns how many operations with the given name were recorded.
func (f *FakeLine) Count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, op := range f.ops {
		if op.Name == name {
			n++
		}
	}
	return n
}

// TotalOps returns the total number of recorded hardware operations.
func (f *FakeLine) TotalOps() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.ops)
}

// IsIdle reports whether the line is unconfigured and de-asserted, the safe
// resting state every request must end in.
func (f *FakeLine) IsIdle() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.configured && !f.asserted
}
