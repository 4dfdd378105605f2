package periph

import "github.com/sarchlab/axi2apb/bus"

// StallTarget wraps another target and withholds every reply until it is
// released, holding the bridge in its Access phase indefinitely. The
// wrapped target does not observe the bus while the stall is in force.
type StallTarget struct {
	inner    Target
	released bool
}

// NewStallTarget wraps inner in a stalled state.
func NewStallTarget(inner Target) *StallTarget {
	return &StallTarget{inner: inner}
}

// Release lets replies through from the next cycle on.
func (t *StallTarget) Release() {
	t.released = true
}

// Stall withholds replies again.
func (t *StallTarget) Stall() {
	t.released = false
}

// Released reports whether replies currently pass through.
func (t *StallTarget) Released() bool {
	return t.released
}

// Tick forwards to the wrapped target once released; until then it
// returns idle wires regardless of the request.
func (t *StallTarget) Tick(req bus.APBRequest) bus.APBReply {
	if !t.released {
		return bus.APBReply{}
	}
	return t.inner.Tick(req)
}
