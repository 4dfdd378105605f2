package backend

import "github.com/sarchlab/axi2apb/bus"

// Decoder maps a command address onto one of the configured peripheral
// targets. The address space splits into equal power-of-two windows, one
// per target slot, indexed by the top address bits; the address presented
// downstream is the offset within the window.
type Decoder struct {
	numTargets int
	shift      uint
	offMask    uint64
}

// NewDecoder builds a decoder for an addrWidth-bit address space serving
// numTargets peripherals.
func NewDecoder(addrWidth, numTargets int) *Decoder {
	selBits := 0
	for 1<<uint(selBits) < numTargets {
		selBits++
	}

	shift := uint(addrWidth - selBits)
	return &Decoder{
		numTargets: numTargets,
		shift:      shift,
		offMask:    bus.WidthMask(int(shift)),
	}
}

// Decode returns the target slot and window-local offset for addr. ok is
// false when the window index lies beyond the configured target count,
// which happens only when the target count is not a power of two.
func (d *Decoder) Decode(addr uint64) (target int, offset uint64, ok bool) {
	t := int(addr >> d.shift)
	if t >= d.numTargets {
		return 0, 0, false
	}
	return t, addr & d.offMask, true
}
