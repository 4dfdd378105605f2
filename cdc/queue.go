package cdc

import (
	"fmt"
	"math/bits"

	"github.com/sarchlab/axi2apb/bus"
)

// qctrl is the pointer-exchange control plane shared by the typed queues.
// The write domain owns wbin/wgray/full plus the synchronizer of the read
// pointer; the read domain owns rbin/rgray/empty plus the synchronizer of
// the write pointer. Pointers carry log2(depth)+1 bits so that full and
// empty remain distinguishable when the indices coincide.
type qctrl struct {
	depth   uint32
	idxMask uint32 // depth-1, selects the storage slot
	ptrMask uint32 // 2*depth-1, wraps the extended pointer
	topMask uint32 // top two pointer bits, inverted in the full compare

	wbin  uint32
	wgray uint32
	full  bool
	rsync Sync // read pointer as seen from the write domain

	rbin  uint32
	rgray uint32
	empty bool
	wsync Sync // write pointer as seen from the read domain

	pushReq bool
	popReq  bool
}

func newQctrl(depth int) (qctrl, error) {
	if depth < 2 || depth&(depth-1) != 0 {
		return qctrl{}, fmt.Errorf(
			"cdc: depth must be a power of two no smaller than 2, got %d", depth)
	}

	d := uint32(depth)
	n := uint(bits.Len32(2*d - 1))

	return qctrl{
		depth:   d,
		idxMask: d - 1,
		ptrMask: 2*d - 1,
		topMask: 0b11 << (n - 2),
		empty:   true,
	}, nil
}

// tickWrite commits one write-domain cycle: applies the staged push when
// not full, recomputes the registered full flag against the pre-shift
// synchronizer output, then shifts the read-pointer synchronizer.
func (q *qctrl) tickWrite() bool {
	push := q.pushReq && !q.full
	q.pushReq = false

	next := q.wbin
	if push {
		next = (q.wbin + 1) & q.ptrMask
	}
	nextGray := GrayEncode(next)

	q.full = nextGray == (q.rsync.Output() ^ q.topMask)
	q.rsync.Sample(q.rgray)
	q.wbin = next
	q.wgray = nextGray

	return push
}

// tickRead is the read-domain mirror of tickWrite.
func (q *qctrl) tickRead() bool {
	pop := q.popReq && !q.empty
	q.popReq = false

	next := q.rbin
	if pop {
		next = (q.rbin + 1) & q.ptrMask
	}
	nextGray := GrayEncode(next)

	q.empty = nextGray == q.wsync.Output()
	q.wsync.Sample(q.wgray)
	q.rbin = next
	q.rgray = nextGray

	return pop
}

func (q *qctrl) len() int {
	return int((q.wbin - q.rbin) & q.ptrMask)
}

func (q *qctrl) reset() {
	q.wbin, q.wgray = 0, 0
	q.rbin, q.rgray = 0, 0
	q.full = false
	q.empty = true
	q.rsync.Reset()
	q.wsync.Reset()
	q.pushReq = false
	q.popReq = false
}

// CommandQueue is an asynchronous FIFO carrying captured commands from the
// fast domain to the slow domain. The fast side calls Push and TickWrite
// once per fast cycle; the slow side calls Peek, Pop, and TickRead once
// per slow cycle. The head payload is visible through Peek in the same
// cycle the empty flag is low (first-word fall-through).
type CommandQueue struct {
	ctl    qctrl
	slots  []bus.Command
	staged bus.Command
}

// NewCommandQueue returns a queue of the given depth. Depth must be a
// power of two no smaller than 2.
func NewCommandQueue(depth int) (*CommandQueue, error) {
	ctl, err := newQctrl(depth)
	if err != nil {
		return nil, fmt.Errorf("command queue: %w", err)
	}
	return &CommandQueue{ctl: ctl, slots: make([]bus.Command, depth)}, nil
}

// Push stages c for this write-domain cycle. The push takes effect at
// TickWrite, and only when the queue is not full.
func (q *CommandQueue) Push(c bus.Command) {
	q.ctl.pushReq = true
	q.staged = c
}

// Pop stages a head removal for this read-domain cycle. The removal takes
// effect at TickRead, and only when the queue is not empty.
func (q *CommandQueue) Pop() {
	q.ctl.popReq = true
}

// Peek returns the head entry. It is meaningful only while Empty reports
// false.
func (q *CommandQueue) Peek() bus.Command {
	return q.slots[q.ctl.rbin&q.ctl.idxMask]
}

// Full reports the registered write-domain full flag.
func (q *CommandQueue) Full() bool { return q.ctl.full }

// Empty reports the registered read-domain empty flag.
func (q *CommandQueue) Empty() bool { return q.ctl.empty }

// Depth returns the configured capacity.
func (q *CommandQueue) Depth() int { return int(q.ctl.depth) }

// Len returns the occupancy computed from both pointer registers at once.
// It is a model-level view for instrumentation; neither domain could
// observe it in hardware.
func (q *CommandQueue) Len() int { return q.ctl.len() }

// TickWrite commits the write-domain half of the cycle and reports whether
// the staged push was accepted.
func (q *CommandQueue) TickWrite() bool {
	slot := q.ctl.wbin & q.ctl.idxMask
	pushed := q.ctl.tickWrite()
	if pushed {
		q.slots[slot] = q.staged
	}
	return pushed
}

// TickRead commits the read-domain half of the cycle and reports whether
// the staged pop was accepted.
func (q *CommandQueue) TickRead() bool {
	return q.ctl.tickRead()
}

// Reset restores the power-on state: pointers at zero, empty asserted,
// full deasserted, synchronizers cleared.
func (q *CommandQueue) Reset() {
	q.ctl.reset()
}

// ResponseQueue is the bus.Response counterpart of CommandQueue, carrying
// completions from the slow domain back to the fast domain. The slow side
// is the write side here.
type ResponseQueue struct {
	ctl    qctrl
	slots  []bus.Response
	staged bus.Response
}

// NewResponseQueue returns a queue of the given depth. Depth must be a
// power of two no smaller than 2.
func NewResponseQueue(depth int) (*ResponseQueue, error) {
	ctl, err := newQctrl(depth)
	if err != nil {
		return nil, fmt.Errorf("response queue: %w", err)
	}
	return &ResponseQueue{ctl: ctl, slots: make([]bus.Response, depth)}, nil
}

// Push stages r for this write-domain cycle.
func (q *ResponseQueue) Push(r bus.Response) {
	q.ctl.pushReq = true
	q.staged = r
}

// Pop stages a head removal for this read-domain cycle.
func (q *ResponseQueue) Pop() {
	q.ctl.popReq = true
}

// Peek returns the head entry. It is meaningful only while Empty reports
// false.
func (q *ResponseQueue) Peek() bus.Response {
	return q.slots[q.ctl.rbin&q.ctl.idxMask]
}

// Full reports the registered write-domain full flag.
func (q *ResponseQueue) Full() bool { return q.ctl.full }

// Empty reports the registered read-domain empty flag.
func (q *ResponseQueue) Empty() bool { return q.ctl.empty }

// Depth returns the configured capacity.
func (q *ResponseQueue) Depth() int { return int(q.ctl.depth) }

// Len returns the occupancy computed from both pointer registers at once.
func (q *ResponseQueue) Len() int { return q.ctl.len() }

// TickWrite commits the write-domain half of the cycle and reports whether
// the staged push was accepted.
func (q *ResponseQueue) TickWrite() bool {
	slot := q.ctl.wbin & q.ctl.idxMask
	pushed := q.ctl.tickWrite()
	if pushed {
		q.slots[slot] = q.staged
	}
	return pushed
}

// TickRead commits the read-domain half of the cycle and reports whether
// the staged pop was accepted.
func (q *ResponseQueue) TickRead() bool {
	return q.ctl.tickRead()
}

// Reset restores the power-on state.
func (q *ResponseQueue) Reset() {
	q.ctl.reset()
}
