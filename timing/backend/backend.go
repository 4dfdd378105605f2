// Package backend implements the slow-domain half of the bridge: the
// arbiter that picks the next captured command, the APB engine that
// replays it on the peripheral bus, and the holding registers that carry
// completions back toward the clock-crossing response queues.
package backend

import (
	"github.com/sarchlab/axi2apb/bus"
	"github.com/sarchlab/axi2apb/cdc"
)

// Phase is the back-end bus state for one slow-clock cycle.
type Phase uint8

// Back-end phases. Setup and Access drive the peripheral bus; Idle and
// RspWait leave it idle.
const (
	PhaseIdle Phase = iota
	PhaseSetup
	PhaseAccess
	PhaseRspWait
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSetup:
		return "setup"
	case PhaseAccess:
		return "access"
	case PhaseRspWait:
		return "rsp-wait"
	}
	return "unknown"
}

// latchedRequest is the single-slot register holding the command being
// replayed on the peripheral bus.
type latchedRequest struct {
	valid  bool
	cmd    bus.Command
	target int
	offset uint64
}

// heldResponse is a response holding register. The out register stages
// completions toward the response queues; the pending register preserves
// a completion that arrived while its queue was full.
type heldResponse struct {
	valid   bool
	isWrite bool
	data    uint64
	err     bool
}

// Statistics holds back-end activity counters.
type Statistics struct {
	Writes       uint64
	Reads        uint64
	SlaveErrors  uint64
	DecodeErrors uint64

	// Access cycles spent waiting for peripheral ready.
	WaitCycles uint64

	// Completions parked because the response queue was full, and the
	// cycles spent parked.
	RspWaitEntries uint64
	RspWaitCycles  uint64

	Cycles uint64
}

// Backend replays captured commands on the peripheral bus, one at a time.
// A new command is accepted only when both response holding registers are
// empty, so a completion can never be lost to a second transaction.
type Backend struct {
	writeCmdQ *cdc.CommandQueue
	readCmdQ  *cdc.CommandQueue
	writeRspQ *cdc.ResponseQueue
	readRspQ  *cdc.ResponseQueue

	arbiter *Arbiter
	decoder *Decoder

	phase   Phase
	req     latchedRequest
	pending heldResponse
	out     heldResponse

	stats Statistics
}

// NewBackend wires the back end to the four clock-crossing queues and
// builds its address decoder.
func NewBackend(
	writeCmdQ, readCmdQ *cdc.CommandQueue,
	writeRspQ, readRspQ *cdc.ResponseQueue,
	addrWidth, numTargets int,
) *Backend {
	return &Backend{
		writeCmdQ: writeCmdQ,
		readCmdQ:  readCmdQ,
		writeRspQ: writeRspQ,
		readRspQ:  readRspQ,
		arbiter:   NewArbiter(),
		decoder:   NewDecoder(addrWidth, numTargets),
		phase:     PhaseIdle,
	}
}

// Phase returns the committed phase.
func (b *Backend) Phase() Phase {
	return b.phase
}

// PinView returns the APB wires and target slot driven this cycle as a
// function of the committed machine state. Outside Setup and Access the
// request is fully deasserted.
func (b *Backend) PinView() (bus.APBRequest, int) {
	switch b.phase {
	case PhaseSetup, PhaseAccess:
		return bus.APBRequest{
			Sel:    true,
			Enable: b.phase == PhaseAccess,
			Write:  b.req.cmd.Write,
			Addr:   b.req.offset,
			WData:  b.req.cmd.Data,
			Strb:   b.req.cmd.Strb,
		}, b.req.target
	default:
		return bus.APBRequest{}, 0
	}
}

// Tick runs one slow-clock cycle. reply carries the peripheral wires
// observed this cycle. Within a cycle the peripherals sample PinView
// first, then Tick runs, then the slow halves of the four queues commit.
func (b *Backend) Tick(reply bus.APBReply) {
	b.stats.Cycles++

	// The out register loaded in an earlier cycle drains first; whether it
	// was occupied this cycle is remembered so a new command is not
	// accepted through the same slot in the same cycle.
	outWasValid := b.out.valid
	b.flushOutput()

	switch b.phase {
	case PhaseIdle:
		b.tickIdle(outWasValid)
	case PhaseSetup:
		b.phase = PhaseAccess
	case PhaseAccess:
		b.tickAccess(reply)
	case PhaseRspWait:
		b.tickRspWait()
	}
}

// flushOutput pushes the out register into its response queue when the
// queue has room.
func (b *Backend) flushOutput() {
	if !b.out.valid {
		return
	}

	q := b.rspQueue(b.out.isWrite)
	if q.Full() {
		return
	}

	q.Push(bus.Response{IsWrite: b.out.isWrite, Data: b.out.data, Err: b.out.err})
	b.out = heldResponse{}
}

func (b *Backend) tickIdle(outWasValid bool) {
	if outWasValid || b.pending.valid {
		return
	}

	grant := b.arbiter.Arbitrate(!b.writeCmdQ.Empty(), !b.readCmdQ.Empty())
	if grant == GrantNone {
		return
	}

	var cmd bus.Command
	if grant == GrantWrite {
		cmd = b.writeCmdQ.Peek()
		b.writeCmdQ.Pop()
	} else {
		cmd = b.readCmdQ.Peek()
		b.readCmdQ.Pop()
	}

	target, offset, ok := b.decoder.Decode(cmd.Addr)
	if !ok {
		// No window claims the address. Answer upstream through the
		// normal response path without ever driving the peripheral bus.
		b.out = heldResponse{valid: true, isWrite: cmd.Write, err: true}
		b.stats.DecodeErrors++
		return
	}

	b.req = latchedRequest{valid: true, cmd: cmd, target: target, offset: offset}
	b.phase = PhaseSetup
}

func (b *Backend) tickAccess(reply bus.APBReply) {
	if !reply.Ready {
		b.stats.WaitCycles++
		return
	}

	rsp := heldResponse{valid: true, isWrite: b.req.cmd.Write, err: reply.SlvErr}
	if b.req.cmd.Write {
		b.stats.Writes++
	} else {
		rsp.data = reply.RData
		b.stats.Reads++
	}
	if reply.SlvErr {
		b.stats.SlaveErrors++
	}

	// Ready ends the transfer either way; the result parks in the pending
	// register when its queue has no room, and the bus is released.
	if b.rspQueue(rsp.isWrite).Full() {
		b.pending = rsp
		b.phase = PhaseRspWait
		b.stats.RspWaitEntries++
	} else {
		b.out = rsp
		b.phase = PhaseIdle
	}
	b.req = latchedRequest{}
}

func (b *Backend) tickRspWait() {
	if b.rspQueue(b.pending.isWrite).Full() {
		b.stats.RspWaitCycles++
		return
	}

	b.out = b.pending
	b.pending = heldResponse{}
	b.phase = PhaseIdle
}

func (b *Backend) rspQueue(isWrite bool) *cdc.ResponseQueue {
	if isWrite {
		return b.writeRspQ
	}
	return b.readRspQ
}

// Statistics returns a copy of the activity counters.
func (b *Backend) Statistics() Statistics {
	return b.stats
}

// Reset restores the power-on state: Idle phase, all holding registers
// empty, counters cleared.
func (b *Backend) Reset() {
	b.phase = PhaseIdle
	b.req = latchedRequest{}
	b.pending = heldResponse{}
	b.out = heldResponse{}
	b.stats = Statistics{}
}
