// Package bridge composes the clock-crossing queues, the fast-domain
// front end, and the slow-domain back end into one component steppable
// from two independent clocks.
package bridge

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sarchlab/axi2apb/bus"
	"github.com/sarchlab/axi2apb/cdc"
	"github.com/sarchlab/axi2apb/timing/backend"
	"github.com/sarchlab/axi2apb/timing/frontend"
)

// Master is the fast-domain agent driving the AXI-Lite channels. Pins
// returns the wires committed for the current cycle; Tick lets the master
// observe the slave wires of the same cycle and commit its next pins.
type Master interface {
	Pins() bus.AXILiteMaster
	Tick(view bus.AXILiteSlave)
}

// Peripheral is a slow-domain APB target. Tick consumes the wires driven
// this cycle and returns the reply wires for the same cycle.
type Peripheral interface {
	Tick(req bus.APBRequest) bus.APBReply
}

// Bridge owns the two bus-side machines and the four clock-crossing
// queues between them. TickFast and TickSlow advance one domain each;
// the clock scheduler, or a test, interleaves them freely.
type Bridge struct {
	cfg Config

	writeCmdQ *cdc.CommandQueue
	readCmdQ  *cdc.CommandQueue
	writeRspQ *cdc.ResponseQueue
	readRspQ  *cdc.ResponseQueue

	frontEnd *frontend.FrontEnd
	backEnd  *backend.Backend

	master  Master
	targets []Peripheral

	fastCycles uint64
	slowCycles uint64

	trace zerolog.Logger
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithTraceLogger routes per-cycle state transitions to l at debug level.
func WithTraceLogger(l zerolog.Logger) Option {
	return func(b *Bridge) { b.trace = l }
}

// New builds a bridge from cfg, the master model, and one peripheral per
// target window.
func New(cfg Config, master Master, targets []Peripheral, opts ...Option) (*Bridge, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("bridge: %w", err)
	}
	if master == nil {
		return nil, fmt.Errorf("bridge: master must not be nil")
	}
	if len(targets) != cfg.NumTargets {
		return nil, fmt.Errorf("bridge: %d peripherals provided for %d target windows",
			len(targets), cfg.NumTargets)
	}

	writeCmdQ, err := cdc.NewCommandQueue(cfg.QueueDepth)
	if err != nil {
		return nil, fmt.Errorf("bridge: %w", err)
	}
	readCmdQ, err := cdc.NewCommandQueue(cfg.QueueDepth)
	if err != nil {
		return nil, fmt.Errorf("bridge: %w", err)
	}
	writeRspQ, err := cdc.NewResponseQueue(cfg.QueueDepth)
	if err != nil {
		return nil, fmt.Errorf("bridge: %w", err)
	}
	readRspQ, err := cdc.NewResponseQueue(cfg.QueueDepth)
	if err != nil {
		return nil, fmt.Errorf("bridge: %w", err)
	}

	b := &Bridge{
		cfg:       cfg,
		writeCmdQ: writeCmdQ,
		readCmdQ:  readCmdQ,
		writeRspQ: writeRspQ,
		readRspQ:  readRspQ,
		frontEnd: frontend.NewFrontEnd(
			writeCmdQ, readCmdQ, writeRspQ, readRspQ, cfg.AddrWidth, cfg.DataWidth),
		backEnd: backend.NewBackend(
			writeCmdQ, readCmdQ, writeRspQ, readRspQ, cfg.AddrWidth, cfg.NumTargets),
		master:  master,
		targets: append([]Peripheral(nil), targets...),
		trace:   zerolog.Nop(),
	}
	for _, o := range opts {
		o(b)
	}
	return b, nil
}

// Config returns the construction parameters.
func (b *Bridge) Config() Config {
	return b.cfg
}

// TickFast advances the fast clock domain by one cycle: the master acts
// on the current slave wires, the front end captures the current master
// wires, and the fast halves of the queues commit.
func (b *Bridge) TickFast() {
	view := b.frontEnd.SlaveView()
	pins := b.master.Pins()

	b.master.Tick(view)
	b.frontEnd.Tick(pins)

	b.writeCmdQ.TickWrite()
	b.readCmdQ.TickWrite()
	b.writeRspQ.TickRead()
	b.readRspQ.TickRead()

	b.fastCycles++
}

// TickSlow advances the slow clock domain by one cycle: every peripheral
// samples its select-qualified request wires, the back end acts on the
// selected reply, and the slow halves of the queues commit.
//
// A peripheral asserting ready outside an Access cycle of its own select
// line is a protocol violation and panics.
func (b *Bridge) TickSlow() {
	req, target := b.backEnd.PinView()

	var reply bus.APBReply
	for i, t := range b.targets {
		r := req
		r.Sel = req.Sel && i == target
		if !r.Sel {
			r.Enable = false
		}

		tr := t.Tick(r)
		if tr.Ready && !(r.Sel && r.Enable) {
			panic(fmt.Sprintf(
				"bridge: peripheral %d asserted ready without an active transfer", i))
		}
		if r.Sel {
			reply = tr
		}
	}

	before := b.backEnd.Phase()
	b.backEnd.Tick(reply)
	if after := b.backEnd.Phase(); after != before {
		b.trace.Debug().
			Uint64("cycle", b.slowCycles).
			Stringer("from", before).
			Stringer("to", after).
			Msg("backend phase")
	}

	b.writeCmdQ.TickRead()
	b.readCmdQ.TickRead()
	b.writeRspQ.TickWrite()
	b.readRspQ.TickWrite()

	b.slowCycles++
}

// Statistics returns the aggregated counters of the run so far.
func (b *Bridge) Statistics() Statistics {
	return Statistics{
		FastCycles: b.fastCycles,
		SlowCycles: b.slowCycles,
		FrontEnd:   b.frontEnd.Statistics(),
		BackEnd:    b.backEnd.Statistics(),
	}
}

// CommandOccupancy returns the entries currently held in the write and
// read command queues. It is a model-level view for instrumentation.
func (b *Bridge) CommandOccupancy() (writes, reads int) {
	return b.writeCmdQ.Len(), b.readCmdQ.Len()
}

// Reset restores the bridge to power-on state while keeping its
// configuration and wiring. Master and peripheral models keep their own
// state and are not touched.
func (b *Bridge) Reset() {
	b.writeCmdQ.Reset()
	b.readCmdQ.Reset()
	b.writeRspQ.Reset()
	b.readRspQ.Reset()
	b.frontEnd.Reset()
	b.backEnd.Reset()
	b.fastCycles = 0
	b.slowCycles = 0
}
