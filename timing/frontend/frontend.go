// Package frontend implements the fast-domain half of the bridge: the
// AXI-Lite slave surface that captures channel beats into single-entry
// registers, feeds the clock-crossing command queues, and presents queued
// responses back to the master.
package frontend

import (
	"github.com/sarchlab/axi2apb/bus"
	"github.com/sarchlab/axi2apb/cdc"
)

// Statistics holds front-end activity counters.
type Statistics struct {
	AWBeats uint64
	WBeats  uint64
	ARBeats uint64
	BBeats  uint64
	RBeats  uint64

	// Commands entered into the clock-crossing queues.
	WriteCommands uint64
	ReadCommands  uint64

	// Cycles a complete captured command sat blocked on a full queue.
	WriteStallCycles uint64
	ReadStallCycles  uint64
}

// FrontEnd is the fast-domain capture machine. A write command forms when
// both the AW and W registers hold a beat; a read command forms from the
// AR register alone. Formed commands move into the command queues when
// space allows, and queue backpressure surfaces upstream as deasserted
// channel ready.
type FrontEnd struct {
	writeCmdQ *cdc.CommandQueue
	readCmdQ  *cdc.CommandQueue
	writeRspQ *cdc.ResponseQueue
	readRspQ  *cdc.ResponseQueue

	aw AWRegister
	w  WRegister
	ar ARRegister

	addrMask uint64
	dataMask uint64
	strbMask uint8

	stats Statistics
}

// NewFrontEnd wires the front end to the four clock-crossing queues.
// Addresses are trimmed to addrWidth bits, data and strobes to dataWidth.
func NewFrontEnd(
	writeCmdQ, readCmdQ *cdc.CommandQueue,
	writeRspQ, readRspQ *cdc.ResponseQueue,
	addrWidth, dataWidth int,
) *FrontEnd {
	return &FrontEnd{
		writeCmdQ: writeCmdQ,
		readCmdQ:  readCmdQ,
		writeRspQ: writeRspQ,
		readRspQ:  readRspQ,
		addrMask:  bus.WidthMask(addrWidth),
		dataMask:  bus.WidthMask(dataWidth),
		strbMask:  uint8((1 << (uint(dataWidth) / 8)) - 1),
	}
}

// SlaveView returns the slave-driven wires for the current cycle as a
// function of the committed machine state. Channel ready is the inverse of
// the matching capture register's valid bit; response valid mirrors the
// response queue's registered empty flag, so it is never asserted
// speculatively.
func (f *FrontEnd) SlaveView() bus.AXILiteSlave {
	v := bus.AXILiteSlave{
		AWReady: !f.aw.Valid,
		WReady:  !f.w.Valid,
		ARReady: !f.ar.Valid,
	}

	if !f.writeRspQ.Empty() {
		v.BValid = true
		v.BResp = f.writeRspQ.Peek().Resp()
	}
	if !f.readRspQ.Empty() {
		r := f.readRspQ.Peek()
		v.RValid = true
		v.RData = r.Data
		v.RResp = r.Resp()
	}
	return v
}

// Tick runs one fast-clock cycle against the committed master pins.
// Within a cycle the master samples SlaveView first, then Tick runs, then
// the fast halves of the four queues commit.
func (f *FrontEnd) Tick(m bus.AXILiteMaster) {
	view := f.SlaveView()

	// Response handshakes pop the queue heads.
	if view.BValid && m.BReady {
		f.writeRspQ.Pop()
		f.stats.BBeats++
	}
	if view.RValid && m.RReady {
		f.readRspQ.Pop()
		f.stats.RBeats++
	}

	// Formed commands drain into the queues before new beats land, so a
	// register freed here can capture again next cycle at the earliest.
	if f.aw.Valid && f.w.Valid {
		if f.writeCmdQ.Full() {
			f.stats.WriteStallCycles++
		} else {
			f.writeCmdQ.Push(bus.Command{
				Write: true,
				Addr:  f.aw.Addr,
				Data:  f.w.Data,
				Strb:  f.w.Strb,
			})
			f.stats.WriteCommands++
			f.aw.Clear()
			f.w.Clear()
		}
	}
	if f.ar.Valid {
		if f.readCmdQ.Full() {
			f.stats.ReadStallCycles++
		} else {
			f.readCmdQ.Push(bus.Command{Addr: f.ar.Addr})
			f.stats.ReadCommands++
			f.ar.Clear()
		}
	}

	// Captures only land in registers whose ready was up this cycle.
	if m.AWValid && view.AWReady {
		f.aw = AWRegister{Valid: true, Addr: m.AWAddr & f.addrMask}
		f.stats.AWBeats++
	}
	if m.WValid && view.WReady {
		f.w = WRegister{Valid: true, Data: m.WData & f.dataMask, Strb: m.WStrb & f.strbMask}
		f.stats.WBeats++
	}
	if m.ARValid && view.ARReady {
		f.ar = ARRegister{Valid: true, Addr: m.ARAddr & f.addrMask}
		f.stats.ARBeats++
	}
}

// Statistics returns a copy of the activity counters.
func (f *FrontEnd) Statistics() Statistics {
	return f.stats
}

// Reset clears the capture registers and counters.
func (f *FrontEnd) Reset() {
	f.aw.Clear()
	f.w.Clear()
	f.ar.Clear()
	f.stats = Statistics{}
}
