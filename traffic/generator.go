package traffic

import (
	"github.com/sarchlab/axi2apb/bus"
)

// Result is the recorded outcome of one op.
type Result struct {
	Done     bool
	Resp     bus.Resp
	Data     uint64
	Mismatch bool
}

// Statistics holds generator progress counters.
type Statistics struct {
	IssuedWrites uint64
	IssuedReads  uint64
	WritesDone   uint64
	ReadsDone    uint64

	Errors     uint64 // non-OKAY responses
	Mismatches uint64 // verified reads returning unexpected data
}

// Generator drives the five AXI-Lite channels from a workload. Ops issue
// in program order; the next op is placed as soon as its channels free
// up, without waiting for earlier responses. Response channels are ready
// by default and can be throttled for backpressure scenarios.
type Generator struct {
	ops     []Op
	results []Result

	pins bus.AXILiteMaster

	next int // next op to place on the channels
	curW int // op index occupying AW/W, -1 when free
	curR int // op index occupying AR, -1 when free

	awDone bool
	wDone  bool

	pendingB []int // write ops awaiting a B beat, oldest first
	pendingR []int // read ops awaiting an R beat, oldest first

	fullStrb uint8

	stats Statistics
}

// NewGenerator builds a generator for the workload. dataWidth fixes the
// strobe substituted for ops that leave it unset.
func NewGenerator(w *Workload, dataWidth int) *Generator {
	g := &Generator{
		ops:      append([]Op(nil), w.Ops...),
		results:  make([]Result, len(w.Ops)),
		curW:     -1,
		curR:     -1,
		fullStrb: uint8((1 << (uint(dataWidth) / 8)) - 1),
	}
	g.pins.BReady = true
	g.pins.RReady = true
	return g
}

// Pins returns the committed master wires for the current cycle.
func (g *Generator) Pins() bus.AXILiteMaster {
	return g.pins
}

// SetBReady throttles or restores write-response readiness from the next
// cycle on.
func (g *Generator) SetBReady(v bool) {
	g.pins.BReady = v
}

// SetRReady throttles or restores read-data readiness from the next
// cycle on.
func (g *Generator) SetRReady(v bool) {
	g.pins.RReady = v
}

// Tick observes the slave wires of the current cycle and commits the next
// master wires.
func (g *Generator) Tick(view bus.AXILiteSlave) {
	if g.pins.AWValid && view.AWReady {
		g.pins.AWValid = false
		g.awDone = true
	}
	if g.pins.WValid && view.WReady {
		g.pins.WValid = false
		g.wDone = true
	}
	if g.curW >= 0 && g.awDone && g.wDone {
		g.pendingB = append(g.pendingB, g.curW)
		g.curW = -1
	}
	if g.pins.ARValid && view.ARReady {
		g.pendingR = append(g.pendingR, g.curR)
		g.pins.ARValid = false
		g.curR = -1
	}

	if view.BValid && g.pins.BReady && len(g.pendingB) > 0 {
		idx := g.pendingB[0]
		g.pendingB = g.pendingB[1:]
		g.finishWrite(idx, view.BResp)
	}
	if view.RValid && g.pins.RReady && len(g.pendingR) > 0 {
		idx := g.pendingR[0]
		g.pendingR = g.pendingR[1:]
		g.finishRead(idx, view.RData, view.RResp)
	}

	g.issue()
}

// issue places further ops onto free channels, stopping at the first op
// whose channels are still occupied so program order is preserved.
func (g *Generator) issue() {
	for g.next < len(g.ops) {
		op := g.ops[g.next]
		if op.IsWrite() {
			if g.curW >= 0 || g.pins.AWValid || g.pins.WValid {
				return
			}
			strb := op.Strb
			if strb == 0 {
				strb = g.fullStrb
			}
			g.pins.AWValid = true
			g.pins.AWAddr = op.Addr
			g.pins.WValid = true
			g.pins.WData = op.Data
			g.pins.WStrb = strb
			g.curW = g.next
			g.awDone = false
			g.wDone = false
			g.stats.IssuedWrites++
		} else {
			if g.curR >= 0 || g.pins.ARValid {
				return
			}
			g.pins.ARValid = true
			g.pins.ARAddr = op.Addr
			g.curR = g.next
			g.stats.IssuedReads++
		}
		g.next++
	}
}

func (g *Generator) finishWrite(idx int, resp bus.Resp) {
	g.results[idx] = Result{Done: true, Resp: resp}
	g.stats.WritesDone++
	if resp != bus.RespOKAY {
		g.stats.Errors++
	}
}

func (g *Generator) finishRead(idx int, data uint64, resp bus.Resp) {
	r := Result{Done: true, Resp: resp, Data: data}
	if resp != bus.RespOKAY {
		g.stats.Errors++
	}
	if want := g.ops[idx].Expect; want != nil && (resp != bus.RespOKAY || data != *want) {
		r.Mismatch = true
		g.stats.Mismatches++
	}
	g.results[idx] = r
	g.stats.ReadsDone++
}

// Done reports whether every op has received its response.
func (g *Generator) Done() bool {
	return g.stats.WritesDone+g.stats.ReadsDone == uint64(len(g.ops))
}

// Results returns a copy of the per-op outcomes recorded so far.
func (g *Generator) Results() []Result {
	return append([]Result(nil), g.results...)
}

// Statistics returns a copy of the progress counters.
func (g *Generator) Statistics() Statistics {
	return g.stats
}
