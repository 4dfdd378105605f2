// Package periph provides APB target models for exercising the bridge:
// a storage-backed register file with configurable wait states and an
// externally released stall wrapper.
package periph

import (
	"encoding/binary"
	"fmt"

	"github.com/sarchlab/akita/v4/mem/mem"

	"github.com/sarchlab/axi2apb/bus"
)

// Target is a slow-domain APB peripheral.
type Target interface {
	Tick(req bus.APBRequest) bus.APBReply
}

// Statistics holds register-file access counters.
type Statistics struct {
	Reads  uint64
	Writes uint64
	Errors uint64
}

// RegisterFile is a memory-backed APB completer. Every access transfers
// dataWidth/8 bytes, little-endian; write strobes mask byte lanes through
// a read-modify-write of the backing storage. Accesses beyond the storage
// size, or inside the configured fault window, complete with an error.
type RegisterFile struct {
	storage    *mem.Storage
	size       uint64
	dataBytes  int
	waitStates int

	faultLo  uint64
	faultHi  uint64
	hasFault bool

	waited int

	stats Statistics
}

// RegisterFileOption configures a RegisterFile.
type RegisterFileOption func(*RegisterFile)

// WithWaitStates inserts n not-ready Access cycles before each transfer
// completes.
func WithWaitStates(n int) RegisterFileOption {
	return func(p *RegisterFile) { p.waitStates = n }
}

// WithFaultWindow makes accesses with offsets in [lo, hi) complete with a
// slave error instead of touching storage.
func WithFaultWindow(lo, hi uint64) RegisterFileOption {
	return func(p *RegisterFile) {
		p.faultLo = lo
		p.faultHi = hi
		p.hasFault = true
	}
}

// NewRegisterFile builds a register file with size bytes of backing
// storage and dataWidth-bit accesses.
func NewRegisterFile(size uint64, dataWidth int, opts ...RegisterFileOption) (*RegisterFile, error) {
	switch dataWidth {
	case 8, 16, 32, 64:
	default:
		return nil, fmt.Errorf("register file: data width must be 8, 16, 32, or 64, got %d",
			dataWidth)
	}
	if size == 0 {
		return nil, fmt.Errorf("register file: size must be > 0")
	}

	p := &RegisterFile{
		storage:   mem.NewStorage(size),
		size:      size,
		dataBytes: dataWidth / 8,
	}
	for _, o := range opts {
		o(p)
	}
	if p.waitStates < 0 {
		return nil, fmt.Errorf("register file: wait states must be >= 0, got %d", p.waitStates)
	}
	return p, nil
}

// Tick runs one slow-clock cycle. Ready rises only during an Access cycle,
// after the configured wait states have elapsed.
func (p *RegisterFile) Tick(req bus.APBRequest) bus.APBReply {
	if !req.Sel || !req.Enable {
		p.waited = 0
		return bus.APBReply{}
	}

	if p.waited < p.waitStates {
		p.waited++
		return bus.APBReply{}
	}
	p.waited = 0

	n := uint64(p.dataBytes)
	if p.hasFault && req.Addr >= p.faultLo && req.Addr < p.faultHi {
		p.stats.Errors++
		return bus.APBReply{Ready: true, SlvErr: true}
	}
	if n > p.size || req.Addr > p.size-n {
		p.stats.Errors++
		return bus.APBReply{Ready: true, SlvErr: true}
	}

	if req.Write {
		if err := p.write(req.Addr, req.WData, req.Strb); err != nil {
			p.stats.Errors++
			return bus.APBReply{Ready: true, SlvErr: true}
		}
		p.stats.Writes++
		return bus.APBReply{Ready: true}
	}

	data, err := p.read(req.Addr)
	if err != nil {
		p.stats.Errors++
		return bus.APBReply{Ready: true, SlvErr: true}
	}
	p.stats.Reads++
	return bus.APBReply{Ready: true, RData: data}
}

func (p *RegisterFile) read(addr uint64) (uint64, error) {
	raw, err := p.storage.Read(addr, uint64(p.dataBytes))
	if err != nil {
		return 0, err
	}

	var buf [8]byte
	copy(buf[:], raw)
	return binary.LittleEndian.Uint64(buf[:]), nil
}

func (p *RegisterFile) write(addr, data uint64, strb uint8) error {
	cur, err := p.storage.Read(addr, uint64(p.dataBytes))
	if err != nil {
		return err
	}

	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], data)
	for i := 0; i < p.dataBytes; i++ {
		if strb&(1<<uint(i)) != 0 {
			cur[i] = buf[i]
		}
	}
	return p.storage.Write(addr, cur)
}

// Statistics returns a copy of the access counters.
func (p *RegisterFile) Statistics() Statistics {
	return p.stats
}
