// Package traffic provides the fast-domain master model and the TOML
// workload files that script it.
package traffic

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Op kinds accepted in workload files.
const (
	KindWrite = "write"
	KindRead  = "read"
)

// Op is one scripted bus operation.
type Op struct {
	// Kind is "write" or "read".
	Kind string `toml:"kind"`

	// Addr is the target byte address.
	Addr uint64 `toml:"addr"`

	// Data is the write payload. Ignored for reads.
	Data uint64 `toml:"data"`

	// Strb selects the write byte lanes. Zero or omitted means all lanes.
	Strb uint8 `toml:"strb"`

	// Expect, when present on a read, is checked against the returned
	// data.
	Expect *uint64 `toml:"expect"`
}

// IsWrite reports whether the op is a write.
func (o Op) IsWrite() bool {
	return o.Kind == KindWrite
}

// Workload is an ordered list of bus operations.
type Workload struct {
	Name string `toml:"name"`
	Ops  []Op   `toml:"op"`
}

// WriteOp builds a full-width write.
func WriteOp(addr, data uint64) Op {
	return Op{Kind: KindWrite, Addr: addr, Data: data}
}

// ReadOp builds a read.
func ReadOp(addr uint64) Op {
	return Op{Kind: KindRead, Addr: addr}
}

// ReadExpectOp builds a read whose returned data is checked against want.
func ReadExpectOp(addr, want uint64) Op {
	return Op{Kind: KindRead, Addr: addr, Expect: &want}
}

// LoadWorkload reads a workload from a TOML file and validates it.
func LoadWorkload(path string) (*Workload, error) {
	var w Workload
	if _, err := toml.DecodeFile(path, &w); err != nil {
		return nil, fmt.Errorf("load workload: %w", err)
	}
	if err := w.Validate(); err != nil {
		return nil, fmt.Errorf("load workload %s: %w", path, err)
	}
	return &w, nil
}

// Validate checks every op for a known kind and consistent fields.
func (w *Workload) Validate() error {
	if len(w.Ops) == 0 {
		return fmt.Errorf("workload has no ops")
	}
	for i, op := range w.Ops {
		switch op.Kind {
		case KindWrite, KindRead:
		default:
			return fmt.Errorf("op %d: unknown kind %q", i, op.Kind)
		}
		if op.Kind == KindWrite && op.Expect != nil {
			return fmt.Errorf("op %d: expect is only valid on reads", i)
		}
	}
	return nil
}

// RoundTrip returns the default workload: one write followed by a
// verified read-back of the same address.
func RoundTrip() *Workload {
	return &Workload{
		Name: "round-trip",
		Ops: []Op{
			WriteOp(0x100, 0xAAAA0001),
			ReadExpectOp(0x100, 0xAAAA0001),
		},
	}
}
