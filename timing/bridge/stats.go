package bridge

import (
	"github.com/sarchlab/axi2apb/timing/backend"
	"github.com/sarchlab/axi2apb/timing/frontend"
)

// Statistics aggregates the per-component counters of one run.
type Statistics struct {
	FastCycles uint64
	SlowCycles uint64

	FrontEnd frontend.Statistics
	BackEnd  backend.Statistics
}

// Transactions returns the number of peripheral transactions completed,
// decode errors excluded.
func (s Statistics) Transactions() uint64 {
	return s.BackEnd.Writes + s.BackEnd.Reads
}

// Responses returns the number of response beats delivered upstream.
func (s Statistics) Responses() uint64 {
	return s.FrontEnd.BBeats + s.FrontEnd.RBeats
}

// SlowCyclesPerTransaction returns the mean slow-domain cycle cost of a
// completed transaction.
func (s Statistics) SlowCyclesPerTransaction() float64 {
	n := s.Transactions()
	if n == 0 {
		return 0
	}
	return float64(s.SlowCycles) / float64(n)
}
