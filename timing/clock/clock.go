// Package clock drives the bridge's two tick domains on a discrete-event
// engine. Each domain is a periodic self-rescheduling event stream; both
// streams share one serial engine, so runs are deterministic even when
// fast and slow edges land on the same timestamp.
package clock

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"
)

// tickEvent marks one cycle boundary of a Domain.
type tickEvent struct {
	*sim.EventBase
	domain *Domain
}

func newTickEvent(t sim.VTimeInSec, d *Domain) *tickEvent {
	return &tickEvent{sim.NewEventBase(t, d), d}
}

// Domain is a periodic clock that invokes a callback once per cycle until
// the scheduler's run horizon.
type Domain struct {
	name    string
	freq    sim.Freq
	engine  sim.Engine
	tick    func()
	horizon sim.VTimeInSec
	cycles  uint64
}

// Name returns the domain name.
func (d *Domain) Name() string { return d.name }

// Freq returns the domain frequency.
func (d *Domain) Freq() sim.Freq { return d.freq }

// Cycles returns the number of completed ticks.
func (d *Domain) Cycles() uint64 { return d.cycles }

// Handle runs one cycle and schedules the next edge if it still falls
// within the horizon.
func (d *Domain) Handle(e sim.Event) error {
	d.tick()
	d.cycles++

	next := d.freq.NextTick(e.Time())
	if next <= d.horizon {
		d.engine.Schedule(newTickEvent(next, d))
	}
	return nil
}

// Scheduler owns the event engine and the clock domains driven on it.
type Scheduler struct {
	engine  sim.Engine
	domains []*Domain
}

// NewScheduler returns a Scheduler backed by a serial event engine.
func NewScheduler() *Scheduler {
	return &Scheduler{engine: sim.NewSerialEngine()}
}

// AddDomain registers a clock domain with its frequency and per-cycle
// callback. Domains must be added before the first Run.
func (s *Scheduler) AddDomain(name string, freq sim.Freq, tick func()) (*Domain, error) {
	if freq <= 0 {
		return nil, fmt.Errorf("clock: domain %s: frequency must be > 0", name)
	}
	if tick == nil {
		return nil, fmt.Errorf("clock: domain %s: tick callback must not be nil", name)
	}

	d := &Domain{name: name, freq: freq, engine: s.engine, tick: tick}
	s.domains = append(s.domains, d)
	return d, nil
}

// Run ticks every domain from the current virtual time up to and
// including the horizon, then drains the engine. It may be called again
// with a later horizon to continue the same run.
func (s *Scheduler) Run(until sim.VTimeInSec) error {
	now := s.engine.CurrentTime()
	if until <= now {
		return fmt.Errorf("clock: horizon %.9fs is not after current time %.9fs",
			float64(until), float64(now))
	}

	for _, d := range s.domains {
		d.horizon = until
		first := d.freq.NextTick(now)
		if first <= until {
			s.engine.Schedule(newTickEvent(first, d))
		}
	}

	if err := s.engine.Run(); err != nil {
		return fmt.Errorf("clock: engine run: %w", err)
	}
	return nil
}

// Now returns the engine's current virtual time.
func (s *Scheduler) Now() sim.VTimeInSec {
	return s.engine.CurrentTime()
}
