package backend

// Grant identifies the arbiter's decision for one slow-clock cycle.
type Grant uint8

// Arbitration outcomes.
const (
	GrantNone Grant = iota
	GrantWrite
	GrantRead
)

// String returns the grant name.
func (g Grant) String() string {
	switch g {
	case GrantNone:
		return "none"
	case GrantWrite:
		return "write"
	case GrantRead:
		return "read"
	}
	return "unknown"
}

// Arbiter picks which command queue the back end serves next. Priority is
// fixed: a visible write always wins, and reads run only when no write is
// waiting. The decision carries no history, so a steady write stream
// starves reads.
type Arbiter struct{}

// NewArbiter creates a new Arbiter.
func NewArbiter() *Arbiter {
	return &Arbiter{}
}

// Arbitrate picks a source given which commands are visible this cycle.
func (a *Arbiter) Arbitrate(writeAvail, readAvail bool) Grant {
	switch {
	case writeAvail:
		return GrantWrite
	case readAvail:
		return GrantRead
	default:
		return GrantNone
	}
}
