package cdc

// Sync is a two-stage flip-flop synchronizer. The destination domain calls
// Sample exactly once per cycle with the source-domain value; Output then
// returns the value as sampled two cycles earlier. There is no
// combinational path from input to output.
type Sync struct {
	stages [2]uint32
}

// Sample shifts v into the synchronizer at a destination-domain cycle
// boundary.
func (s *Sync) Sample(v uint32) {
	s.stages[1] = s.stages[0]
	s.stages[0] = v
}

// Output returns the synchronized value.
func (s *Sync) Output() uint32 {
	return s.stages[1]
}

// Reset forces both stages to zero.
func (s *Sync) Reset() {
	s.stages[0] = 0
	s.stages[1] = 0
}
