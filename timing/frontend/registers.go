package frontend

// AWRegister holds one captured write-address beat. The AW channel's ready
// output is the inverse of Valid, so at most one beat is pending at a time.
type AWRegister struct {
	Valid bool
	Addr  uint64
}

// Clear resets the register to an empty state.
func (r *AWRegister) Clear() {
	*r = AWRegister{}
}

// WRegister holds one captured write-data beat.
type WRegister struct {
	Valid bool
	Data  uint64
	Strb  uint8
}

// Clear resets the register to an empty state.
func (r *WRegister) Clear() {
	*r = WRegister{}
}

// ARRegister holds one captured read-address beat.
type ARRegister struct {
	Valid bool
	Addr  uint64
}

// Clear resets the register to an empty state.
func (r *ARRegister) Clear() {
	*r = ARRegister{}
}
