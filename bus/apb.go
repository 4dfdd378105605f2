package bus

// APBRequest holds the bridge-driven APB wires presented to one peripheral
// for one slow-clock cycle. Field names follow the APB signals PSEL,
// PENABLE, PWRITE, PADDR, PWDATA, and PSTRB (APB4).
//
// A transfer runs Setup (Sel without Enable) for exactly one cycle, then
// Access (Sel with Enable) until the peripheral raises Ready.
type APBRequest struct {
	Sel    bool
	Enable bool
	Write  bool
	Addr   uint64
	WData  uint64
	Strb   uint8
}

// APBReply holds the peripheral-driven APB wires for one slow-clock cycle,
// matching PREADY, PRDATA, and PSLVERR. Ready may only be asserted during
// an Access cycle; the bridge rejects anything else as a protocol error.
type APBReply struct {
	Ready  bool
	RData  uint64
	SlvErr bool
}
