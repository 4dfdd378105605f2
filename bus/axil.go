package bus

// AXILiteMaster holds the master-driven wires of the five AXI-Lite
// channels, sampled by the front end once per fast-clock cycle.
type AXILiteMaster struct {
	// Write address channel (AW)
	AWValid bool
	AWAddr  uint64

	// Write data channel (W)
	WValid bool
	WData  uint64
	WStrb  uint8

	// Read address channel (AR)
	ARValid bool
	ARAddr  uint64

	// Response readiness
	BReady bool // write response channel (B)
	RReady bool // read data channel (R)
}

// AXILiteSlave holds the slave-driven wires of the five AXI-Lite channels.
// The front end recomputes them every fast-clock cycle; the master samples
// the committed values of the previous cycle.
type AXILiteSlave struct {
	AWReady bool
	WReady  bool
	ARReady bool

	BValid bool
	BResp  Resp

	RValid bool
	RData  uint64
	RResp  Resp
}
