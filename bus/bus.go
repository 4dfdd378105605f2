// Package bus defines the transaction and pin-level data model shared by
// the fast (AXI-Lite) and slow (APB) sides of the bridge.
package bus

import "fmt"

// WidthMask returns the value mask for a bus width of the given number of
// bits, saturating at 64.
func WidthMask(bits int) uint64 {
	if bits >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(bits)) - 1
}

// Resp represents an AXI response code.
type Resp uint8

// AXI response codes. The bridge maps peripheral errors to RespSLVERR and
// everything else to RespOKAY; the exclusive and decode codes are listed
// for completeness of the encoding space.
const (
	RespOKAY   Resp = 0b00 // Normal access success
	RespEXOKAY Resp = 0b01 // Exclusive access success (unused by the bridge)
	RespSLVERR Resp = 0b10 // Slave error
	RespDECERR Resp = 0b11 // Decode error (unused; decode faults map to SLVERR)
)

// String returns the AXI mnemonic for the response code.
func (r Resp) String() string {
	switch r {
	case RespOKAY:
		return "OKAY"
	case RespEXOKAY:
		return "EXOKAY"
	case RespSLVERR:
		return "SLVERR"
	case RespDECERR:
		return "DECERR"
	}
	return fmt.Sprintf("Resp(%d)", uint8(r))
}

// Command is one captured request travelling from the fast domain to the
// slow domain. A write command carries address, data, and byte strobes; a
// read command carries the address only.
type Command struct {
	Write bool   // true for write, false for read
	Addr  uint64 // byte address, already masked to the configured width
	Data  uint64 // write data (writes only)
	Strb  uint8  // byte-lane strobes (writes only), bit i covers byte i
}

// String returns a compact trace form of the command.
func (c Command) String() string {
	if c.Write {
		return fmt.Sprintf("W addr=%#x data=%#x strb=%#x", c.Addr, c.Data, c.Strb)
	}
	return fmt.Sprintf("R addr=%#x", c.Addr)
}

// Response is one completion travelling from the slow domain back to the
// fast domain.
type Response struct {
	IsWrite bool   // true if this answers a write command
	Data    uint64 // read data (reads only)
	Err     bool   // peripheral or decode error, surfaced upstream as SLVERR
}

// Resp returns the AXI response code for the completion.
func (r Response) Resp() Resp {
	if r.Err {
		return RespSLVERR
	}
	return RespOKAY
}

// String returns a compact trace form of the response.
func (r Response) String() string {
	if r.IsWrite {
		return fmt.Sprintf("B resp=%v", r.Resp())
	}
	return fmt.Sprintf("R data=%#x resp=%v", r.Data, r.Resp())
}
