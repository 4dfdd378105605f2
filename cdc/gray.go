// Package cdc implements the clock-domain-crossing primitives of the
// bridge: reflected-Gray-code helpers, two-stage synchronizers, and the
// asynchronous command/response queues built from them.
//
// Only Gray-coded pointers ever cross between domains, so a sampling
// domain sees at most one changing bit per source-domain step and every
// observable pointer value is either current or recently stale, never
// corrupt.
package cdc

// GrayEncode converts a binary value to reflected Gray code.
func GrayEncode(b uint32) uint32 {
	return b ^ (b >> 1)
}

// GrayDecode converts a reflected-Gray-code value back to binary.
func GrayDecode(g uint32) uint32 {
	for mask := g >> 1; mask != 0; mask >>= 1 {
		g ^= mask
	}
	return g
}
