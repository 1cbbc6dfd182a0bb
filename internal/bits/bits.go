// Package bits provides low-level bit manipulation primitives.
package bits

import "math/bits"

// Midpoint returns floor((a+b)/2) without overflowing.
// The carry of the 64-bit sum is shifted back in as the top bit.
func Midpoint(a, b uint64) uint64 {
	sum, carry := bits.Add64(a, b, 0)
	return sum>>1 | carry<<63
}

// MulFits reports whether a*b fits in a uint64.
func MulFits(a, b uint64) bool {
	hi, _ := bits.Mul64(a, b)
	return hi == 0
}

// Len returns the minimum number of bits required to represent x.
func Len(x uint64) int {
	return bits.Len64(x)
}
