package arith

import (
	"math"
	"math/big"
)

// Width identifies the integer representation an engine instance runs in.
type Width uint8

const (
	// WidthNative runs on uint64.
	WidthNative Width = 0

	// WidthBig runs on *big.Int.
	WidthBig Width = 1
)

// String returns the width name.
func (w Width) String() string {
	switch w {
	case WidthNative:
		return "native"
	case WidthBig:
		return "big"
	default:
		return "unknown"
	}
}

var maxUint64 = new(big.Int).SetUint64(math.MaxUint64)

// FitsNative reports whether count, and count multiplied by margin, both fit
// in a uint64. The margin covers intermediates of unranking algorithms that
// scale the running count by a parameter before dividing it down again.
func FitsNative(count *big.Int, margin uint64) bool {
	if count.Sign() < 0 || count.Cmp(maxUint64) > 0 {
		return false
	}
	if margin <= 1 {
		return true
	}
	scaled := new(big.Int).Mul(count, new(big.Int).SetUint64(margin))
	return scaled.Cmp(maxUint64) <= 0
}
