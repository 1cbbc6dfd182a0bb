// Package arith abstracts the integer type used for sequence indices.
//
// Every engine is written once against Ops[I] and instantiated twice: with
// Native (uint64, used when the cardinality is proven to fit) and with Big
// (*big.Int, arbitrary precision). Big never mutates its operands, so
// values can be shared freely between ranges and generators.
package arith

import (
	"fmt"
	"math/big"

	cserrors "github.com/tamirms/combspan/errors"
	"github.com/tamirms/combspan/internal/bits"
)

// Ops is the arithmetic vocabulary shared by the range engine, the family
// generators and the shuffler.
type Ops[I any] interface {
	Zero() I
	One() I
	FromInt(v int) I
	FromUint64(v uint64) I
	// FromBig converts v, reporting false when it is not representable.
	FromBig(v *big.Int) (I, bool)
	// Big returns a fresh arbitrary-precision copy of a.
	Big(a I) *big.Int
	Uint64(a I) (uint64, bool)
	// Int converts a small value (a digit, a position) to int.
	// Values outside the int range violate an invariant and panic.
	Int(a I) int

	Add(a, b I) I
	Sub(a, b I) I
	Mul(a, b I) I
	Quo(a, b I) I
	QuoRem(a, b I) (I, I)
	// Mid returns floor((a+b)/2) without overflow.
	Mid(a, b I) I
	Bit(a I, i int) uint

	Cmp(a, b I) int
	Sign(a I) int
	IsZero(a I) bool
}

// Invariantf panics with an error wrapping ErrArithmeticInvariant.
func Invariantf(format string, args ...any) {
	panic(fmt.Errorf("%w: %s", cserrors.ErrArithmeticInvariant, fmt.Sprintf(format, args...)))
}

// Native implements Ops over uint64. Callers must only use it for
// families whose intermediates were proven to fit (see Choose).
type Native struct{}

func (Native) Zero() uint64               { return 0 }
func (Native) One() uint64                { return 1 }
func (Native) FromInt(v int) uint64       { return uint64(v) }
func (Native) FromUint64(v uint64) uint64 { return v }

func (Native) FromBig(v *big.Int) (uint64, bool) {
	if v.Sign() < 0 || !v.IsUint64() {
		return 0, false
	}
	return v.Uint64(), true
}

func (Native) Big(a uint64) *big.Int          { return new(big.Int).SetUint64(a) }
func (Native) Uint64(a uint64) (uint64, bool) { return a, true }

func (Native) Int(a uint64) int {
	if a > uint64(maxInt) {
		Invariantf("value %d does not fit in int", a)
	}
	return int(a)
}

func (Native) Add(a, b uint64) uint64 { return a + b }
func (Native) Sub(a, b uint64) uint64 { return a - b }
func (Native) Mul(a, b uint64) uint64 { return a * b }

func (Native) Quo(a, b uint64) uint64 {
	if b == 0 {
		Invariantf("division by zero")
	}
	return a / b
}

func (Native) QuoRem(a, b uint64) (uint64, uint64) {
	if b == 0 {
		Invariantf("division by zero")
	}
	return a / b, a % b
}

func (Native) Mid(a, b uint64) uint64   { return bits.Midpoint(a, b) }
func (Native) Bit(a uint64, i int) uint { return uint(a>>uint(i)) & 1 }
func (Native) IsZero(a uint64) bool     { return a == 0 }

func (Native) Sign(a uint64) int {
	if a == 0 {
		return 0
	}
	return 1
}

func (Native) Cmp(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

const maxInt = int(^uint(0) >> 1)

// Big implements Ops over *big.Int. Results are always freshly allocated.
type Big struct{}

func (Big) Zero() *big.Int               { return new(big.Int) }
func (Big) One() *big.Int                { return big.NewInt(1) }
func (Big) FromInt(v int) *big.Int       { return big.NewInt(int64(v)) }
func (Big) FromUint64(v uint64) *big.Int { return new(big.Int).SetUint64(v) }

func (Big) FromBig(v *big.Int) (*big.Int, bool) { return new(big.Int).Set(v), true }
func (Big) Big(a *big.Int) *big.Int             { return new(big.Int).Set(a) }

func (Big) Uint64(a *big.Int) (uint64, bool) {
	if a.Sign() < 0 || !a.IsUint64() {
		return 0, false
	}
	return a.Uint64(), true
}

func (Big) Int(a *big.Int) int {
	if !a.IsInt64() || a.Int64() > int64(maxInt) || a.Int64() < -int64(maxInt)-1 {
		Invariantf("value %s does not fit in int", a)
	}
	return int(a.Int64())
}

func (Big) Add(a, b *big.Int) *big.Int { return new(big.Int).Add(a, b) }
func (Big) Sub(a, b *big.Int) *big.Int { return new(big.Int).Sub(a, b) }
func (Big) Mul(a, b *big.Int) *big.Int { return new(big.Int).Mul(a, b) }

func (Big) Quo(a, b *big.Int) *big.Int {
	if b.Sign() == 0 {
		Invariantf("division by zero")
	}
	return new(big.Int).Quo(a, b)
}

func (Big) QuoRem(a, b *big.Int) (*big.Int, *big.Int) {
	if b.Sign() == 0 {
		Invariantf("division by zero")
	}
	return new(big.Int).QuoRem(a, b, new(big.Int))
}

func (Big) Mid(a, b *big.Int) *big.Int {
	sum := new(big.Int).Add(a, b)
	return sum.Rsh(sum, 1)
}

func (Big) Bit(a *big.Int, i int) uint { return a.Bit(i) }
func (Big) Cmp(a, b *big.Int) int      { return a.Cmp(b) }
func (Big) Sign(a *big.Int) int        { return a.Sign() }
func (Big) IsZero(a *big.Int) bool     { return a.Sign() == 0 }
