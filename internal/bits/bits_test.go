package bits

import (
	"encoding/binary"
	"hash/fnv"
	"math"
	"math/big"
	"math/rand/v2"
	"testing"
)

// Named seeds for deterministic reproduction.
const (
	testSeed1 = 0x1234567890ABCDEF
	testSeed2 = 0xFEDCBA9876543210
)

func newTestRNG(t testing.TB) *rand.Rand {
	t.Helper()
	h := fnv.New128a()
	h.Write([]byte(t.Name()))
	sum := h.Sum(nil)
	s1 := binary.LittleEndian.Uint64(sum[:8])
	s2 := binary.LittleEndian.Uint64(sum[8:])
	return rand.New(rand.NewPCG(testSeed1^s1, testSeed2^s2))
}

// TestMidpointMatchesBig verifies Midpoint against arbitrary precision,
// including operands whose sum overflows 64 bits.
func TestMidpointMatchesBig(t *testing.T) {
	rng := newTestRNG(t)
	const iterations = 10000

	for i := 0; i < iterations; i++ {
		a := rng.Uint64()
		b := rng.Uint64()
		if i%4 == 0 {
			a |= 1 << 63
			b |= 1 << 63
		}

		want := new(big.Int).Add(new(big.Int).SetUint64(a), new(big.Int).SetUint64(b))
		want.Rsh(want, 1)
		if got := Midpoint(a, b); got != want.Uint64() {
			t.Fatalf("iter %d: Midpoint(0x%X, 0x%X)=0x%X, want 0x%X", i, a, b, got, want.Uint64())
		}
	}
}

func TestMidpointEdges(t *testing.T) {
	tests := []struct {
		a, b, want uint64
	}{
		{0, 0, 0},
		{0, 1, 0},
		{1, 2, 1},
		{math.MaxUint64, math.MaxUint64, math.MaxUint64},
		{math.MaxUint64 - 1, math.MaxUint64, math.MaxUint64 - 1},
		{0, math.MaxUint64, math.MaxUint64 / 2},
	}
	for _, tt := range tests {
		if got := Midpoint(tt.a, tt.b); got != tt.want {
			t.Errorf("Midpoint(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

// TestMulFits verifies the overflow predicate against arbitrary precision.
func TestMulFits(t *testing.T) {
	rng := newTestRNG(t)
	limit := new(big.Int).SetUint64(math.MaxUint64)
	const iterations = 10000

	for i := 0; i < iterations; i++ {
		a := rng.Uint64() >> rng.UintN(64)
		b := rng.Uint64() >> rng.UintN(64)
		prod := new(big.Int).Mul(new(big.Int).SetUint64(a), new(big.Int).SetUint64(b))
		want := prod.Cmp(limit) <= 0
		if got := MulFits(a, b); got != want {
			t.Fatalf("iter %d: MulFits(%d, %d)=%v, want %v", i, a, b, got, want)
		}
	}
}

func TestLen(t *testing.T) {
	tests := []struct {
		x    uint64
		want int
	}{
		{0, 0},
		{1, 1},
		{255, 8},
		{256, 9},
		{math.MaxUint64, 64},
	}
	for _, tt := range tests {
		if got := Len(tt.x); got != tt.want {
			t.Errorf("Len(%d) = %d, want %d", tt.x, got, tt.want)
		}
	}
}
