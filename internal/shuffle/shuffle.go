// Package shuffle implements a keyed bijection over [0, count) for arbitrary
// count, using constant memory.
//
// The index is split into bytes (least significant first) and each byte is
// substituted through a random permutation table. The table lookup index
// of each byte is XORed with the previous lookup index so that a change in
// a low byte propagates upward; the substituted bytes are then XOR-chained
// from the low end. Any top bits that do not fill a byte go through a
// smaller permutation of matching width. The result lies in
// [0, 2^bitlen(count-1)); values at or above count are fed back in
// (cycle walking) until one lands inside the range.
//
// The mapping scatters indices well but is neither uniform nor
// cryptographically strong.
package shuffle

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"math/bits"
	"math/rand/v2"

	"github.com/zeebo/xxh3"
)

// numByteTables is the number of whole-byte substitution tables; byte i of
// the index uses table i mod numByteTables.
const numByteTables = 4

// Tables holds the substitution tables derived from a seed. It is immutable
// after New and safe for concurrent use.
type Tables struct {
	seed     uint64
	bytePerm [numByteTables][256]byte
	bitPerm  [8][]byte // bitPerm[w] permutes [0, 2^w) for w in 1..7
}

// New derives substitution tables from seed. The same seed always yields
// the same tables.
func New(seed uint64) *Tables {
	var key [8]byte
	binary.LittleEndian.PutUint64(key[:], seed)
	h := xxh3.Hash128(key[:])
	rng := rand.New(rand.NewPCG(h.Lo, h.Hi))

	t := &Tables{seed: seed}
	for i := range t.bytePerm {
		randomPermutation(rng, t.bytePerm[i][:])
	}
	for w := 1; w < 8; w++ {
		t.bitPerm[w] = make([]byte, 1<<w)
		randomPermutation(rng, t.bitPerm[w])
	}
	return t
}

// Seed returns the seed the tables were derived from.
func (t *Tables) Seed() uint64 { return t.seed }

// randomPermutation fills perm with a uniformly random permutation of
// [0, len(perm)) using the inside-out Fisher-Yates shuffle.
func randomPermutation(rng *rand.Rand, perm []byte) {
	for i := range perm {
		j := rng.IntN(i + 1)
		if j != i {
			perm[i] = perm[j]
		}
		perm[j] = byte(i)
	}
}

// geometry returns the byte layout covering values below 2^bitCount.
func geometry(bitCount int) (length, whole, rest int) {
	return (bitCount + 7) / 8, bitCount / 8, bitCount % 8
}

// permute applies one round to the big-endian input in, writing the
// big-endian result to out. Both slices have the same length.
func (t *Tables) permute(in, out []byte, whole, rest int) {
	n := len(in)
	idx := 0
	for i := 0; i < whole; i++ {
		idx = int(in[n-1-i]) ^ idx
		out[i] = t.bytePerm[i%numByteTables][idx]
	}
	if rest > 0 {
		idx = (int(in[0]) ^ idx) & (1<<rest - 1)
		out[n-1] = t.bitPerm[rest][idx] << (8 - rest)
	}
	for i := 0; i < n-1; i++ {
		out[n-2-i] ^= out[n-1-i]
	}
}

// Uint64 returns the image of index in the bijection over [0, count).
// index must be below count.
func (t *Tables) Uint64(index, count uint64) uint64 {
	if count <= 1 {
		return index
	}
	n, whole, rest := geometry(bits.Len64(count - 1))
	var in, out [8]byte
	for {
		binary.BigEndian.PutUint64(in[:], index)
		clear(out[:])
		t.permute(in[8-n:], out[8-n:], whole, rest)
		v := binary.BigEndian.Uint64(out[:])
		if rest > 0 {
			v >>= 8 - rest
		}
		if v < count {
			return v
		}
		index = v
	}
}

// Big returns the image of index in the bijection over [0, count). It
// agrees with Uint64 wherever both apply. index must be below count.
func (t *Tables) Big(index, count *big.Int) *big.Int {
	if count.Cmp(big.NewInt(1)) <= 0 {
		return new(big.Int).Set(index)
	}
	limit := new(big.Int).Sub(count, big.NewInt(1))
	n, whole, rest := geometry(limit.BitLen())
	in := make([]byte, n)
	out := make([]byte, n)
	cur := index
	for {
		cur.FillBytes(in)
		clear(out)
		t.permute(in, out, whole, rest)
		v := new(big.Int).SetBytes(out)
		if rest > 0 {
			v.Rsh(v, uint(8-rest))
		}
		if v.Cmp(count) < 0 {
			return v
		}
		cur = v
	}
}

// Bind returns the bijection over [0, count) for the index type I, which
// must be uint64 or *big.Int.
func Bind[I any](t *Tables, count I) func(I) I {
	switch c := any(count).(type) {
	case uint64:
		f := func(i uint64) uint64 { return t.Uint64(i, c) }
		return any(f).(func(I) I)
	case *big.Int:
		f := func(i *big.Int) *big.Int { return t.Big(i, c) }
		return any(f).(func(I) I)
	}
	panic(fmt.Sprintf("shuffle: unsupported index type %T", count))
}
