package combspan

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math/big"
	"math/rand/v2"
	"slices"
	"sync"
	"testing"
)

const (
	testSeed1 = 0x1234567890ABCDEF
	testSeed2 = 0xFEDCBA9876543210
)

// newTestRNG returns a PCG generator seeded from the test name, so every
// test draws a distinct but reproducible stream.
func newTestRNG(t testing.TB) *rand.Rand {
	t.Helper()
	h := fnv.New128a()
	h.Write([]byte(t.Name()))
	sum := h.Sum(nil)
	s1 := binary.LittleEndian.Uint64(sum[:8])
	s2 := binary.LittleEndian.Uint64(sum[8:])
	return rand.New(rand.NewPCG(testSeed1^s1, testSeed2^s2))
}

// must wraps a constructor call and fails the test if it returned an error:
//
//	s := must(t)(Permutations(6))
func must(t testing.TB) func(*Sequence, error) *Sequence {
	return func(s *Sequence, err error) *Sequence {
		t.Helper()
		if err != nil {
			t.Fatalf("constructor: %v", err)
		}
		return s
	}
}

func drain(s *Sequence) [][]int {
	var out [][]int
	s.ForEachRemaining(func(e []int) { out = append(out, e) })
	return out
}

// splitDrain splits s at random and concatenates the leaves in order.
func splitDrain(s *Sequence, rng *rand.Rand, depth int) [][]int {
	if depth == 0 || rng.IntN(3) == 0 {
		return drain(s)
	}
	lower := s.Split()
	if lower == nil {
		return drain(s)
	}
	left := splitDrain(lower, rng, depth-1)
	return append(left, splitDrain(s, rng, depth-1)...)
}

func equalLists(a, b [][]int) bool {
	return slices.EqualFunc(a, b, func(x, y []int) bool { return slices.Equal(x, y) })
}

// recordingHooks collects events for inspection.
type recordingHooks struct {
	mu       sync.Mutex
	creates  []string
	splits   int
	shuffles []uint64
}

func (h *recordingHooks) OnCreate(f Family, w Width, count *big.Int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.creates = append(h.creates, fmt.Sprintf("%s/%s/%s", f, w, count))
}

func (h *recordingHooks) OnSplit(Family, *big.Int, *big.Int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.splits++
}

func (h *recordingHooks) OnShuffle(_ Family, seed uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.shuffles = append(h.shuffles, seed)
}
