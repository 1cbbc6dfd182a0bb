// Package family implements the ranking engines of each combinatorial family.
//
// Each engine maps an index in [0, count) to the element at that position of
// the family's lexicographic order. Engines that know how to step to the
// lexicographic successor in place do so when indices are pulled in order;
// every other access is a full unrank. Engines are generic over the index
// type so the same code runs on uint64 and on *big.Int.
//
// # Thread Safety
//
// A Generator is NOT safe for concurrent use. Fork returns an independent
// generator that shares only immutable tables with its parent.
package family

import (
	"slices"

	"github.com/tamirms/combspan/internal/arith"
)

// Hole marks an empty slot in a partial permutation.
const Hole = -1

// engine is the per-family core.
type engine[I any] interface {
	// unrank writes the element at index into cur (resized as needed) and
	// returns it.
	unrank(index I, cur []int) []int

	// fork returns an engine sharing immutable tables but owning fresh
	// scratch buffers.
	fork() engine[I]
}

// stepper is implemented by engines that can advance to the lexicographic
// successor in place. On the last element step leaves cur unchanged.
type stepper interface {
	step(cur []int) []int
}

// Generator produces elements of one family by index.
type Generator[I any] struct {
	ops  arith.Ops[I]
	eng  engine[I]
	cur  []int
	last I
	seen bool

	empty bool // family has no elements
}

func newGenerator[I any](ops arith.Ops[I], eng engine[I], count I, size int) *Generator[I] {
	g := &Generator[I]{
		ops: ops,
		eng: eng,
		cur: make([]int, 0, size),
	}
	if ops.Sign(count) > 0 {
		g.cur = eng.unrank(ops.Zero(), g.cur)
	} else {
		g.empty = true
	}
	return g
}

// Get returns the element at index. When index directly follows the
// previously requested one and the engine supports it, the element is
// derived from the previous one in place; otherwise it is unranked.
// The returned slice is owned by the caller.
func (g *Generator[I]) Get(index I) []int {
	s, canStep := g.eng.(stepper)
	if canStep && g.seen && g.ops.Cmp(index, g.ops.Add(g.last, g.ops.One())) == 0 {
		g.cur = s.step(g.cur)
	} else {
		g.cur = g.eng.unrank(index, g.cur)
	}
	g.last = index
	g.seen = true
	return slices.Clone(g.cur)
}

// Current returns a copy of the most recently produced element, or of the
// first element if nothing has been requested yet.
func (g *Generator[I]) Current() []int {
	return slices.Clone(g.cur)
}

// Fork returns an independent generator over the same family. Its first Get
// always unranks, and until then Current reports the first element, not the
// parent's.
func (g *Generator[I]) Fork() *Generator[I] {
	f := &Generator[I]{
		ops:   g.ops,
		eng:   g.eng.fork(),
		cur:   make([]int, 0, cap(g.cur)),
		empty: g.empty,
	}
	if !f.empty {
		f.cur = f.eng.unrank(g.ops.Zero(), f.cur)
	}
	return f
}

// nextPermutation rearranges a into its lexicographic successor, allowing
// repeated values. It reports false and leaves a untouched when a is the
// last arrangement.
func nextPermutation(a []int) bool {
	i := len(a) - 2
	for i >= 0 && a[i] >= a[i+1] {
		i--
	}
	if i < 0 {
		return false
	}
	j := len(a) - 1
	for a[j] <= a[i] {
		j--
	}
	a[i], a[j] = a[j], a[i]
	slices.Reverse(a[i+1:])
	return true
}

// nextCombination advances the strictly increasing k-subset c of [0, n) to
// its lexicographic successor. It reports false and leaves c untouched when c
// is the last subset.
func nextCombination(c []int, n int) bool {
	k := len(c)
	pos := k - 1
	for pos >= 0 && c[pos] >= n-k+pos {
		pos--
	}
	if pos < 0 {
		return false
	}
	v := c[pos]
	for i := pos; i < k; i++ {
		v++
		c[i] = v
	}
	return true
}
