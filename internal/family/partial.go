package family

import (
	"slices"

	"github.com/tamirms/combspan/internal/arith"
)

// partial enumerates the partial permutations of length n: arrays of n slots
// where each slot is Hole or a value in [0, n), no value repeated.
//
// Order: by the number s of occupied slots, then by the sorted set of values
// used (lexicographically among the s-subsets of [0, n)), then by the
// lexicographic order of the arrangement with Hole sorting first. A bucket
// with s occupied slots therefore holds C(n, s) value sets of n!/(n-s)!
// arrangements each.
type partial[I any] struct {
	ops    arith.Ops[I]
	n      int
	values []int
}

// NewPartialPermutation returns a generator over the partial permutations of
// length n. Intermediates stay below max(count, n*n!), so native width is safe
// up to n = 18.
func NewPartialPermutation[I any](ops arith.Ops[I], n int, count I) *Generator[I] {
	return newGenerator[I](ops, newPartialEngine(ops, n), count, n)
}

func newPartialEngine[I any](ops arith.Ops[I], n int) *partial[I] {
	return &partial[I]{ops: ops, n: n, values: make([]int, 0, n)}
}

func (p *partial[I]) unrank(index I, cur []int) []int {
	ops := p.ops
	n := p.n

	// Locate the bucket.
	rest := index
	binom := ops.One()   // C(n, s)
	falling := ops.One() // n!/(n-s)!
	s := 0
	for {
		bucket := ops.Mul(binom, falling)
		if ops.Cmp(rest, bucket) < 0 {
			break
		}
		if s == n {
			arith.Invariantf("partial permutation index beyond the last bucket")
		}
		rest = ops.Sub(rest, bucket)
		binom = ops.Quo(ops.Mul(binom, ops.FromInt(n-s)), ops.FromInt(s+1))
		falling = ops.Mul(falling, ops.FromInt(n-s))
		s++
	}

	set, arrangement := ops.QuoRem(rest, falling)
	p.values = p.values[:s]
	unrankCombination(ops, n, s, binom, set, p.values)

	// Decode the arrangement of n-s holes and the chosen values. total is
	// the number of arrangements of the symbols not yet placed.
	cur = cur[:n]
	holes := n - s
	total := falling
	for pos := 0; pos < n; pos++ {
		left := ops.FromInt(n - pos)
		if holes > 0 {
			withHole := ops.Quo(ops.Mul(total, ops.FromInt(holes)), left)
			if ops.Cmp(arrangement, withHole) < 0 {
				cur[pos] = Hole
				holes--
				total = withHole
				continue
			}
			arrangement = ops.Sub(arrangement, withHole)
		}
		per := ops.Quo(total, left)
		q, r := ops.QuoRem(arrangement, per)
		k := ops.Int(q)
		if k >= len(p.values) {
			arith.Invariantf("partial permutation digit %d exceeds %d remaining values", k, len(p.values))
		}
		cur[pos] = p.values[k]
		p.values = slices.Delete(p.values, k, k+1)
		arrangement = r
		total = per
	}
	return cur
}

// step advances the arrangement; when the value set's arrangements are
// exhausted it moves to the next value set, then to the next bucket.
func (p *partial[I]) step(cur []int) []int {
	if nextPermutation(cur) {
		return cur
	}
	p.values = p.values[:0]
	for _, v := range cur {
		if v != Hole {
			p.values = append(p.values, v)
		}
	}
	slices.Sort(p.values)
	s := len(p.values)
	if !nextCombination(p.values, p.n) {
		if s == p.n {
			return cur
		}
		p.values = p.values[:s+1]
		for i := range p.values {
			p.values[i] = i
		}
	}
	holes := p.n - len(p.values)
	for i := 0; i < holes; i++ {
		cur[i] = Hole
	}
	copy(cur[holes:], p.values)
	return cur
}

func (p *partial[I]) fork() engine[I] {
	return newPartialEngine(p.ops, p.n)
}
