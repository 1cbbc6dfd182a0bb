package family

import "github.com/tamirms/combspan/internal/arith"

// permutation enumerates the orderings of [0, length) lexicographically.
//
// Unranking reads the index in the factorial number system: successive
// division by the radices 1, 2, ..., length yields the Lehmer code from its
// last digit to its first. Each digit d at position p then moves the d-th
// remaining value to p.
type permutation[I any] struct {
	ops    arith.Ops[I]
	radix  []I // radix[r] = r+1, shared
	digits []int
}

// NewPermutation returns a generator over the length! permutations of
// [0, length). The caller validates length.
func NewPermutation[I any](ops arith.Ops[I], length int, count I) *Generator[I] {
	radix := make([]I, length)
	for r := range radix {
		radix[r] = ops.FromInt(r + 1)
	}
	eng := &permutation[I]{ops: ops, radix: radix, digits: make([]int, length)}
	return newGenerator[I](ops, eng, count, length)
}

func (p *permutation[I]) unrank(index I, cur []int) []int {
	n := len(p.radix)
	q := index
	for r := 0; r < n; r++ {
		var d I
		q, d = p.ops.QuoRem(q, p.radix[r])
		p.digits[n-1-r] = p.ops.Int(d)
	}
	if !p.ops.IsZero(q) {
		arith.Invariantf("permutation index exceeds %d!", n)
	}

	cur = cur[:n]
	for i := range cur {
		cur[i] = i
	}
	for pos, d := range p.digits {
		if d == 0 {
			continue
		}
		v := cur[pos+d]
		copy(cur[pos+1:pos+d+1], cur[pos:pos+d])
		cur[pos] = v
	}
	return cur
}

func (p *permutation[I]) step(cur []int) []int {
	nextPermutation(cur)
	return cur
}

func (p *permutation[I]) fork() engine[I] {
	return &permutation[I]{ops: p.ops, radix: p.radix, digits: make([]int, len(p.radix))}
}
