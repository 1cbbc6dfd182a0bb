package family

import "github.com/tamirms/combspan/internal/arith"

// combination enumerates the k-subsets of [0, n) as strictly increasing
// arrays in lexicographic order.
type combination[I any] struct {
	ops   arith.Ops[I]
	n, k  int
	count I
}

// NewCombination returns a generator over the C(n, k) combinations. count
// must equal C(n, k). In native width count*(n-1) must fit in 64 bits.
func NewCombination[I any](ops arith.Ops[I], n, k int, count I) *Generator[I] {
	eng := &combination[I]{ops: ops, n: n, k: k, count: count}
	return newGenerator[I](ops, eng, count, k)
}

func (c *combination[I]) unrank(index I, cur []int) []int {
	cur = cur[:c.k]
	unrankCombination(c.ops, c.n, c.k, c.count, index, cur)
	return cur
}

func (c *combination[I]) step(cur []int) []int {
	nextCombination(cur, c.n)
	return cur
}

func (c *combination[I]) fork() engine[I] { return c }

// unrankCombination writes the index-th k-subset of [0, n) into out, where
// count = C(n, k).
//
// The subset is built element by element from the complementary rank
// r = count-1-index. The threshold e is the number of subsets ranked below
// the current candidate, kept exact by scaling it with the shrinking pool
// size p and the number of slots still to fill m.
func unrankCombination[I any](ops arith.Ops[I], n, k int, count, index I, out []int) {
	if k == 0 {
		return
	}
	r := ops.Sub(ops.Sub(count, ops.One()), index)
	e := ops.Quo(ops.Mul(ops.FromInt(n-k), count), ops.FromInt(n))
	t, m, p := n-k+1, k, n-1
	for m > 0 {
		if ops.Cmp(e, r) <= 0 {
			v := n - t - m + 1
			if v < 0 || v >= n {
				arith.Invariantf("combination element %d outside [0, %d)", v, n)
			}
			out[k-m] = v
			if !ops.IsZero(e) {
				r = ops.Sub(r, e)
				e = ops.Quo(ops.Mul(ops.FromInt(m), e), ops.FromInt(p))
			}
			m--
		} else {
			e = ops.Quo(ops.Mul(ops.FromInt(p-m), e), ops.FromInt(p))
			t--
		}
		p--
	}
}
