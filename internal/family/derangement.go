package family

import (
	"github.com/tamirms/combspan/internal/arith"
	"github.com/tamirms/combspan/internal/counting"
)

// derangement enumerates the permutations of [0, length) without fixed
// points. It has no successor rule; every element is unranked.
//
// Unranking fills the open positions left to right. The index is split by
// D(r-1)+D(r-2) (r = positions still open) to pick which free target the
// position maps to; the remainder decides whether that choice closes a
// 2-cycle (consuming two positions) or extends a chain, in which case the
// forbidden target of the chain's head is carried over to its new tail.
type derangement[I any] struct {
	ops    arith.Ops[I]
	length int
	sub    []I // sub[i] = D(i), shared

	avoid   []int
	reverse []int
	taken   []bool
}

// NewDerangement returns a generator over the D(length) derangements of
// [0, length).
func NewDerangement[I any](ops arith.Ops[I], length int) (*Generator[I], I) {
	table := counting.Subfactorials(length)
	sub := make([]I, len(table))
	for i, v := range table {
		c, ok := ops.FromBig(v)
		if !ok {
			arith.Invariantf("subfactorial D(%d) does not fit the index width", i)
		}
		sub[i] = c
	}
	eng := newDerangementEngine(ops, length, sub)
	count := sub[length]
	return newGenerator[I](ops, eng, count, length), count
}

func newDerangementEngine[I any](ops arith.Ops[I], length int, sub []I) *derangement[I] {
	return &derangement[I]{
		ops:     ops,
		length:  length,
		sub:     sub,
		avoid:   make([]int, length),
		reverse: make([]int, length),
		taken:   make([]bool, length),
	}
}

func (d *derangement[I]) unrank(index I, cur []int) []int {
	n := d.length
	cur = cur[:n]
	for i := 0; i < n; i++ {
		cur[i] = -1
		d.avoid[i] = i
		d.reverse[i] = i
		d.taken[i] = false
	}

	ops := d.ops
	rest := index
	remaining := n
	for i := 0; i < n; i++ {
		if cur[i] != -1 {
			continue
		}
		peer := 0
		if remaining > 1 {
			var q I
			q, rest = ops.QuoRem(rest, ops.Add(d.sub[remaining-1], d.sub[remaining-2]))
			peer = ops.Int(q)
		}

		j := 0
		for d.taken[j] || j == d.avoid[i] || peer > 0 {
			if !d.taken[j] && j != d.avoid[i] {
				peer--
			}
			j++
			if j >= n {
				arith.Invariantf("derangement target out of range at position %d", i)
			}
		}
		cur[i] = j
		d.taken[j] = true

		if ops.Cmp(rest, d.sub[remaining-1]) < 0 {
			head := d.reverse[j]
			d.avoid[head] = d.avoid[i]
			d.reverse[d.avoid[i]] = head
			remaining--
		} else {
			cur[d.reverse[j]] = d.avoid[i]
			d.taken[d.avoid[i]] = true
			rest = ops.Sub(rest, d.sub[remaining-1])
			remaining -= 2
		}
	}
	return cur
}

func (d *derangement[I]) fork() engine[I] {
	return newDerangementEngine(d.ops, d.length, d.sub)
}
