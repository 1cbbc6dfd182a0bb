package family

import "github.com/tamirms/combspan/internal/arith"

// product enumerates the Cartesian product of ranges [0, dims[i]) in
// lexicographic order, the last position varying fastest.
type product[I any] struct {
	ops   arith.Ops[I]
	dims  []int
	radix []I // radix[i] = dims[i], shared
}

// NewProduct returns a generator over the Cartesian product of dims. All
// dimensions must be non-negative.
func NewProduct[I any](ops arith.Ops[I], dims []int, count I) *Generator[I] {
	d := make([]int, len(dims))
	copy(d, dims)
	radix := make([]I, len(d))
	for i, v := range d {
		radix[i] = ops.FromInt(v)
	}
	eng := &product[I]{ops: ops, dims: d, radix: radix}
	return newGenerator[I](ops, eng, count, len(d))
}

func (p *product[I]) unrank(index I, cur []int) []int {
	cur = cur[:len(p.dims)]
	q := index
	for i := len(p.dims) - 1; i >= 0; i-- {
		var d I
		q, d = p.ops.QuoRem(q, p.radix[i])
		cur[i] = p.ops.Int(d)
	}
	if !p.ops.IsZero(q) {
		arith.Invariantf("product index exceeds the product of %d dimensions", len(p.dims))
	}
	return cur
}

// step increments the rightmost digit that has room and resets the digits
// after it.
func (p *product[I]) step(cur []int) []int {
	i := len(cur) - 1
	for i >= 0 && cur[i]+1 >= p.dims[i] {
		i--
	}
	if i < 0 {
		return cur
	}
	cur[i]++
	for j := i + 1; j < len(cur); j++ {
		cur[j] = 0
	}
	return cur
}

func (p *product[I]) fork() engine[I] { return p }
