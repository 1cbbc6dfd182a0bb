package family

import "github.com/tamirms/combspan/internal/arith"

// powerSet enumerates the subsets of [0, length). Bit i of the index selects
// element i; subsets are reported as sorted arrays, so index order is binary
// counting order: [], [0], [1], [0 1], [2], ...
type powerSet[I any] struct {
	ops    arith.Ops[I]
	length int
}

// NewPowerSet returns a generator over the 2^length subsets of [0, length).
func NewPowerSet[I any](ops arith.Ops[I], length int, count I) *Generator[I] {
	eng := &powerSet[I]{ops: ops, length: length}
	return newGenerator[I](ops, eng, count, length)
}

func (s *powerSet[I]) unrank(index I, cur []int) []int {
	cur = cur[:0]
	for i := 0; i < s.length; i++ {
		if s.ops.Bit(index, i) == 1 {
			cur = append(cur, i)
		}
	}
	return cur
}

// step adds one to the counter: the lowest absent element j is inserted and
// the run 0..j-1 below it is cleared.
func (s *powerSet[I]) step(cur []int) []int {
	j := 0
	for j < len(cur) && cur[j] == j {
		j++
	}
	if j == s.length {
		return cur
	}
	n := len(cur)
	old := cur[:n]
	cur = cur[:n-j+1]
	copy(cur[1:], old[j:n])
	cur[0] = j
	return cur
}

func (s *powerSet[I]) fork() engine[I] { return s }
