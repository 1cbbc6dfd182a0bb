// Package span implements the splittable index range that drives a family
// generator.
//
// A Range covers indices [cursor, fence) of a family. Pulling an element maps
// the cursor through an optional shuffle and asks the generator for the
// element at that index. Split hands the lower half of the remaining indices
// to a new Range with its own forked generator, so the two halves can be
// consumed on different goroutines; concatenating their output reproduces the
// unsplit order.
//
// # Thread Safety
//
// A Range is NOT safe for concurrent use. Ranges produced by Split share only
// immutable state and may be used concurrently with each other.
package span

import (
	"fmt"
	"math/big"

	cserrors "github.com/tamirms/combspan/errors"
	"github.com/tamirms/combspan/internal/arith"
	"github.com/tamirms/combspan/internal/family"
	"github.com/tamirms/combspan/internal/shuffle"
)

// Range is a splittable window [cursor, fence) over a family's indices.
type Range[I any] struct {
	ops     arith.Ops[I]
	gen     *family.Generator[I]
	origin  I
	cursor  I
	fence   I
	shuffle func(I) I
}

// New returns a Range over [origin, fence) driving gen.
func New[I any](ops arith.Ops[I], gen *family.Generator[I], origin, fence I) (*Range[I], error) {
	if ops.Sign(origin) < 0 {
		return nil, fmt.Errorf("%w: origin %s is negative", cserrors.ErrInvalidRange, ops.Big(origin))
	}
	if ops.Cmp(fence, origin) < 0 {
		return nil, fmt.Errorf("%w: fence %s is below origin %s", cserrors.ErrInvalidRange, ops.Big(fence), ops.Big(origin))
	}
	return &Range[I]{ops: ops, gen: gen, origin: origin, cursor: origin, fence: fence}, nil
}

// Origin returns the first index the range was created with.
func (r *Range[I]) Origin() I { return r.origin }

// Cursor returns the next index to be produced.
func (r *Range[I]) Cursor() I { return r.cursor }

// Fence returns the exclusive upper bound of the range.
func (r *Range[I]) Fence() I { return r.fence }

// Count returns the number of indices left.
func (r *Range[I]) Count() I { return r.ops.Sub(r.fence, r.cursor) }

// BigCount returns the exact number of indices left.
func (r *Range[I]) BigCount() *big.Int { return r.ops.Big(r.Count()) }

// Count64 returns the number of indices left, or false if it does not fit in
// a uint64.
func (r *Range[I]) Count64() (uint64, bool) { return r.ops.Uint64(r.Count()) }

// Skip advances the cursor by n, stopping at the fence.
func (r *Range[I]) Skip(n I) error {
	if r.ops.Sign(n) < 0 {
		return fmt.Errorf("%w: %s", cserrors.ErrNegativeSkip, r.ops.Big(n))
	}
	if r.ops.Cmp(n, r.Count()) >= 0 {
		r.cursor = r.fence
		return nil
	}
	r.cursor = r.ops.Add(r.cursor, n)
	return nil
}

// InstallShuffler makes the range visit its indices in the keyed order
// derived from tables. The bijection covers [0, fence), so a range and the
// halves later split from it agree on where every index goes.
func (r *Range[I]) InstallShuffler(tables *shuffle.Tables) {
	r.shuffle = shuffle.Bind(tables, r.fence)
}

// Shuffled reports whether a shuffler is installed.
func (r *Range[I]) Shuffled() bool { return r.shuffle != nil }

func (r *Range[I]) index(i I) I {
	if r.shuffle == nil {
		return i
	}
	return r.shuffle(i)
}

// Next returns the element at the cursor and advances it. It reports false
// when the range is exhausted.
func (r *Range[I]) Next() ([]int, bool) {
	if r.ops.Cmp(r.cursor, r.fence) >= 0 {
		return nil, false
	}
	e := r.gen.Get(r.index(r.cursor))
	r.cursor = r.ops.Add(r.cursor, r.ops.One())
	return e, true
}

// ForEachRemaining calls visit with every remaining element in order and
// leaves the range exhausted. Elements are owned by visit.
func (r *Range[I]) ForEachRemaining(visit func([]int)) {
	one := r.ops.One()
	for i := r.cursor; r.ops.Cmp(i, r.fence) < 0; i = r.ops.Add(i, one) {
		visit(r.gen.Get(r.index(i)))
	}
	r.cursor = r.fence
}

// Split moves the lower half of the remaining indices into a new Range and
// keeps the upper half. It returns nil when fewer than two indices remain.
func (r *Range[I]) Split() *Range[I] {
	mid := r.ops.Mid(r.cursor, r.fence)
	if r.ops.Cmp(r.cursor, mid) >= 0 {
		return nil
	}
	lower := &Range[I]{
		ops:     r.ops,
		gen:     r.gen.Fork(),
		origin:  r.cursor,
		cursor:  r.cursor,
		fence:   mid,
		shuffle: r.shuffle,
	}
	r.origin = mid
	r.cursor = mid
	return lower
}

// At returns the element at family index i without moving the cursor. The
// shuffle is not applied.
func (r *Range[I]) At(i I) []int {
	return r.gen.Fork().Get(i)
}
