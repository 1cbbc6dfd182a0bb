package combspan

import (
	"fmt"
	"iter"
	"math"
	"math/big"

	cserrors "github.com/tamirms/combspan/errors"
	"github.com/tamirms/combspan/internal/arith"
	"github.com/tamirms/combspan/internal/shuffle"
	"github.com/tamirms/combspan/internal/span"
)

// Sequence is a lazy, splittable view of the remaining elements of a
// combinatorial family.
//
// A Sequence runs either on uint64 indices or on *big.Int indices. The width
// is picked once at construction from the family's exact cardinality and
// never changes, so arithmetic never wraps.
//
// Thread Safety:
//   - A Sequence is NOT safe for concurrent use
//   - Sequences returned by Split share only immutable tables and may be
//     consumed concurrently with the sequence they were split from
//   - Elements returned by Next, At and ForEachRemaining are owned by the
//     caller
type Sequence struct {
	params   params
	width    Width
	total    *big.Int
	native   *span.Range[uint64]
	big      *span.Range[*big.Int]
	hooks    Hooks
	seed     uint64
	shuffled bool
}

func newSequence(p params, opts []Option) (*Sequence, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}

	total := p.count()
	width, err := p.chooseWidth(total, cfg.width)
	if err != nil {
		return nil, err
	}

	s := &Sequence{
		params: p,
		width:  width,
		total:  total,
		hooks:  cfg.hooks,
	}
	if width == WidthNative {
		s.native, err = newRange[uint64](arith.Native{}, p, total)
	} else {
		s.big, err = newRange[*big.Int](arith.Big{}, p, total)
	}
	if err != nil {
		return nil, err
	}

	s.hooks.OnCreate(p.family, width, new(big.Int).Set(total))
	if cfg.shuffle {
		s.Shuffle(cfg.seed)
	}
	return s, nil
}

// Family returns the family this sequence enumerates.
func (s *Sequence) Family() Family { return s.params.family }

// Width returns the index width the sequence runs in.
func (s *Sequence) Width() Width { return s.width }

// ElementLen returns the largest number of values in an element. Power sets
// yield shorter elements; every other family yields exactly this many.
func (s *Sequence) ElementLen() int { return s.params.elementLen() }

// Total returns the cardinality of the whole family, regardless of how much
// of it this sequence still covers.
func (s *Sequence) Total() *big.Int { return new(big.Int).Set(s.total) }

// Count returns the number of elements left, or false if it does not fit in
// a uint64.
func (s *Sequence) Count() (uint64, bool) {
	if s.native != nil {
		return s.native.Count64()
	}
	return s.big.Count64()
}

// BigCount returns the exact number of elements left.
func (s *Sequence) BigCount() *big.Int {
	if s.native != nil {
		return s.native.BigCount()
	}
	return s.big.BigCount()
}

// Position returns the family index of the next element (before any
// shuffle is applied).
func (s *Sequence) Position() *big.Int {
	if s.native != nil {
		return new(big.Int).SetUint64(s.native.Cursor())
	}
	return new(big.Int).Set(s.big.Cursor())
}

// Skip discards the next n elements. Skipping past the end leaves the
// sequence exhausted.
func (s *Sequence) Skip(n int64) error {
	if n < 0 {
		return fmt.Errorf("%w: %d", cserrors.ErrNegativeSkip, n)
	}
	if s.native != nil {
		return s.native.Skip(uint64(n))
	}
	return s.big.Skip(big.NewInt(n))
}

// SkipBig is Skip for counts beyond int64.
func (s *Sequence) SkipBig(n *big.Int) error {
	if n.Sign() < 0 {
		return fmt.Errorf("%w: %s", cserrors.ErrNegativeSkip, n)
	}
	if s.native != nil {
		if !n.IsUint64() {
			return s.native.Skip(math.MaxUint64)
		}
		return s.native.Skip(n.Uint64())
	}
	return s.big.Skip(new(big.Int).Set(n))
}

// Shuffle makes the sequence visit its remaining elements in the keyed
// order derived from seed. The order is a fixed function of seed and the
// sequence's upper bound, so halves split afterwards still concatenate to
// the unsplit shuffled order. It returns s.
func (s *Sequence) Shuffle(seed uint64) *Sequence {
	tables := shuffle.New(seed)
	if s.native != nil {
		s.native.InstallShuffler(tables)
	} else {
		s.big.InstallShuffler(tables)
	}
	s.seed = seed
	s.shuffled = true
	s.hooks.OnShuffle(s.params.family, seed)
	return s
}

// Shuffled reports whether a shuffle is installed and with which seed.
func (s *Sequence) Shuffled() (uint64, bool) { return s.seed, s.shuffled }

// Next returns the next element. It reports false once the sequence is
// exhausted.
func (s *Sequence) Next() ([]int, bool) {
	if s.native != nil {
		return s.native.Next()
	}
	return s.big.Next()
}

// ForEachRemaining calls visit with every remaining element in order and
// leaves the sequence exhausted.
func (s *Sequence) ForEachRemaining(visit func([]int)) {
	if s.native != nil {
		s.native.ForEachRemaining(visit)
		return
	}
	s.big.ForEachRemaining(visit)
}

// All returns an iterator over the remaining elements. Stopping early leaves
// the sequence positioned after the last element yielded.
func (s *Sequence) All() iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		for {
			e, ok := s.Next()
			if !ok || !yield(e) {
				return
			}
		}
	}
}

// Split hands the lower half of the remaining elements to a new Sequence and
// keeps the upper half. Draining the returned sequence and then s yields
// exactly what draining s alone would have. Split returns nil when fewer
// than two elements remain.
func (s *Sequence) Split() *Sequence {
	lower := &Sequence{
		params:   s.params,
		width:    s.width,
		total:    s.total,
		hooks:    s.hooks,
		seed:     s.seed,
		shuffled: s.shuffled,
	}
	if s.native != nil {
		if lower.native = s.native.Split(); lower.native == nil {
			return nil
		}
	} else {
		if lower.big = s.big.Split(); lower.big == nil {
			return nil
		}
	}
	s.hooks.OnSplit(s.params.family, lower.BigCount(), s.BigCount())
	return lower
}

// At returns the element at family index i without moving the sequence. The
// shuffle, if any, is not applied: At(i) is the i-th element in natural
// order.
func (s *Sequence) At(i *big.Int) ([]int, error) {
	if i.Sign() < 0 || i.Cmp(s.total) >= 0 {
		return nil, fmt.Errorf("%w: %s not in [0, %s)", cserrors.ErrIndexOutOfRange, i, s.total)
	}
	if s.native != nil {
		return s.native.At(i.Uint64()), nil
	}
	return s.big.At(new(big.Int).Set(i)), nil
}

// String describes the family and what is left of it.
func (s *Sequence) String() string {
	return fmt.Sprintf("%v [%s, %s remaining]", s.params, s.width, s.BigCount())
}
