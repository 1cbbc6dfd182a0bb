package combspan

import (
	"context"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"
	cserrors "github.com/tamirms/combspan/errors"
	"github.com/tamirms/combspan/internal/encoding"
	"github.com/tamirms/combspan/internal/forkjoin"
)

// digestBase is the multiplier of the ordered polynomial hash. Any odd
// constant works; this one is the 64-bit golden ratio.
const digestBase = 0x9E3779B97F4A7C15

// Digest summarizes a run of elements.
//
// Ordered depends on the order of the elements and is mergeable: the digest
// of a run equals Merge of the digests of its consecutive pieces. Unordered
// only depends on the multiset of elements, so it also matches across
// different visiting orders such as a shuffled pass.
//
// The zero value is an empty digest.
type Digest struct {
	Count     uint64
	Ordered   uint64 // Σ xxhash(e_i)·B^(Count-1-i) mod 2^64
	Unordered uint64 // Σ murmur3(e_i) mod 2^64
}

// Add folds the next element into d. buf is scratch space that is returned
// (possibly grown) for reuse.
func (d *Digest) Add(elem []int, buf []byte) []byte {
	buf = encoding.AppendElement(buf[:0], elem)
	d.Count++
	d.Ordered = d.Ordered*digestBase + xxhash.Sum64(buf)
	d.Unordered += murmur3.Sum64(buf)
	return buf
}

// Merge returns the digest of the elements of d followed by those of next.
func (d Digest) Merge(next Digest) Digest {
	return Digest{
		Count:     d.Count + next.Count,
		Ordered:   d.Ordered*powBase(next.Count) + next.Ordered,
		Unordered: d.Unordered + next.Unordered,
	}
}

// String formats the digest for logs.
func (d Digest) String() string {
	return fmt.Sprintf("count=%d ordered=%016x unordered=%016x", d.Count, d.Ordered, d.Unordered)
}

// powBase returns digestBase^n mod 2^64.
func powBase(n uint64) uint64 {
	result, base := uint64(1), uint64(digestBase)
	for n > 0 {
		if n&1 == 1 {
			result *= base
		}
		base *= base
		n >>= 1
	}
	return result
}

// Digest drains s and returns the digest of its remaining elements.
func (s *Sequence) Digest() Digest {
	var d Digest
	var buf []byte
	s.ForEachRemaining(func(e []int) {
		buf = d.Add(e, buf)
	})
	return d
}

// ParallelDigest drains s on several goroutines and returns the same digest
// Sequence.Digest would. s must hold fewer than 2^64 elements.
func ParallelDigest(ctx context.Context, s *Sequence, opts ...RunOption) (Digest, error) {
	cfg := defaultRunConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if _, ok := s.Count(); !ok {
		return Digest{}, fmt.Errorf("%w: %s elements", cserrors.ErrCapacityExceeded, s.BigCount())
	}

	leaves := forkjoin.Partition(part{s}, cfg.grain)
	digests := make([]Digest, len(leaves))
	err := forkjoin.Each(ctx, leaves, cfg.workers, func(ctx context.Context, i int, leaf part) error {
		var d Digest
		var buf []byte
		for e := range leaf.seq.All() {
			buf = d.Add(e, buf)
			if d.Count%cancelCheckInterval == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
		}
		digests[i] = d
		return nil
	})
	if err != nil {
		return Digest{}, err
	}

	var total Digest
	for _, d := range digests {
		total = total.Merge(d)
	}
	return total, nil
}

// cancelCheckInterval is how many elements a worker produces between
// context checks.
const cancelCheckInterval = 1 << 12

// part adapts a Sequence to forkjoin.
type part struct {
	seq *Sequence
}

func (p part) Split() (part, bool) {
	lower := p.seq.Split()
	if lower == nil {
		return part{}, false
	}
	return part{lower}, true
}

// Size saturates at the maximum uint64 for big-width sequences.
func (p part) Size() uint64 {
	n, ok := p.seq.Count()
	if !ok {
		return ^uint64(0)
	}
	return n
}
