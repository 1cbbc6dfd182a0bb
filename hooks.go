package combspan

import "math/big"

// Hooks receives lifecycle events from a Sequence. Implementations must be
// safe for concurrent use when split sequences are consumed on different
// goroutines.
type Hooks interface {
	// OnCreate is called once a sequence has been built and its width chosen.
	OnCreate(family Family, width Width, count *big.Int)

	// OnSplit is called after a successful Split with the sizes of the
	// lower (returned) and upper (retained) halves.
	OnSplit(family Family, lower, upper *big.Int)

	// OnShuffle is called when a shuffle is installed.
	OnShuffle(family Family, seed uint64)
}

// NoopHooks ignores every event.
type NoopHooks struct{}

func (NoopHooks) OnCreate(Family, Width, *big.Int)   {}
func (NoopHooks) OnSplit(Family, *big.Int, *big.Int) {}
func (NoopHooks) OnShuffle(Family, uint64)           {}
