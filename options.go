package combspan

// Option is a functional option for configuring a Sequence.
type Option func(*config)

// RunOption is a functional option for the parallel drivers (WriteTable and
// ParallelDigest).
type RunOption func(*runConfig)

type config struct {
	width   *Width // nil picks native whenever it fits
	shuffle bool
	seed    uint64
	hooks   Hooks
}

func defaultConfig() *config {
	return &config{
		hooks: NoopHooks{},
	}
}

// WithWidth forces the index width. Forcing WidthNative on a family whose
// indices do not fit in a uint64 makes the constructor fail with
// ErrCapacityExceeded; WidthBig is always accepted.
func WithWidth(w Width) Option {
	return func(c *config) {
		c.width = &w
	}
}

// WithShuffle makes the sequence visit its elements in the keyed order
// derived from seed. Equivalent to calling Shuffle right after construction.
func WithShuffle(seed uint64) Option {
	return func(c *config) {
		c.shuffle = true
		c.seed = seed
	}
}

// WithHooks installs instrumentation hooks. A nil h restores NoopHooks.
// Sequences split from this one inherit the hooks.
func WithHooks(h Hooks) Option {
	return func(c *config) {
		if h == nil {
			h = NoopHooks{}
		}
		c.hooks = h
	}
}

type runConfig struct {
	workers int    // <= 0 means GOMAXPROCS
	grain   uint64 // maximum elements per leaf
}

func defaultRunConfig() *runConfig {
	return &runConfig{
		grain: 1 << 14,
	}
}

// WithWorkers sets the number of concurrent workers. Non-positive values use
// GOMAXPROCS.
func WithWorkers(n int) RunOption {
	return func(c *runConfig) {
		c.workers = n
	}
}

// WithGrain sets the largest number of elements handed to one worker at a
// time. Smaller grains balance better at the cost of more splits.
func WithGrain(n uint64) RunOption {
	return func(c *runConfig) {
		c.grain = max(n, 1)
	}
}
