package cli

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"github.com/tamirms/combspan"
)

// job describes a family and how to run over it. It is read from a TOML
// file given with --job; explicit flags override the file.
//
// Example:
//
//	family = "combination"
//	n = 40
//	k = 6
//	phrase = "draw 17"
//	workers = 8
type job struct {
	Family  string  `toml:"family"`
	N       int     `toml:"n"`
	K       int     `toml:"k"`
	Dims    []int   `toml:"dims"`
	Width   string  `toml:"width"`
	Seed    *uint64 `toml:"seed"`
	Phrase  string  `toml:"phrase"`
	Workers int     `toml:"workers"`
	Grain   uint64  `toml:"grain"`
}

// jobFlags binds the family flags shared by every command.
type jobFlags struct {
	path string
	job  job
	seed uint64
}

func (f *jobFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.path, "job", "", "TOML job file describing the family")
	fs.StringVarP(&f.job.Family, "family", "f", "", "family: permutation, combination, product, powerset, derangement, partial")
	fs.IntVarP(&f.job.N, "n", "n", 0, "length (or n for combinations)")
	fs.IntVarP(&f.job.K, "k", "k", 0, "subset size for combinations")
	fs.IntSliceVar(&f.job.Dims, "dims", nil, "dimension sizes for products")
	fs.StringVar(&f.job.Width, "width", "auto", "index width: auto, native or big")
	fs.Uint64Var(&f.seed, "seed", 0, "shuffle with this seed")
	fs.StringVar(&f.job.Phrase, "phrase", "", "shuffle with a seed derived from this phrase")
}

// registerRun adds the parallel driver flags.
func (f *jobFlags) registerRun(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.IntVarP(&f.job.Workers, "workers", "w", 0, "parallel workers (0 = GOMAXPROCS)")
	fs.Uint64Var(&f.job.Grain, "grain", 1<<14, "largest number of elements per work item")
}

// resolve merges the job file under the flags that were set explicitly.
func (f *jobFlags) resolve(cmd *cobra.Command) (job, error) {
	if cmd.Flags().Changed("seed") {
		f.job.Seed = &f.seed
	}
	if f.path == "" {
		return f.job, nil
	}

	var fromFile job
	if _, err := toml.DecodeFile(f.path, &fromFile); err != nil {
		return job{}, fmt.Errorf("read job file: %w", err)
	}
	fs := cmd.Flags()
	override := func(name string, apply func()) {
		if fs.Lookup(name) != nil && fs.Changed(name) {
			apply()
		}
	}
	override("family", func() { fromFile.Family = f.job.Family })
	override("n", func() { fromFile.N = f.job.N })
	override("k", func() { fromFile.K = f.job.K })
	override("dims", func() { fromFile.Dims = f.job.Dims })
	override("width", func() { fromFile.Width = f.job.Width })
	override("seed", func() { fromFile.Seed = f.job.Seed })
	override("phrase", func() { fromFile.Phrase = f.job.Phrase })
	override("workers", func() { fromFile.Workers = f.job.Workers })
	override("grain", func() { fromFile.Grain = f.job.Grain })
	if fromFile.Width == "" {
		fromFile.Width = "auto"
	}
	if fromFile.Grain == 0 {
		fromFile.Grain = f.job.Grain
	}
	return fromFile, nil
}

// options turns the job's width and shuffle settings into sequence options.
func (j job) options() ([]combspan.Option, error) {
	var opts []combspan.Option
	switch strings.ToLower(j.Width) {
	case "", "auto":
	case "native":
		opts = append(opts, combspan.WithWidth(combspan.WidthNative))
	case "big":
		opts = append(opts, combspan.WithWidth(combspan.WidthBig))
	default:
		return nil, fmt.Errorf("unknown width %q (want auto, native or big)", j.Width)
	}
	switch {
	case j.Seed != nil && j.Phrase != "":
		return nil, fmt.Errorf("seed and phrase are mutually exclusive")
	case j.Seed != nil:
		opts = append(opts, combspan.WithShuffle(*j.Seed))
	case j.Phrase != "":
		opts = append(opts, combspan.WithShuffle(combspan.SeedFromString(j.Phrase)))
	}
	return opts, nil
}

// sequence builds the sequence the job describes.
func (j job) sequence(extra ...combspan.Option) (*combspan.Sequence, error) {
	if j.Family == "" {
		return nil, fmt.Errorf("no family given (use --family or --job)")
	}
	family, err := combspan.ParseFamily(j.Family)
	if err != nil {
		return nil, err
	}
	opts, err := j.options()
	if err != nil {
		return nil, err
	}
	opts = append(opts, extra...)

	switch family {
	case combspan.FamilyPermutation:
		return combspan.Permutations(j.N, opts...)
	case combspan.FamilyCombination:
		return combspan.Combinations(j.N, j.K, opts...)
	case combspan.FamilyCartesianProduct:
		return combspan.CartesianProduct(j.Dims, opts...)
	case combspan.FamilyPowerSet:
		return combspan.PowerSet(j.N, opts...)
	case combspan.FamilyDerangement:
		return combspan.Derangements(j.N, opts...)
	default:
		return combspan.PartialPermutations(j.N, opts...)
	}
}

// runOptions returns the parallel driver options.
func (j job) runOptions() []combspan.RunOption {
	return []combspan.RunOption{combspan.WithWorkers(j.Workers), combspan.WithGrain(j.Grain)}
}
