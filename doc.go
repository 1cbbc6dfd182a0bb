// Package combspan enumerates large combinatorial families lazily, with
// random access and splitting for parallel consumption.
//
// Every family (permutations, combinations, Cartesian products, power sets,
// derangements and partial permutations) maps its members bijectively onto
// indices 0 .. count-1. A Sequence walks a window of those indices. Moving
// to the next index usually costs a constant-time step from the previous
// element; any other index is computed directly by unranking. Families
// whose cardinality exceeds 2^64 run on math/big indices automatically.
//
// # Basic Usage
//
// Sequential consumption:
//
//	seq, err := combspan.Combinations(5, 3)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for c := range seq.All() {
//	    fmt.Println(c) // [0 1 2], [0 1 3], ...
//	}
//
// Splitting for parallel work:
//
//	seq, _ := combspan.Permutations(12)
//	lower := seq.Split() // first half; seq keeps the second
//	go consume(lower)
//	consume(seq)
//
// Random access and shuffling:
//
//	seq, _ := combspan.Permutations(30, combspan.WithShuffle(42))
//	p, _ := seq.At(big.NewInt(1_000_000)) // natural order, cursor untouched
//	q, _ := seq.Next()                    // first element in shuffled order
//
// # Package Structure
//
// The implementation is organized as follows:
//
//   - Public API: families.go (constructors), sequence.go (Sequence)
//   - Configuration: options.go (Option, RunOption), hooks.go (Hooks)
//   - Dispatch: algorithm.go (Family, Width, parameter validation, factory)
//   - Parallel drivers: digest.go (Digest, ParallelDigest), table_writer.go (WriteTable)
//   - Serialization: header.go (header, footer), table.go (OpenTable, Table)
//   - Index machinery: internal/span (splittable range), internal/family
//     (per-family unranking), internal/shuffle, internal/arith, internal/counting
//   - Platform: fallocate_*.go, prefault_*.go, fadvise_*.go (OS-specific optimizations)
package combspan
