package combspan

import (
	"slices"

	"github.com/tamirms/combspan/internal/family"
)

// Hole marks an empty slot in a partial permutation.
const Hole = family.Hole

// Permutations enumerates the length! orderings of [0, length) in
// lexicographic order.
func Permutations(length int, opts ...Option) (*Sequence, error) {
	return newSequence(params{family: FamilyPermutation, n: length}, opts)
}

// Combinations enumerates the k-element subsets of [0, n) as strictly
// increasing arrays in lexicographic order.
func Combinations(n, k int, opts ...Option) (*Sequence, error) {
	return newSequence(params{family: FamilyCombination, n: n, k: k}, opts)
}

// CartesianProduct enumerates every array whose i-th value lies in
// [0, dims[i]), with the last position varying fastest. A zero dimension
// makes the product empty; no dimensions yields one empty array.
func CartesianProduct(dims []int, opts ...Option) (*Sequence, error) {
	return newSequence(params{family: FamilyCartesianProduct, dims: slices.Clone(dims)}, opts)
}

// PowerSet enumerates the 2^length subsets of [0, length) as sorted arrays.
// Index i yields the set bits of i, so the order is [], [0], [1], [0 1], ...
func PowerSet(length int, opts ...Option) (*Sequence, error) {
	return newSequence(params{family: FamilyPowerSet, n: length}, opts)
}

// Derangements enumerates the permutations of [0, length) that leave no
// value in place. The order is fixed but not lexicographic, and every
// element is computed from its index.
func Derangements(length int, opts ...Option) (*Sequence, error) {
	return newSequence(params{family: FamilyDerangement, n: length}, opts)
}

// PartialPermutations enumerates the partial injections of [0, length) into
// itself: arrays of length values where each slot is either Hole or a value
// used at most once. Elements are ordered by the number of filled slots,
// then by the set of values used, then lexicographically with Hole first.
func PartialPermutations(length int, opts ...Option) (*Sequence, error) {
	return newSequence(params{family: FamilyPartialPermutation, n: length}, opts)
}
