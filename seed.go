package combspan

import "github.com/zeebo/xxh3"

// SeedFromBytes derives a shuffle seed from arbitrary bytes, such as a
// passphrase given on a command line. Equal inputs give equal seeds.
//
// Usage:
//
//	seq, err := combspan.Permutations(10,
//	    combspan.WithShuffle(combspan.SeedFromBytes([]byte("round 3"))))
func SeedFromBytes(b []byte) uint64 {
	return xxh3.Hash(b)
}

// SeedFromString is SeedFromBytes for strings.
func SeedFromString(s string) uint64 {
	return xxh3.HashString(s)
}
