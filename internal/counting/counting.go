// Package counting computes exact cardinalities of the combinatorial families.
//
// All results are arbitrary precision. They are evaluated once per sequence,
// before the arithmetic width is chosen.
package counting

import "math/big"

// Factorial returns n!.
func Factorial(n int) *big.Int {
	if n < 2 {
		return big.NewInt(1)
	}
	return new(big.Int).MulRange(1, int64(n))
}

// Binomial returns C(n, k), or 0 when k is outside [0, n].
func Binomial(n, k int) *big.Int {
	if k < 0 || k > n {
		return new(big.Int)
	}
	return new(big.Int).Binomial(int64(n), int64(k))
}

// FallingFactorial returns n!/(n-k)!.
func FallingFactorial(n, k int) *big.Int {
	if k <= 0 {
		return big.NewInt(1)
	}
	return new(big.Int).MulRange(int64(n-k+1), int64(n))
}

// Subfactorials returns D(0)..D(n), the number of derangements of each
// length: D(0)=1, D(1)=0, D(i)=(i-1)(D(i-1)+D(i-2)).
func Subfactorials(n int) []*big.Int {
	d := make([]*big.Int, max(n+1, 2))
	d[0] = big.NewInt(1)
	d[1] = new(big.Int)
	for i := 2; i <= n; i++ {
		v := new(big.Int).Add(d[i-1], d[i-2])
		d[i] = v.Mul(v, big.NewInt(int64(i-1)))
	}
	return d[:n+1]
}

// Subfactorial returns D(n).
func Subfactorial(n int) *big.Int {
	return Subfactorials(n)[n]
}

// PartialPermutations returns the number of partial permutations of length n:
// sum over s of s! * C(n, s)^2.
func PartialPermutations(n int) *big.Int {
	total := new(big.Int)
	binom := big.NewInt(1)   // C(n, s)
	falling := big.NewInt(1) // n!/(n-s)!
	term := new(big.Int)
	for s := 0; s <= n; s++ {
		total.Add(total, term.Mul(binom, falling))
		binom.Mul(binom, big.NewInt(int64(n-s)))
		binom.Quo(binom, big.NewInt(int64(s+1)))
		falling.Mul(falling, big.NewInt(int64(n-s)))
	}
	return total
}

// Product returns the product of dims. An empty product is 1.
func Product(dims []int) *big.Int {
	p := big.NewInt(1)
	for _, d := range dims {
		p.Mul(p, big.NewInt(int64(d)))
	}
	return p
}

// PowerOfTwo returns 2^n.
func PowerOfTwo(n int) *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), uint(n))
}
