package combspan

import (
	"fmt"
	"math/big"
	"strings"

	cserrors "github.com/tamirms/combspan/errors"
	"github.com/tamirms/combspan/internal/arith"
	"github.com/tamirms/combspan/internal/counting"
	"github.com/tamirms/combspan/internal/encoding"
	"github.com/tamirms/combspan/internal/family"
	"github.com/tamirms/combspan/internal/span"
)

// Family identifies a combinatorial family. It is stored in table file
// headers.
type Family uint16

const (
	FamilyPermutation        Family = 0
	FamilyCombination        Family = 1
	FamilyCartesianProduct   Family = 2
	FamilyPowerSet           Family = 3
	FamilyDerangement        Family = 4
	FamilyPartialPermutation Family = 5
)

// String returns the family name.
func (f Family) String() string {
	switch f {
	case FamilyPermutation:
		return "permutation"
	case FamilyCombination:
		return "combination"
	case FamilyCartesianProduct:
		return "product"
	case FamilyPowerSet:
		return "powerset"
	case FamilyDerangement:
		return "derangement"
	case FamilyPartialPermutation:
		return "partial"
	default:
		return "unknown"
	}
}

// ParseFamily returns the Family named s, as printed by Family.String.
func ParseFamily(s string) (Family, error) {
	for f := FamilyPermutation; f <= FamilyPartialPermutation; f++ {
		if strings.EqualFold(s, f.String()) {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown family %q", cserrors.ErrInvalidParameter, s)
}

// Width identifies the integer representation a Sequence runs in.
type Width = arith.Width

const (
	// WidthNative runs on uint64 indices.
	WidthNative = arith.WidthNative

	// WidthBig runs on *big.Int indices.
	WidthBig = arith.WidthBig
)

// Caps on family parameters. Native caps bound the uint64 path; the others
// are hard limits.
const (
	MaxPermutationLengthNative        = 20
	MaxPermutationLength              = 20000
	MaxCombinationN                   = 50000
	MaxDerangementLengthNative        = 21
	MaxPartialPermutationLengthNative = 18
	MaxPartialPermutationLength       = 10000
	MaxPowerSetLengthNative           = 63
	MaxPowerSetLength                 = 512
)

// params is a validated family description.
type params struct {
	family Family
	n, k   int
	dims   []int
}

func (p params) String() string {
	switch p.family {
	case FamilyCombination:
		return fmt.Sprintf("%s(%d,%d)", p.family, p.n, p.k)
	case FamilyCartesianProduct:
		return fmt.Sprintf("%s%v", p.family, p.dims)
	default:
		return fmt.Sprintf("%s(%d)", p.family, p.n)
	}
}

// validate checks parameters against the family's domain and hard caps.
func (p params) validate() error {
	switch p.family {
	case FamilyPermutation:
		return checkLength("permutation length", p.n, MaxPermutationLength)
	case FamilyCombination:
		if err := checkLength("combination n", p.n, MaxCombinationN); err != nil {
			return err
		}
		if p.k < 0 || p.k > p.n {
			return fmt.Errorf("%w: combination k=%d must be in [0, n=%d]", cserrors.ErrInvalidParameter, p.k, p.n)
		}
	case FamilyCartesianProduct:
		for i, d := range p.dims {
			if d < 0 {
				return fmt.Errorf("%w: product dimension %d is negative (%d)", cserrors.ErrInvalidParameter, i, d)
			}
		}
	case FamilyPowerSet:
		return checkLength("power set length", p.n, MaxPowerSetLength)
	case FamilyDerangement:
		return checkLength("derangement length", p.n, -1)
	case FamilyPartialPermutation:
		return checkLength("partial permutation length", p.n, MaxPartialPermutationLength)
	default:
		return fmt.Errorf("%w: unknown family %d", cserrors.ErrInvalidParameter, p.family)
	}
	return nil
}

func checkLength(name string, v, limit int) error {
	if v < 0 {
		return fmt.Errorf("%w: %s %d is negative", cserrors.ErrInvalidParameter, name, v)
	}
	if limit >= 0 && v > limit {
		return fmt.Errorf("%w: %s %d exceeds %d", cserrors.ErrCapExceeded, name, v, limit)
	}
	return nil
}

// count returns the exact cardinality.
func (p params) count() *big.Int {
	switch p.family {
	case FamilyPermutation:
		return counting.Factorial(p.n)
	case FamilyCombination:
		return counting.Binomial(p.n, p.k)
	case FamilyCartesianProduct:
		return counting.Product(p.dims)
	case FamilyPowerSet:
		return counting.PowerOfTwo(p.n)
	case FamilyDerangement:
		return counting.Subfactorial(p.n)
	default:
		return counting.PartialPermutations(p.n)
	}
}

// elementLen returns the maximum number of values in an element.
func (p params) elementLen() int {
	switch p.family {
	case FamilyCombination:
		return p.k
	case FamilyCartesianProduct:
		return len(p.dims)
	default:
		return p.n
	}
}

// valuesFitRecord reports whether every value of every element can be
// stored in a table record.
func (p params) valuesFitRecord() bool {
	if p.family != FamilyCartesianProduct {
		return encoding.FitsValue(p.n)
	}
	for _, d := range p.dims {
		if !encoding.FitsValue(d - 1) {
			return false
		}
	}
	return true
}

// fitsNative reports whether the uint64 path can run this family with the
// given cardinality.
func (p params) fitsNative(count *big.Int) bool {
	switch p.family {
	case FamilyPermutation:
		return p.n <= MaxPermutationLengthNative && arith.FitsNative(count, 1)
	case FamilyCombination:
		// Unranking scales the running count by up to n-1.
		return arith.FitsNative(count, uint64(max(p.n-1, 1)))
	case FamilyPowerSet:
		return p.n <= MaxPowerSetLengthNative
	case FamilyDerangement:
		// D(21) exceeds 2^64, so the count check is the binding one.
		return p.n <= MaxDerangementLengthNative && arith.FitsNative(count, 1)
	case FamilyPartialPermutation:
		return p.n <= MaxPartialPermutationLengthNative && arith.FitsNative(count, 1)
	default:
		return arith.FitsNative(count, 1)
	}
}

// chooseWidth picks the width for count. A forced native width that cannot
// hold the family fails with ErrCapacityExceeded.
func (p params) chooseWidth(count *big.Int, forced *Width) (Width, error) {
	native := p.fitsNative(count)
	if forced == nil {
		if native {
			return WidthNative, nil
		}
		return WidthBig, nil
	}
	switch *forced {
	case WidthNative:
		if !native {
			return 0, fmt.Errorf("%w: %v has %s elements", cserrors.ErrCapacityExceeded, p, count)
		}
		return WidthNative, nil
	case WidthBig:
		return WidthBig, nil
	}
	return 0, fmt.Errorf("%w: %d", cserrors.ErrInvalidWidth, *forced)
}

// newRange builds the family generator for p and wraps it in a range over
// all of its indices.
func newRange[I any](ops arith.Ops[I], p params, count *big.Int) (*span.Range[I], error) {
	c, ok := ops.FromBig(count)
	if !ok {
		return nil, fmt.Errorf("%w: %v has %s elements", cserrors.ErrCapacityExceeded, p, count)
	}
	var gen *family.Generator[I]
	switch p.family {
	case FamilyPermutation:
		gen = family.NewPermutation(ops, p.n, c)
	case FamilyCombination:
		gen = family.NewCombination(ops, p.n, p.k, c)
	case FamilyCartesianProduct:
		gen = family.NewProduct(ops, p.dims, c)
	case FamilyPowerSet:
		gen = family.NewPowerSet(ops, p.n, c)
	case FamilyDerangement:
		gen, _ = family.NewDerangement(ops, p.n)
	case FamilyPartialPermutation:
		gen = family.NewPartialPermutation(ops, p.n, c)
	default:
		return nil, fmt.Errorf("%w: unknown family %d", cserrors.ErrInvalidParameter, p.family)
	}
	return span.New(ops, gen, ops.Zero(), c)
}
