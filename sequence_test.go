package combspan

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"slices"
	"testing"

	cserrors "github.com/tamirms/combspan/errors"
	"github.com/tamirms/combspan/internal/counting"
)

func TestScenarios(t *testing.T) {
	tests := []struct {
		name string
		seq  func(...Option) (*Sequence, error)
		want [][]int
	}{
		{
			name: "Permutations(3)",
			seq:  func(o ...Option) (*Sequence, error) { return Permutations(3, o...) },
			want: [][]int{{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}},
		},
		{
			name: "Combinations(4,2)",
			seq:  func(o ...Option) (*Sequence, error) { return Combinations(4, 2, o...) },
			want: [][]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}},
		},
		{
			name: "PowerSet(2)",
			seq:  func(o ...Option) (*Sequence, error) { return PowerSet(2, o...) },
			want: [][]int{{}, {0}, {1}, {0, 1}},
		},
		{
			name: "CartesianProduct(2,3)",
			seq:  func(o ...Option) (*Sequence, error) { return CartesianProduct([]int{2, 3}, o...) },
			want: [][]int{{0, 0}, {0, 1}, {0, 2}, {1, 0}, {1, 1}, {1, 2}},
		},
		{
			name: "Derangements(3)",
			seq:  func(o ...Option) (*Sequence, error) { return Derangements(3, o...) },
			want: [][]int{{1, 2, 0}, {2, 0, 1}},
		},
		{
			name: "PartialPermutations(2)",
			seq:  func(o ...Option) (*Sequence, error) { return PartialPermutations(2, o...) },
			want: [][]int{
				{Hole, Hole},
				{Hole, 0}, {0, Hole},
				{Hole, 1}, {1, Hole},
				{0, 1}, {1, 0},
			},
		},
	}
	for _, tt := range tests {
		for _, w := range []Width{WidthNative, WidthBig} {
			t.Run(fmt.Sprintf("%s/%s", tt.name, w), func(t *testing.T) {
				s := must(t)(tt.seq(WithWidth(w)))
				if s.Width() != w {
					t.Fatalf("Width = %s", s.Width())
				}
				if n, ok := s.Count(); !ok || n != uint64(len(tt.want)) {
					t.Fatalf("Count = %d, %v; want %d", n, ok, len(tt.want))
				}
				if got := drain(s); !equalLists(got, tt.want) {
					t.Fatalf("got %v\nwant %v", got, tt.want)
				}
				if n, _ := s.Count(); n != 0 {
					t.Fatalf("Count after drain = %d", n)
				}
			})
		}
	}
}

func TestBoundaries(t *testing.T) {
	oneEmpty := [][]int{{}}
	tests := []struct {
		name string
		seq  *Sequence
		err  error
		want [][]int
	}{}
	add := func(name string, want [][]int) func(*Sequence, error) {
		return func(s *Sequence, err error) {
			tests = append(tests, struct {
				name string
				seq  *Sequence
				err  error
				want [][]int
			}{name, s, err, want})
		}
	}
	add("Permutations(0)", oneEmpty)(Permutations(0))
	add("Combinations(5,0)", oneEmpty)(Combinations(5, 0))
	add("Combinations(0,0)", oneEmpty)(Combinations(0, 0))
	add("PowerSet(0)", oneEmpty)(PowerSet(0))
	add("CartesianProduct()", oneEmpty)(CartesianProduct(nil))
	add("CartesianProduct(3,0)", nil)(CartesianProduct([]int{3, 0}))
	add("Derangements(0)", oneEmpty)(Derangements(0))
	add("Derangements(1)", nil)(Derangements(1))
	add("PartialPermutations(0)", oneEmpty)(PartialPermutations(0))
	add("Combinations(3,3)", [][]int{{0, 1, 2}})(Combinations(3, 3))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err != nil {
				t.Fatalf("unexpected error: %v", tt.err)
			}
			got := drain(tt.seq)
			if len(got) != len(tt.want) || (len(got) > 0 && !equalLists(got, tt.want)) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInvalidParameters(t *testing.T) {
	tests := []struct {
		name string
		fn   func() (*Sequence, error)
		want error
	}{
		{"negative permutation", func() (*Sequence, error) { return Permutations(-1) }, cserrors.ErrInvalidParameter},
		{"permutation cap", func() (*Sequence, error) { return Permutations(MaxPermutationLength + 1) }, cserrors.ErrCapExceeded},
		{"k greater than n", func() (*Sequence, error) { return Combinations(3, 4) }, cserrors.ErrInvalidParameter},
		{"negative k", func() (*Sequence, error) { return Combinations(3, -1) }, cserrors.ErrInvalidParameter},
		{"combination cap", func() (*Sequence, error) { return Combinations(MaxCombinationN+1, 1) }, cserrors.ErrCapExceeded},
		{"negative dimension", func() (*Sequence, error) { return CartesianProduct([]int{2, -1}) }, cserrors.ErrInvalidParameter},
		{"power set cap", func() (*Sequence, error) { return PowerSet(MaxPowerSetLength + 1) }, cserrors.ErrCapExceeded},
		{"negative derangement", func() (*Sequence, error) { return Derangements(-2) }, cserrors.ErrInvalidParameter},
		{"partial permutation cap", func() (*Sequence, error) { return PartialPermutations(MaxPartialPermutationLength + 1) }, cserrors.ErrCapExceeded},
		{"forced native overflow", func() (*Sequence, error) { return Permutations(21, WithWidth(WidthNative)) }, cserrors.ErrCapacityExceeded},
		{"unknown width", func() (*Sequence, error) { return Permutations(3, WithWidth(Width(9))) }, cserrors.ErrInvalidWidth},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := tt.fn()
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
			if s != nil {
				t.Fatal("sequence returned alongside an error")
			}
		})
	}
}

func TestAutomaticWidth(t *testing.T) {
	tests := []struct {
		name string
		fn   func() (*Sequence, error)
		want Width
	}{
		{"Permutations(20)", func() (*Sequence, error) { return Permutations(20) }, WidthNative},
		{"Permutations(21)", func() (*Sequence, error) { return Permutations(21) }, WidthBig},
		{"Combinations(60,30)", func() (*Sequence, error) { return Combinations(60, 30) }, WidthNative},
		// C(64,32) fits in a uint64 but its unranking intermediates do not.
		{"Combinations(64,32)", func() (*Sequence, error) { return Combinations(64, 32) }, WidthBig},
		{"PowerSet(63)", func() (*Sequence, error) { return PowerSet(63) }, WidthNative},
		{"PowerSet(64)", func() (*Sequence, error) { return PowerSet(64) }, WidthBig},
		{"Derangements(20)", func() (*Sequence, error) { return Derangements(20) }, WidthNative},
		{"Derangements(21)", func() (*Sequence, error) { return Derangements(21) }, WidthBig},
		{"PartialPermutations(18)", func() (*Sequence, error) { return PartialPermutations(18) }, WidthNative},
		{"PartialPermutations(19)", func() (*Sequence, error) { return PartialPermutations(19) }, WidthBig},
		{"CartesianProduct(2^32,2^31)", func() (*Sequence, error) { return CartesianProduct([]int{1 << 32, 1 << 31}) }, WidthNative},
		{"CartesianProduct(2^32,2^32)", func() (*Sequence, error) { return CartesianProduct([]int{1 << 32, 1 << 32}) }, WidthBig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := must(t)(tt.fn())
			if s.Width() != tt.want {
				t.Fatalf("Width = %s, want %s", s.Width(), tt.want)
			}
		})
	}
}

func TestNativeMatchesBig(t *testing.T) {
	ctors := map[string]func(...Option) (*Sequence, error){
		"permutation": func(o ...Option) (*Sequence, error) { return Permutations(5, o...) },
		"combination": func(o ...Option) (*Sequence, error) { return Combinations(8, 3, o...) },
		"product":     func(o ...Option) (*Sequence, error) { return CartesianProduct([]int{3, 1, 4}, o...) },
		"powerset":    func(o ...Option) (*Sequence, error) { return PowerSet(6, o...) },
		"derangement": func(o ...Option) (*Sequence, error) { return Derangements(5, o...) },
		"partial":     func(o ...Option) (*Sequence, error) { return PartialPermutations(4, o...) },
	}
	for name, ctor := range ctors {
		t.Run(name, func(t *testing.T) {
			native := drain(must(t)(ctor(WithWidth(WidthNative))))
			bigw := drain(must(t)(ctor(WithWidth(WidthBig))))
			if !equalLists(native, bigw) {
				t.Fatal("native and big widths disagree")
			}
			shuffledNative := drain(must(t)(ctor(WithWidth(WidthNative), WithShuffle(5))))
			shuffledBig := drain(must(t)(ctor(WithWidth(WidthBig), WithShuffle(5))))
			if !equalLists(shuffledNative, shuffledBig) {
				t.Fatal("shuffled native and big widths disagree")
			}
		})
	}
}

func TestSplitLaw(t *testing.T) {
	rng := newTestRNG(t)
	ctors := []func() (*Sequence, error){
		func() (*Sequence, error) { return Permutations(6) },
		func() (*Sequence, error) { return Combinations(10, 4) },
		func() (*Sequence, error) { return PartialPermutations(4) },
		func() (*Sequence, error) { return Derangements(6) },
		func() (*Sequence, error) { return Permutations(6, WithWidth(WidthBig)) },
		func() (*Sequence, error) { return PowerSet(8, WithShuffle(11)) },
	}
	for i, ctor := range ctors {
		want := drain(must(t)(ctor()))
		for trial := 0; trial < 20; trial++ {
			if got := splitDrain(must(t)(ctor()), rng, 10); !equalLists(got, want) {
				t.Fatalf("constructor %d trial %d: split order differs", i, trial)
			}
		}
	}
}

func TestSplitTooSmall(t *testing.T) {
	s := must(t)(Permutations(3))
	if err := s.Skip(5); err != nil {
		t.Fatal(err)
	}
	if s.Split() != nil {
		t.Fatal("Split with one element left returned a sequence")
	}
	if e, ok := s.Next(); !ok || !slices.Equal(e, []int{2, 1, 0}) {
		t.Fatalf("Next = %v, %v", e, ok)
	}
}

func TestSkip(t *testing.T) {
	for _, w := range []Width{WidthNative, WidthBig} {
		s := must(t)(Permutations(4, WithWidth(w)))
		if err := s.Skip(20); err != nil {
			t.Fatal(err)
		}
		if s.Position().Int64() != 20 {
			t.Fatalf("%s: Position = %s", w, s.Position())
		}
		if e, ok := s.Next(); !ok || !slices.Equal(e, []int{3, 1, 0, 2}) {
			t.Fatalf("%s: Next after Skip(20) = %v, %v", w, e, ok)
		}
		if err := s.Skip(-1); !errors.Is(err, cserrors.ErrNegativeSkip) {
			t.Fatalf("%s: Skip(-1) error = %v", w, err)
		}
		if err := s.SkipBig(big.NewInt(-1)); !errors.Is(err, cserrors.ErrNegativeSkip) {
			t.Fatalf("%s: SkipBig(-1) error = %v", w, err)
		}
		huge := new(big.Int).Lsh(big.NewInt(1), 100)
		if err := s.SkipBig(huge); err != nil {
			t.Fatal(err)
		}
		if _, ok := s.Next(); ok {
			t.Fatalf("%s: Next after huge skip succeeded", w)
		}
	}
}

func TestBigSequence(t *testing.T) {
	s := must(t)(Permutations(30))
	if s.Width() != WidthBig {
		t.Fatalf("Width = %s", s.Width())
	}
	if _, ok := s.Count(); ok {
		t.Fatal("Count of 30! reported as fitting a uint64")
	}
	if s.BigCount().Cmp(counting.Factorial(30)) != 0 {
		t.Fatalf("BigCount = %s", s.BigCount())
	}

	last := new(big.Int).Sub(counting.Factorial(30), big.NewInt(1))
	e, err := s.At(last)
	if err != nil {
		t.Fatal(err)
	}
	want := make([]int, 30)
	for i := range want {
		want[i] = 29 - i
	}
	if !slices.Equal(e, want) {
		t.Fatalf("At(30!-1) = %v", e)
	}

	skip := new(big.Int).Sub(last, big.NewInt(1))
	if err := s.SkipBig(skip); err != nil {
		t.Fatal(err)
	}
	got := drain(s)
	if len(got) != 2 || !slices.Equal(got[1], want) {
		t.Fatalf("tail = %v", got)
	}
}

func TestAt(t *testing.T) {
	s := must(t)(Combinations(4, 2, WithShuffle(3)))
	e, err := s.At(big.NewInt(5))
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(e, []int{2, 3}) {
		t.Fatalf("At(5) = %v, want [2 3]", e)
	}
	for _, i := range []int64{-1, 6} {
		if _, err := s.At(big.NewInt(i)); !errors.Is(err, cserrors.ErrIndexOutOfRange) {
			t.Errorf("At(%d) error = %v", i, err)
		}
	}
	if n, _ := s.Count(); n != 6 {
		t.Fatalf("At moved the sequence: Count = %d", n)
	}
}

func TestAllStopsEarly(t *testing.T) {
	s := must(t)(Permutations(3))
	taken := 0
	for range s.All() {
		taken++
		if taken == 2 {
			break
		}
	}
	if e, ok := s.Next(); !ok || !slices.Equal(e, []int{1, 0, 2}) {
		t.Fatalf("Next after early break = %v, %v", e, ok)
	}
}

func TestShuffle(t *testing.T) {
	natural := drain(must(t)(Permutations(5)))
	shuffled := drain(must(t)(Permutations(5, WithShuffle(2024))))
	again := drain(must(t)(Permutations(5)).Shuffle(2024))

	if !equalLists(shuffled, again) {
		t.Fatal("same seed produced different orders")
	}
	if equalLists(shuffled, natural) {
		t.Fatal("shuffled order equals natural order")
	}

	sorted := slices.Clone(shuffled)
	slices.SortFunc(sorted, slices.Compare[[]int])
	if !equalLists(sorted, natural) {
		t.Fatal("shuffled pass is not a rearrangement of the natural pass")
	}

	other := drain(must(t)(Permutations(5, WithShuffle(2025))))
	if equalLists(shuffled, other) {
		t.Fatal("different seeds produced identical orders")
	}

	s := must(t)(Permutations(5, WithShuffle(77)))
	if seed, ok := s.Shuffled(); !ok || seed != 77 {
		t.Fatalf("Shuffled() = %d, %v", seed, ok)
	}
	if lower := s.Split(); lower == nil {
		t.Fatal("Split returned nil")
	} else if seed, ok := lower.Shuffled(); !ok || seed != 77 {
		t.Fatalf("split half Shuffled() = %d, %v", seed, ok)
	}
}

func TestHooks(t *testing.T) {
	rec := &recordingHooks{}
	s := must(t)(Permutations(4, WithHooks(rec), WithShuffle(9)))
	lower := s.Split()
	lower.Split()

	if !slices.Equal(rec.creates, []string{"permutation/native/24"}) {
		t.Errorf("creates = %v", rec.creates)
	}
	if rec.splits != 2 {
		t.Errorf("splits = %d, want 2", rec.splits)
	}
	if !slices.Equal(rec.shuffles, []uint64{9}) {
		t.Errorf("shuffles = %v", rec.shuffles)
	}

	// A nil Hooks falls back to NoopHooks.
	must(t)(Permutations(3, WithHooks(nil))).Split()
}

func TestParseFamily(t *testing.T) {
	for f := FamilyPermutation; f <= FamilyPartialPermutation; f++ {
		got, err := ParseFamily(f.String())
		if err != nil || got != f {
			t.Errorf("ParseFamily(%q) = %v, %v", f.String(), got, err)
		}
	}
	if _, err := ParseFamily("bogus"); !errors.Is(err, cserrors.ErrInvalidParameter) {
		t.Errorf("ParseFamily(bogus) error = %v", err)
	}
	if Family(42).String() != "unknown" {
		t.Errorf("Family(42).String() = %q", Family(42).String())
	}
}

func TestTotal(t *testing.T) {
	s := must(t)(Combinations(50, 25))
	want := counting.Binomial(50, 25)
	if err := s.Skip(math.MaxInt64); err != nil {
		t.Fatal(err)
	}
	if s.Total().Cmp(want) != 0 {
		t.Fatalf("Total = %s, want %s", s.Total(), want)
	}
	if s.BigCount().Sign() != 0 {
		t.Fatalf("BigCount after skip = %s", s.BigCount())
	}
}

func BenchmarkNext(b *testing.B) {
	for _, w := range []Width{WidthNative, WidthBig} {
		b.Run(w.String(), func(b *testing.B) {
			s := must(b)(Permutations(12, WithWidth(w)))
			b.ReportAllocs()
			for range b.N {
				if _, ok := s.Next(); !ok {
					s = must(b)(Permutations(12, WithWidth(w)))
				}
			}
		})
	}
}
