package preference

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/Iron-Ham/persuade/internal/errors"
)

func ratings(cost, consumption, durability, environment, noise Value) map[Criterion]Value {
	return map[Criterion]Value{
		Cost:                cost,
		Consumption:         consumption,
		Durability:          durability,
		EnvironmentalImpact: environment,
		Noise:               noise,
	}
}

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()

	cat, err := NewCatalog(
		MustItem("Diesel", ratings(Good, VeryGood, Good, Bad, Bad)),
		MustItem("Electric", ratings(Bad, VeryGood, Average, VeryGood, VeryGood)),
		MustItem("Petrol", ratings(VeryGood, Bad, Average, Bad, Average)),
		MustItem("Hybrid", ratings(Average, Good, Good, Good, Good)),
	)
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}
	return cat
}

func names(items []*Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Name()
	}
	return out
}

func TestParseCriterion(t *testing.T) {
	tests := []struct {
		input   string
		want    Criterion
		wantErr bool
	}{
		{"COST", Cost, false},
		{"production_cost", Cost, false},
		{" Durability ", Durability, false},
		{"ENVIRONMENT_IMPACT", EnvironmentalImpact, false},
		{"ENVIRONMENTAL_IMPACT", EnvironmentalImpact, false},
		{"NOISE", Noise, false},
		{"SPEED", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCriterion(tt.input)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrUnknownCriterion) {
					t.Errorf("ParseCriterion(%q) error = %v, want ErrUnknownCriterion", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCriterion(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseCriterion(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestValue_Classification(t *testing.T) {
	tests := []struct {
		value    Value
		wantGood bool
		wantBad  bool
	}{
		{VeryBad, false, true},
		{Bad, false, true},
		{Average, false, false},
		{Good, true, false},
		{VeryGood, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.value.String(), func(t *testing.T) {
			if got := tt.value.IsGood(); got != tt.wantGood {
				t.Errorf("IsGood() = %v, want %v", got, tt.wantGood)
			}
			if got := tt.value.IsBad(); got != tt.wantBad {
				t.Errorf("IsBad() = %v, want %v", got, tt.wantBad)
			}
		})
	}
}

func TestParseValue(t *testing.T) {
	if v, err := ParseValue("very_good"); err != nil || v != VeryGood {
		t.Errorf("ParseValue(very_good) = %v, %v", v, err)
	}
	if v, err := ParseValue("1"); err != nil || v != Bad {
		t.Errorf("ParseValue(1) = %v, %v", v, err)
	}
	if _, err := ParseValue("EXCELLENT"); !errors.Is(err, errors.ErrUnknownValue) {
		t.Errorf("ParseValue(EXCELLENT) error = %v, want ErrUnknownValue", err)
	}
}

func TestNewItem_MissingRating(t *testing.T) {
	r := ratings(Good, Good, Good, Good, Good)
	delete(r, Noise)

	_, err := NewItem("Broken", "", r)
	if !errors.Is(err, errors.ErrMissingRating) {
		t.Errorf("NewItem() error = %v, want ErrMissingRating", err)
	}
}

func TestNewItem_EmptyName(t *testing.T) {
	_, err := NewItem("", "", ratings(Good, Good, Good, Good, Good))
	if !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("NewItem() error = %v, want ErrInvalidInput", err)
	}
}

func TestNewCatalog(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		if _, err := NewCatalog(); !errors.Is(err, errors.ErrEmptyCatalog) {
			t.Errorf("NewCatalog() error = %v, want ErrEmptyCatalog", err)
		}
	})

	t.Run("duplicate", func(t *testing.T) {
		a := MustItem("A", ratings(Good, Good, Good, Good, Good))
		b := MustItem("A", ratings(Bad, Bad, Bad, Bad, Bad))
		if _, err := NewCatalog(a, b); !errors.Is(err, errors.ErrDuplicateItem) {
			t.Errorf("NewCatalog() error = %v, want ErrDuplicateItem", err)
		}
	})

	t.Run("lookup", func(t *testing.T) {
		cat := newTestCatalog(t)
		if cat.Len() != 4 {
			t.Errorf("Len() = %d, want 4", cat.Len())
		}
		item, ok := cat.Item("Hybrid")
		if !ok || item.Value(Durability) != Good {
			t.Errorf("Item(Hybrid) = %v, %v", item, ok)
		}
		if _, ok := cat.Item("Steam"); ok {
			t.Error("Item(Steam) found, want missing")
		}
	})
}

func TestNewProfile(t *testing.T) {
	tests := []struct {
		name    string
		order   []Criterion
		wantErr error
	}{
		{"complete", []Criterion{Noise, Cost, Durability, Consumption, EnvironmentalImpact}, nil},
		{"missing", []Criterion{Noise, Cost, Durability, Consumption}, errors.ErrMissingCriterion},
		{"duplicate", []Criterion{Noise, Noise, Cost, Durability, Consumption}, errors.ErrDuplicateCriterion},
		{"unknown", []Criterion{Criterion(9)}, errors.ErrUnknownCriterion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProfile(tt.order...)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("NewProfile() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewProfile() error = %v", err)
			}
			if p.Rank(Noise) != 0 || !p.Prefers(Cost, Consumption) {
				t.Errorf("unexpected order %s", p)
			}
		})
	}
}

func TestProfile_ValidateZero(t *testing.T) {
	if err := (&Profile{}).Validate(); !errors.Is(err, errors.ErrMissingCriterion) {
		t.Errorf("Validate() error = %v, want ErrMissingCriterion", err)
	}
}

func TestRankItems_Lexicographic(t *testing.T) {
	cat := newTestCatalog(t)

	tests := []struct {
		name  string
		order []Criterion
		want  []string
	}{
		{
			name:  "consumption first",
			order: []Criterion{Consumption, Cost, Durability, EnvironmentalImpact, Noise},
			// Diesel and Electric tie on consumption; cost decides.
			want: []string{"Diesel", "Electric", "Hybrid", "Petrol"},
		},
		{
			name:  "cost first",
			order: []Criterion{Cost, Consumption, Durability, EnvironmentalImpact, Noise},
			want:  []string{"Petrol", "Diesel", "Hybrid", "Electric"},
		},
		{
			name:  "noise first",
			order: []Criterion{Noise, EnvironmentalImpact, Cost, Consumption, Durability},
			want:  []string{"Electric", "Hybrid", "Petrol", "Diesel"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranked, err := MustProfile(tt.order...).RankItems(cat)
			if err != nil {
				t.Fatalf("RankItems() error = %v", err)
			}
			got := names(ranked)
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("RankItems() = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestRankItems_TieBrokenByName(t *testing.T) {
	same := ratings(Average, Average, Average, Average, Average)
	cat, err := NewCatalog(MustItem("Zeta", same), MustItem("Alpha", same), MustItem("Mid", same))
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}

	ranked, err := MustProfile(Criteria()...).RankItems(cat)
	if err != nil {
		t.Fatalf("RankItems() error = %v", err)
	}
	got := names(ranked)
	want := []string{"Alpha", "Mid", "Zeta"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("RankItems() = %v, want %v", got, want)
		}
	}
}

func TestRankItems_EmptyCatalog(t *testing.T) {
	_, err := MustProfile(Criteria()...).RankItems(&Catalog{})
	if !errors.Is(err, errors.ErrEmptyCatalog) {
		t.Errorf("RankItems() error = %v, want ErrEmptyCatalog", err)
	}
}

func TestTopCount(t *testing.T) {
	tests := []struct {
		n        int
		fraction float64
		want     int
	}{
		{1, 0.1, 1},
		{8, 0.1, 1},
		{10, 0.1, 1},
		{11, 0.1, 2},
		{10, 0.7, 7},
		{100, 0.07, 7},
		{10, 0.70000000001, 7},
		{10, 0.70000000008, 8},
		{10, 0.25, 3},
		{3, 1, 3},
		{0, 0.5, 0},
	}

	for _, tt := range tests {
		if got := TopCount(tt.n, tt.fraction); got != tt.want {
			t.Errorf("TopCount(%d, %v) = %d, want %d", tt.n, tt.fraction, got, tt.want)
		}
	}
}

func TestTopFraction_SizeAndMonotonic(t *testing.T) {
	cat := newTestCatalog(t)
	p := MustProfile(Durability, Consumption, Cost, Noise, EnvironmentalImpact)

	prev := 0
	for _, f := range []float64{0.05, 0.1, 0.25, 0.3, 0.5, 0.75, 0.9, 1} {
		top, err := p.TopFraction(cat, f)
		if err != nil {
			t.Fatalf("TopFraction(%v) error = %v", f, err)
		}
		if len(top) != TopCount(cat.Len(), f) {
			t.Errorf("TopFraction(%v) size = %d, want %d", f, len(top), TopCount(cat.Len(), f))
		}
		if len(top) < prev {
			t.Errorf("TopFraction(%v) shrank from %d to %d", f, prev, len(top))
		}
		prev = len(top)
	}
}

func TestInTopFraction(t *testing.T) {
	cat := newTestCatalog(t)
	p := MustProfile(Cost, Consumption, Durability, EnvironmentalImpact, Noise)
	petrol, _ := cat.Item("Petrol")
	diesel, _ := cat.Item("Diesel")

	if ok, err := p.InTopFraction(cat, petrol, DefaultTopFraction); err != nil || !ok {
		t.Errorf("InTopFraction(Petrol) = %v, %v, want true", ok, err)
	}
	if ok, err := p.InTopFraction(cat, diesel, DefaultTopFraction); err != nil || ok {
		t.Errorf("InTopFraction(Diesel) = %v, %v, want false", ok, err)
	}
	if ok, _ := p.InTopFraction(cat, diesel, 0.5); !ok {
		t.Error("InTopFraction(Diesel, 0.5) = false, want true")
	}

	for _, f := range []float64{0, -0.1, 1.01} {
		if _, err := p.InTopFraction(cat, petrol, f); !errors.Is(err, errors.ErrInvalidFraction) {
			t.Errorf("InTopFraction(fraction=%v) error = %v, want ErrInvalidFraction", f, err)
		}
	}

	stranger := MustItem("Petrol", ratings(Good, Good, Good, Good, Good))
	if _, err := p.InTopFraction(cat, stranger, 0.5); !errors.Is(err, errors.ErrItemNotFound) {
		t.Errorf("InTopFraction(foreign item) error = %v, want ErrItemNotFound", err)
	}
}

func TestProfile_Score(t *testing.T) {
	p := MustProfile(Cost, Consumption, Durability, EnvironmentalImpact, Noise)
	item := MustItem("X", ratings(VeryGood, Good, Average, Bad, VeryBad))

	// 100*4 + 50*3 + 25*2 + 12.5*1 + 6.25*0
	if got, want := p.Score(item), 612.5; got != want {
		t.Errorf("Score() = %v, want %v", got, want)
	}
}

// randomCatalog builds n items with random ratings. Roughly a third of the
// items copy an earlier item's ratings under a new name, so name tie-breaks
// are exercised.
func randomCatalog(t *testing.T, rng *rand.Rand, n int) *Catalog {
	t.Helper()

	values := Values()
	items := make([]*Item, 0, n)
	for i := range n {
		r := map[Criterion]Value{}
		if i > 0 && rng.IntN(3) == 0 {
			r = items[rng.IntN(len(items))].Ratings()
		} else {
			for _, c := range Criteria() {
				r[c] = values[rng.IntN(len(values))]
			}
		}
		items = append(items, MustItem(fmt.Sprintf("Engine%02d", rng.IntN(1000)*100+i), r))
	}
	cat, err := NewCatalog(items...)
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}
	return cat
}

func randomProfile(rng *rand.Rand) *Profile {
	order := Criteria()
	rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	return MustProfile(order...)
}

func TestRankItems_TotalOrder(t *testing.T) {
	for seed := uint64(1); seed <= 50; seed++ {
		t.Run(fmt.Sprintf("seed=%d", seed), func(t *testing.T) {
			rng := rand.New(rand.NewPCG(seed, 0))
			cat := randomCatalog(t, rng, 2+rng.IntN(14))
			p := randomProfile(rng)
			items := cat.Items()

			for _, a := range items {
				for _, b := range items {
					ab, ba := p.Compare(a, b), p.Compare(b, a)
					if ab != -ba {
						t.Fatalf("Compare(%s, %s) = %d but Compare(%s, %s) = %d", a, b, ab, b, a, ba)
					}
					if a != b && ab == 0 {
						t.Fatalf("Compare(%s, %s) = 0 for distinct items", a, b)
					}
					for _, c := range items {
						if ab < 0 && p.Compare(b, c) < 0 && p.Compare(a, c) >= 0 {
							t.Fatalf("%s < %s < %s but Compare(%s, %s) = %d", a, b, c, a, c, p.Compare(a, c))
						}
					}
				}
			}

			ranked, err := p.RankItems(cat)
			if err != nil {
				t.Fatalf("RankItems() error = %v", err)
			}
			if len(ranked) != len(items) {
				t.Fatalf("RankItems() returned %d items, want %d", len(ranked), len(items))
			}
			seen := map[*Item]int{}
			for _, it := range ranked {
				seen[it]++
			}
			for _, it := range items {
				if seen[it] != 1 {
					t.Errorf("%s appears %d times in the ranking", it, seen[it])
				}
			}
			for i := 1; i < len(ranked); i++ {
				if p.Compare(ranked[i-1], ranked[i]) >= 0 {
					t.Errorf("ranking out of order at %d: %s before %s", i, ranked[i-1], ranked[i])
				}
			}
		})
	}
}
