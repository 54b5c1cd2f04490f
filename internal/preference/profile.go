package preference

import (
	"fmt"
	"strings"

	"github.com/Iron-Ham/persuade/internal/errors"
)

// Profile is an agent's private importance order over the criteria, most
// important first. It is immutable once built.
type Profile struct {
	order []Criterion
	rank  [NumCriteria]int
}

// NewProfile builds a profile. Every criterion must appear exactly once.
func NewProfile(order ...Criterion) (*Profile, error) {
	p := &Profile{order: make([]Criterion, 0, NumCriteria)}
	var seen [NumCriteria]bool
	for i, c := range order {
		if !c.Valid() {
			return nil, errors.NewValidationError("profile names an unknown criterion").
				WithValue(int(c)).
				WithCause(errors.ErrUnknownCriterion)
		}
		if seen[c] {
			return nil, errors.NewValidationError(fmt.Sprintf("%s listed twice", c)).
				WithField("criteria").
				WithCause(errors.ErrDuplicateCriterion)
		}
		seen[c] = true
		p.order = append(p.order, c)
		p.rank[c] = i
	}
	for _, c := range Criteria() {
		if !seen[c] {
			return nil, errors.NewValidationError(fmt.Sprintf("%s not ranked", c)).
				WithField("criteria").
				WithCause(errors.ErrMissingCriterion)
		}
	}
	return p, nil
}

// MustProfile is NewProfile for fixtures; it panics on invalid input.
func MustProfile(order ...Criterion) *Profile {
	p, err := NewProfile(order...)
	if err != nil {
		panic(err)
	}
	return p
}

// ParseProfile builds a profile from criterion names.
func ParseProfile(names []string) (*Profile, error) {
	order := make([]Criterion, 0, len(names))
	for _, n := range names {
		c, err := ParseCriterion(n)
		if err != nil {
			return nil, err
		}
		order = append(order, c)
	}
	return NewProfile(order...)
}

// Validate reports whether p is a complete order. A zero Profile is invalid.
func (p *Profile) Validate() error {
	if p == nil || len(p.order) != NumCriteria {
		return errors.NewValidationError("profile must order every criterion").
			WithCause(errors.ErrMissingCriterion)
	}
	return nil
}

// Order returns the criteria most important first. The slice is a copy.
func (p *Profile) Order() []Criterion {
	out := make([]Criterion, len(p.order))
	copy(out, p.order)
	return out
}

// Rank returns c's position in the order; 0 is the most important.
func (p *Profile) Rank(c Criterion) int {
	return p.rank[c]
}

// Prefers reports whether a is strictly more important than b.
func (p *Profile) Prefers(a, b Criterion) bool {
	return p.rank[a] < p.rank[b]
}

// Score is a weighted sum of an item's values, halving each criterion's
// weight down the order. It is informational; rankings use Compare.
func (p *Profile) Score(item *Item) float64 {
	var score float64
	weight := 100.0
	for _, c := range p.order {
		score += weight * float64(item.Value(c))
		weight /= 2
	}
	return score
}

// String renders the order as "A > B > C".
func (p *Profile) String() string {
	names := make([]string, len(p.order))
	for i, c := range p.order {
		names[i] = c.String()
	}
	return strings.Join(names, " > ")
}
