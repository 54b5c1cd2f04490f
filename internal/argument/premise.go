package argument

import (
	"fmt"
	"strings"

	"github.com/Iron-Ham/persuade/internal/errors"
	"github.com/Iron-Ham/persuade/internal/preference"
)

// Premise is one justification inside an argument: either a value premise
// ("DURABILITY=VERY_GOOD") or a comparison premise ("DURABILITY>NOISE").
// The text form doubles as the premise's identity.
type Premise struct {
	Criterion  preference.Criterion
	Value      preference.Value
	Worse      preference.Criterion
	Comparison bool
}

// ValuePremise states that the contested item has value v on c.
func ValuePremise(c preference.Criterion, v preference.Value) Premise {
	return Premise{Criterion: c, Value: v}
}

// ComparisonPremise states that better matters more than worse to the
// speaker.
func ComparisonPremise(better, worse preference.Criterion) Premise {
	return Premise{Criterion: better, Worse: worse, Comparison: true}
}

// String returns the wire form.
func (p Premise) String() string {
	if p.Comparison {
		return fmt.Sprintf("%s>%s", p.Criterion, p.Worse)
	}
	return fmt.Sprintf("%s=%s", p.Criterion, p.Value)
}

// ParsePremise reads the wire form back.
func ParsePremise(s string) (Premise, error) {
	s = strings.TrimSpace(s)
	if left, right, ok := strings.Cut(s, ">"); ok {
		better, err := preference.ParseCriterion(left)
		if err != nil {
			return Premise{}, err
		}
		worse, err := preference.ParseCriterion(right)
		if err != nil {
			return Premise{}, err
		}
		return ComparisonPremise(better, worse), nil
	}
	if left, right, ok := strings.Cut(s, "="); ok {
		c, err := preference.ParseCriterion(left)
		if err != nil {
			return Premise{}, err
		}
		v, err := preference.ParseValue(right)
		if err != nil {
			return Premise{}, err
		}
		return ValuePremise(c, v), nil
	}
	return Premise{}, fmt.Errorf("%w: premise %q", errors.ErrMalformedArgument, s)
}

// MarshalText implements encoding.TextMarshaler.
func (p Premise) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Premise) UnmarshalText(text []byte) error {
	parsed, err := ParsePremise(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// PremiseSet records premises already exchanged about one item.
// The zero value is not usable; call NewPremiseSet.
type PremiseSet struct {
	seen map[string]struct{}
}

// NewPremiseSet returns an empty set.
func NewPremiseSet() *PremiseSet {
	return &PremiseSet{seen: make(map[string]struct{})}
}

// Add records premises.
func (s *PremiseSet) Add(premises ...Premise) {
	for _, p := range premises {
		s.seen[p.String()] = struct{}{}
	}
}

// Contains reports whether p was recorded. A nil set contains nothing.
func (s *PremiseSet) Contains(p Premise) bool {
	if s == nil {
		return false
	}
	_, ok := s.seen[p.String()]
	return ok
}

// Len returns the number of distinct premises recorded.
func (s *PremiseSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.seen)
}
