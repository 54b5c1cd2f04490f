package preference

import (
	"fmt"
	"strings"

	"github.com/Iron-Ham/persuade/internal/errors"
)

// Criterion is one of the fixed properties every engine is rated on.
type Criterion int

const (
	Cost Criterion = iota
	Consumption
	Durability
	EnvironmentalImpact
	Noise
)

// NumCriteria is the size of the property domain.
const NumCriteria = 5

var criterionNames = [NumCriteria]string{
	Cost:                "COST",
	Consumption:         "CONSUMPTION",
	Durability:          "DURABILITY",
	EnvironmentalImpact: "ENVIRONMENTAL_IMPACT",
	Noise:               "NOISE",
}

// Older datasets spell two of the criteria differently.
var criterionAliases = map[string]Criterion{
	"PRODUCTION_COST":    Cost,
	"ENVIRONMENT_IMPACT": EnvironmentalImpact,
}

// Criteria returns every criterion in declaration order.
func Criteria() []Criterion {
	return []Criterion{Cost, Consumption, Durability, EnvironmentalImpact, Noise}
}

// Valid reports whether c is a known criterion.
func (c Criterion) Valid() bool {
	return c >= 0 && c < NumCriteria
}

// String returns the canonical upper-case name.
func (c Criterion) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Criterion(%d)", int(c))
	}
	return criterionNames[c]
}

// ParseCriterion parses a criterion name, ignoring case and surrounding space.
func ParseCriterion(s string) (Criterion, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for i, n := range criterionNames {
		if n == name {
			return Criterion(i), nil
		}
	}
	if c, ok := criterionAliases[name]; ok {
		return c, nil
	}
	return 0, fmt.Errorf("%w: %q", errors.ErrUnknownCriterion, s)
}

// MarshalText implements encoding.TextMarshaler.
func (c Criterion) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", errors.ErrUnknownCriterion, int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Criterion) UnmarshalText(text []byte) error {
	parsed, err := ParseCriterion(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
