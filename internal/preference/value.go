package preference

import (
	"fmt"
	"strings"

	"github.com/Iron-Ham/persuade/internal/errors"
)

// Value is an item's rating on one criterion. Values are totally ordered from
// VeryBad to VeryGood.
type Value int

const (
	VeryBad Value = iota
	Bad
	Average
	Good
	VeryGood
)

var valueNames = [...]string{
	VeryBad:  "VERY_BAD",
	Bad:      "BAD",
	Average:  "AVERAGE",
	Good:     "GOOD",
	VeryGood: "VERY_GOOD",
}

// Values returns every value from worst to best.
func Values() []Value {
	return []Value{VeryBad, Bad, Average, Good, VeryGood}
}

// Valid reports whether v is a known value.
func (v Value) Valid() bool {
	return v >= VeryBad && v <= VeryGood
}

// IsGood reports whether the value can support an item.
func (v Value) IsGood() bool {
	return v >= Good
}

// IsBad reports whether the value can be used against an item.
func (v Value) IsBad() bool {
	return v <= Bad
}

// String returns the canonical upper-case name.
func (v Value) String() string {
	if !v.Valid() {
		return fmt.Sprintf("Value(%d)", int(v))
	}
	return valueNames[v]
}

// ParseValue parses a value name, ignoring case and surrounding space. The
// numeric forms 0 through 4 are accepted too.
func ParseValue(s string) (Value, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for i, n := range valueNames {
		if n == name {
			return Value(i), nil
		}
	}
	if len(name) == 1 && name[0] >= '0' && name[0] <= '4' {
		return Value(name[0] - '0'), nil
	}
	return 0, fmt.Errorf("%w: %q", errors.ErrUnknownValue, s)
}

// MarshalText implements encoding.TextMarshaler.
func (v Value) MarshalText() ([]byte, error) {
	if !v.Valid() {
		return nil, fmt.Errorf("%w: %d", errors.ErrUnknownValue, int(v))
	}
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Value) UnmarshalText(text []byte) error {
	parsed, err := ParseValue(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
