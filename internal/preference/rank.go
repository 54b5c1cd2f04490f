package preference

import (
	"math"
	"slices"
	"strings"

	"github.com/Iron-Ham/persuade/internal/errors"
)

// DefaultTopFraction is the share of the ranking an agent accepts outright.
const DefaultTopFraction = 0.10

// Compare orders two items under p: negative when a ranks above b. Criteria
// are scanned most important first and the first differing value decides.
// Items equal on every criterion fall back to name order.
func (p *Profile) Compare(a, b *Item) int {
	for _, c := range p.order {
		va, vb := a.Value(c), b.Value(c)
		if va != vb {
			if va > vb {
				return -1
			}
			return 1
		}
	}
	return strings.Compare(a.Name(), b.Name())
}

// RankItems returns the catalog items best first.
func (p *Profile) RankItems(cat *Catalog) ([]*Item, error) {
	if cat.Len() == 0 {
		return nil, errors.ErrEmptyCatalog
	}
	items := cat.Items()
	slices.SortStableFunc(items, p.Compare)
	return items, nil
}

// ValidateFraction checks that fraction lies in (0, 1].
func ValidateFraction(fraction float64) error {
	if math.IsNaN(fraction) || fraction <= 0 || fraction > 1 {
		return errors.NewValidationError("top fraction out of range").
			WithField("top_fraction").
			WithValue(fraction).
			WithCause(errors.ErrInvalidFraction)
	}
	return nil
}

// TopCount returns ceil(fraction * n), clamped to [1, n] for n > 0. The
// product is rounded to nine decimal places first, so 0.7*10 (which is
// 7.000000000000001 in floating point) counts 7 items.
func TopCount(n int, fraction float64) int {
	if n <= 0 {
		return 0
	}
	k := int(math.Ceil(math.Round(fraction*float64(n)*1e9) / 1e9))
	return max(1, min(k, n))
}

// TopFraction returns the best ceil(fraction * N) items under p.
func (p *Profile) TopFraction(cat *Catalog, fraction float64) ([]*Item, error) {
	if err := ValidateFraction(fraction); err != nil {
		return nil, err
	}
	ranked, err := p.RankItems(cat)
	if err != nil {
		return nil, err
	}
	return ranked[:TopCount(len(ranked), fraction)], nil
}

// InTopFraction reports whether item is among the best ceil(fraction * N)
// catalog items under p.
func (p *Profile) InTopFraction(cat *Catalog, item *Item, fraction float64) (bool, error) {
	top, err := p.TopFraction(cat, fraction)
	if err != nil {
		return false, err
	}
	if !cat.Contains(item) {
		name := "<nil>"
		if item != nil {
			name = item.Name()
		}
		return false, errors.NewNotFoundError("item", name).WithCause(errors.ErrItemNotFound)
	}
	return slices.Contains(top, item), nil
}
