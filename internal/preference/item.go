package preference

import (
	"fmt"

	"github.com/Iron-Ham/persuade/internal/errors"
)

// DefaultDescription is used for items loaded without one.
const DefaultDescription = "No description."

// Item is an immutable catalog entry with exactly one value per criterion.
type Item struct {
	name        string
	description string
	ratings     [NumCriteria]Value
}

// NewItem builds an item. Every criterion must be rated.
func NewItem(name, description string, ratings map[Criterion]Value) (*Item, error) {
	if name == "" {
		return nil, errors.NewValidationError("item name cannot be empty").WithField("name")
	}
	item := &Item{name: name, description: description}
	for _, c := range Criteria() {
		v, ok := ratings[c]
		if !ok {
			return nil, errors.NewValidationError(fmt.Sprintf("item %q has no %s rating", name, c)).
				WithField(c.String()).
				WithCause(errors.ErrMissingRating)
		}
		if !v.Valid() {
			return nil, errors.NewValidationError(fmt.Sprintf("item %q has an invalid %s rating", name, c)).
				WithField(c.String()).
				WithValue(int(v)).
				WithCause(errors.ErrUnknownValue)
		}
		item.ratings[c] = v
	}
	for c := range ratings {
		if !c.Valid() {
			return nil, errors.NewValidationError(fmt.Sprintf("item %q rates an unknown criterion", name)).
				WithValue(int(c)).
				WithCause(errors.ErrUnknownCriterion)
		}
	}
	return item, nil
}

// MustItem is NewItem for fixtures; it panics on invalid input.
func MustItem(name string, ratings map[Criterion]Value) *Item {
	item, err := NewItem(name, "", ratings)
	if err != nil {
		panic(err)
	}
	return item
}

// Name returns the item's unique name.
func (i *Item) Name() string { return i.name }

// Description returns the free-text description.
func (i *Item) Description() string { return i.description }

// Value returns the item's rating on c.
func (i *Item) Value(c Criterion) Value { return i.ratings[c] }

// Ratings returns a copy of all ratings keyed by criterion.
func (i *Item) Ratings() map[Criterion]Value {
	out := make(map[Criterion]Value, NumCriteria)
	for _, c := range Criteria() {
		out[c] = i.ratings[c]
	}
	return out
}

// String returns the item name.
func (i *Item) String() string { return i.name }
