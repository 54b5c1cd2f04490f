package catalog

import (
	"fmt"
	"math/rand/v2"

	"github.com/Iron-Ham/persuade/internal/errors"
	"github.com/Iron-Ham/persuade/internal/preference"
)

// Generate builds a random dataset: items Engine1..EngineN with uniformly
// drawn values, and one shuffled criteria order per agent. The same rng
// state always yields the same dataset.
func Generate(n int, agents []string, rng *rand.Rand) (*Dataset, error) {
	if n <= 0 {
		return nil, errors.NewValidationError("number of items must be positive").
			WithField("number_items").
			WithValue(n).
			WithCause(errors.ErrEmptyCatalog)
	}
	if rng == nil {
		return nil, errors.NewValidationError("generator needs a random source").
			WithCause(errors.ErrMissingRandomSource)
	}
	if err := validateAgentNames(agents); err != nil {
		return nil, err
	}

	values := preference.Values()
	items := make([]*preference.Item, n)
	for i := range items {
		ratings := make(map[preference.Criterion]preference.Value, preference.NumCriteria)
		for _, c := range preference.Criteria() {
			ratings[c] = values[rng.IntN(len(values))]
		}
		item, err := preference.NewItem(fmt.Sprintf("Engine%d", i+1), fmt.Sprintf("Generated engine #%d", i+1), ratings)
		if err != nil {
			return nil, err
		}
		items[i] = item
	}

	cat, err := preference.NewCatalog(items...)
	if err != nil {
		return nil, err
	}
	ds := newDataset(cat, "")
	for _, name := range agents {
		ds.SetProfile(name, RandomProfile(rng))
	}
	return ds, nil
}

// RandomProfile returns a uniformly shuffled criteria order.
func RandomProfile(rng *rand.Rand) *preference.Profile {
	order := preference.Criteria()
	rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	return preference.MustProfile(order...)
}
