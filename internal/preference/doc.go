// Package preference models the property domain, the item catalog and each
// agent's private preference profile.
//
// A Profile is a strict order over the five criteria. Items are ranked under
// a profile lexicographically: the most important criterion decides first,
// ties fall through to the next one, and items equal on every criterion are
// ordered by name so that every ranking is total and deterministic.
//
// # Top Fraction
//
// An agent accepts an item outright when it sits in the best ceil(f*N) items
// of its own ranking, where N is the catalog size and f lies in (0, 1]:
//
//	ok, err := profile.InTopFraction(catalog, item, preference.DefaultTopFraction)
//
// All types here are immutable after construction and safe for concurrent
// use.
package preference
