// Package testutil provides shared fixtures for persuade tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Iron-Ham/persuade/internal/preference"
)

// Ratings builds a rating map in declaration order: cost, consumption,
// durability, environmental impact, noise.
func Ratings(cost, consumption, durability, environment, noise preference.Value) map[preference.Criterion]preference.Value {
	return map[preference.Criterion]preference.Value{
		preference.Cost:                cost,
		preference.Consumption:         consumption,
		preference.Durability:          durability,
		preference.EnvironmentalImpact: environment,
		preference.Noise:               noise,
	}
}

// Item builds an item or fails the test.
func Item(t *testing.T, name string, ratings map[preference.Criterion]preference.Value) *preference.Item {
	t.Helper()

	item, err := preference.NewItem(name, "", ratings)
	if err != nil {
		t.Fatalf("NewItem(%q) error = %v", name, err)
	}
	return item
}

// Catalog builds a catalog or fails the test.
func Catalog(t *testing.T, items ...*preference.Item) *preference.Catalog {
	t.Helper()

	cat, err := preference.NewCatalog(items...)
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}
	return cat
}

// EngineCatalog is the eight-engine catalog used by the dialogue scenario
// tests. Under AliceProfile, Engine8 ranks first and Engine5 second; under
// BobProfile, Engine5 ranks first and Engine8 last.
func EngineCatalog(t *testing.T) *preference.Catalog {
	t.Helper()

	const (
		vb = preference.VeryBad
		b  = preference.Bad
		a  = preference.Average
		g  = preference.Good
		vg = preference.VeryGood
	)
	return Catalog(t,
		Item(t, "Engine1", Ratings(a, a, b, a, a)),
		Item(t, "Engine2", Ratings(g, b, a, b, g)),
		Item(t, "Engine3", Ratings(b, g, vb, g, b)),
		Item(t, "Engine4", Ratings(vg, a, a, vb, a)),
		Item(t, "Engine5", Ratings(a, vg, g, g, b)),
		Item(t, "Engine6", Ratings(vb, b, b, vg, vg)),
		Item(t, "Engine7", Ratings(g, g, a, a, vb)),
		Item(t, "Engine8", Ratings(g, vb, vg, b, a)),
	)
}

// AliceProfile ranks durability first, then cost, then consumption.
func AliceProfile() *preference.Profile {
	return preference.MustProfile(
		preference.Durability,
		preference.Cost,
		preference.Consumption,
		preference.EnvironmentalImpact,
		preference.Noise,
	)
}

// BobProfile ranks consumption first, then environmental impact.
func BobProfile() *preference.Profile {
	return preference.MustProfile(
		preference.Consumption,
		preference.EnvironmentalImpact,
		preference.Durability,
		preference.Cost,
		preference.Noise,
	)
}

// WriteFile writes content under dir, creating parent directories, and
// returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}
