package catalog

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Iron-Ham/persuade/internal/preference"
	"github.com/Iron-Ham/persuade/internal/testutil"
)

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "engines.yaml", catalogYAML)

	w, err := NewWatcher(path, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer func() { _ = w.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	reloaded := make(chan *Dataset, 4)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(ds *Dataset, err error) {
			if err == nil {
				reloaded <- ds
			}
		})
	}()

	// Unrelated files in the same directory are ignored.
	testutil.WriteFile(t, dir, "notes.txt", "hello")

	updated := strings.Replace(catalogYAML, "name: Electric", "name: Hydrogen", 1)
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		t.Fatalf("rewrite catalog: %v", err)
	}

	select {
	case ds := <-reloaded:
		if _, ok := ds.Catalog.Item("Hydrogen"); !ok {
			t.Errorf("reloaded catalog missing Hydrogen: %v", itemNames(ds.Catalog))
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for reload")
	}

	cancel()
	if err := <-done; err != context.Canceled {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestWatcher_PicksUpNewAgentDirectory(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, ValuesFile, valuesCSV)
	testutil.WriteFile(t, dir, filepath.Join("Alice", CriteriaFile), "1,COST\n2,DURABILITY\n3,CONSUMPTION\n4,NOISE\n5,ENVIRONMENTAL_IMPACT\n")
	testutil.WriteFile(t, dir, filepath.Join("Bob", CriteriaFile), "1,NOISE\n2,ENVIRONMENTAL_IMPACT\n3,CONSUMPTION\n4,DURABILITY\n5,COST\n")

	w, err := NewWatcher(dir, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer func() { _ = w.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	reloaded := make(chan *Dataset, 16)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(ds *Dataset, err error) {
			if err == nil {
				select {
				case reloaded <- ds:
				default:
				}
			}
		})
	}()

	if err := os.Mkdir(filepath.Join(dir, "Carol"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	// Give the watcher time to register the new directory, then write into it.
	time.Sleep(100 * time.Millisecond)
	testutil.WriteFile(t, dir, filepath.Join("Carol", CriteriaFile), "1,DURABILITY\n2,COST\n3,NOISE\n4,CONSUMPTION\n5,ENVIRONMENTAL_IMPACT\n")

	for {
		select {
		case ds := <-reloaded:
			if !ds.HasProfile("Carol") {
				continue
			}
			p, err := ds.Profile("Carol")
			if err != nil {
				t.Fatalf("Profile(Carol) error = %v", err)
			}
			if got := p.Order()[0]; got != preference.Durability {
				t.Errorf("Carol's first criterion = %v, want DURABILITY", got)
			}
			cancel()
			if err := <-done; err != context.Canceled {
				t.Errorf("Run() error = %v, want context.Canceled", err)
			}
			return
		case <-ctx.Done():
			t.Fatal("timed out waiting for a reload with Carol")
		}
	}
}

func TestNewWatcher_MissingPath(t *testing.T) {
	if _, err := NewWatcher(filepath.Join(t.TempDir(), "missing.yaml"), 0); err == nil {
		t.Error("NewWatcher() on a missing path should fail")
	}
}
