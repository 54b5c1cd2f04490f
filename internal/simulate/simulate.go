package simulate

import (
	"context"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/sourcegraph/conc/pool"

	"github.com/Iron-Ham/persuade/internal/catalog"
	"github.com/Iron-Ham/persuade/internal/dialogue"
	"github.com/Iron-Ham/persuade/internal/errors"
	"github.com/Iron-Ham/persuade/internal/preference"
)

// Defaults for batch runs.
const (
	DefaultRuns        = 100
	DefaultParallelism = 4
	DefaultItems       = 10
)

// Options configures a batch.
type Options struct {
	Runs        int
	Parallelism int
	Items       int    // catalog size when generating
	Seed        uint64 // base seed; run i uses PCG(Seed, i)
	Config      dialogue.Config
	Agents      [2]string
	// Profiles overrides criteria orders by agent name. Agents without an
	// override use the catalog's profile, or a random one.
	Profiles map[string][]string
	// Catalogs lists catalog files or directories. Runs cycle through them;
	// when empty every run generates its own catalog.
	Catalogs []string
	// OnResult, when set, is called after each run. Calls are serialized.
	OnResult func(RunResult)
}

// RunResult is the outcome of one dialogue in a batch.
type RunResult struct {
	Index      int
	DialogueID string
	Catalog    string // source path, empty when generated
	Messages   int
	Outcome    dialogue.Outcome
}

// DefaultOptions returns a batch of generated catalogs between Alice and Bob.
func DefaultOptions() Options {
	return Options{
		Runs:        DefaultRuns,
		Parallelism: DefaultParallelism,
		Items:       DefaultItems,
		Seed:        1,
		Config:      dialogue.DefaultConfig(),
		Agents:      [2]string{"Alice", "Bob"},
	}
}

// Validate reports invalid batch settings.
func (o Options) Validate() error {
	if o.Runs <= 0 {
		return errors.NewValidationError("runs must be positive").WithField("batch.runs").WithValue(o.Runs)
	}
	if o.Parallelism <= 0 {
		return errors.NewValidationError("parallelism must be positive").WithField("batch.parallelism").WithValue(o.Parallelism)
	}
	if len(o.Catalogs) == 0 && o.Items <= 0 {
		return errors.NewValidationError("number of items must be positive").
			WithField("catalog.number_items").
			WithValue(o.Items).
			WithCause(errors.ErrEmptyCatalog)
	}
	if o.Agents[0] == "" || o.Agents[1] == "" {
		return errors.NewValidationError("two agent names are required").WithField("agents")
	}
	if o.Agents[0] == o.Agents[1] {
		return errors.NewValidationError("agent names must differ").
			WithValue(o.Agents[0]).
			WithCause(errors.ErrDuplicateAgent)
	}
	return o.Config.Validate()
}

// Run executes the batch on a bounded pool. The first failing run cancels
// the rest.
func Run(ctx context.Context, engine *dialogue.Engine, opts Options) (*Report, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	datasets := make([]*catalog.Dataset, 0, len(opts.Catalogs))
	for _, path := range opts.Catalogs {
		ds, err := catalog.Load(path)
		if err != nil {
			return nil, err
		}
		datasets = append(datasets, ds)
	}

	var notify sync.Mutex
	p := pool.NewWithResults[RunResult]().
		WithContext(ctx).
		WithMaxGoroutines(opts.Parallelism).
		WithCancelOnError()

	for i := range opts.Runs {
		p.Go(func(ctx context.Context) (RunResult, error) {
			res, err := runOne(ctx, engine, opts, datasets, i)
			if err != nil {
				return RunResult{}, err
			}
			if opts.OnResult != nil {
				notify.Lock()
				opts.OnResult(res)
				notify.Unlock()
			}
			return res, nil
		})
	}

	results, err := p.Wait()
	if err != nil {
		return nil, err
	}
	slices.SortFunc(results, func(a, b RunResult) int { return a.Index - b.Index })
	return newReport(results), nil
}

func runOne(ctx context.Context, engine *dialogue.Engine, opts Options, datasets []*catalog.Dataset, i int) (RunResult, error) {
	rng := rand.New(rand.NewPCG(opts.Seed, uint64(i)))

	var ds *catalog.Dataset
	if len(datasets) > 0 {
		ds = datasets[i%len(datasets)]
	} else {
		generated, err := catalog.Generate(opts.Items, opts.Agents[:], rng)
		if err != nil {
			return RunResult{}, err
		}
		ds = generated
	}

	var participants [2]dialogue.Participant
	for k, name := range opts.Agents {
		part, err := participant(ds, name, opts.Profiles[name], rng)
		if err != nil {
			return RunResult{}, errors.Wrapf(err, "run %d", i)
		}
		participants[k] = part
	}

	result, err := engine.Run(ctx, ds.Catalog, participants[0], participants[1], opts.Config, rng)
	if err != nil {
		return RunResult{}, errors.Wrapf(err, "run %d", i)
	}
	return RunResult{
		Index:      i,
		DialogueID: result.ID,
		Catalog:    ds.Source,
		Messages:   len(result.Messages),
		Outcome:    result.Outcome,
	}, nil
}

// participant picks the override, then the dataset's profile, then a random
// order. Datasets are shared between runs, so overrides are not stored.
func participant(ds *catalog.Dataset, name string, override []string, rng *rand.Rand) (dialogue.Participant, error) {
	if len(override) > 0 {
		p, err := preference.ParseProfile(override)
		if err != nil {
			return dialogue.Participant{}, errors.Wrapf(err, "criteria for %s", name)
		}
		return dialogue.Participant{Name: name, Profile: p}, nil
	}
	if ds.HasProfile(name) {
		return ds.Participant(name)
	}
	return dialogue.Participant{Name: name, Profile: catalog.RandomProfile(rng)}, nil
}

// ExpandCatalogs resolves glob patterns (with ** support) to catalog paths:
// YAML and CSV files, and directories holding a values.csv. Results are
// sorted and deduplicated.
func ExpandCatalogs(patterns ...string) ([]string, error) {
	seen := make(map[string]bool)
	var paths, used []string
	for _, pattern := range patterns {
		if strings.TrimSpace(pattern) == "" {
			continue
		}
		used = append(used, pattern)
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, errors.NewValidationError("invalid catalog pattern").
				WithField("batch.catalogs").
				WithValue(pattern).
				WithCause(err)
		}
		for _, m := range matches {
			if seen[m] || !isCatalog(m) {
				continue
			}
			seen[m] = true
			paths = append(paths, m)
		}
	}
	slices.Sort(paths)
	if len(paths) == 0 && len(used) > 0 {
		return nil, errors.NewNotFoundError("catalog", strings.Join(used, ", "))
	}
	return paths, nil
}

func isCatalog(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if info.IsDir() {
		_, err := os.Stat(filepath.Join(path, catalog.ValuesFile))
		return err == nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".csv":
		return true
	}
	return false
}
