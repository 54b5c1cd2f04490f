package cmd

import (
	"fmt"
	"io"
	"math/rand/v2"
	"os"

	"github.com/Iron-Ham/persuade/internal/catalog"
	"github.com/Iron-Ham/persuade/internal/config"
	"github.com/Iron-Ham/persuade/internal/dialogue"
	"github.com/Iron-Ham/persuade/internal/logging"
	"github.com/Iron-Ham/persuade/internal/trace"
)

// env is the loaded configuration plus the resources derived from it.
type env struct {
	cfg      *config.Config
	stateDir string
	logger   *logging.Logger
}

// loadEnv reads and validates the configuration, then opens the debug log.
// A log that cannot be opened is reported on stderr and replaced by a no-op
// logger.
func loadEnv(stderr io.Writer) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	e := &env{
		cfg:      cfg,
		stateDir: cfg.Paths.ResolveStateDir(cwd),
		logger:   logging.NopLogger(),
	}

	if cfg.Logging.Enabled {
		logger, err := logging.NewLogger(e.stateDir, cfg.Logging.Level)
		if err != nil {
			fmt.Fprintf(stderr, "Warning: debug logging disabled: %v\n", err)
		} else {
			e.logger = logger
		}
	}
	return e, nil
}

func (e *env) close() {
	_ = e.logger.Close()
}

// dialogueConfig converts the dialogue section into engine settings.
func (e *env) dialogueConfig() dialogue.Config {
	d := e.cfg.Dialogue
	return dialogue.Config{
		FirstAgent:     d.FirstAgent,
		ProbAcceptItem: d.ProbAcceptItem,
		TopFraction:    d.TopFraction,
		MaxMessages:    d.MaxMessages,
		DrawMode:       dialogue.DrawMode(d.DrawMode),
	}
}

// traceOptions converts the trace section into renderer options.
func (e *env) traceOptions() trace.Options {
	return trace.Options{
		Format:  trace.Format(e.cfg.Trace.Format),
		Color:   trace.ColorMode(e.cfg.Trace.Color),
		Verbose: e.cfg.Trace.Verbose,
	}
}

// dialogueRNG returns the random source for acceptance draws.
func (e *env) dialogueRNG() *rand.Rand {
	return rand.New(rand.NewPCG(e.cfg.Dialogue.Seed, 0))
}

// loadDataset reads the configured catalog, or generates one when no path is
// set, then applies the configured criteria orders.
func (e *env) loadDataset() (*catalog.Dataset, error) {
	var (
		ds  *catalog.Dataset
		err error
	)
	if path := e.cfg.Catalog.Path; path != "" {
		ds, err = catalog.Load(path)
	} else {
		ds, err = catalog.Generate(e.cfg.Catalog.NumberItems, e.cfg.AgentNames(), e.catalogRNG())
	}
	if err != nil {
		return nil, err
	}
	return ds, e.applyProfiles(ds)
}

func (e *env) catalogRNG() *rand.Rand {
	return rand.New(rand.NewPCG(e.cfg.Catalog.Seed, 0))
}

// applyProfiles installs configured criteria orders, and random ones for
// agents the catalog does not describe.
func (e *env) applyProfiles(ds *catalog.Dataset) error {
	rng := rand.New(rand.NewPCG(e.cfg.Catalog.Seed, 1))
	for _, agent := range e.cfg.Agents {
		if err := ds.WithProfile(agent.Name, agent.Criteria); err != nil {
			return err
		}
		if !ds.HasProfile(agent.Name) {
			ds.SetProfile(agent.Name, catalog.RandomProfile(rng))
		}
	}
	return nil
}

// participants returns the two configured agents in configuration order.
func (e *env) participants(ds *catalog.Dataset) (dialogue.Participant, dialogue.Participant, error) {
	names := e.cfg.AgentNames()
	a, err := ds.Participant(names[0])
	if err != nil {
		return dialogue.Participant{}, dialogue.Participant{}, err
	}
	b, err := ds.Participant(names[1])
	if err != nil {
		return dialogue.Participant{}, dialogue.Participant{}, err
	}
	return a, b, nil
}

// profileOverrides returns the configured criteria orders by agent name.
func (e *env) profileOverrides() map[string][]string {
	overrides := make(map[string][]string)
	for _, agent := range e.cfg.Agents {
		if len(agent.Criteria) > 0 {
			overrides[agent.Name] = agent.Criteria
		}
	}
	return overrides
}
