package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete persuade configuration
type Config struct {
	Dialogue DialogueConfig `mapstructure:"dialogue" yaml:"dialogue"`
	Catalog  CatalogConfig  `mapstructure:"catalog" yaml:"catalog"`
	Agents   []AgentConfig  `mapstructure:"agents" yaml:"agents"`
	Trace    TraceConfig    `mapstructure:"trace" yaml:"trace"`
	Batch    BatchConfig    `mapstructure:"batch" yaml:"batch"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
	Paths    PathsConfig    `mapstructure:"paths" yaml:"paths"`
}

// DialogueConfig controls how a single dialogue runs
type DialogueConfig struct {
	// ProbAcceptItem is the chance an agent accepts the contested item when it
	// has no rebuttal left (default: 0.5)
	ProbAcceptItem float64 `mapstructure:"prob_accept_item" yaml:"prob_accept_item"`
	// TopFraction is the share of an agent's ranking it will accept (default: 0.1)
	TopFraction float64 `mapstructure:"top_fraction" yaml:"top_fraction"`
	// MaxMessages ends the dialogue in a forced impasse (default: 200)
	MaxMessages int `mapstructure:"max_messages" yaml:"max_messages"`
	// FirstAgent names the agent that proposes first; empty means the first
	// configured agent
	FirstAgent string `mapstructure:"first_agent" yaml:"first_agent"`
	// DrawMode is "per_event" or "per_dialogue" (default: "per_event")
	DrawMode string `mapstructure:"draw_mode" yaml:"draw_mode"`
	// Seed drives the acceptance draws (default: 1)
	Seed uint64 `mapstructure:"seed" yaml:"seed"`
}

// CatalogConfig controls where items come from
type CatalogConfig struct {
	// Path is a YAML or CSV file or a values.csv directory. Empty generates
	// a random catalog.
	Path string `mapstructure:"path" yaml:"path"`
	// NumberItems is the size of a generated catalog (default: 10)
	NumberItems int `mapstructure:"number_items" yaml:"number_items"`
	// Seed drives catalog generation (default: 1)
	Seed uint64 `mapstructure:"seed" yaml:"seed"`
}

// AgentConfig names an agent and optionally fixes its criteria order
type AgentConfig struct {
	Name string `mapstructure:"name" yaml:"name"`
	// Criteria is the importance order, most important first. Empty uses the
	// catalog's order for this agent, or a random one.
	Criteria []string `mapstructure:"criteria" yaml:"criteria"`
}

// TraceConfig controls dialogue output
type TraceConfig struct {
	// Format is "text" or "json" (default: "text")
	Format string `mapstructure:"format" yaml:"format"`
	// Color is "auto", "always" or "never" (default: "auto")
	Color string `mapstructure:"color" yaml:"color"`
	// Verbose also prints exhaustion decisions (default: false)
	Verbose bool `mapstructure:"verbose" yaml:"verbose"`
	// Record stores every message in the state directory mailbox (default: false)
	Record bool `mapstructure:"record" yaml:"record"`
}

// BatchConfig controls simulation batches
type BatchConfig struct {
	// Runs is the number of dialogues (default: 100)
	Runs int `mapstructure:"runs" yaml:"runs"`
	// Parallelism bounds concurrent dialogues (default: 4)
	Parallelism int `mapstructure:"parallelism" yaml:"parallelism"`
	// Catalogs is a comma-separated list of glob patterns; empty generates
	// a catalog per run
	Catalogs string `mapstructure:"catalogs" yaml:"catalogs"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled writes a debug log in the state directory (default: true)
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level" yaml:"level"`
}

// PathsConfig controls where persuade stores data
type PathsConfig struct {
	// StateDir holds recorded mailboxes and the debug log.
	// Relative paths resolve against the working directory.
	// Supports ~ for home directory expansion.
	StateDir string `mapstructure:"state_dir" yaml:"state_dir"`
}

// DefaultStateDir is used when paths.state_dir is empty.
const DefaultStateDir = ".persuade"

// ResolveStateDir returns the resolved state directory path.
// If StateDir is empty, it returns the default path relative to baseDir.
// If StateDir starts with ~, it expands to the user's home directory.
// If StateDir is a relative path, it's resolved relative to baseDir.
func (p *PathsConfig) ResolveStateDir(baseDir string) string {
	path := p.StateDir
	if path == "" {
		path = DefaultStateDir
	}

	// Expand ~ to home directory
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}

	return path
}

// CatalogPatterns splits Catalogs into its glob patterns.
func (b *BatchConfig) CatalogPatterns() []string {
	var patterns []string
	for _, p := range strings.Split(b.Catalogs, ",") {
		if p = strings.TrimSpace(p); p != "" {
			patterns = append(patterns, p)
		}
	}
	return patterns
}

// AgentNames returns the configured agent names in order.
func (c *Config) AgentNames() []string {
	names := make([]string, len(c.Agents))
	for i, a := range c.Agents {
		names[i] = a.Name
	}
	return names
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Dialogue: DialogueConfig{
			ProbAcceptItem: 0.5,
			TopFraction:    0.1,
			MaxMessages:    200,
			FirstAgent:     "", // Empty means the first configured agent
			DrawMode:       "per_event",
			Seed:           1,
		},
		Catalog: CatalogConfig{
			Path:        "", // Empty means generate
			NumberItems: 10,
			Seed:        1,
		},
		Agents: []AgentConfig{
			{Name: "Alice", Criteria: []string{}},
			{Name: "Bob", Criteria: []string{}},
		},
		Trace: TraceConfig{
			Format:  "text",
			Color:   "auto",
			Verbose: false,
			Record:  false,
		},
		Batch: BatchConfig{
			Runs:        100,
			Parallelism: 4,
			Catalogs:    "",
		},
		Logging: LoggingConfig{
			Enabled: true,
			Level:   "info",
		},
		Paths: PathsConfig{
			StateDir: DefaultStateDir,
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Dialogue defaults
	viper.SetDefault("dialogue.prob_accept_item", defaults.Dialogue.ProbAcceptItem)
	viper.SetDefault("dialogue.top_fraction", defaults.Dialogue.TopFraction)
	viper.SetDefault("dialogue.max_messages", defaults.Dialogue.MaxMessages)
	viper.SetDefault("dialogue.first_agent", defaults.Dialogue.FirstAgent)
	viper.SetDefault("dialogue.draw_mode", defaults.Dialogue.DrawMode)
	viper.SetDefault("dialogue.seed", defaults.Dialogue.Seed)

	// Catalog defaults
	viper.SetDefault("catalog.path", defaults.Catalog.Path)
	viper.SetDefault("catalog.number_items", defaults.Catalog.NumberItems)
	viper.SetDefault("catalog.seed", defaults.Catalog.Seed)

	// Agent defaults, as plain maps so mapstructure decodes them like file values
	agents := make([]map[string]any, len(defaults.Agents))
	for i, a := range defaults.Agents {
		agents[i] = map[string]any{"name": a.Name, "criteria": a.Criteria}
	}
	viper.SetDefault("agents", agents)

	// Trace defaults
	viper.SetDefault("trace.format", defaults.Trace.Format)
	viper.SetDefault("trace.color", defaults.Trace.Color)
	viper.SetDefault("trace.verbose", defaults.Trace.Verbose)
	viper.SetDefault("trace.record", defaults.Trace.Record)

	// Batch defaults
	viper.SetDefault("batch.runs", defaults.Batch.Runs)
	viper.SetDefault("batch.parallelism", defaults.Batch.Parallelism)
	viper.SetDefault("batch.catalogs", defaults.Batch.Catalogs)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)

	// Paths defaults
	viper.SetDefault("paths.state_dir", defaults.Paths.StateDir)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Validate the configuration
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "persuade")
	}
	// Fall back to ~/.config/persuade
	home, err := os.UserHomeDir()
	if err != nil {
		return ".persuade"
	}
	return filepath.Join(home, ".config", "persuade")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
