package config

import (
	"strings"
	"testing"
)

func TestValidationError_Error(t *testing.T) {
	err := ValidationError{Field: "dialogue.top_fraction", Value: 1.5, Message: "too big"}
	want := "dialogue.top_fraction: too big (got: 1.5)"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestValidationErrors_Error(t *testing.T) {
	if got := ValidationErrors(nil).Error(); got != "" {
		t.Errorf("empty Error() = %q, want empty", got)
	}

	one := ValidationErrors{{Field: "a", Value: 1, Message: "bad"}}
	if got := one.Error(); got != "a: bad (got: 1)" {
		t.Errorf("single Error() = %q", got)
	}

	two := ValidationErrors{{Field: "a", Value: 1, Message: "bad"}, {Field: "b", Value: 2, Message: "worse"}}
	got := two.Error()
	if !strings.HasPrefix(got, "2 validation errors:\n") || !strings.Contains(got, "  2. b: worse (got: 2)") {
		t.Errorf("multi Error() = %q", got)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{"probability below 0", func(c *Config) { c.Dialogue.ProbAcceptItem = -0.1 }, "dialogue.prob_accept_item"},
		{"probability above 1", func(c *Config) { c.Dialogue.ProbAcceptItem = 1.1 }, "dialogue.prob_accept_item"},
		{"zero fraction", func(c *Config) { c.Dialogue.TopFraction = 0 }, "dialogue.top_fraction"},
		{"fraction above 1", func(c *Config) { c.Dialogue.TopFraction = 1.5 }, "dialogue.top_fraction"},
		{"zero max messages", func(c *Config) { c.Dialogue.MaxMessages = 0 }, "dialogue.max_messages"},
		{"draw mode", func(c *Config) { c.Dialogue.DrawMode = "once" }, "dialogue.draw_mode"},
		{"unknown first agent", func(c *Config) { c.Dialogue.FirstAgent = "Carol" }, "dialogue.first_agent"},
		{"no items to generate", func(c *Config) { c.Catalog.NumberItems = 0 }, "catalog.number_items"},
		{"one agent", func(c *Config) { c.Agents = c.Agents[:1] }, "agents"},
		{"empty agent name", func(c *Config) { c.Agents[1].Name = " " }, "agents[1].name"},
		{"duplicate agent", func(c *Config) { c.Agents[1].Name = "Alice" }, "agents[1].name"},
		{"incomplete criteria", func(c *Config) { c.Agents[0].Criteria = []string{"COST"} }, "agents[0].criteria"},
		{"unknown criterion", func(c *Config) {
			c.Agents[0].Criteria = []string{"COST", "NOISE", "DURABILITY", "CONSUMPTION", "WEIGHT"}
		}, "agents[0].criteria"},
		{"trace format", func(c *Config) { c.Trace.Format = "xml" }, "trace.format"},
		{"trace color", func(c *Config) { c.Trace.Color = "rainbow" }, "trace.color"},
		{"zero runs", func(c *Config) { c.Batch.Runs = 0 }, "batch.runs"},
		{"too parallel", func(c *Config) { c.Batch.Parallelism = 1000 }, "batch.parallelism"},
		{"bad glob", func(c *Config) { c.Batch.Catalogs = "catalogs/[.yaml" }, "batch.catalogs"},
		{"log level", func(c *Config) { c.Logging.Level = "trace" }, "logging.level"},
		{"null in state dir", func(c *Config) { c.Paths.StateDir = "bad\x00dir" }, "paths.state_dir"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			errs := cfg.Validate()
			if len(errs) == 0 {
				t.Fatalf("Validate() returned no errors, want one for %s", tt.wantField)
			}
			found := false
			for _, e := range errs {
				if e.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("Validate() = %v, want an error for %s", errs, tt.wantField)
			}
		})
	}
}

func TestConfig_Validate_AcceptsBoundaries(t *testing.T) {
	cfg := Default()
	cfg.Dialogue.ProbAcceptItem = 0
	cfg.Dialogue.TopFraction = 1
	cfg.Dialogue.FirstAgent = "Bob"
	cfg.Dialogue.DrawMode = ""
	cfg.Catalog.Path = "catalog.yaml"
	cfg.Catalog.NumberItems = 0
	cfg.Agents[0].Criteria = []string{"ENVIRONMENT_IMPACT", "PRODUCTION_COST", "NOISE", "DURABILITY", "CONSUMPTION"}
	cfg.Batch.Catalogs = "catalogs/**/*.yaml"

	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("Validate() = %v, want no errors", errs)
	}
}

func TestValidLists(t *testing.T) {
	if got := ValidLogLevels(); len(got) != 4 {
		t.Errorf("ValidLogLevels() = %v", got)
	}
	if got := ValidDrawModes(); len(got) != 2 || got[0] != "per_event" {
		t.Errorf("ValidDrawModes() = %v", got)
	}
	if got := ValidTraceFormats(); len(got) != 2 {
		t.Errorf("ValidTraceFormats() = %v", got)
	}
	if got := ValidColorModes(); len(got) != 3 {
		t.Errorf("ValidColorModes() = %v", got)
	}
}
