package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/Iron-Ham/persuade/internal/preference"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "dialogue.top_fraction")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ValidDrawModes returns the list of valid acceptance draw modes
func ValidDrawModes() []string {
	return []string{"per_event", "per_dialogue"}
}

// ValidTraceFormats returns the list of valid trace formats
func ValidTraceFormats() []string {
	return []string{"text", "json"}
}

// ValidColorModes returns the list of valid trace color modes
func ValidColorModes() []string {
	return []string{"auto", "always", "never"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateDialogue()...)
	errors = append(errors, c.validateCatalog()...)
	errors = append(errors, c.validateAgents()...)
	errors = append(errors, c.validateTrace()...)
	errors = append(errors, c.validateBatch()...)
	errors = append(errors, c.validateLogging()...)
	errors = append(errors, c.validatePaths()...)

	return errors
}

// validateDialogue validates the DialogueConfig
func (c *Config) validateDialogue() []ValidationError {
	var errors []ValidationError
	d := c.Dialogue

	if d.ProbAcceptItem < 0 || d.ProbAcceptItem > 1 {
		errors = append(errors, ValidationError{
			Field:   "dialogue.prob_accept_item",
			Value:   d.ProbAcceptItem,
			Message: "must be between 0 and 1",
		})
	}

	if d.TopFraction <= 0 || d.TopFraction > 1 {
		errors = append(errors, ValidationError{
			Field:   "dialogue.top_fraction",
			Value:   d.TopFraction,
			Message: "must be greater than 0 and at most 1",
		})
	}

	if d.MaxMessages <= 0 {
		errors = append(errors, ValidationError{
			Field:   "dialogue.max_messages",
			Value:   d.MaxMessages,
			Message: "must be positive",
		})
	}

	if d.DrawMode != "" && !slices.Contains(ValidDrawModes(), d.DrawMode) {
		errors = append(errors, ValidationError{
			Field:   "dialogue.draw_mode",
			Value:   d.DrawMode,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidDrawModes(), ", ")),
		})
	}

	if d.FirstAgent != "" && !slices.Contains(c.AgentNames(), d.FirstAgent) {
		errors = append(errors, ValidationError{
			Field:   "dialogue.first_agent",
			Value:   d.FirstAgent,
			Message: "must name a configured agent",
		})
	}

	return errors
}

// validateCatalog validates the CatalogConfig
func (c *Config) validateCatalog() []ValidationError {
	var errors []ValidationError

	if c.Catalog.Path == "" && c.Catalog.NumberItems <= 0 {
		errors = append(errors, ValidationError{
			Field:   "catalog.number_items",
			Value:   c.Catalog.NumberItems,
			Message: "must be positive when no catalog path is set",
		})
	}

	return errors
}

// validateAgents validates the agent list
func (c *Config) validateAgents() []ValidationError {
	var errors []ValidationError

	if len(c.Agents) != 2 {
		errors = append(errors, ValidationError{
			Field:   "agents",
			Value:   len(c.Agents),
			Message: "exactly two agents are required",
		})
	}

	seen := make(map[string]bool)
	for i, a := range c.Agents {
		field := fmt.Sprintf("agents[%d]", i)
		if strings.TrimSpace(a.Name) == "" {
			errors = append(errors, ValidationError{
				Field:   field + ".name",
				Value:   a.Name,
				Message: "cannot be empty",
			})
		} else if seen[a.Name] {
			errors = append(errors, ValidationError{
				Field:   field + ".name",
				Value:   a.Name,
				Message: "duplicate agent name",
			})
		}
		seen[a.Name] = true

		if len(a.Criteria) > 0 {
			if _, err := preference.ParseProfile(a.Criteria); err != nil {
				errors = append(errors, ValidationError{
					Field:   field + ".criteria",
					Value:   a.Criteria,
					Message: fmt.Sprintf("must order every criterion exactly once: %v", err),
				})
			}
		}
	}

	return errors
}

// validateTrace validates the TraceConfig
func (c *Config) validateTrace() []ValidationError {
	var errors []ValidationError

	if c.Trace.Format != "" && !slices.Contains(ValidTraceFormats(), c.Trace.Format) {
		errors = append(errors, ValidationError{
			Field:   "trace.format",
			Value:   c.Trace.Format,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidTraceFormats(), ", ")),
		})
	}

	if c.Trace.Color != "" && !slices.Contains(ValidColorModes(), c.Trace.Color) {
		errors = append(errors, ValidationError{
			Field:   "trace.color",
			Value:   c.Trace.Color,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidColorModes(), ", ")),
		})
	}

	return errors
}

// validateBatch validates the BatchConfig
func (c *Config) validateBatch() []ValidationError {
	var errors []ValidationError

	if c.Batch.Runs <= 0 {
		errors = append(errors, ValidationError{
			Field:   "batch.runs",
			Value:   c.Batch.Runs,
			Message: "must be positive",
		})
	}

	// Reasonable bounds for parallelism
	const maxParallelism = 256
	if c.Batch.Parallelism < 1 || c.Batch.Parallelism > maxParallelism {
		errors = append(errors, ValidationError{
			Field:   "batch.parallelism",
			Value:   c.Batch.Parallelism,
			Message: fmt.Sprintf("must be between 1 and %d", maxParallelism),
		})
	}

	for _, pattern := range c.Batch.CatalogPatterns() {
		if !doublestar.ValidatePathPattern(pattern) {
			errors = append(errors, ValidationError{
				Field:   "batch.catalogs",
				Value:   pattern,
				Message: "invalid glob pattern",
			})
		}
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	return errors
}

// validatePaths validates the PathsConfig
func (c *Config) validatePaths() []ValidationError {
	var errors []ValidationError

	// Check for null bytes which are invalid in paths
	if strings.ContainsRune(c.Paths.StateDir, '\x00') {
		errors = append(errors, ValidationError{
			Field:   "paths.state_dir",
			Value:   c.Paths.StateDir,
			Message: "contains invalid null character",
		})
	}

	return errors
}
