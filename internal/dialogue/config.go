package dialogue

import (
	"math"

	"github.com/Iron-Ham/persuade/internal/errors"
	"github.com/Iron-Ham/persuade/internal/preference"
)

// DefaultMaxMessages bounds a dialogue when the caller does not.
const DefaultMaxMessages = 200

// Config holds the per-dialogue knobs.
type Config struct {
	// FirstAgent names the participant that proposes first. Empty means the
	// first participant passed to Run.
	FirstAgent string

	// ProbAcceptItem is the chance an exhausted agent accepts the contested
	// item instead of proposing another one.
	ProbAcceptItem float64

	// TopFraction is the share of its own ranking an agent accepts outright.
	TopFraction float64

	// MaxMessages forces an impasse once the history reaches this length.
	// A dialogue already past ACCEPT still sends both COMMITs, so an agreed
	// dialogue may end up to two messages over the limit.
	MaxMessages int

	// DrawMode controls how often the exhaustion policy draws.
	DrawMode DrawMode
}

// DefaultConfig returns the usual settings.
func DefaultConfig() Config {
	return Config{
		ProbAcceptItem: 0.5,
		TopFraction:    preference.DefaultTopFraction,
		MaxMessages:    DefaultMaxMessages,
		DrawMode:       DrawPerEvent,
	}
}

// Validate checks every field and returns all problems joined.
func (c Config) Validate() error {
	var errs []error
	if err := preference.ValidateFraction(c.TopFraction); err != nil {
		errs = append(errs, err)
	}
	if math.IsNaN(c.ProbAcceptItem) || c.ProbAcceptItem < 0 || c.ProbAcceptItem > 1 {
		errs = append(errs, errors.NewValidationError("acceptance probability out of range").
			WithField("prob_accept_item").
			WithValue(c.ProbAcceptItem).
			WithCause(errors.ErrInvalidProbability))
	}
	if c.MaxMessages <= 0 {
		errs = append(errs, errors.NewValidationError("message limit must be positive").
			WithField("max_messages").
			WithValue(c.MaxMessages).
			WithCause(errors.ErrInvalidMessageLimit))
	}
	if !c.DrawMode.Valid() {
		errs = append(errs, errors.NewValidationError("unknown draw mode").
			WithField("draw_mode").
			WithValue(string(c.DrawMode)).
			WithCause(errors.ErrInvalidDrawMode))
	}
	return errors.Join(errs...)
}

// validateSetup checks everything a dialogue needs before its first message.
func validateSetup(cat *preference.Catalog, a, b Participant, cfg Config) error {
	if cat.Len() == 0 {
		return errors.ErrEmptyCatalog
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	for _, p := range []Participant{a, b} {
		if p.Name == "" {
			return errors.NewValidationError("participant name cannot be empty").WithField("name")
		}
		if err := p.Profile.Validate(); err != nil {
			return errors.Wrapf(err, "participant %s", p.Name)
		}
	}
	if a.Name == b.Name {
		return errors.NewValidationError("participants must have distinct names").
			WithValue(a.Name).
			WithCause(errors.ErrDuplicateAgent)
	}
	if cfg.FirstAgent != "" && cfg.FirstAgent != a.Name && cfg.FirstAgent != b.Name {
		return errors.NewNotFoundError("agent", cfg.FirstAgent).WithCause(errors.ErrUnknownAgent)
	}
	return nil
}
