package dialogue

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/Iron-Ham/persuade/internal/argument"
	"github.com/Iron-Ham/persuade/internal/errors"
	"github.com/Iron-Ham/persuade/internal/event"
	"github.com/Iron-Ham/persuade/internal/logging"
	"github.com/Iron-Ham/persuade/internal/preference"
)

// Sink receives every message as it is appended to a dialogue.
type Sink interface {
	Deliver(dialogueID string, msg Message) error
}

// Engine runs dialogues. It holds no per-dialogue state, so one Engine can
// run any number of dialogues, concurrently or not.
type Engine struct {
	logger *logging.Logger
	bus    *event.Bus
	sinks  []Sink
	newID  func() string
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards output.
func WithLogger(logger *logging.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithBus publishes dialogue events to bus.
func WithBus(bus *event.Bus) Option {
	return func(e *Engine) {
		e.bus = bus
	}
}

// WithSink adds a message sink. Sinks are called in the order added.
func WithSink(sink Sink) Option {
	return func(e *Engine) {
		if sink != nil {
			e.sinks = append(e.sinks, sink)
		}
	}
}

// WithIDGenerator replaces the random dialogue ID generator.
func WithIDGenerator(gen func() string) Option {
	return func(e *Engine) {
		if gen != nil {
			e.newID = gen
		}
	}
}

// NewEngine creates an Engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		logger: logging.NopLogger(),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run plays a dialogue between a and b over cat. The exhaustion policy draws
// from rng with cfg.ProbAcceptItem; rng is the dialogue's only source of
// randomness, so equal seeds replay equal dialogues.
func (e *Engine) Run(ctx context.Context, cat *preference.Catalog, a, b Participant, cfg Config, rng *rand.Rand) (*Result, error) {
	if err := validateSetup(cat, a, b, cfg); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, errors.NewValidationError("dialogue needs a random source").
			WithCause(errors.ErrMissingRandomSource)
	}
	return e.RunWithPolicy(ctx, cat, a, b, cfg, ProbabilisticPolicy(cfg.ProbAcceptItem, rng, cfg.DrawMode))
}

// RunWithPolicy is Run with a caller-supplied exhaustion policy.
// cfg.ProbAcceptItem and cfg.DrawMode are still validated but not used.
func (e *Engine) RunWithPolicy(ctx context.Context, cat *preference.Catalog, a, b Participant, cfg Config, policy Policy) (*Result, error) {
	if err := validateSetup(cat, a, b, cfg); err != nil {
		return nil, err
	}
	if policy == nil {
		return nil, errors.NewValidationError("exhaustion policy cannot be nil").WithField("policy")
	}

	r, err := e.newRun(cat, a, b, cfg, policy)
	if err != nil {
		return nil, err
	}

	first := r.agents[r.turn].name
	second := r.agents[1-r.turn].name
	r.logger.Info("dialogue started", "initiator", first, "responder", second, "items", cat.Len())
	e.publish(event.NewDialogueStartedEvent(r.id, first, second, cat.Len()))

	for !r.state.Terminal() {
		if err := ctx.Err(); err != nil {
			return nil, errors.NewDialogueError("dialogue interrupted", fmt.Errorf("%w: %w", errors.ErrCanceled, err)).
				WithDialogueID(r.id).
				WithSeverity(errors.SeverityWarning)
		}
		// An ACCEPT is always answered by both COMMITs, so the limit only
		// interrupts a dialogue that has not reached agreement.
		if len(r.messages) >= cfg.MaxMessages && r.state != StateAwaitingCommit {
			r.forced = true
			r.state = StateImpasse
			r.logger.Warn("message limit reached", "max_messages", cfg.MaxMessages)
			break
		}
		msg := e.step(r)
		if msg == nil {
			continue
		}
		if err := e.deliver(r, *msg); err != nil {
			return nil, err
		}
	}

	result := &Result{ID: r.id, Messages: r.messages, Outcome: r.outcome()}
	r.logger.Info("dialogue ended",
		"state", result.Outcome.State.String(),
		"item", result.Outcome.Item,
		"messages", len(result.Messages),
		"forced", result.Outcome.Forced)
	e.publish(event.NewDialogueEndedEvent(r.id, result.Outcome.State.String(), result.Outcome.Item,
		len(result.Messages), result.Outcome.Forced))
	return result, nil
}

func (e *Engine) newRun(cat *preference.Catalog, a, b Participant, cfg Config, policy Policy) (*run, error) {
	id := e.newID()
	r := &run{
		id:        id,
		cfg:       cfg,
		policy:    policy,
		logger:    e.logger.WithDialogue(id),
		state:     StateAwaitingProposal,
		exchanged: argument.NewPremiseSet(),
	}
	for i, p := range []Participant{a, b} {
		agent, err := newAgentState(p, cat, cfg.TopFraction)
		if err != nil {
			return nil, err
		}
		r.agents[i] = agent
	}
	if cfg.FirstAgent == b.Name {
		r.turn = 1
	}
	return r, nil
}

func (e *Engine) deliver(r *run, msg Message) error {
	r.logger.Debug("message sent",
		"seq", msg.Seq,
		"from", msg.From,
		"to", msg.To,
		"performative", string(msg.Performative),
		"content", msg.Content())
	e.publish(event.NewDialogueMessageEvent(r.id, msg.Seq, msg.From, msg.To,
		string(msg.Performative), msg.Item, msg.Content()))

	for _, sink := range e.sinks {
		if err := sink.Deliver(r.id, msg); err != nil {
			return errors.NewDialogueError("failed to deliver message", err).
				WithDialogueID(r.id).
				WithAgent(msg.To)
		}
	}
	return nil
}

func (e *Engine) publish(ev event.Event) {
	if e.bus != nil {
		e.bus.Publish(ev)
	}
}

// Run plays a dialogue with a default Engine.
func Run(ctx context.Context, cat *preference.Catalog, a, b Participant, cfg Config, rng *rand.Rand) (*Result, error) {
	return NewEngine().Run(ctx, cat, a, b, cfg, rng)
}
