package trace

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/Iron-Ham/persuade/internal/dialogue"
	"github.com/Iron-Ham/persuade/internal/errors"
	"github.com/Iron-Ham/persuade/internal/event"
)

// Format selects the output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ColorMode selects when text output is styled.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Options configures a Renderer.
type Options struct {
	Format  Format
	Color   ColorMode
	Verbose bool // also render exhaustion decisions
}

// Validate reports unknown formats or color modes. Empty values mean the
// defaults.
func (o Options) Validate() error {
	switch o.Format {
	case "", FormatText, FormatJSON:
	default:
		return errors.NewValidationError("unknown trace format").WithField("trace.format").WithValue(string(o.Format))
	}
	switch o.Color {
	case "", ColorAuto, ColorAlways, ColorNever:
	default:
		return errors.NewValidationError("unknown color mode").WithField("trace.color").WithValue(string(o.Color))
	}
	return nil
}

// Renderer writes dialogue traces. It is safe for concurrent use; lines from
// different goroutines never interleave.
type Renderer struct {
	w       io.Writer
	format  Format
	verbose bool
	styles  styles

	mu sync.Mutex
}

// Line is one JSON trace record.
type Line struct {
	Type         string `json:"type"`
	Dialogue     string `json:"dialogue"`
	Seq          int    `json:"seq,omitempty"`
	From         string `json:"from,omitempty"`
	To           string `json:"to,omitempty"`
	Performative string `json:"performative,omitempty"`
	Item         string `json:"item,omitempty"`
	Content      string `json:"content,omitempty"`
	Agent        string `json:"agent,omitempty"`
	Accepted     *bool  `json:"accepted,omitempty"`
	State        string `json:"state,omitempty"`
	Items        int    `json:"items,omitempty"`
	Messages     int    `json:"messages,omitempty"`
	Forced       bool   `json:"forced,omitempty"`
}

// NewRenderer creates a Renderer writing to w.
func NewRenderer(w io.Writer, opts Options) (*Renderer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	format := opts.Format
	if format == "" {
		format = FormatText
	}

	return &Renderer{
		w:       w,
		format:  format,
		verbose: opts.Verbose,
		styles:  newStyles(StyleRenderer(w, opts.Color)),
	}, nil
}

// StyleRenderer returns a lipgloss renderer for w that honors mode. Auto
// styles only terminals.
func StyleRenderer(w io.Writer, mode ColorMode) *lipgloss.Renderer {
	lr := lipgloss.NewRenderer(w)
	switch mode {
	case ColorAlways:
		lr.SetColorProfile(termenv.ANSI256)
	case ColorNever:
		lr.SetColorProfile(termenv.Ascii)
	default:
		if !isTerminal(w) {
			lr.SetColorProfile(termenv.Ascii)
		}
	}
	return lr
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Message renders one message of a dialogue.
func (r *Renderer) Message(dialogueID string, msg dialogue.Message) error {
	return r.emit(Line{
		Type:         event.TypeDialogueMessage,
		Dialogue:     dialogueID,
		Seq:          msg.Seq,
		From:         msg.From,
		To:           msg.To,
		Performative: string(msg.Performative),
		Item:         msg.Item,
		Content:      msg.Content(),
	})
}

// Outcome renders how a dialogue ended.
func (r *Renderer) Outcome(dialogueID string, out dialogue.Outcome, messages int) error {
	return r.emit(Line{
		Type:     event.TypeDialogueEnded,
		Dialogue: dialogueID,
		State:    out.State.String(),
		Item:     out.Item,
		Messages: messages,
		Forced:   out.Forced,
	})
}

// Result renders every message of a finished dialogue followed by its outcome.
func (r *Renderer) Result(res *dialogue.Result) error {
	for _, msg := range res.Messages {
		if err := r.Message(res.ID, msg); err != nil {
			return err
		}
	}
	return r.Outcome(res.ID, res.Outcome, len(res.Messages))
}

// Attach renders dialogue events published on bus as they happen. The
// returned function unsubscribes.
func (r *Renderer) Attach(bus *event.Bus) (detach func()) {
	ids := []string{
		bus.Subscribe(event.TypeDialogueStarted, r.handle),
		bus.Subscribe(event.TypeDialogueMessage, r.handle),
		bus.Subscribe(event.TypeDialogueExhausted, r.handle),
		bus.Subscribe(event.TypeDialogueEnded, r.handle),
	}
	return func() {
		for _, id := range ids {
			bus.Unsubscribe(id)
		}
	}
}

func (r *Renderer) handle(e event.Event) {
	var line Line
	switch ev := e.(type) {
	case event.DialogueStartedEvent:
		line = Line{Type: ev.EventType(), Dialogue: ev.DialogueID, From: ev.Initiator, To: ev.Responder, Items: ev.Items}
	case event.DialogueMessageEvent:
		line = Line{
			Type:         ev.EventType(),
			Dialogue:     ev.DialogueID,
			Seq:          ev.Seq,
			From:         ev.From,
			To:           ev.To,
			Performative: ev.Performative,
			Item:         ev.Item,
			Content:      ev.Content,
		}
	case event.DialogueExhaustedEvent:
		if !r.verbose {
			return
		}
		accepted := ev.Accepted
		line = Line{Type: ev.EventType(), Dialogue: ev.DialogueID, Agent: ev.Agent, Item: ev.Item, Accepted: &accepted}
	case event.DialogueEndedEvent:
		line = Line{Type: ev.EventType(), Dialogue: ev.DialogueID, State: ev.State, Item: ev.Item, Messages: ev.Messages, Forced: ev.Forced}
	default:
		return
	}
	// Handlers cannot return errors; a broken writer shows up on the next
	// direct render.
	_ = r.emit(line)
}

func (r *Renderer) emit(line Line) error {
	var out string
	if r.format == FormatJSON {
		data, err := json.Marshal(line)
		if err != nil {
			return errors.Wrap(err, "encode trace line")
		}
		out = string(data)
	} else {
		out = r.text(line)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	_, err := io.WriteString(r.w, out+"\n")
	return err
}

func (r *Renderer) text(line Line) string {
	s := r.styles
	switch line.Type {
	case event.TypeDialogueStarted:
		return s.header.Render(fmt.Sprintf("Dialogue %s: %s and %s over %d items", line.Dialogue, line.From, line.To, line.Items))
	case event.TypeDialogueExhausted:
		decision := "proposes another item"
		if line.Accepted != nil && *line.Accepted {
			decision = "accepts"
		}
		return s.muted.Render(fmt.Sprintf("  %s has no rebuttal against %s and %s", line.Agent, line.Item, decision))
	case event.TypeDialogueEnded:
		return r.outcomeText(line)
	default:
		var b strings.Builder
		b.WriteString("From ")
		b.WriteString(s.agent.Render(line.From))
		b.WriteString(" to ")
		b.WriteString(s.agent.Render(line.To))
		b.WriteString(" (")
		b.WriteString(s.forPerformative(dialogue.Performative(line.Performative)).Render(line.Performative))
		b.WriteString(")")
		if line.Content != "" {
			b.WriteString(" ")
			b.WriteString(line.Content)
		}
		return b.String()
	}
}

func (r *Renderer) outcomeText(line Line) string {
	s := r.styles
	if line.State == dialogue.StateCommitted.String() {
		return s.agreed.Render(fmt.Sprintf("Agreement on %s after %d messages", line.Item, line.Messages))
	}
	text := fmt.Sprintf("No agreement (%s) after %d messages", line.State, line.Messages)
	if line.Forced {
		text += ", message limit reached"
	}
	return s.impasse.Render(text)
}
