package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/muesli/termenv"

	"github.com/Iron-Ham/persuade/internal/argument"
	"github.com/Iron-Ham/persuade/internal/dialogue"
	"github.com/Iron-Ham/persuade/internal/errors"
	"github.com/Iron-Ham/persuade/internal/event"
	"github.com/Iron-Ham/persuade/internal/preference"
	"github.com/Iron-Ham/persuade/internal/testutil"
)

func plain(t *testing.T, buf *bytes.Buffer, opts Options) *Renderer {
	t.Helper()
	opts.Color = ColorNever
	r, err := NewRenderer(buf, opts)
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	return r
}

func runScenario(t *testing.T, opts ...dialogue.Option) *dialogue.Result {
	t.Helper()
	cfg := dialogue.DefaultConfig()
	cfg.ProbAcceptItem = 0
	opts = append(opts, dialogue.WithIDGenerator(func() string { return "d-1" }))
	result, err := dialogue.NewEngine(opts...).Run(context.Background(), testutil.EngineCatalog(t),
		dialogue.Participant{Name: "Alice", Profile: testutil.AliceProfile()},
		dialogue.Participant{Name: "Bob", Profile: testutil.BobProfile()},
		cfg, rand.New(rand.NewPCG(1, 1)))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return result
}

func TestRenderer_MessageText(t *testing.T) {
	tests := []struct {
		name string
		msg  dialogue.Message
		want string
	}{
		{
			name: "propose",
			msg:  dialogue.Message{Seq: 1, From: "Alice", To: "Bob", Performative: dialogue.Propose, Item: "Engine8"},
			want: "From Alice to Bob (PROPOSE) Engine8\n",
		},
		{
			name: "attacking argument",
			msg: dialogue.Message{
				Seq: 4, From: "Bob", To: "Alice", Performative: dialogue.Argue, Item: "Engine8",
				Polarity: dialogue.Attacking,
				Premises: []argument.Premise{
					argument.ValuePremise(preference.Consumption, preference.VeryBad),
					argument.ComparisonPremise(preference.Consumption, preference.Durability),
				},
			},
			want: "From Bob to Alice (ARGUE) not Engine8 <- CONSUMPTION=VERY_BAD, CONSUMPTION>DURABILITY\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := plain(t, &buf, Options{}).Message("d-1", tt.msg); err != nil {
				t.Fatalf("Message() error = %v", err)
			}
			if got := buf.String(); got != tt.want {
				t.Errorf("Message() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderer_ResultText(t *testing.T) {
	result := runScenario(t)

	var buf bytes.Buffer
	if err := plain(t, &buf, Options{}).Result(result); err != nil {
		t.Fatalf("Result() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != len(result.Messages)+1 {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(result.Messages)+1, buf.String())
	}
	if lines[0] != "From Alice to Bob (PROPOSE) Engine8" {
		t.Errorf("first line = %q", lines[0])
	}
	if want := "Agreement on Engine5 after 10 messages"; lines[len(lines)-1] != want {
		t.Errorf("last line = %q, want %q", lines[len(lines)-1], want)
	}
}

func TestRenderer_OutcomeImpasse(t *testing.T) {
	var buf bytes.Buffer
	out := dialogue.Outcome{State: dialogue.StateImpasse, Forced: true}
	if err := plain(t, &buf, Options{}).Outcome("d-1", out, 200); err != nil {
		t.Fatalf("Outcome() error = %v", err)
	}
	want := "No agreement (IMPASSE) after 200 messages, message limit reached\n"
	if got := buf.String(); got != want {
		t.Errorf("Outcome() = %q, want %q", got, want)
	}
}

func TestRenderer_JSON(t *testing.T) {
	result := runScenario(t)

	var buf bytes.Buffer
	if err := plain(t, &buf, Options{Format: FormatJSON}).Result(result); err != nil {
		t.Fatalf("Result() error = %v", err)
	}

	var lines []Line
	for _, raw := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var line Line
		if err := json.Unmarshal([]byte(raw), &line); err != nil {
			t.Fatalf("invalid JSON line %q: %v", raw, err)
		}
		lines = append(lines, line)
	}

	wantFirst := Line{
		Type:         event.TypeDialogueMessage,
		Dialogue:     "d-1",
		Seq:          1,
		From:         "Alice",
		To:           "Bob",
		Performative: "PROPOSE",
		Item:         "Engine8",
		Content:      "Engine8",
	}
	if diff := cmp.Diff(wantFirst, lines[0]); diff != "" {
		t.Errorf("first line mismatch (-want +got):\n%s", diff)
	}
	wantLast := Line{
		Type:     event.TypeDialogueEnded,
		Dialogue: "d-1",
		State:    "COMMITTED",
		Item:     "Engine5",
		Messages: 10,
	}
	if diff := cmp.Diff(wantLast, lines[len(lines)-1]); diff != "" {
		t.Errorf("last line mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderer_Attach(t *testing.T) {
	var buf bytes.Buffer
	r := plain(t, &buf, Options{Verbose: true})
	bus := event.NewBus()
	detach := r.Attach(bus)

	result := runScenario(t, dialogue.WithBus(bus))

	out := buf.String()
	if !strings.HasPrefix(out, "Dialogue d-1: Alice and Bob over 8 items\n") {
		t.Errorf("missing header, got:\n%s", out)
	}
	for _, msg := range result.Messages {
		if !strings.Contains(out, msg.String()) {
			t.Errorf("live trace missing %q", msg.String())
		}
	}
	if !strings.Contains(out, "Alice has no rebuttal against Engine8 and proposes another item") {
		t.Errorf("verbose trace missing exhaustion line:\n%s", out)
	}
	if !strings.HasSuffix(out, "Agreement on Engine5 after 10 messages\n") {
		t.Errorf("missing outcome, got:\n%s", out)
	}

	detach()
	buf.Reset()
	bus.Publish(event.NewDialogueMessageEvent("d-2", 1, "Alice", "Bob", "PROPOSE", "Engine8", "From Alice to Bob (PROPOSE) Engine8"))
	bus.Publish(event.NewDialogueEndedEvent("d-2", "IMPASSE", "", 1, true))
	if buf.Len() != 0 {
		t.Errorf("renderer still writing after detach: %q", buf.String())
	}
}

func TestRenderer_AttachQuietSkipsExhaustion(t *testing.T) {
	var buf bytes.Buffer
	bus := event.NewBus()
	defer plain(t, &buf, Options{}).Attach(bus)()

	runScenario(t, dialogue.WithBus(bus))

	if strings.Contains(buf.String(), "no rebuttal") {
		t.Errorf("quiet trace rendered exhaustion:\n%s", buf.String())
	}
}

func TestNewRenderer_InvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"format", Options{Format: "xml"}},
		{"color", Options{Color: "sometimes"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRenderer(&bytes.Buffer{}, tt.opts)
			if !errors.Is(err, errors.ErrInvalidInput) {
				t.Errorf("NewRenderer() error = %v, want validation error", err)
			}
		})
	}
}

func TestNewRenderer_AutoColorOffForBuffers(t *testing.T) {
	var buf bytes.Buffer
	r, err := NewRenderer(&buf, Options{Color: ColorAuto})
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	msg := dialogue.Message{Seq: 1, From: "Alice", To: "Bob", Performative: dialogue.Propose, Item: "Engine1"}
	if err := r.Message("d-1", msg); err != nil {
		t.Fatalf("Message() error = %v", err)
	}
	if strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("auto color styled a non-terminal writer: %q", buf.String())
	}
}

func TestStyleRenderer_ColorProfile(t *testing.T) {
	tests := []struct {
		mode ColorMode
		want termenv.Profile
	}{
		{ColorAlways, termenv.ANSI256},
		{ColorNever, termenv.Ascii},
		{ColorAuto, termenv.Ascii}, // a buffer is not a terminal
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			var buf bytes.Buffer
			if got := StyleRenderer(&buf, tt.mode).ColorProfile(); got != tt.want {
				t.Errorf("ColorProfile() = %v, want %v", got, tt.want)
			}
		})
	}
}
