package dialogue

import (
	"fmt"
	"strings"

	"github.com/Iron-Ham/persuade/internal/argument"
	"github.com/Iron-Ham/persuade/internal/preference"
)

// Performative is the speech act a message performs.
type Performative string

const (
	Propose Performative = "PROPOSE"
	AskWhy  Performative = "ASK_WHY"
	Argue   Performative = "ARGUE"
	Accept  Performative = "ACCEPT"
	Commit  Performative = "COMMIT"
)

var validPerformatives = map[Performative]bool{
	Propose: true,
	AskWhy:  true,
	Argue:   true,
	Accept:  true,
	Commit:  true,
}

// ParsePerformative validates a performative name, ignoring case.
func ParsePerformative(s string) (Performative, error) {
	p := Performative(strings.ToUpper(strings.TrimSpace(s)))
	if !validPerformatives[p] {
		return "", fmt.Errorf("invalid performative %q", s)
	}
	return p, nil
}

// Polarity says whether an ARGUE message is for or against its item.
type Polarity string

const (
	Supporting Polarity = "supporting"
	Attacking  Polarity = "attacking"
)

// State is a dialogue's position in the protocol.
type State int

const (
	StateAwaitingProposal State = iota
	StateAwaitingResponse
	StateAwaitingArgument
	StateAwaitingRebuttal
	StateAwaitingCommit
	StateCommitted
	StateImpasse
)

var stateNames = map[State]string{
	StateAwaitingProposal: "AWAITING_PROPOSAL",
	StateAwaitingResponse: "AWAITING_RESPONSE_TO_PROPOSAL",
	StateAwaitingArgument: "AWAITING_ARGUMENT",
	StateAwaitingRebuttal: "AWAITING_REBUTTAL_OR_ACCEPT",
	StateAwaitingCommit:   "AWAITING_COMMIT",
	StateCommitted:        "COMMITTED",
	StateImpasse:          "IMPASSE",
}

// String returns the upper-case state name.
func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(text []byte) error {
	for state, name := range stateNames {
		if name == string(text) {
			*s = state
			return nil
		}
	}
	return fmt.Errorf("invalid dialogue state %q", text)
}

// Terminal reports whether no further message can follow.
func (s State) Terminal() bool {
	return s == StateCommitted || s == StateImpasse
}

// Message is one entry of the dialogue history.
type Message struct {
	Seq          int                `json:"seq"`
	From         string             `json:"from"`
	To           string             `json:"to"`
	Performative Performative       `json:"performative"`
	Item         string             `json:"item"`
	Polarity     Polarity           `json:"polarity,omitempty"`
	Premises     []argument.Premise `json:"premises,omitempty"`
}

// Content is the message body: the argument text for ARGUE, the item name
// otherwise.
func (m Message) Content() string {
	if m.Performative != Argue {
		return m.Item
	}
	parts := make([]string, len(m.Premises))
	for i, p := range m.Premises {
		parts[i] = p.String()
	}
	prefix := ""
	if m.Polarity == Attacking {
		prefix = "not "
	}
	return fmt.Sprintf("%s%s <- %s", prefix, m.Item, strings.Join(parts, ", "))
}

// String renders the message as a trace line.
func (m Message) String() string {
	return fmt.Sprintf("From %s to %s (%s) %s", m.From, m.To, m.Performative, m.Content())
}

// Participant is one side of a dialogue.
type Participant struct {
	Name    string
	Profile *preference.Profile
}

// Commitment records that an agent accepted or committed to an item.
type Commitment struct {
	Agent string `json:"agent"`
	Item  string `json:"item"`
}

// Outcome summarizes how a dialogue ended.
type Outcome struct {
	State       State        `json:"state"`
	Item        string       `json:"item,omitempty"`
	Forced      bool         `json:"forced,omitempty"`
	Commitments []Commitment `json:"commitments,omitempty"`
	Proposals   int          `json:"proposals"`
	Exhaustions int          `json:"exhaustions"`
}

// Agreed reports whether both agents committed to an item.
func (o Outcome) Agreed() bool {
	return o.State == StateCommitted
}

// Result is a finished dialogue.
type Result struct {
	ID       string    `json:"id"`
	Messages []Message `json:"messages"`
	Outcome  Outcome   `json:"outcome"`
}
