package event

import "time"

// Event types published by the dialogue engine.
const (
	TypeDialogueStarted   = "dialogue.started"
	TypeDialogueMessage   = "dialogue.message"
	TypeDialogueExhausted = "dialogue.exhausted"
	TypeDialogueEnded     = "dialogue.ended"
)

// Event is the interface that all events must implement.
type Event interface {
	// EventType returns a "category.action" identifier.
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// DialogueStartedEvent is emitted once configuration is validated, before the
// first message.
type DialogueStartedEvent struct {
	baseEvent
	DialogueID string
	Initiator  string
	Responder  string
	Items      int
}

// NewDialogueStartedEvent creates a DialogueStartedEvent.
func NewDialogueStartedEvent(dialogueID, initiator, responder string, items int) DialogueStartedEvent {
	return DialogueStartedEvent{
		baseEvent:  newBaseEvent(TypeDialogueStarted),
		DialogueID: dialogueID,
		Initiator:  initiator,
		Responder:  responder,
		Items:      items,
	}
}

// DialogueMessageEvent is emitted for every message appended to a dialogue.
type DialogueMessageEvent struct {
	baseEvent
	DialogueID   string
	Seq          int
	From         string
	To           string
	Performative string
	Item         string
	Content      string // item name, or the argument text for ARGUE
}

// NewDialogueMessageEvent creates a DialogueMessageEvent.
func NewDialogueMessageEvent(dialogueID string, seq int, from, to, performative, item, content string) DialogueMessageEvent {
	return DialogueMessageEvent{
		baseEvent:    newBaseEvent(TypeDialogueMessage),
		DialogueID:   dialogueID,
		Seq:          seq,
		From:         from,
		To:           to,
		Performative: performative,
		Item:         item,
		Content:      content,
	}
}

// DialogueExhaustedEvent is emitted when an agent runs out of rebuttals for
// the contested item and the exhaustion policy has decided.
type DialogueExhaustedEvent struct {
	baseEvent
	DialogueID string
	Agent      string
	Item       string
	Accepted   bool
}

// NewDialogueExhaustedEvent creates a DialogueExhaustedEvent.
func NewDialogueExhaustedEvent(dialogueID, agent, item string, accepted bool) DialogueExhaustedEvent {
	return DialogueExhaustedEvent{
		baseEvent:  newBaseEvent(TypeDialogueExhausted),
		DialogueID: dialogueID,
		Agent:      agent,
		Item:       item,
		Accepted:   accepted,
	}
}

// DialogueEndedEvent is emitted when a dialogue reaches COMMITTED or IMPASSE.
type DialogueEndedEvent struct {
	baseEvent
	DialogueID string
	State      string
	Item       string // empty on impasse
	Messages   int
	Forced     bool // message limit reached
}

// NewDialogueEndedEvent creates a DialogueEndedEvent.
func NewDialogueEndedEvent(dialogueID, state, item string, messages int, forced bool) DialogueEndedEvent {
	return DialogueEndedEvent{
		baseEvent:  newBaseEvent(TypeDialogueEnded),
		DialogueID: dialogueID,
		State:      state,
		Item:       item,
		Messages:   messages,
		Forced:     forced,
	}
}
