package mailbox

import (
	"slices"
	"sync"
	"time"

	"github.com/Iron-Ham/persuade/internal/dialogue"
	"github.com/Iron-Ham/persuade/internal/logging"
)

// Mailbox records dialogue messages into per-agent inboxes. It implements
// dialogue.Sink, so it can be handed straight to an engine.
type Mailbox struct {
	store  *Store
	logger *logging.Logger
	now    func() time.Time

	mu   sync.Mutex
	read map[inboxKey]int
}

type inboxKey struct {
	dialogue string
	agent    string
}

var _ dialogue.Sink = (*Mailbox)(nil)

// NewMailbox creates a Mailbox backed by a file store in the given state directory.
func NewMailbox(stateDir string, opts ...Option) *Mailbox {
	m := &Mailbox{
		store:  NewStore(stateDir),
		logger: logging.NopLogger(),
		now:    time.Now,
		read:   make(map[inboxKey]int),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Store returns the underlying file store.
func (m *Mailbox) Store() *Store {
	return m.store
}

// Deliver appends msg to its recipient's inbox.
func (m *Mailbox) Deliver(dialogueID string, msg dialogue.Message) error {
	env := Envelope{
		Dialogue:  dialogueID,
		Timestamp: m.now(),
		Message:   msg,
	}
	if err := m.store.Append(env); err != nil {
		return err
	}
	m.logger.Debug("message recorded",
		"dialogue_id", dialogueID,
		"to", msg.To,
		"seq", msg.Seq)
	return nil
}

// Receive returns every envelope agent received in a dialogue, oldest first.
func (m *Mailbox) Receive(dialogueID, agent string) ([]Envelope, error) {
	return m.store.ReadInbox(dialogueID, agent)
}

// Unread returns the envelopes delivered to agent since the previous Unread
// call for the same inbox, and marks them read. Read marks live in memory.
func (m *Mailbox) Unread(dialogueID, agent string) ([]Envelope, error) {
	envs, err := m.store.ReadInbox(dialogueID, agent)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := inboxKey{dialogue: dialogueID, agent: agent}
	seen := m.read[key]
	if seen >= len(envs) {
		return nil, nil
	}
	m.read[key] = len(envs)
	return envs[seen:], nil
}

// Transcript rebuilds the whole exchange of a dialogue from every inbox,
// ordered by sequence number.
func (m *Mailbox) Transcript(dialogueID string) ([]dialogue.Message, error) {
	envs, err := m.envelopes(dialogueID)
	if err != nil {
		return nil, err
	}
	msgs := make([]dialogue.Message, len(envs))
	for i, env := range envs {
		msgs[i] = env.Message
	}
	return msgs, nil
}

// Dialogues returns the recorded dialogue IDs, oldest first.
func (m *Mailbox) Dialogues() ([]string, error) {
	return m.store.Dialogues()
}

// Summarize describes one recorded dialogue.
func (m *Mailbox) Summarize(dialogueID string) (Summary, error) {
	agents, err := m.store.Agents(dialogueID)
	if err != nil {
		return Summary{}, err
	}
	envs, err := m.envelopes(dialogueID)
	if err != nil {
		return Summary{}, err
	}

	s := Summary{ID: dialogueID, Agents: agents, Messages: len(envs)}
	for _, env := range envs {
		if s.Started.IsZero() || env.Timestamp.Before(s.Started) {
			s.Started = env.Timestamp
		}
		if env.Timestamp.After(s.Updated) {
			s.Updated = env.Timestamp
		}
	}
	if len(envs) > 0 {
		s.Last = envs[len(envs)-1].Message
	}
	return s, nil
}

// envelopes merges every inbox of a dialogue, ordered by sequence number.
func (m *Mailbox) envelopes(dialogueID string) ([]Envelope, error) {
	agents, err := m.store.Agents(dialogueID)
	if err != nil {
		return nil, err
	}
	var all []Envelope
	for _, agent := range agents {
		envs, err := m.store.ReadInbox(dialogueID, agent)
		if err != nil {
			return nil, err
		}
		all = append(all, envs...)
	}
	sortEnvelopes(all)
	return all, nil
}

// sortEnvelopes orders envelopes by sequence number, then delivery time.
func sortEnvelopes(envs []Envelope) {
	slices.SortStableFunc(envs, func(a, b Envelope) int {
		if a.Seq != b.Seq {
			return a.Seq - b.Seq
		}
		return a.Timestamp.Compare(b.Timestamp)
	})
}
