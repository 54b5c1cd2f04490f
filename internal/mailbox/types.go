package mailbox

import (
	"time"

	"github.com/Iron-Ham/persuade/internal/dialogue"
)

// Envelope is one delivered message as stored in an inbox.
type Envelope struct {
	ID        string    `json:"id"`
	Dialogue  string    `json:"dialogue"`
	Timestamp time.Time `json:"timestamp"`
	dialogue.Message
}

// Summary describes one recorded dialogue.
type Summary struct {
	ID       string
	Agents   []string
	Messages int
	Started  time.Time
	Updated  time.Time
	Last     dialogue.Message // most recent message by sequence number
}

// Concluded reports whether the last recorded message is a commitment.
func (s Summary) Concluded() bool {
	return s.Last.Performative == dialogue.Commit
}
