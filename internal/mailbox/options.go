package mailbox

import (
	"time"

	"github.com/Iron-Ham/persuade/internal/logging"
)

// Option configures a Mailbox.
type Option func(*Mailbox)

// WithLogger sets the logger used for delivery traces.
func WithLogger(logger *logging.Logger) Option {
	return func(m *Mailbox) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithClock replaces time.Now for envelope timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Mailbox) {
		if now != nil {
			m.now = now
		}
	}
}
