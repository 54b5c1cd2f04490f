package mailbox

import (
	"slices"
	"time"

	"github.com/Iron-Ham/persuade/internal/dialogue"
)

// Filter selects envelopes. Zero fields match everything.
type Filter struct {
	Performatives []dialogue.Performative // only these performatives
	From          string                  // only this sender
	Item          string                  // only messages about this item
	Since         time.Time               // only envelopes delivered after this time
	MaxMessages   int                     // keep at most this many, most recent last
}

// Apply returns the envelopes matching f, preserving order. Filters apply
// in field order, then MaxMessages keeps the most recent matches.
func Apply(envs []Envelope, f Filter) []Envelope {
	var result []Envelope
	for _, env := range envs {
		if len(f.Performatives) > 0 && !slices.Contains(f.Performatives, env.Performative) {
			continue
		}
		if f.From != "" && env.From != f.From {
			continue
		}
		if f.Item != "" && env.Item != f.Item {
			continue
		}
		if !f.Since.IsZero() && !env.Timestamp.After(f.Since) {
			continue
		}
		result = append(result, env)
	}

	if f.MaxMessages > 0 && len(result) > f.MaxMessages {
		result = result[len(result)-f.MaxMessages:]
	}
	return result
}

// ByPerformative returns the envelopes carrying performative p.
func ByPerformative(envs []Envelope, p dialogue.Performative) []Envelope {
	return Apply(envs, Filter{Performatives: []dialogue.Performative{p}})
}

// BySender returns the envelopes sent by from.
func BySender(envs []Envelope, from string) []Envelope {
	return Apply(envs, Filter{From: from})
}
