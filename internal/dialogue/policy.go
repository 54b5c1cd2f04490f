package dialogue

import (
	"math/rand/v2"
)

// Decision is what an exhausted agent does next.
type Decision int

const (
	// DecisionProposeNext abandons the contested item for the agent's next
	// unproposed one.
	DecisionProposeNext Decision = iota
	// DecisionAccept accepts the contested item.
	DecisionAccept
)

// String returns a lower-case label.
func (d Decision) String() string {
	if d == DecisionAccept {
		return "accept"
	}
	return "propose_next"
}

// ExhaustionEvent describes the moment an agent runs out of rebuttals.
type ExhaustionEvent struct {
	DialogueID string
	Agent      string
	Item       string
	Count      int // 1 for the dialogue's first exhaustion
}

// Policy decides what an exhausted agent does.
type Policy func(ExhaustionEvent) Decision

// DrawMode controls how a probabilistic policy consumes randomness.
type DrawMode string

const (
	// DrawPerEvent draws independently at every exhaustion.
	DrawPerEvent DrawMode = "per_event"
	// DrawPerDialogue draws once, at the first exhaustion, and reuses it.
	DrawPerDialogue DrawMode = "per_dialogue"
)

// Valid reports whether m is a known mode. Empty means DrawPerEvent.
func (m DrawMode) Valid() bool {
	return m == "" || m == DrawPerEvent || m == DrawPerDialogue
}

// ProbabilisticPolicy accepts with probability p. The returned policy owns
// rng and must not be shared between dialogues.
func ProbabilisticPolicy(p float64, rng *rand.Rand, mode DrawMode) Policy {
	if mode == DrawPerDialogue {
		drawn := false
		var decision Decision
		return func(ExhaustionEvent) Decision {
			if !drawn {
				decision = draw(p, rng)
				drawn = true
			}
			return decision
		}
	}
	return func(ExhaustionEvent) Decision {
		return draw(p, rng)
	}
}

// FixedPolicy always returns d.
func FixedPolicy(d Decision) Policy {
	return func(ExhaustionEvent) Decision { return d }
}

func draw(p float64, rng *rand.Rand) Decision {
	if rng.Float64() < p {
		return DecisionAccept
	}
	return DecisionProposeNext
}
