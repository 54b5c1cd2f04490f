package dialogue

import (
	"github.com/Iron-Ham/persuade/internal/errors"
	"github.com/Iron-Ham/persuade/internal/preference"
)

// agentState is the mutable per-agent part of one dialogue.
type agentState struct {
	name     string
	profile  *preference.Profile
	ranking  []*preference.Item
	top      map[string]bool
	proposed map[string]bool
	cursor   int // ranking[:cursor] are all proposed
}

func newAgentState(p Participant, cat *preference.Catalog, topFraction float64) (*agentState, error) {
	ranking, err := p.Profile.RankItems(cat)
	if err != nil {
		return nil, err
	}
	top := make(map[string]bool)
	for _, item := range ranking[:preference.TopCount(len(ranking), topFraction)] {
		top[item.Name()] = true
	}
	return &agentState{
		name:     p.Name,
		profile:  p.Profile,
		ranking:  ranking,
		top:      top,
		proposed: make(map[string]bool, len(ranking)),
	}, nil
}

// nextProposal returns the best item this agent has not proposed yet, or nil.
func (a *agentState) nextProposal() *preference.Item {
	for a.cursor < len(a.ranking) {
		item := a.ranking[a.cursor]
		if !a.proposed[item.Name()] {
			return item
		}
		a.cursor++
	}
	return nil
}

func (a *agentState) markProposed(item *preference.Item) {
	if a.proposed[item.Name()] {
		panic(errors.NewProtocolError("item proposed twice").WithAgent(a.name).WithItem(item.Name()))
	}
	a.proposed[item.Name()] = true
}

// accepts reports whether item is in this agent's top fraction.
func (a *agentState) accepts(item *preference.Item) bool {
	return a.top[item.Name()]
}
