package dialogue

import (
	"github.com/Iron-Ham/persuade/internal/argument"
	"github.com/Iron-Ham/persuade/internal/errors"
	"github.com/Iron-Ham/persuade/internal/event"
	"github.com/Iron-Ham/persuade/internal/logging"
	"github.com/Iron-Ham/persuade/internal/preference"
)

// run is the state of one dialogue. Only the goroutine executing
// Engine.RunWithPolicy touches it.
type run struct {
	id     string
	cfg    Config
	policy Policy
	logger *logging.Logger

	agents [2]*agentState
	state  State
	turn   int // index of the agent to act next

	item      *preference.Item // contested item
	last      *argument.Argument
	exchanged *argument.PremiseSet
	accepter  int

	messages    []Message
	commitments []Commitment
	proposals   int
	exhaustions int
	forced      bool
}

// step advances the dialogue by one transition and returns the message it
// appended, or nil when the transition appended none.
func (e *Engine) step(r *run) *Message {
	actor := r.turn
	agent := r.agents[actor]

	switch r.state {
	case StateAwaitingProposal:
		return e.propose(r, actor)

	case StateAwaitingResponse:
		if agent.accepts(r.item) {
			return e.accept(r, actor)
		}
		r.state = StateAwaitingArgument
		r.turn = 1 - actor
		return r.send(actor, AskWhy, nil)

	case StateAwaitingArgument:
		arg, ok := argument.BestSupport(agent.profile, r.item, r.exchanged)
		if !ok {
			r.logger.Debug("no support for own proposal", "agent", agent.name, "item", r.item.Name())
			return e.propose(r, actor)
		}
		return e.argue(r, actor, arg)

	case StateAwaitingRebuttal:
		arg, ok := argument.BestRebuttal(agent.profile, r.item, *r.last, r.exchanged)
		if ok {
			return e.argue(r, actor, arg)
		}
		return e.exhausted(r, actor)

	case StateAwaitingCommit:
		r.commit(actor)
		if actor == r.accepter {
			r.state = StateCommitted
		} else {
			r.turn = r.accepter
		}
		return r.send(actor, Commit, nil)
	}

	panic(errors.NewProtocolError("step on state " + r.state.String()))
}

// propose sends actor's best unproposed item. When actor has none left the
// other agent proposes instead; when neither has, the dialogue is at an
// impasse.
func (e *Engine) propose(r *run, actor int) *Message {
	item := r.agents[actor].nextProposal()
	if item == nil {
		other := 1 - actor
		item = r.agents[other].nextProposal()
		if item == nil {
			r.logger.Info("both agents out of items")
			r.state = StateImpasse
			return nil
		}
		r.logger.Debug("agent out of items", "agent", r.agents[actor].name)
		actor = other
	}

	r.agents[actor].markProposed(item)
	r.proposals++
	r.item = item
	r.last = nil
	r.exchanged = argument.NewPremiseSet()
	r.state = StateAwaitingResponse
	r.turn = 1 - actor
	return r.send(actor, Propose, nil)
}

func (e *Engine) argue(r *run, actor int, arg argument.Argument) *Message {
	for _, p := range arg.ValuePremises() {
		if r.exchanged.Contains(p) {
			panic(errors.NewProtocolError("premise " + p.String() + " repeated").
				WithAgent(r.agents[actor].name).
				WithItem(r.item.Name()))
		}
	}
	r.exchanged.Add(arg.Premises...)
	r.last = &arg
	r.state = StateAwaitingRebuttal
	r.turn = 1 - actor
	return r.send(actor, Argue, &arg)
}

func (e *Engine) exhausted(r *run, actor int) *Message {
	r.exhaustions++
	name := r.agents[actor].name
	decision := r.policy(ExhaustionEvent{
		DialogueID: r.id,
		Agent:      name,
		Item:       r.item.Name(),
		Count:      r.exhaustions,
	})
	r.logger.Info("arguments exhausted", "agent", name, "item", r.item.Name(), "decision", decision.String())
	e.publish(event.NewDialogueExhaustedEvent(r.id, name, r.item.Name(), decision == DecisionAccept))

	if decision == DecisionAccept {
		return e.accept(r, actor)
	}
	return e.propose(r, actor)
}

func (e *Engine) accept(r *run, actor int) *Message {
	r.accepter = actor
	r.commit(actor)
	r.state = StateAwaitingCommit
	r.turn = 1 - actor
	return r.send(actor, Accept, nil)
}

func (r *run) commit(actor int) {
	name := r.agents[actor].name
	for _, c := range r.commitments {
		if c.Agent == name {
			return
		}
	}
	r.commitments = append(r.commitments, Commitment{Agent: name, Item: r.item.Name()})
}

func (r *run) send(from int, perf Performative, arg *argument.Argument) *Message {
	msg := Message{
		Seq:          len(r.messages) + 1,
		From:         r.agents[from].name,
		To:           r.agents[1-from].name,
		Performative: perf,
		Item:         r.item.Name(),
	}
	if arg != nil {
		msg.Polarity = Attacking
		if arg.Decision {
			msg.Polarity = Supporting
		}
		msg.Premises = orderedPremises(arg.Premises)
	}
	r.messages = append(r.messages, msg)
	return &r.messages[len(r.messages)-1]
}

// orderedPremises copies premises with value premises first.
func orderedPremises(premises []argument.Premise) []argument.Premise {
	out := make([]argument.Premise, 0, len(premises))
	for _, p := range premises {
		if !p.Comparison {
			out = append(out, p)
		}
	}
	for _, p := range premises {
		if p.Comparison {
			out = append(out, p)
		}
	}
	return out
}

func (r *run) outcome() Outcome {
	o := Outcome{
		State:       r.state,
		Forced:      r.forced,
		Commitments: r.commitments,
		Proposals:   r.proposals,
		Exhaustions: r.exhaustions,
	}
	if r.state == StateCommitted {
		o.Item = r.item.Name()
	}
	return o
}
