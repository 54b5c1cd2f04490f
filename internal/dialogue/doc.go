// Package dialogue runs a two-agent persuasion dialogue over an item catalog.
//
// Each agent ranks the catalog under its own preference profile. One agent
// proposes its best item; the other accepts it if the item is in its top
// fraction, or asks why. The proposer then argues for the item and the agents
// take turns rebutting each other's latest argument, each only with premises
// not yet exchanged about that item. An agent that runs out of rebuttals
// either accepts the item or proposes its next one, as decided by the
// exhaustion policy. An ACCEPT is followed by two COMMITs and the dialogue
// ends COMMITTED; when neither agent has anything left to propose it ends in
// IMPASSE.
//
// # Dialogue Lifecycle
//
//	AWAITING_PROPOSAL -> AWAITING_RESPONSE_TO_PROPOSAL -> AWAITING_ARGUMENT
//	    -> AWAITING_REBUTTAL_OR_ACCEPT -> AWAITING_COMMIT -> COMMITTED
//
// Any state may fall back to AWAITING_PROPOSAL when an agent gives up on the
// contested item, and the dialogue ends in IMPASSE once both agents are out
// of items or Config.MaxMessages is reached.
//
// # Usage
//
//	engine := dialogue.NewEngine(dialogue.WithBus(bus), dialogue.WithLogger(logger))
//	result, err := engine.Run(ctx, catalog,
//	    dialogue.Participant{Name: "Alice", Profile: alice},
//	    dialogue.Participant{Name: "Bob", Profile: bob},
//	    dialogue.DefaultConfig(),
//	    rand.New(rand.NewPCG(seed, seed)))
//
// # Thread Safety
//
// An Engine is immutable after NewEngine and may run dialogues from many
// goroutines. The state of each dialogue belongs to the call running it.
// Sinks attached with WithSink must be safe for concurrent use when the
// engine is shared.
package dialogue
