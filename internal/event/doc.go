// Package event provides the pub-sub bus that carries dialogue events from the
// engine to whoever watches a dialogue: the live trace renderer, the batch
// statistics collector, tests.
//
// # Main Types
//
//   - [Event]: Interface that all events must implement, providing EventType() and Timestamp()
//   - [Bus]: Synchronous pub-sub event dispatcher with thread-safe operations
//   - [Handler]: Function type for event handlers (func(Event))
//
// # Dialogue Events
//
//   - [DialogueStartedEvent]: configuration accepted, no message sent yet
//   - [DialogueMessageEvent]: one message appended to the history
//   - [DialogueExhaustedEvent]: an agent ran out of rebuttals; carries the policy decision
//   - [DialogueEndedEvent]: COMMITTED or IMPASSE reached
//
// # Usage
//
//	bus := event.NewBus()
//	bus.Subscribe(event.TypeDialogueEnded, func(e event.Event) {
//	    ended := e.(event.DialogueEndedEvent)
//	    fmt.Println(ended.State, ended.Item)
//	})
//
// # Thread Safety
//
// Subscribe, Unsubscribe and Publish may be called from any goroutine.
// Handlers run synchronously on the publisher's goroutine, so one bus shared
// by concurrent dialogues sees handlers invoked concurrently.
package event
