// Package mailbox records dialogue messages as per-agent inboxes on disk.
//
// Every message a dialogue engine delivers is appended to the recipient's
// inbox. Inboxes are append-only JSONL files grouped by dialogue:
//
//	<state_dir>/mailbox/{dialogueID}/
//	    {agent}/index.jsonl -- messages received by agent
//
// # Main Types
//
//   - [Envelope]: a delivered [dialogue.Message] with its ID and delivery time
//   - [Store]: low-level file storage with serialized appends
//   - [Mailbox]: high-level facade that implements [dialogue.Sink] and adds
//     read tracking, transcripts and listing
//
// # Basic Usage
//
//	mb := mailbox.NewMailbox(stateDir)
//	engine := dialogue.NewEngine(dialogue.WithSink(mb))
//	result, err := engine.Run(ctx, cat, alice, bob, cfg, rng)
//
//	// Everything Bob was told, in order
//	inbox, err := mb.Receive(result.ID, "Bob")
//
//	// Only the arguments Bob received
//	args := mailbox.ByPerformative(inbox, dialogue.Argue)
//
//	// The full exchange rebuilt from both inboxes
//	transcript, err := mb.Transcript(result.ID)
//
// # Thread Safety
//
// [Store] and [Mailbox] are safe for concurrent use within a single process.
// File writes use O_APPEND so each JSONL line lands whole.
package mailbox
