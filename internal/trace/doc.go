// Package trace renders dialogues for people and for tools.
//
// A [Renderer] writes one line per message, either as styled text
//
//	From Alice to Bob (ARGUE) not Engine8 <- CONSUMPTION=VERY_BAD
//
// or as JSON lines. It can render a finished [dialogue.Result] or follow a
// running dialogue live through [Renderer.Attach].
package trace
