// Package logging provides structured logging for persuade.
//
// It wraps log/slog with a JSON handler. Loggers write to {state_dir}/debug.log
// or to stderr, and child loggers carry dialogue and agent context:
//
//	logger, err := logging.NewLogger(".persuade", logging.LevelInfo)
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	dl := logger.WithDialogue(id).WithAgent("Alice")
//	dl.Debug("proposal sent", "item", "Engine8")
//
// # Thread Safety
//
// Loggers are safe for concurrent use. Child loggers created via With*
// methods share the parent's writer.
package logging
