// Package logging provides concrete implementations of the fts.Logger interface.
//
// Available implementations:
//   - ConsoleLogger: writes prefixed lines to stderr through logrus
//   - NullLogger: discards all messages (useful for testing)
//
// All logger implementations are safe for concurrent use by multiple goroutines.
package logging
