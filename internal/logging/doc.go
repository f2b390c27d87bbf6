// Package logging provides concrete implementations of the ddms.Logger interface.
//
// Available implementations:
//   - ConsoleLogger: Writes prefixed lines to stderr (or any writer) with thread-safe output
//   - ZapLogger: Structured output through go.uber.org/zap, for JSON log pipelines
//   - NullLogger: Discards all messages (useful for testing)
//
// All logger implementations are safe for concurrent use by multiple goroutines.
package logging
