// Package logging builds slog loggers with scribe's console and JSON
// handlers and carries correlation attributes from context into log lines.
package logging
