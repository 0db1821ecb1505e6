// Package logging assembles structured slog loggers and formatting helpers used
// across reelsync commands.
//
// It owns the console and JSON handlers, centralizes level and output plumbing,
// and exposes context-aware helpers so enrichment code automatically tags log
// lines with the Notion page and run identifiers. A no-op logger is provided for
// tests and wiring code that cannot fail.
package logging
