// Package services defines shared utilities consumed by the enrichment passes
// and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp Notion page IDs, run IDs, and correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper so callers can tell a
//     transient provider failure from bad input or bad configuration.
//
// Use these helpers when wiring new collaborators so failure handling and
// observability stay uniform across commands.
package services
