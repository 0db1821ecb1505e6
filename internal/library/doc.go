// Package library indexes the movie files on the NAS and reconciles them against
// the Notion catalog.
//
// Scan walks the share, FindMatch pairs a catalog title with a file, and
// Reconcile builds the found/missing report. Watch re-runs a callback when the
// share changes. Nothing here writes to the share or to Notion.
package library
