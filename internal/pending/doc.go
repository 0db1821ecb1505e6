// Package pending persists manual-choice decisions that could not be answered
// during an unattended run.
//
// A non-interactive enrichment pass defers each ambiguous entry here with its
// ranked candidates; a later interactive session lists the queue, applies the
// reviewer's choice, and resolves or drops the entry. Resolved and dropped
// entries move to a small history table so the outcome stays auditable.
//
// Schema changes bump the version in schema.go; users delete pending.db to
// adopt the new schema.
package pending
