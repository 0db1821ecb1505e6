// Package enrichment runs the catalog maintenance passes.
//
// Pass A matches every unenriched entry against TMDB and writes the movie
// fields, tags, images, and cover back to the store. Entries that need a human
// choice go to a Prompter: the terminal prompter blocks for an answer while
// DeferPrompter parks the choice in the pending queue. Pass B backfills tags on
// enriched entries that have categories but no tags. Pass C creates calendar
// reminders for upcoming releases.
//
// Every write is guarded by an existence check, so reruns are idempotent.
// Runner is sequential; one entry is fully written before the next starts.
package enrichment
