// Command reelsync keeps a Notion movie catalog enriched from TMDB, schedules
// release reminders, reconciles the catalog against the NAS share, and serves
// the file-open endpoint Notion pages link to.
package main
