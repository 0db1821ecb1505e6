// Package catalog defines the value types shared between the matching core and
// its collaborators: Notion catalog entries, TMDB candidates, credits, and the
// property patches written back after enrichment.
//
// The package has no dependencies so every other package can import it without
// creating cycles.
package catalog
