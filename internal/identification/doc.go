// Package identification matches Notion catalog titles to TMDB movies.
//
// Titles are normalized, searched through a Provider, ranked by a blend of
// title similarity and audience signals, and then run through a decision
// policy that either auto-accepts the best candidate, asks a reviewer to pick
// from the ranked list, or asks for an explicit TMDB/IMDb reference. Every
// auto-accept must pass a consistency gate: already released and a close
// title match.
//
// Keep provider IO behind the Provider interface so ranking and decisions stay
// pure and testable.
package identification
