// Package preflight provides readiness checks for the external services and
// filesystem paths reelsync depends on.
//
// "reelsync doctor" runs RunAll and renders the results. Individual checks
// are gated by their config toggle; disabled features report as skipped.
package preflight
