// Package notifications delivers run events to ntfy.
//
// NewService returns a no-op publisher when no topic is configured. Pending
// review and run summary events can be switched off individually in the
// [notifications] config section; suppressed events are dropped silently.
package notifications
