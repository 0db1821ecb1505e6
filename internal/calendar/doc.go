// Package calendar creates all-day Google Calendar reminders for upcoming
// releases.
//
// Events carry the Notion page id in a private extended property so reruns can
// find them again; events created before that property existed are matched by
// title on the reminder day.
package calendar
