// Package tasks provides a read-only client for the Google Tasks API.
//
// Tasks are surfaced as reminders: due items aggregated across every task
// list the user owns, bounded by a due-date window.
package tasks
