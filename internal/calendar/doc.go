// Package calendar provides a read-only client for the Google Calendar API.
//
// The client lists and retrieves events on behalf of a specific account and
// converts API responses into simplified summaries suitable for rendering to
// a language model.
package calendar
