// Package resources provides MCP resources for exposing calendar metadata.
// Resources are read-only data sources that MCP clients can fetch, such as
// the list of calendars and task lists available to an account.
package resources
