// Package common provides shared helpers for tool implementations: account
// resolution from request arguments and instrumentation wrappers for tool
// handlers.
package common
