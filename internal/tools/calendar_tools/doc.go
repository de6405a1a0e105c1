// Package calendar_tools implements the MCP tools the agent exposes for
// reading the user's calendar: event listing over Google Calendar and
// reminder listing over Google Tasks.
package calendar_tools
