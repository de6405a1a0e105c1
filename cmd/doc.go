// Package cmd implements the command-line interface for calagent.
//
// This package provides the following commands:
//   - serve: Start the agent endpoint speaking the A2A protocol
//   - tools: Start the standalone MCP tool server for the calendar tools
//   - chat: Open an interactive session against a running agent endpoint
//   - auth: Authorize access to a Google account
//   - token: Mint a bearer session token for an authenticated endpoint
//   - version: Display version information
//   - generate-docs: Generate markdown documentation for the calendar tools
package cmd
