// Package agent drives one natural-language question to one answer.
// The orchestrator submits the question and the tool schemas to the
// model, executes the tool calls the model requests through an MCP
// session, feeds the results back, and returns the model's final text.
// Tool rounds are bounded and failures are classified so callers can
// surface a degraded message instead of raw upstream errors.
package agent
