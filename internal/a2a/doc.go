// Package a2a implements the agent-to-agent protocol endpoint and its
// client: JSON-RPC 2.0 over HTTP with message/send, message/stream
// (SSE), tasks/get and tasks/cancel, an agent card for discovery, an
// in-memory task store, and optional bearer JWT session auth.
package a2a
