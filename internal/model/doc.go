// Package model abstracts the language model behind the agent. It
// defines a provider-neutral conversation format with tool calling and
// ships an Anthropic Messages API implementation.
package model
