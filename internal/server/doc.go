// Package server provides the shared runtime of the tool server: the
// ServerContext that caches Google API clients per account, Kubernetes-style
// health probes, and a dedicated Prometheus metrics listener.
//
// ServerContext manages Calendar and Tasks clients with lazy initialization
// and caching. Token providers are pluggable, so tokens can come from disk
// for local runs or from an in-memory store when the agent serves HTTP.
package server
