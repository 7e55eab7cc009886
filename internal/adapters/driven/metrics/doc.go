// Package metrics implements the driven.Metrics port.
//
// Prometheus keeps its collectors on a private registry so several
// instances can coexist in tests; the MCP HTTP server mounts Handler
// on /metrics. Noop is used when metrics are not wanted.
package metrics
