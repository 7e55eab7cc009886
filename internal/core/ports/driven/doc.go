// Package driven holds the interfaces the core services call out through.
//
// Adapters under internal/adapters/driven implement them; services only
// ever see the interface.
//
// NumberPool, GroupStore and ConfigStore must be provided. Exporter and
// Metrics may be nil: without an Exporter the report command is
// unavailable, and without Metrics nothing is recorded.
//
// This package imports domain and nothing else from the module.
package driven
