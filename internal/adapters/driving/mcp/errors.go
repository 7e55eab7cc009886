// Package mcp provides an MCP (Model Context Protocol) server adapter for combimatch.
// It lets AI assistants load numbers, search for combinations and
// finalize groups in a session.
package mcp

import "errors"

// ErrMissingSessionService is returned when the session service is not provided.
var ErrMissingSessionService = errors.New("mcp: session service is required")

// ErrNoResults is returned when finalizing by index before any search.
var ErrNoResults = errors.New("mcp: no search results, call find_combinations first")
