package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/combimatch-cli/internal/adapters/driving/view"
)

const (
	// uriScheme is the custom URI scheme for combimatch resources.
	uriScheme = "combimatch://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "pool",
		Name:        "pool",
		Description: "Every loaded number with its status and group",
		MIMEType:    "application/json",
	}, s.handlePoolResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "groups",
		Name:        "groups",
		Description: "Finalized groups in creation order",
		MIMEType:    "application/json",
	}, s.handleGroupsResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "results",
		Name:        "results",
		Description: "Combinations from the last search still valid against the pool",
		MIMEType:    "application/json",
	}, s.handleResultsResource)
}

// handlePoolResource returns the pool snapshot.
func (s *Server) handlePoolResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	entries, err := s.ports.Session.PoolSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot pool: %w", err)
	}

	return jsonResource(req.Params.URI, view.NewEntries(entries))
}

// handleGroupsResource returns the finalized groups.
func (s *Server) handleGroupsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	groups, err := s.ports.Session.FinalizedGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing groups: %w", err)
	}

	return jsonResource(req.Params.URI, view.NewGroups(groups))
}

// handleResultsResource returns the live result set, or an empty list
// before the first search.
func (s *Server) handleResultsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	return jsonResource(req.Params.URI, view.NewCombinations(s.ports.Session.LiveResults()))
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
