package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/combimatch-cli/internal/adapters/driving/input"
	"github.com/custodia-labs/combimatch-cli/internal/adapters/driving/view"
	"github.com/custodia-labs/combimatch-cli/internal/core/domain"
)

// LoadNumbersInput is the input schema for the load_numbers tool.
type LoadNumbersInput struct {
	Numbers    []string `json:"numbers,omitempty" jsonschema:"numbers to load, one value per element"`
	Text       string   `json:"text,omitempty" jsonschema:"raw text to parse instead of numbers, e.g. a pasted spreadsheet column"`
	Mode       string   `json:"mode,omitempty" jsonschema:"layout of text: line, comma or csv (default from settings)"`
	Precision  *int     `json:"precision,omitempty" jsonschema:"decimal places values are rounded to (default from settings)"`
	NewSession bool     `json:"new_session,omitempty" jsonschema:"discard finalized groups before loading"`
}

// LoadNumbersOutput is the output schema for the load_numbers tool.
type LoadNumbersOutput struct {
	Loaded  int           `json:"loaded"`
	Entries []view.Entry `json:"entries"`
}


// FindInput is the input schema for the find_combinations tool.
type FindInput struct {
	Target     string `json:"target" jsonschema:"the sum to look for"`
	Tolerance  string `json:"tolerance,omitempty" jsonschema:"accepted distance from the target (default from settings)"`
	MinCount   int    `json:"min_count,omitempty" jsonschema:"smallest subset size (default from settings)"`
	MaxCount   int    `json:"max_count,omitempty" jsonschema:"largest subset size (default from settings)"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"stop after this many combinations (default from settings)"`
}

// FindOutput is the output schema for the find_combinations tool.
type FindOutput struct {
	Results      []view.Combination `json:"results"`
	Count        int                 `json:"count"`
	Cancelled    bool                `json:"cancelled"`
	NodesVisited int64               `json:"nodes_visited"`
}


// FinalizeInput is the input schema for the finalize_combination tool.
type FinalizeInput struct {
	Index int     `json:"index,omitempty" jsonschema:"1-based index into the current results"`
	IDs   []int64 `json:"ids,omitempty" jsonschema:"entry ids of the combination, used when index is not set"`
}

// FinalizeOutput is the output schema for the finalize_combination tool.
type FinalizeOutput struct {
	Group     view.Group         `json:"group"`
	Remaining []view.Combination `json:"remaining"`
}


// PoolInput is the input schema for the get_pool tool.
type PoolInput struct {
	AvailableOnly bool `json:"available_only,omitempty" jsonschema:"omit finalized entries"`
}

// PoolOutput is the output schema for the get_pool tool.
type PoolOutput struct {
	Entries []view.Entry `json:"entries"`
	Summary view.Summary `json:"summary"`
}

// GroupsInput is the input schema for the get_groups tool.
type GroupsInput struct{}

// GroupsOutput is the output schema for the get_groups tool.
type GroupsOutput struct {
	Groups  []view.Group `json:"groups"`
	Summary view.Summary `json:"summary"`
}


// ExportInput is the input schema for the export_report tool.
type ExportInput struct {
	Path string `json:"path" jsonschema:"SQLite file the report is written to"`
}

// ExportOutput is the output schema for the export_report tool.
type ExportOutput struct {
	Path string `json:"path"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "load_numbers",
		Description: "Replace the number pool with the given values",
	}, s.handleLoadNumbers)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "find_combinations",
		Description: "Find subsets of the available numbers whose sum is within tolerance of a target",
	}, s.handleFind)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "finalize_combination",
		Description: "Commit a combination from the current results into a new colour-tagged group",
	}, s.handleFinalize)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_pool",
		Description: "List loaded numbers with their status",
	}, s.handleGetPool)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_groups",
		Description: "List finalized groups in creation order",
	}, s.handleGetGroups)

	if s.ports.Report != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "export_report",
			Description: "Write the pool and finalized groups to a SQLite file",
		}, s.handleExport)
	}
}

// handleLoadNumbers handles the load_numbers tool invocation.
func (s *Server) handleLoadNumbers(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	in LoadNumbersInput,
) (*mcp.CallToolResult, LoadNumbersOutput, error) {
	settings, err := s.currentSettings()
	if err != nil {
		return nil, LoadNumbersOutput{}, err
	}

	values, err := rawValues(in, settings.Input.Mode)
	if err != nil {
		return nil, LoadNumbersOutput{}, err
	}

	opts := domain.LoadOptions{NewSession: in.NewSession, Precision: settings.Input.Precision}
	if in.Precision != nil {
		opts.Precision = *in.Precision
	}

	entries, err := s.ports.Session.LoadNumbers(ctx, values, opts)
	if err != nil {
		return nil, LoadNumbersOutput{}, err
	}

	return nil, LoadNumbersOutput{Loaded: len(entries), Entries: view.NewEntries(entries)}, nil
}

func rawValues(in LoadNumbersInput, defaultMode domain.InputMode) ([]domain.RawValue, error) {
	switch {
	case len(in.Numbers) > 0 && in.Text != "":
		return nil, &domain.ParameterError{Field: "numbers", Reason: "give either numbers or text, not both"}
	case len(in.Numbers) > 0:
		return input.ParseText(strings.Join(in.Numbers, "\n"), input.Options{
			Mode:  domain.InputModeLine,
			Label: "numbers",
		})
	case in.Text != "":
		mode := defaultMode
		if in.Mode != "" {
			mode = domain.InputMode(in.Mode)
			if !mode.IsValid() {
				return nil, &domain.ParameterError{Field: "mode", Reason: fmt.Sprintf("unknown input mode %q", in.Mode)}
			}
		}
		return input.ParseText(in.Text, input.Options{Mode: mode, Label: "text"})
	}
	return nil, &domain.ParameterError{Field: "numbers", Reason: "nothing to load"}
}

// handleFind handles the find_combinations tool invocation.
func (s *Server) handleFind(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	in FindInput,
) (*mcp.CallToolResult, FindOutput, error) {
	params, err := s.findParams(in)
	if err != nil {
		return nil, FindOutput{}, err
	}

	results, err := s.ports.Session.FindCombinations(ctx, params, nil)
	if err != nil {
		return nil, FindOutput{}, err
	}

	out := FindOutput{
		Results:      view.NewCombinations(results),
		Count:        results.Len(),
		Cancelled:    results.Cancelled,
		NodesVisited: results.NodesVisited,
	}
	return nil, out, nil
}

// findParams merges the tool arguments over the stored search defaults.
func (s *Server) findParams(in FindInput) (domain.SearchParams, error) {
	target, err := domain.ParseAmount(in.Target)
	if err != nil {
		return domain.SearchParams{}, &domain.ParameterError{Field: "target", Reason: err.Error()}
	}

	settings, err := s.currentSettings()
	if err != nil {
		return domain.SearchParams{}, err
	}
	params := settings.Search.Params(target)

	if in.Tolerance != "" {
		tol, err := domain.ParseAmount(in.Tolerance)
		if err != nil {
			return domain.SearchParams{}, &domain.ParameterError{Field: "tolerance", Reason: err.Error()}
		}
		params.Tolerance = tol
	}
	if in.MinCount > 0 {
		params.MinCount = in.MinCount
	}
	if in.MaxCount > 0 {
		params.MaxCount = in.MaxCount
	}
	if in.MaxResults > 0 {
		params.MaxResults = in.MaxResults
	}
	return params, params.Validate()
}

// handleFinalize handles the finalize_combination tool invocation.
func (s *Server) handleFinalize(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	in FinalizeInput,
) (*mcp.CallToolResult, FinalizeOutput, error) {
	ids, err := s.selection(in)
	if err != nil {
		return nil, FinalizeOutput{}, err
	}

	group, err := s.ports.Session.FinalizeCombination(ctx, ids)
	if err != nil {
		if errors.Is(err, domain.ErrStaleSelection) {
			return nil, FinalizeOutput{}, fmt.Errorf("%w: call find_combinations again", err)
		}
		return nil, FinalizeOutput{}, err
	}

	out := FinalizeOutput{
		Group:     view.NewGroup(*group),
		Remaining: view.NewCombinations(s.ports.Session.LiveResults()),
	}
	return nil, out, nil
}

// selection resolves the member ids of the combination to finalize.
func (s *Server) selection(in FinalizeInput) ([]domain.EntryID, error) {
	if in.Index == 0 {
		if len(in.IDs) == 0 {
			return nil, &domain.ParameterError{Field: "index", Reason: "give an index or ids"}
		}
		ids := make([]domain.EntryID, len(in.IDs))
		for i, id := range in.IDs {
			ids[i] = domain.EntryID(id)
		}
		return ids, nil
	}

	live := s.ports.Session.LiveResults()
	if live == nil {
		return nil, ErrNoResults
	}
	all := live.All()
	if in.Index < 1 || in.Index > len(all) {
		return nil, &domain.ParameterError{
			Field:  "index",
			Reason: fmt.Sprintf("must be between 1 and %d", len(all)),
		}
	}
	return all[in.Index-1].MemberIDs, nil
}

// handleGetPool handles the get_pool tool invocation.
func (s *Server) handleGetPool(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	in PoolInput,
) (*mcp.CallToolResult, PoolOutput, error) {
	entries, err := s.ports.Session.PoolSnapshot(ctx)
	if err != nil {
		return nil, PoolOutput{}, fmt.Errorf("snapshot pool: %w", err)
	}
	summary, err := s.ports.Session.Summary(ctx)
	if err != nil {
		return nil, PoolOutput{}, fmt.Errorf("summary: %w", err)
	}

	out := PoolOutput{Entries: []view.Entry{}, Summary: view.NewSummary(summary)}
	for i := range entries {
		if in.AvailableOnly && !entries[i].IsAvailable() {
			continue
		}
		out.Entries = append(out.Entries, view.NewEntry(entries[i]))
	}
	return nil, out, nil
}

// handleGetGroups handles the get_groups tool invocation.
func (s *Server) handleGetGroups(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ GroupsInput,
) (*mcp.CallToolResult, GroupsOutput, error) {
	groups, err := s.ports.Session.FinalizedGroups(ctx)
	if err != nil {
		return nil, GroupsOutput{}, fmt.Errorf("listing groups: %w", err)
	}
	summary, err := s.ports.Session.Summary(ctx)
	if err != nil {
		return nil, GroupsOutput{}, fmt.Errorf("summary: %w", err)
	}

	return nil, GroupsOutput{Groups: view.NewGroups(groups), Summary: view.NewSummary(summary)}, nil
}

// handleExport handles the export_report tool invocation.
func (s *Server) handleExport(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	in ExportInput,
) (*mcp.CallToolResult, ExportOutput, error) {
	if strings.TrimSpace(in.Path) == "" {
		return nil, ExportOutput{}, &domain.ParameterError{Field: "path", Reason: "must not be empty"}
	}
	if err := s.ports.Report.Export(ctx, in.Path); err != nil {
		return nil, ExportOutput{}, err
	}
	return nil, ExportOutput{Path: in.Path}, nil
}
