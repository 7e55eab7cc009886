// Package view holds the JSON shapes shared by the driving adapters, so
// `find --json` and the MCP tools describe the same things the same way.
package view

import (
	"github.com/custodia-labs/combimatch-cli/internal/core/domain"
)

// Entry is one pool entry.
type Entry struct {
	ID     int64  `json:"id"`
	Label  string `json:"label"`
	Value  string `json:"value"`
	Status string `json:"status"`
	Group  string `json:"group,omitempty"`
	Source string `json:"source,omitempty"`
}

// Combination is one search result. Index is 1-based and is what
// `find --finalize` and finalize_combination take.
type Combination struct {
	Index      int      `json:"index"`
	IDs        []int64  `json:"ids"`
	Values     []string `json:"values"`
	Sum        string   `json:"sum"`
	Difference string   `json:"difference"`
	Exact      bool     `json:"exact"`
}

// Group is one finalized group. Number is 1-based.
type Group struct {
	ID     string   `json:"id"`
	Number int      `json:"number"`
	Color  string   `json:"color"`
	Hex    string   `json:"hex"`
	IDs    []int64  `json:"ids"`
	Values []string `json:"values"`
	Sum    string   `json:"sum"`
}

// Summary aggregates pool and group state.
type Summary struct {
	Groups           int    `json:"groups"`
	FinalizedEntries int    `json:"finalized_entries"`
	AvailableEntries int    `json:"available_entries"`
	FinalizedTotal   string `json:"finalized_total"`
	AvailableTotal   string `json:"available_total"`
}

func NewEntry(e domain.NumberEntry) Entry {
	out := Entry{
		ID:     int64(e.ID),
		Label:  e.DisplayLabel(),
		Value:  e.Value.String(),
		Status: e.Status.String(),
		Group:  e.GroupID,
	}
	if e.Source.Row > 0 {
		out.Source = e.Source.Cell()
	}
	return out
}

// NewEntries never returns nil, so an empty pool encodes as [].
func NewEntries(entries []domain.NumberEntry) []Entry {
	out := make([]Entry, len(entries))
	for i := range entries {
		out[i] = NewEntry(entries[i])
	}
	return out
}

// NewCombinations numbers rs.All() from 1. A nil rs gives an empty slice.
func NewCombinations(rs *domain.ResultSet) []Combination {
	all := rs.All()
	out := make([]Combination, len(all))
	for i, c := range all {
		out[i] = Combination{
			Index:      i + 1,
			IDs:        IDs(c.MemberIDs),
			Values:     Amounts(c.Values),
			Sum:        c.Sum.String(),
			Difference: c.SignedDifference().String(),
			Exact:      c.Exact(),
		}
	}
	return out
}

func NewGroup(g domain.FinalizedGroup) Group {
	return Group{
		ID:     g.ID,
		Number: g.Seq + 1,
		Color:  g.Color.Name,
		Hex:    g.Color.Hex(),
		IDs:    IDs(g.MemberIDs),
		Values: Amounts(g.Values),
		Sum:    g.Sum.String(),
	}
}

func NewGroups(groups []domain.FinalizedGroup) []Group {
	out := make([]Group, len(groups))
	for i := range groups {
		out[i] = NewGroup(groups[i])
	}
	return out
}

func NewSummary(s domain.SessionSummary) Summary {
	return Summary{
		Groups:           s.Groups,
		FinalizedEntries: s.FinalizedEntries,
		AvailableEntries: s.AvailableEntries,
		FinalizedTotal:   s.FinalizedTotal.String(),
		AvailableTotal:   s.AvailableTotal.String(),
	}
}

func IDs(ids []domain.EntryID) []int64 {
	out := make([]int64, len(ids))
	for i, id := range ids {
		out[i] = int64(id)
	}
	return out
}

func Amounts(values []domain.Amount) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = v.String()
	}
	return out
}
