package domain

import (
	"cmp"
	"slices"
	"strings"
)

// IDSet is a set of entry ids.
type IDSet map[EntryID]struct{}

// NewIDSet builds a set from ids.
func NewIDSet(ids ...EntryID) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is in the set.
func (s IDSet) Has(id EntryID) bool {
	_, ok := s[id]
	return ok
}

// Combination is a snapshot of entry ids whose values sum to within
// Tolerance of Target. It holds no references into the pool.
type Combination struct {
	// MemberIDs are sorted ascending and unique.
	MemberIDs []EntryID

	// Values holds each member's value, aligned with MemberIDs.
	Values []Amount

	// Sum is the total of Values.
	Sum Amount

	// Target is the sum that was searched for.
	Target Amount

	// Tolerance is the accepted distance from Target.
	Tolerance Amount

	// Difference is |Sum - Target|.
	Difference Amount
}

// NewCombination builds a combination from entries, recomputing the sum.
func NewCombination(members []NumberEntry, target, tolerance Amount) Combination {
	sorted := slices.Clone(members)
	slices.SortFunc(sorted, func(a, b NumberEntry) int {
		return cmp.Compare(a.ID, b.ID)
	})

	c := Combination{
		MemberIDs: make([]EntryID, len(sorted)),
		Values:    make([]Amount, len(sorted)),
		Target:    target,
		Tolerance: tolerance,
	}
	for i, e := range sorted {
		c.MemberIDs[i] = e.ID
		c.Values[i] = e.Value
	}
	c.Sum = SumAmounts(c.Values)
	c.Difference = c.SignedDifference().Abs()
	return c
}

// Size returns the number of members.
func (c Combination) Size() int {
	return len(c.MemberIDs)
}

// Exact reports whether the sum equals the target within Epsilon.
func (c Combination) Exact() bool {
	return c.Difference.IsZero()
}

// SignedDifference returns Sum - Target.
func (c Combination) SignedDifference() Amount {
	return c.Sum.Sub(c.Target)
}

// DifferenceDisplay returns the signed difference, e.g. "+2.00".
func (c Combination) DifferenceDisplay(places int) string {
	d := c.SignedDifference()
	if d >= 0 {
		return "+" + d.StringFixed(places)
	}
	return d.StringFixed(places)
}

// Key returns a canonical string for the id set.
func (c Combination) Key() string {
	return KeyOf(c.MemberIDs)
}

// Overlaps reports whether any member is in ids.
func (c Combination) Overlaps(ids IDSet) bool {
	for _, id := range c.MemberIDs {
		if ids.Has(id) {
			return true
		}
	}
	return false
}

// String renders the members, e.g. "20 + 30 = 50".
func (c Combination) String() string {
	parts := make([]string, len(c.Values))
	for i, v := range c.Values {
		parts[i] = v.String()
	}
	return strings.Join(parts, " + ") + " = " + c.Sum.String()
}

// KeyOf returns the canonical key of an id set regardless of input order.
func KeyOf(ids []EntryID) string {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	var b strings.Builder
	for i, id := range sorted {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(id.String())
	}
	return b.String()
}

// CompareCombinations orders by member count, then difference, then the
// sorted member ids lexicographically.
func CompareCombinations(a, b Combination) int {
	if c := cmp.Compare(a.Size(), b.Size()); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Difference, b.Difference); c != 0 {
		return c
	}
	return slices.Compare(a.MemberIDs, b.MemberIDs)
}

// ResultSet is the classified, ordered output of one search.
type ResultSet struct {
	// Exact holds combinations whose difference is below Epsilon.
	Exact []Combination

	// Approximate holds combinations with 0 < difference <= tolerance.
	Approximate []Combination

	// Params are the parameters the search ran with.
	Params SearchParams

	// Cancelled is set when the search was stopped before exhaustion.
	// The combinations found up to that point are still returned.
	Cancelled bool

	// NodesVisited counts partial subsets explored.
	NodesVisited int64
}

// NewResultSet classifies, deduplicates and orders combinations.
func NewResultSet(params SearchParams, combos []Combination) *ResultSet {
	rs := &ResultSet{
		Exact:       []Combination{},
		Approximate: []Combination{},
		Params:      params,
	}
	seen := make(map[string]struct{}, len(combos))
	for _, c := range combos {
		key := c.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if c.Exact() {
			rs.Exact = append(rs.Exact, c)
		} else {
			rs.Approximate = append(rs.Approximate, c)
		}
	}
	slices.SortStableFunc(rs.Exact, CompareCombinations)
	slices.SortStableFunc(rs.Approximate, CompareCombinations)
	return rs
}

// Len returns the total number of combinations.
func (r *ResultSet) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Exact) + len(r.Approximate)
}

// IsEmpty reports whether there are no combinations.
func (r *ResultSet) IsEmpty() bool {
	return r.Len() == 0
}

// All returns exact matches followed by approximate matches.
func (r *ResultSet) All() []Combination {
	if r == nil {
		return nil
	}
	all := make([]Combination, 0, r.Len())
	all = append(all, r.Exact...)
	return append(all, r.Approximate...)
}

// Find returns the combination backed by exactly ids.
func (r *ResultSet) Find(ids []EntryID) (Combination, bool) {
	key := KeyOf(ids)
	for _, c := range r.All() {
		if c.Key() == key {
			return c, true
		}
	}
	return Combination{}, false
}

// Invalidate returns a new ResultSet without any combination that shares
// a member with removed. Survivors keep their relative order.
func (r *ResultSet) Invalidate(removed IDSet) *ResultSet {
	if r == nil {
		return nil
	}
	return &ResultSet{
		Exact:        keepDisjoint(r.Exact, removed),
		Approximate:  keepDisjoint(r.Approximate, removed),
		Params:       r.Params,
		Cancelled:    r.Cancelled,
		NodesVisited: r.NodesVisited,
	}
}

func keepDisjoint(combos []Combination, removed IDSet) []Combination {
	out := make([]Combination, 0, len(combos))
	for _, c := range combos {
		if !c.Overlaps(removed) {
			out = append(out, c)
		}
	}
	return out
}
