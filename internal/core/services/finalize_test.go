package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/combimatch-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/combimatch-cli/internal/core/domain"
)

type finalizeFixture struct {
	pool      *memory.NumberPool
	groups    *memory.GroupStore
	metrics   *recordingMetrics
	finalizer *FinalizationManager
	entries   []domain.NumberEntry
}

func newFinalizeFixture(t *testing.T, values ...string) *finalizeFixture {
	t.Helper()
	f := &finalizeFixture{
		pool:    memory.NewNumberPool(),
		groups:  memory.NewGroupStore(),
		metrics: &recordingMetrics{},
	}
	f.finalizer = NewFinalizationManager(f.pool, f.groups, f.metrics)
	seq := 0
	f.finalizer.newID = func() string {
		seq++
		return fmt.Sprintf("group-%d", seq)
	}

	raw := make([]domain.RawValue, len(values))
	for i, v := range values {
		raw[i] = domain.RawValue{Text: v, Kind: domain.CellNumber}
	}
	entries, err := f.pool.Load(context.Background(), raw, 2)
	require.NoError(t, err)
	f.entries = entries
	return f
}

func (f *finalizeFixture) search(t *testing.T, p domain.SearchParams) *domain.ResultSet {
	t.Helper()
	available, err := f.pool.Available(context.Background())
	require.NoError(t, err)
	rs, err := NewSearchEngine(nil).Search(context.Background(), available, p, nil)
	require.NoError(t, err)
	return rs
}

func TestFinalizationManager_Finalize(t *testing.T) {
	f := newFinalizeFixture(t, "10", "20", "30", "45", "5")
	ctx := context.Background()
	rs := f.search(t, params("50", "0", 1, 3, 10))
	require.Len(t, rs.Exact, 2)

	group, pruned, err := f.finalizer.Finalize(ctx, rs.Exact[0], rs)

	require.NoError(t, err)
	assert.Equal(t, "group-1", group.ID)
	assert.Equal(t, 0, group.Seq)
	assert.Equal(t, domain.Palette[0], group.Color)
	assert.Equal(t, rs.Exact[0].MemberIDs, group.MemberIDs)
	assert.Equal(t, domain.AmountFromInt(50), group.Sum)

	// {45,5} shares nothing with {20,30} and survives.
	require.Equal(t, 1, pruned.Len())
	assert.Equal(t, rs.Exact[1].MemberIDs, pruned.Exact[0].MemberIDs)

	snapshot, err := f.pool.Snapshot(ctx)
	require.NoError(t, err)
	for _, e := range snapshot {
		if domain.NewIDSet(group.MemberIDs...).Has(e.ID) {
			assert.Equal(t, domain.StatusFinalized, e.Status)
			assert.Equal(t, group.ID, e.GroupID)
		} else {
			assert.Equal(t, domain.StatusAvailable, e.Status)
		}
	}

	groups, _ := f.groups.List(ctx)
	assert.Len(t, groups, 1)
	assert.Equal(t, []int{2}, f.metrics.finalizes)
}

func TestFinalizationManager_InvalidatesOverlapping(t *testing.T) {
	f := newFinalizeFixture(t, "10", "20", "30", "45", "5")
	rs := f.search(t, params("52", "3", 1, 3, 10))
	// {20,30}, {45,5}, {10,45}, {20,30,5}
	require.Equal(t, 4, rs.Len())

	_, pruned, err := f.finalizer.Finalize(context.Background(), rs.Approximate[1], rs)

	require.NoError(t, err)
	removed := domain.NewIDSet(rs.Approximate[1].MemberIDs...)
	for _, c := range pruned.All() {
		assert.False(t, c.Overlaps(removed))
	}
	assert.Equal(t, [][]domain.EntryID{{2, 3}}, memberIDs(pruned.Approximate))
}

func TestFinalizationManager_StaleSelection(t *testing.T) {
	f := newFinalizeFixture(t, "10", "20", "30", "45", "5")
	ctx := context.Background()
	rs := f.search(t, params("50", "5", 1, 3, 10))

	// Commit a combination, then try one computed before it that overlaps.
	first := rs.All()[0]
	_, _, err := f.finalizer.Finalize(ctx, first, rs)
	require.NoError(t, err)

	var overlapping domain.Combination
	for _, c := range rs.All()[1:] {
		if c.Overlaps(domain.NewIDSet(first.MemberIDs...)) {
			overlapping = c
			break
		}
	}
	require.NotZero(t, overlapping.Size())

	group, _, err := f.finalizer.Finalize(ctx, overlapping, rs)

	assert.Nil(t, group)
	assert.ErrorIs(t, err, domain.ErrStaleSelection)
	var selErr *domain.SelectionError
	require.ErrorAs(t, err, &selErr)
	assert.NotEmpty(t, selErr.IDs)

	count, _ := f.groups.Count(ctx)
	assert.Equal(t, 1, count, "a stale selection creates no group")
}

func TestFinalizationManager_UnknownIDsAreStale(t *testing.T) {
	f := newFinalizeFixture(t, "10", "20")
	ghost := domain.NewCombination([]domain.NumberEntry{{ID: 999, Value: domain.AmountFromInt(10)}},
		domain.AmountFromInt(10), 0)

	_, _, err := f.finalizer.Finalize(context.Background(), ghost, nil)

	assert.ErrorIs(t, err, domain.ErrStaleSelection)
}

func TestFinalizationManager_EmptySelection(t *testing.T) {
	f := newFinalizeFixture(t, "10")

	_, _, err := f.finalizer.Finalize(context.Background(), domain.Combination{}, nil)

	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
}

func TestFinalizationManager_ColorSequence(t *testing.T) {
	run := func() []domain.Color {
		values := make([]string, 25)
		for i := range values {
			values[i] = fmt.Sprint(i + 1)
		}
		f := newFinalizeFixture(t, values...)
		var colors []domain.Color
		for _, e := range f.entries {
			single := domain.NewCombination([]domain.NumberEntry{e}, e.Value, 0)
			group, _, err := f.finalizer.Finalize(context.Background(), single, nil)
			require.NoError(t, err)
			colors = append(colors, group.Color)
		}
		return colors
	}

	first := run()
	second := run()

	assert.Equal(t, first, second)
	for i, c := range first {
		assert.Equal(t, domain.ColorForSequence(i), c)
	}
	// The palette cycles after 20 groups.
	assert.Equal(t, first[0], first[len(domain.Palette)])
}

func TestFinalizationManager_ColorIgnoresValues(t *testing.T) {
	a := newFinalizeFixture(t, "1", "2")
	b := newFinalizeFixture(t, "100", "200")

	ga, _, err := a.finalizer.Finalize(context.Background(),
		domain.NewCombination(a.entries[1:], a.entries[1].Value, 0), nil)
	require.NoError(t, err)
	gb, _, err := b.finalizer.Finalize(context.Background(),
		domain.NewCombination(b.entries[:1], b.entries[0].Value, 0), nil)
	require.NoError(t, err)

	assert.Equal(t, ga.Color, gb.Color)
}

func TestFinalizationManager_GroupStoreFailure(t *testing.T) {
	pool := memory.NewNumberPool()
	entries, err := pool.Load(context.Background(), []domain.RawValue{{Text: "5", Kind: domain.CellNumber}}, 0)
	require.NoError(t, err)
	finalizer := NewFinalizationManager(pool, &failingGroupStore{err: errStoreDown}, nil)

	_, _, err = finalizer.Finalize(context.Background(),
		domain.NewCombination(entries, entries[0].Value, 0), nil)

	assert.ErrorIs(t, err, errStoreDown)
	available, _ := pool.Available(context.Background())
	assert.Len(t, available, 1, "nothing is marked when the group count fails")
}

func TestFinalizationManager_AddFailureLeavesEntriesAvailable(t *testing.T) {
	ctx := context.Background()
	pool := memory.NewNumberPool()
	entries, err := pool.Load(ctx, []domain.RawValue{{Text: "5", Kind: domain.CellNumber}}, 0)
	require.NoError(t, err)
	groups := &flakyGroupStore{GroupStore: memory.NewGroupStore(), addErr: errStoreDown}
	finalizer := NewFinalizationManager(pool, groups, nil)

	_, _, err = finalizer.Finalize(ctx, domain.NewCombination(entries, entries[0].Value, 0), nil)

	assert.ErrorIs(t, err, errStoreDown)
	available, err := pool.Available(ctx)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Empty(t, available[0].GroupID)
	count, _ := groups.Count(ctx)
	assert.Zero(t, count)
}

func TestFinalizationManager_MarkFailureRemovesGroup(t *testing.T) {
	ctx := context.Background()
	pool := &markFailingPool{NumberPool: memory.NewNumberPool(), err: errStoreDown}
	entries, err := pool.Load(ctx, []domain.RawValue{{Text: "5", Kind: domain.CellNumber}}, 0)
	require.NoError(t, err)
	groups := memory.NewGroupStore()
	finalizer := NewFinalizationManager(pool, groups, nil)

	_, _, err = finalizer.Finalize(ctx, domain.NewCombination(entries, entries[0].Value, 0), nil)

	assert.ErrorIs(t, err, errStoreDown)
	list, err := groups.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list, "the group is withdrawn when its members cannot be marked")
}
