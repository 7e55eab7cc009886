package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_SetGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("search.tolerance", "0.5"))

	val, ok := store.Get("search.tolerance")
	assert.True(t, ok)
	assert.Equal(t, "0.5", val)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_NormalisesNumbers(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("i", 3))
	require.NoError(t, store.Set("f", float32(1.5)))

	i, _ := store.Get("i")
	f, _ := store.Get("f")

	assert.Equal(t, int64(3), i)
	assert.Equal(t, float64(1.5), f)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("s", "text"))
	require.NoError(t, store.Set("n", 42))
	require.NoError(t, store.Set("whole", 4.0))
	require.NoError(t, store.Set("frac", 2.5))

	tests := []struct {
		key     string
		wantStr string
		wantInt int
	}{
		{key: "s", wantStr: "text", wantInt: 0},
		{key: "n", wantStr: "", wantInt: 42},
		{key: "whole", wantStr: "", wantInt: 4},
		{key: "frac", wantStr: "", wantInt: 0},
		{key: "missing", wantStr: "", wantInt: 0},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.wantStr, store.GetString(tt.key))
			assert.Equal(t, tt.wantInt, store.GetInt(tt.key))
		})
	}
}

func TestConfigStore_LoadRestoresLastSave(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("search.max_results", 10))
	require.NoError(t, store.Save())
	require.NoError(t, store.Set("search.max_results", 99))
	require.NoError(t, store.Set("input.mode", "csv"))

	require.NoError(t, store.Load())

	assert.Equal(t, 10, store.GetInt("search.max_results"))
	_, ok := store.Get("input.mode")
	assert.False(t, ok, "unsaved key is discarded")
	assert.Equal(t, 1, store.Saves())
}

func TestConfigStore_Path(t *testing.T) {
	assert.Equal(t, ":memory:", NewConfigStore().Path())
}

func TestConfigStore_ConcurrentAccess(t *testing.T) {
	store := NewConfigStore()
	var wg sync.WaitGroup

	for i := range 50 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("search.max_results", n)
			_ = store.GetInt("search.max_results")
			if n%10 == 0 {
				_ = store.Save()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 5, store.Saves())
}
