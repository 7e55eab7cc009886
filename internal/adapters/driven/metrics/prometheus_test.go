package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/combimatch-cli/internal/core/domain"
)

func TestNewPrometheus_IndependentRegistries(t *testing.T) {
	a, err := NewPrometheus()
	require.NoError(t, err)
	b, err := NewPrometheus()
	require.NoError(t, err)

	a.ObserveFinalize(2)

	assert.Equal(t, 1.0, testutil.ToFloat64(a.finalizations))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.finalizations))
}

func TestPrometheus_ObserveSearch(t *testing.T) {
	p, err := NewPrometheus()
	require.NoError(t, err)

	p.ObserveSearch(domain.SearchStats{PoolSize: 5, NodesVisited: 120, Emitted: 3, Duration: 2 * time.Millisecond})
	p.ObserveSearch(domain.SearchStats{PoolSize: 40, NodesVisited: 80, Emitted: 1, Cancelled: true})

	assert.Equal(t, 1.0, testutil.ToFloat64(p.searches.WithLabelValues("completed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.searches.WithLabelValues("cancelled")))
	assert.Equal(t, 200.0, testutil.ToFloat64(p.nodes))
	assert.Equal(t, 4.0, testutil.ToFloat64(p.emitted))
	assert.Equal(t, 1, testutil.CollectAndCount(p.duration, "combimatch_search_duration_seconds"))
	assert.Equal(t, 1, testutil.CollectAndCount(p.poolSize, "combimatch_search_pool_size"))
}

func TestPrometheus_ObserveFinalize(t *testing.T) {
	p, err := NewPrometheus()
	require.NoError(t, err)

	p.ObserveFinalize(2)
	p.ObserveFinalize(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(p.finalizations))
}

func TestPrometheus_Handler(t *testing.T) {
	p, err := NewPrometheus()
	require.NoError(t, err)
	p.ObserveFinalize(4)

	srv := httptest.NewServer(p.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "combimatch_finalize_total 1")
	assert.Contains(t, string(body), "combimatch_finalize_group_size_bucket")
}

func TestNoop(t *testing.T) {
	assert.NotPanics(t, func() {
		Noop{}.ObserveSearch(domain.SearchStats{})
		Noop{}.ObserveFinalize(1)
	})
}
