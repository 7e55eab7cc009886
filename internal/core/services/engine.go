package services

import (
	"cmp"
	"context"
	"slices"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/combimatch-cli/internal/core/domain"
	"github.com/custodia-labs/combimatch-cli/internal/core/ports/driven"
	"github.com/custodia-labs/combimatch-cli/internal/logger"
)

const (
	// progressCheckMask limits how often the limiter is consulted.
	progressCheckMask = 1<<10 - 1

	// DefaultProgressInterval is the minimum gap between progress callbacks.
	DefaultProgressInterval = 100 * time.Millisecond
)

// SearchEngine enumerates subsets of available entries whose sum falls
// within tolerance of a target. It holds no state between searches and
// is safe for concurrent use.
type SearchEngine struct {
	metrics          driven.Metrics
	progressInterval time.Duration
}

// NewSearchEngine creates a search engine. metrics may be nil.
func NewSearchEngine(metrics driven.Metrics) *SearchEngine {
	return &SearchEngine{
		metrics:          metrics,
		progressInterval: DefaultProgressInterval,
	}
}

// SetProgressInterval changes the progress throttle. Zero reports every
// check, which tests rely on.
func (e *SearchEngine) SetProgressInterval(d time.Duration) {
	e.progressInterval = d
}

// Search runs a depth-first enumeration over available.
//
// Entries are visited in ascending (value, id) order and each subset is
// reached exactly once, so the first MaxResults emitted combinations are
// deterministic. Negative tolerance is the only error; impossible bounds
// or an empty pool yield an empty ResultSet.
//
// Cancelling ctx stops the walk at the next node and returns what was
// found so far with Cancelled set.
func (e *SearchEngine) Search(
	ctx context.Context,
	available []domain.NumberEntry,
	params domain.SearchParams,
	progress domain.ProgressFunc,
) (*domain.ResultSet, error) {
	logger.Section("Combination Search")

	if params.Tolerance < 0 {
		return nil, &domain.ParameterError{Field: "tolerance", Reason: "must not be negative"}
	}

	start := time.Now()
	run := newSearchRun(ctx, available, params, progress, e.progressInterval)

	logger.Debug("Pool: %d entries, target %s ± %s, size %d..%d, limit %d",
		len(available), params.Target, params.Tolerance, run.minCount, run.maxCount, params.MaxResults)

	if run.feasible() {
		logger.Debug("Search space estimate: %d subsets",
			domain.EstimateSearchSpace(len(run.entries), run.minCount, run.maxCount))
		run.dfs(0, 0)
	} else {
		logger.Debug("No subset can reach the window, skipping search")
	}
	run.report(0, true)

	results := domain.NewResultSet(params, run.combos)
	results.Cancelled = run.cancelled
	results.NodesVisited = run.nodes

	stats := domain.SearchStats{
		PoolSize:     len(available),
		NodesVisited: run.nodes,
		Emitted:      len(run.combos),
		Cancelled:    run.cancelled,
		Duration:     time.Since(start),
	}
	if e.metrics != nil {
		e.metrics.ObserveSearch(stats)
	}

	logger.Info("Search finished: %d exact, %d approximate, %d nodes in %s (cancelled=%t)",
		len(results.Exact), len(results.Approximate), run.nodes, stats.Duration, run.cancelled)

	return results, nil
}

// searchRun is the mutable state of one search.
type searchRun struct {
	done <-chan struct{}

	entries []domain.NumberEntry
	values  []domain.Amount

	// posPrefix[i] is the sum of max(v, 0) over values[:i].
	posPrefix []domain.Amount
	// negPrefix[i] is the sum of min(v, 0) over values[:i].
	negPrefix []domain.Amount

	lower, upper       domain.Amount
	minCount, maxCount int
	maxResults         int
	target, tolerance  domain.Amount

	stack  []int
	combos []domain.Combination
	nodes  int64

	cancelled bool
	full      bool

	progress domain.ProgressFunc
	limiter  *rate.Limiter
}

func newSearchRun(
	ctx context.Context,
	available []domain.NumberEntry,
	params domain.SearchParams,
	progress domain.ProgressFunc,
	interval time.Duration,
) *searchRun {
	entries := slices.Clone(available)
	slices.SortFunc(entries, func(a, b domain.NumberEntry) int {
		if c := cmp.Compare(a.Value, b.Value); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	n := len(entries)
	r := &searchRun{
		done:       ctx.Done(),
		entries:    entries,
		values:     make([]domain.Amount, n),
		posPrefix:  make([]domain.Amount, n+1),
		negPrefix:  make([]domain.Amount, n+1),
		lower:      params.Lower(),
		upper:      params.Upper(),
		minCount:   max(params.MinCount, 1),
		maxCount:   min(params.MaxCount, n),
		maxResults: params.MaxResults,
		target:     params.Target,
		tolerance:  params.Tolerance,
		progress:   progress,
	}
	for i, e := range entries {
		v := e.Value
		r.values[i] = v
		r.posPrefix[i+1] = r.posPrefix[i] + max(v, 0)
		r.negPrefix[i+1] = r.negPrefix[i] + min(v, 0)
	}
	if progress != nil {
		limit := rate.Inf
		if interval > 0 {
			limit = rate.Every(interval)
		}
		r.limiter = rate.NewLimiter(limit, 1)
	}
	return r
}

// feasible rules out searches that cannot emit anything.
func (r *searchRun) feasible() bool {
	if len(r.entries) == 0 || r.maxResults < 1 || r.minCount > r.maxCount {
		return false
	}
	return domain.QuickCheckPossible(r.values, r.target, r.tolerance)
}

// maxGain is the largest sum any k entries drawn from values[i:] can add.
// Values are ascending, so that is the positive part of the last k.
func (r *searchRun) maxGain(i, k int) domain.Amount {
	n := len(r.values)
	from := max(i, n-k)
	return r.posPrefix[n] - r.posPrefix[from]
}

// minGain is the smallest sum any k entries drawn from values[i:] can add.
func (r *searchRun) minGain(i, k int) domain.Amount {
	to := min(i+k, len(r.values))
	return r.negPrefix[to] - r.negPrefix[i]
}

// dfs visits the subset held in r.stack and extends it with indices >= next.
func (r *searchRun) dfs(next int, sum domain.Amount) {
	if r.full || r.cancelled {
		return
	}
	select {
	case <-r.done:
		r.cancelled = true
		logger.Debug("Search cancelled after %d nodes", r.nodes)
		return
	default:
	}

	r.nodes++
	depth := len(r.stack)
	if r.nodes&progressCheckMask == 0 {
		r.report(depth, false)
	}

	if depth >= r.minCount && sum >= r.lower && sum <= r.upper {
		r.emit()
		if r.full {
			return
		}
	}

	if depth == r.maxCount {
		return
	}
	n := len(r.values)
	need := r.minCount - depth
	if n-next < need {
		return
	}
	room := r.maxCount - depth
	if sum+r.maxGain(next, room) < r.lower || sum+r.minGain(next, room) > r.upper {
		return
	}

	last := n - max(need, 1)
	for i := next; i <= last; i++ {
		v := r.values[i]
		// Everything from here on is at least v and non-negative.
		if v >= 0 && sum+v > r.upper {
			break
		}
		r.stack = append(r.stack, i)
		r.dfs(i+1, sum+v)
		r.stack = r.stack[:len(r.stack)-1]
		if r.full || r.cancelled {
			return
		}
	}
}

func (r *searchRun) emit() {
	members := make([]domain.NumberEntry, len(r.stack))
	for i, idx := range r.stack {
		members[i] = r.entries[idx]
	}
	c := domain.NewCombination(members, r.target, r.tolerance)
	r.combos = append(r.combos, c)
	logger.Debug("Match %d: %s (diff %s)", len(r.combos), c, c.Difference)
	if len(r.combos) >= r.maxResults {
		r.full = true
		logger.Debug("Result limit %d reached", r.maxResults)
	}
}

// report sends a progress snapshot. The final report bypasses the limiter.
func (r *searchRun) report(depth int, final bool) {
	if r.progress == nil {
		return
	}
	if !final && !r.limiter.Allow() {
		return
	}
	r.progress(domain.SearchProgress{
		NodesVisited: r.nodes,
		Emitted:      len(r.combos),
		Depth:        depth,
	})
}
