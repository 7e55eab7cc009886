package domain

import (
	"errors"
	"math"
	"math/big"
	"time"
)

// SearchParams configures one subset-sum search.
type SearchParams struct {
	// Target is the sum being looked for.
	Target Amount

	// Tolerance is the accepted distance from Target. Must be >= 0.
	Tolerance Amount

	// MinCount is the smallest subset size, >= 1.
	MinCount int

	// MaxCount is the largest subset size, >= MinCount.
	MaxCount int

	// MaxResults caps the number of combinations emitted, >= 1.
	MaxResults int
}

// Lower returns Target - Tolerance.
func (p SearchParams) Lower() Amount {
	return p.Target - p.Tolerance
}

// Upper returns Target + Tolerance.
func (p SearchParams) Upper() Amount {
	return p.Target + p.Tolerance
}

// Validate checks every bound and reports all violations together.
func (p SearchParams) Validate() error {
	var errs []error
	if p.Tolerance < 0 {
		errs = append(errs, &ParameterError{Field: "tolerance", Reason: "must not be negative"})
	}
	if p.MinCount < 1 {
		errs = append(errs, &ParameterError{Field: "min count", Reason: "must be at least 1"})
	}
	if p.MaxCount < p.MinCount {
		errs = append(errs, &ParameterError{Field: "max count", Reason: "must not be less than min count"})
	}
	if p.MaxResults < 1 {
		errs = append(errs, &ParameterError{Field: "max results", Reason: "must be at least 1"})
	}
	return errors.Join(errs...)
}

// SearchProgress is a periodic snapshot of a running search.
type SearchProgress struct {
	NodesVisited int64
	Emitted      int
	Depth        int
}

// ProgressFunc receives progress snapshots. It must not block.
type ProgressFunc func(SearchProgress)

// SearchStats describes a finished search for metrics.
type SearchStats struct {
	PoolSize     int
	NodesVisited int64
	Emitted      int
	Cancelled    bool
	Duration     time.Duration
}

// EstimateSearchSpace returns the number of subsets of size minCount..maxCount
// drawn from n entries, saturating at math.MaxInt64.
func EstimateSearchSpace(n, minCount, maxCount int) int64 {
	if minCount < 1 {
		minCount = 1
	}
	if maxCount > n {
		maxCount = n
	}
	total := new(big.Int)
	for k := minCount; k <= maxCount; k++ {
		total.Add(total, new(big.Int).Binomial(int64(n), int64(k)))
	}
	if !total.IsInt64() {
		return math.MaxInt64
	}
	return total.Int64()
}

// QuickCheckPossible reports whether any non-empty subset of values could
// possibly sum into [target-tolerance, target+tolerance]. A false result is
// definitive; true only means the search has to look.
func QuickCheckPossible(values []Amount, target, tolerance Amount) bool {
	if len(values) == 0 {
		return false
	}
	lower, upper := target-tolerance, target+tolerance

	var maxReach, minReach Amount
	smallest := values[0]
	for _, v := range values {
		if v > 0 {
			maxReach += v
		} else {
			minReach += v
		}
		if v < smallest {
			smallest = v
		}
	}

	// Every subset sums to at most the positive total and at least the
	// negative total.
	if maxReach < lower || minReach > upper {
		return false
	}
	// With no negatives, the smallest reachable sum is the smallest value.
	if minReach == 0 && smallest > upper {
		return false
	}
	return true
}
