package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/combimatch-cli/internal/core/domain"
	"github.com/custodia-labs/combimatch-cli/internal/core/ports/driven"
)

// Ensure implementations satisfy the interface.
var (
	_ driven.Metrics = (*Prometheus)(nil)
	_ driven.Metrics = Noop{}
)

// Namespace prefixes every metric name.
const Namespace = "combimatch"

// Prometheus records search and finalize metrics on its own registry.
type Prometheus struct {
	registry *prometheus.Registry

	searches      *prometheus.CounterVec
	nodes         prometheus.Counter
	emitted       prometheus.Counter
	duration      prometheus.Histogram
	poolSize      prometheus.Histogram
	finalizations prometheus.Counter
	groupSize     prometheus.Histogram
}

// NewPrometheus creates the collectors and registers them on a fresh
// registry.
func NewPrometheus() (*Prometheus, error) {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "search",
			Name:      "total",
			Help:      "Searches run, by outcome.",
		}, []string{"outcome"}),
		nodes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "search",
			Name:      "nodes_visited_total",
			Help:      "Search tree nodes visited.",
		}),
		emitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "search",
			Name:      "combinations_total",
			Help:      "Combinations emitted by searches.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "search",
			Name:      "duration_seconds",
			Help:      "Wall time of a search.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		poolSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "search",
			Name:      "pool_size",
			Help:      "Available entries per search.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
		finalizations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "finalize",
			Name:      "total",
			Help:      "Groups finalized.",
		}),
		groupSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "finalize",
			Name:      "group_size",
			Help:      "Members per finalized group.",
			Buckets:   prometheus.LinearBuckets(1, 1, 10),
		}),
	}

	collectors := []prometheus.Collector{
		p.searches, p.nodes, p.emitted, p.duration, p.poolSize, p.finalizations, p.groupSize,
	}
	for _, c := range collectors {
		if err := p.registry.Register(c); err != nil {
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}
	return p, nil
}

// ObserveSearch records a finished search.
func (p *Prometheus) ObserveSearch(stats domain.SearchStats) {
	outcome := "completed"
	if stats.Cancelled {
		outcome = "cancelled"
	}
	p.searches.WithLabelValues(outcome).Inc()
	p.nodes.Add(float64(stats.NodesVisited))
	p.emitted.Add(float64(stats.Emitted))
	p.duration.Observe(stats.Duration.Seconds())
	p.poolSize.Observe(float64(stats.PoolSize))
}

// ObserveFinalize records a committed group of size members.
func (p *Prometheus) ObserveFinalize(size int) {
	p.finalizations.Inc()
	p.groupSize.Observe(float64(size))
}

// Registry returns the registry holding the collectors.
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Noop discards all observations.
type Noop struct{}

// ObserveSearch does nothing.
func (Noop) ObserveSearch(domain.SearchStats) {}

// ObserveFinalize does nothing.
func (Noop) ObserveFinalize(int) {}
