package server

import (
	"fmt"
	"io"
	"time"

	"github.com/VictoriaMetrics/metrics"
)

// serviceMetrics is a per-server set, so several servers (tests) do not clash on metric names
type serviceMetrics struct {
	set        *metrics.Set
	duration   *metrics.Histogram
	expansions *metrics.Summary
	cacheHits  *metrics.Counter
	reloads    *metrics.Counter
}

func newServiceMetrics(store *Store) *serviceMetrics {
	set := metrics.NewSet()
	m := &serviceMetrics{
		set:        set,
		duration:   set.NewHistogram(`walkroute_search_duration_seconds`),
		expansions: set.NewSummary(`walkroute_search_expansions`),
		cacheHits:  set.NewCounter(`walkroute_route_cache_hits_total`),
		reloads:    set.NewCounter(`walkroute_reloads_total`),
	}
	snapshotValue := func(f func(*Snapshot) float64) func() float64 {
		return func() float64 {
			snapshot := store.Current()
			if snapshot == nil {
				return 0
			}
			return f(snapshot)
		}
	}
	set.NewGauge(`walkroute_graph_nodes`, snapshotValue(func(s *Snapshot) float64 { return float64(s.Stats.Nodes) }))
	set.NewGauge(`walkroute_graph_edges`, snapshotValue(func(s *Snapshot) float64 { return float64(s.Stats.Edges) }))
	set.NewGauge(`walkroute_graph_version`, snapshotValue(func(s *Snapshot) float64 { return float64(s.Version) }))
	set.NewGauge(`walkroute_places`, snapshotValue(func(s *Snapshot) float64 { return float64(s.Places.Len()) }))
	return m
}

func (m *serviceMetrics) observeRequest(outcome string) {
	m.set.GetOrCreateCounter(fmt.Sprintf(`walkroute_route_requests_total{outcome=%q}`, outcome)).Inc()
}

func (m *serviceMetrics) observeSearch(startTime time.Time, expanded int, cached bool) {
	if cached {
		m.cacheHits.Inc()
		return
	}
	m.duration.UpdateDuration(startTime)
	m.expansions.Update(float64(expanded))
}

func (m *serviceMetrics) writePrometheus(w io.Writer) {
	m.set.WritePrometheus(w)
	metrics.WriteProcessMetrics(w)
}
