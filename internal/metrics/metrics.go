package metrics

import (
	"sync"
	"time"
)

type fetchStats struct {
	calls           int
	errors          int
	empty           int
	lastCallLatency time.Duration
}

type refreshStats struct {
	cycles         int
	failures       int
	coalesced      int
	staleDiscarded int
	lastDuration   time.Duration
}

// Recorder captures lightweight, in-memory metrics about fetches and refresh cycles,
// and forwards them to OpenTelemetry instruments when configured.
type Recorder struct {
	mu          sync.Mutex
	fetches     map[string]*fetchStats
	refresh     refreshStats
	followSaves int
	followFails int
	otel        *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		fetches: make(map[string]*fetchStats),
		otel:    otel,
	}
}

// RecordFetch tracks one upstream call of the given kind (upcoming, live, team_search, ...).
func (r *Recorder) RecordFetch(kind string, duration time.Duration, count int, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats, ok := r.fetches[kind]
	if !ok {
		stats = &fetchStats{}
		r.fetches[kind] = stats
	}
	stats.calls++
	stats.lastCallLatency = duration
	if err != nil {
		stats.errors++
	} else if count == 0 {
		stats.empty++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordFetch(kind, duration, err)
	}
}

// RecordRefreshCycle tracks a completed refresh cycle. failed means no list could be loaded.
func (r *Recorder) RecordRefreshCycle(duration time.Duration, failed bool) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.refresh.cycles++
	r.refresh.lastDuration = duration
	if failed {
		r.refresh.failures++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordRefresh(duration, failed)
	}
}

// RecordRefreshCoalesced counts a trigger folded into an already pending cycle.
func (r *Recorder) RecordRefreshCoalesced() {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.refresh.coalesced++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordCounter(r.otel.refreshCoalesced, 1)
	}
}

// RecordStaleDiscard counts a cycle result dropped because a newer cycle superseded it.
func (r *Recorder) RecordStaleDiscard() {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.refresh.staleDiscarded++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordCounter(r.otel.refreshStale, 1)
	}
}

// RecordFollowSave tracks follow set persistence attempts.
func (r *Recorder) RecordFollowSave(err error) {
	if r == nil {
		return
	}
	r.mu.Lock()
	if err != nil {
		r.followFails++
	} else {
		r.followSaves++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordFollowSave(err)
	}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// FetchSnapshot is a copy of the stats for one fetch kind.
type FetchSnapshot struct {
	Calls           int
	Errors          int
	Empty           int
	LastCallLatency time.Duration
}

// Fetch returns the current stats for kind.
func (r *Recorder) Fetch(kind string) FetchSnapshot {
	if r == nil {
		return FetchSnapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.fetches[kind]
	if !ok {
		return FetchSnapshot{}
	}
	return FetchSnapshot{
		Calls:           stats.calls,
		Errors:          stats.errors,
		Empty:           stats.empty,
		LastCallLatency: stats.lastCallLatency,
	}
}

// RefreshSnapshot is a copy of the refresh counters.
type RefreshSnapshot struct {
	Cycles         int
	Failures       int
	Coalesced      int
	StaleDiscarded int
	LastDuration   time.Duration
}

// Refresh returns the current refresh counters.
func (r *Recorder) Refresh() RefreshSnapshot {
	if r == nil {
		return RefreshSnapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return RefreshSnapshot{
		Cycles:         r.refresh.cycles,
		Failures:       r.refresh.failures,
		Coalesced:      r.refresh.coalesced,
		StaleDiscarded: r.refresh.staleDiscarded,
		LastDuration:   r.refresh.lastDuration,
	}
}

// FollowSaves returns successful and failed follow persistence counts.
func (r *Recorder) FollowSaves() (ok int, failed int) {
	if r == nil {
		return 0, 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.followSaves, r.followFails
}
