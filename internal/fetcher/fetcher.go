// Package fetcher wraps a match source with tri-state results and fetch metrics.
package fetcher

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/preston-bernstein/esports-dashboard/internal/domain/matches"
	"github.com/preston-bernstein/esports-dashboard/internal/logging"
	"github.com/preston-bernstein/esports-dashboard/internal/metrics"
	"github.com/preston-bernstein/esports-dashboard/internal/providers"
)

const (
	KindUpcoming = "upcoming"
	KindLive     = "live"
)

// Outcome classifies a fetch result. Failed and Empty are distinct.
type Outcome string

const (
	OutcomeLoaded Outcome = "loaded"
	OutcomeEmpty  Outcome = "empty"
	OutcomeFailed Outcome = "failed"
)

// Result is the outcome of one fetch call.
type Result struct {
	Matches []matches.Match
	Err     error
}

// Outcome reports whether the fetch loaded matches, loaded none, or failed.
func (r Result) Outcome() Outcome {
	switch {
	case r.Err != nil:
		return OutcomeFailed
	case len(r.Matches) == 0:
		return OutcomeEmpty
	default:
		return OutcomeLoaded
	}
}

// Fetcher performs live fetches with no retry and no caching.
type Fetcher struct {
	source  providers.MatchSource
	logger  *slog.Logger
	metrics *metrics.Recorder
}

// New constructs a Fetcher over source.
func New(source providers.MatchSource, logger *slog.Logger, recorder *metrics.Recorder) *Fetcher {
	return &Fetcher{
		source:  source,
		logger:  logger,
		metrics: recorder,
	}
}

// FetchUpcoming fetches the upcoming list for params.
func (f *Fetcher) FetchUpcoming(ctx context.Context, params matches.FilterParams) Result {
	return f.fetch(ctx, KindUpcoming, params)
}

// FetchLive fetches the live list for params.
func (f *Fetcher) FetchLive(ctx context.Context, params matches.FilterParams) Result {
	return f.fetch(ctx, KindLive, params)
}

// FetchBoth runs both fetches concurrently against the same params.
// Each resolves independently; a failure in one does not cancel the other.
func (f *Fetcher) FetchBoth(ctx context.Context, params matches.FilterParams) (upcoming, live Result) {
	var g errgroup.Group
	g.Go(func() error {
		upcoming = f.FetchUpcoming(ctx, params)
		return nil
	})
	g.Go(func() error {
		live = f.FetchLive(ctx, params)
		return nil
	})
	_ = g.Wait()
	return upcoming, live
}

func (f *Fetcher) fetch(ctx context.Context, kind string, params matches.FilterParams) Result {
	if f.source == nil {
		return Result{Err: providers.ErrProviderUnavailable}
	}

	call := f.source.FetchUpcoming
	if kind == KindLive {
		call = f.source.FetchLive
	}

	start := time.Now()
	list, err := call(ctx, params)
	duration := time.Since(start)
	f.metrics.RecordFetch(kind, duration, len(list), err)

	if err != nil {
		logging.Warn(f.logger, "match fetch failed",
			logging.FieldKind, kind,
			logging.FieldDurationMS, duration.Milliseconds(),
			"error", err,
		)
		return Result{Err: err}
	}
	if list == nil {
		list = []matches.Match{}
	}
	logging.Debug(f.logger, "match fetch complete",
		logging.FieldKind, kind,
		logging.FieldCount, len(list),
		logging.FieldDurationMS, duration.Milliseconds(),
	)
	return Result{Matches: list}
}
