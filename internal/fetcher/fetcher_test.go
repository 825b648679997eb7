package fetcher

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/preston-bernstein/esports-dashboard/internal/domain/matches"
	"github.com/preston-bernstein/esports-dashboard/internal/domain/teams"
	"github.com/preston-bernstein/esports-dashboard/internal/metrics"
	"github.com/preston-bernstein/esports-dashboard/internal/providers"
)

type stubSource struct {
	mu         sync.Mutex
	upcoming   []matches.Match
	live       []matches.Match
	upErr      error
	liveErr    error
	liveDelay  time.Duration
	seenParams []matches.FilterParams
}

func (s *stubSource) record(p matches.FilterParams) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seenParams = append(s.seenParams, p)
}

func (s *stubSource) FetchUpcoming(ctx context.Context, p matches.FilterParams) ([]matches.Match, error) {
	s.record(p)
	return s.upcoming, s.upErr
}

func (s *stubSource) FetchLive(ctx context.Context, p matches.FilterParams) ([]matches.Match, error) {
	s.record(p)
	if s.liveDelay > 0 {
		time.Sleep(s.liveDelay)
	}
	return s.live, s.liveErr
}

func TestResultOutcome(t *testing.T) {
	cases := []struct {
		name   string
		result Result
		want   Outcome
	}{
		{"loaded", Result{Matches: []matches.Match{{ID: 1}}}, OutcomeLoaded},
		{"empty", Result{Matches: []matches.Match{}}, OutcomeEmpty},
		{"nil", Result{}, OutcomeEmpty},
		{"failed", Result{Err: errors.New("boom")}, OutcomeFailed},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.result.Outcome(); got != c.want {
				t.Fatalf("expected %s, got %s", c.want, got)
			}
		})
	}
}

func TestFetchUpcomingRecordsMetrics(t *testing.T) {
	rec := metrics.NewRecorder()
	f := New(&stubSource{upcoming: []matches.Match{{ID: 1}}}, nil, rec)

	res := f.FetchUpcoming(context.Background(), matches.FilterParams{})
	if res.Outcome() != OutcomeLoaded {
		t.Fatalf("expected loaded, got %s", res.Outcome())
	}
	if got := rec.Fetch(KindUpcoming).Calls; got != 1 {
		t.Fatalf("expected 1 upcoming call recorded, got %d", got)
	}
}

func TestFetchNilListIsEmpty(t *testing.T) {
	f := New(&stubSource{}, nil, nil)
	res := f.FetchLive(context.Background(), matches.FilterParams{})
	if res.Matches == nil || res.Outcome() != OutcomeEmpty {
		t.Fatalf("expected non-nil empty result, got %+v", res)
	}
}

func TestFetchWithoutSourceFails(t *testing.T) {
	f := New(nil, nil, nil)
	res := f.FetchUpcoming(context.Background(), matches.FilterParams{})
	if !errors.Is(res.Err, providers.ErrProviderUnavailable) {
		t.Fatalf("expected provider unavailable, got %v", res.Err)
	}
}

func TestFetchBothResolvesIndependently(t *testing.T) {
	source := &stubSource{
		upErr:     providers.NetworkError("/api/upcoming", 500, "boom", nil),
		live:      []matches.Match{{ID: 7, Status: matches.StatusLive}},
		liveDelay: 20 * time.Millisecond,
	}
	rec := metrics.NewRecorder()
	f := New(source, nil, rec)

	up, live := f.FetchBoth(context.Background(), matches.FilterParams{})

	if up.Outcome() != OutcomeFailed {
		t.Fatalf("expected upcoming failure, got %s", up.Outcome())
	}
	if live.Outcome() != OutcomeLoaded || live.Matches[0].ID != 7 {
		t.Fatalf("expected live to load despite upcoming failure, got %+v", live)
	}
	if rec.Fetch(KindUpcoming).Errors != 1 || rec.Fetch(KindLive).Calls != 1 {
		t.Fatalf("unexpected metrics %+v / %+v", rec.Fetch(KindUpcoming), rec.Fetch(KindLive))
	}
}

func TestFetchBothSharesParamsSnapshot(t *testing.T) {
	source := &stubSource{}
	f := New(source, nil, nil)
	params := matches.FilterParams{Game: "lol", Followed: teams.NewIDSet(1, 2), OnlyFollowed: true}

	f.FetchBoth(context.Background(), params)

	if len(source.seenParams) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(source.seenParams))
	}
	a, b := source.seenParams[0], source.seenParams[1]
	if a.Game != b.Game || a.OnlyFollowed != b.OnlyFollowed || !a.Followed.Equal(b.Followed) {
		t.Fatalf("expected identical params, got %+v and %+v", a, b)
	}
}
