package teststubs

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/preston-bernstein/esports-dashboard/internal/domain/matches"
	"github.com/preston-bernstein/esports-dashboard/internal/domain/teams"
	"github.com/preston-bernstein/esports-dashboard/internal/providers"
)

// StubSource is a test double for providers.DataSource.
type StubSource struct {
	Upcoming []matches.Match
	Live     []matches.Match
	Teams    []teams.Team
	UpErr    error
	LiveErr  error
	TeamsErr error

	// Notify is closed on the first upcoming fetch.
	Notify chan struct{}
	// BlockFirst holds the first upcoming fetch until it is closed.
	BlockFirst chan struct{}

	UpcomingCalls atomic.Int32
	LiveCalls     atomic.Int32
	SearchCalls   atomic.Int32
	LookupCalls   atomic.Int32

	mu       sync.Mutex
	params   []matches.FilterParams
	lastPage providers.Page
}

// FetchUpcoming returns configured upcoming matches while tracking calls.
func (s *StubSource) FetchUpcoming(ctx context.Context, params matches.FilterParams) ([]matches.Match, error) {
	n := s.UpcomingCalls.Add(1)
	s.record(params)
	if s.Notify != nil {
		select {
		case <-s.Notify:
		default:
			close(s.Notify)
		}
	}
	if n == 1 && s.BlockFirst != nil {
		select {
		case <-s.BlockFirst:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.Upcoming, s.UpErr
}

// FetchLive returns configured live matches while tracking calls.
func (s *StubSource) FetchLive(ctx context.Context, params matches.FilterParams) ([]matches.Match, error) {
	_ = ctx
	s.LiveCalls.Add(1)
	s.record(params)
	return s.Live, s.LiveErr
}

// SearchTeams returns the configured teams.
func (s *StubSource) SearchTeams(ctx context.Context, game, query string) ([]teams.Team, error) {
	_ = ctx
	_ = game
	_ = query
	s.SearchCalls.Add(1)
	return s.Teams, s.TeamsErr
}

// SearchTeamsPage returns the configured teams and remembers the requested page.
func (s *StubSource) SearchTeamsPage(ctx context.Context, game, query string, page providers.Page) ([]teams.Team, error) {
	s.mu.Lock()
	s.lastPage = page
	s.mu.Unlock()
	return s.SearchTeams(ctx, game, query)
}

// LastPage returns the page of the most recent paged search.
func (s *StubSource) LastPage() providers.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastPage
}

// TeamsByIDs returns the configured teams that are in ids.
func (s *StubSource) TeamsByIDs(ctx context.Context, game string, ids []teams.ID) ([]teams.Team, error) {
	_ = ctx
	_ = game
	s.LookupCalls.Add(1)
	if s.TeamsErr != nil {
		return nil, s.TeamsErr
	}
	want := teams.NewIDSet(ids...)
	out := make([]teams.Team, 0, len(ids))
	for _, t := range s.Teams {
		if want.Contains(t.ID) {
			out = append(out, t)
		}
	}
	return out, nil
}

// Params returns every FilterParams seen by the match fetches, in call order.
func (s *StubSource) Params() []matches.FilterParams {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]matches.FilterParams(nil), s.params...)
}

func (s *StubSource) record(p matches.FilterParams) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params = append(s.params, p)
}
