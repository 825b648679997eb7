package directory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/preston-bernstein/esports-dashboard/internal/domain/teams"
	"github.com/preston-bernstein/esports-dashboard/internal/providers"
)

type stubTeams struct {
	search      []teams.Team
	byIDs       []teams.Team
	err         error
	searchCalls int
	lookupCalls [][]teams.ID
}

func (s *stubTeams) SearchTeams(ctx context.Context, game, query string) ([]teams.Team, error) {
	s.searchCalls++
	return s.search, s.err
}

func (s *stubTeams) TeamsByIDs(ctx context.Context, game string, ids []teams.ID) ([]teams.Team, error) {
	s.lookupCalls = append(s.lookupCalls, ids)
	return s.byIDs, s.err
}

type pagedTeams struct {
	stubTeams
	pages []providers.Page
}

func (p *pagedTeams) SearchTeamsPage(ctx context.Context, game, query string, page providers.Page) ([]teams.Team, error) {
	p.pages = append(p.pages, page)
	return p.search, p.err
}

func TestSearchPageUsesPagedSource(t *testing.T) {
	source := &pagedTeams{stubTeams: stubTeams{search: []teams.Team{{ID: 9, Name: "Fnatic"}}}}
	cache := New(source, nil)

	result := cache.SearchPage(context.Background(), "lol", "fnc", providers.Page{Limit: 5, Number: 2})
	assert.Equal(t, StateOK, result.State)
	cache.Search(context.Background(), "lol", "fnc")

	assert.Equal(t, []providers.Page{{Limit: 5, Number: 2}, providers.DefaultPage()}, source.pages)
	assert.Zero(t, source.searchCalls)
}

func TestSearchPageFallsBackToPlainSearch(t *testing.T) {
	source := &stubTeams{search: []teams.Team{{ID: 9, Name: "Fnatic"}}}
	cache := New(source, nil)

	result := cache.SearchPage(context.Background(), "", "fnc", providers.Page{Limit: 5, Number: 3})

	assert.Equal(t, StateOK, result.State)
	assert.Equal(t, 1, source.searchCalls)
}

func TestSearchEmptyQueryPromptsWithoutNetwork(t *testing.T) {
	source := &stubTeams{}
	cache := New(source, nil)

	result := cache.Search(context.Background(), "", "   ")

	assert.Equal(t, StatePrompt, result.State)
	assert.Equal(t, "Enter a search term.", result.Message)
	assert.Empty(t, result.Teams)
	assert.Zero(t, source.searchCalls)
}

func TestSearchFailure(t *testing.T) {
	cache := New(&stubTeams{err: errors.New("down")}, nil)

	result := cache.Search(context.Background(), "", "t1")

	assert.Equal(t, StateFailed, result.State)
	assert.Equal(t, "Search failed.", result.Message)
	assert.Empty(t, cache.Teams())
}

func TestSearchNoResults(t *testing.T) {
	cache := New(&stubTeams{search: []teams.Team{}}, nil)

	result := cache.Search(context.Background(), "", "zzz")

	assert.Equal(t, StateEmpty, result.State)
	assert.Equal(t, "No results.", result.Message)
}

func TestSearchMergesIntoDirectory(t *testing.T) {
	source := &stubTeams{search: []teams.Team{{ID: 1, Name: "T1", Acronym: "T1"}, {ID: 42, Name: "Gen.G"}}}
	cache := New(source, nil)

	result := cache.Search(context.Background(), "lol", " t ")

	require.Equal(t, StateOK, result.State)
	assert.Equal(t, "t", result.Query)
	assert.Len(t, result.Teams, 2)
	assert.Len(t, cache.Teams(), 2)

	team, ok := cache.Lookup(42)
	require.True(t, ok)
	assert.Equal(t, "Gen.G", team.Name)
}

func TestResolveFetchesOnlyMissingIDs(t *testing.T) {
	source := &stubTeams{
		search: []teams.Team{{ID: 1, Name: "T1"}},
		byIDs:  []teams.Team{{ID: 42, Name: "Gen.G"}},
	}
	cache := New(source, nil)
	cache.Search(context.Background(), "", "t1")

	got := cache.Resolve(context.Background(), "", teams.NewIDSet(42, 1, 77))

	require.Len(t, source.lookupCalls, 1)
	assert.Equal(t, []teams.ID{42, 77}, source.lookupCalls[0])
	assert.Equal(t, []teams.Team{
		{ID: 1, Name: "T1"},
		{ID: 42, Name: "Gen.G"},
		{ID: 77, Name: "77"},
	}, got)
}

func TestResolveToleratesLookupFailure(t *testing.T) {
	cache := New(&stubTeams{err: errors.New("down")}, nil)

	got := cache.Resolve(context.Background(), "", teams.NewIDSet(3))

	assert.Equal(t, []teams.Team{{ID: 3, Name: "3"}}, got)
}

func TestResolveEmptySetSkipsSource(t *testing.T) {
	source := &stubTeams{}
	cache := New(source, nil)

	got := cache.Resolve(context.Background(), "", teams.NewIDSet())

	assert.Empty(t, got)
	assert.Empty(t, source.lookupCalls)
}
