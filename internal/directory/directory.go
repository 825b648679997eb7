// Package directory caches known teams and runs team searches against the source.
package directory

import (
	"context"
	"log/slog"
	"strings"

	"github.com/preston-bernstein/esports-dashboard/internal/domain/teams"
	"github.com/preston-bernstein/esports-dashboard/internal/logging"
	"github.com/preston-bernstein/esports-dashboard/internal/providers"
	"github.com/preston-bernstein/esports-dashboard/internal/store"
)

// SearchState describes the outcome of a search.
type SearchState string

const (
	StatePrompt SearchState = "prompt"
	StateOK     SearchState = "ok"
	StateEmpty  SearchState = "empty"
	StateFailed SearchState = "failed"
)

const (
	MessagePrompt = "Enter a search term."
	MessageFailed = "Search failed."
	MessageEmpty  = "No results."
)

// SearchResult is what the search box shows.
type SearchResult struct {
	Query   string       `json:"query"`
	State   SearchState  `json:"state"`
	Message string       `json:"message,omitempty"`
	Teams   []teams.Team `json:"teams"`
}

// Cache is the in-memory team directory.
type Cache struct {
	source providers.TeamSource
	store  *store.TeamStore
	logger *slog.Logger
}

// New constructs a Cache backed by source.
func New(source providers.TeamSource, logger *slog.Logger) *Cache {
	return &Cache{
		source: source,
		store:  store.NewTeamStore(),
		logger: logger,
	}
}

// Search queries the first page of results for query.
func (c *Cache) Search(ctx context.Context, game, query string) SearchResult {
	return c.SearchPage(ctx, game, query, providers.DefaultPage())
}

// SearchPage queries the source for one page of results. Empty queries never reach the
// network. Sources that cannot page return their single result set.
func (c *Cache) SearchPage(ctx context.Context, game, query string, page providers.Page) SearchResult {
	query = strings.TrimSpace(query)
	result := SearchResult{Query: query, Teams: []teams.Team{}}
	if query == "" {
		result.State = StatePrompt
		result.Message = MessagePrompt
		return result
	}

	found, err := c.search(ctx, game, query, page)
	if err != nil {
		logging.Warn(c.logger, "team search failed",
			logging.FieldQuery, query,
			logging.FieldGame, game,
			"error", err,
		)
		result.State = StateFailed
		result.Message = MessageFailed
		return result
	}
	if len(found) == 0 {
		result.State = StateEmpty
		result.Message = MessageEmpty
		return result
	}

	c.store.MergeTeams(found)
	result.State = StateOK
	result.Teams = append(result.Teams, found...)
	return result
}

func (c *Cache) search(ctx context.Context, game, query string, page providers.Page) ([]teams.Team, error) {
	if paged, ok := c.source.(providers.PagedTeamSource); ok {
		return paged.SearchTeamsPage(ctx, game, query, page)
	}
	return c.source.SearchTeams(ctx, game, query)
}

// Teams returns the known directory in insertion order.
func (c *Cache) Teams() []teams.Team {
	return c.store.ListTeams()
}

// Lookup returns a cached team.
func (c *Cache) Lookup(id teams.ID) (teams.Team, bool) {
	return c.store.GetTeam(id)
}

// Resolve hydrates set into teams in ascending id order, fetching unknown ids from the source.
// IDs the source cannot resolve are returned with their id as the name.
func (c *Cache) Resolve(ctx context.Context, game string, set teams.IDSet) []teams.Team {
	ids := set.IDs()

	var missing []teams.ID
	for _, id := range ids {
		if _, ok := c.store.GetTeam(id); !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		fetched, err := c.source.TeamsByIDs(ctx, game, missing)
		if err != nil {
			logging.Warn(c.logger, "team lookup failed", logging.FieldCount, len(missing), "error", err)
		} else {
			c.store.MergeTeams(fetched)
		}
	}

	out := make([]teams.Team, 0, len(ids))
	for _, id := range ids {
		t, ok := c.store.GetTeam(id)
		if !ok {
			t = teams.Team{ID: id, Name: id.String()}
		}
		out = append(out, t)
	}
	return out
}
