package providers

import (
	"context"

	"github.com/preston-bernstein/esports-dashboard/internal/domain/matches"
	"github.com/preston-bernstein/esports-dashboard/internal/domain/teams"
)

// MatchSource fetches normalized match lists. Every call reflects the upstream's current state.
type MatchSource interface {
	FetchUpcoming(ctx context.Context, params matches.FilterParams) ([]matches.Match, error)
	FetchLive(ctx context.Context, params matches.FilterParams) ([]matches.Match, error)
}

// TeamSource searches the team directory.
type TeamSource interface {
	SearchTeams(ctx context.Context, game, query string) ([]teams.Team, error)
	TeamsByIDs(ctx context.Context, game string, ids []teams.ID) ([]teams.Team, error)
}

// DataSource combines all source capabilities.
type DataSource interface {
	MatchSource
	TeamSource
}
