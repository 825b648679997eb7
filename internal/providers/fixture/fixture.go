package fixture

import (
	"context"
	"strings"
	"time"

	"github.com/preston-bernstein/esports-dashboard/internal/domain/matches"
	"github.com/preston-bernstein/esports-dashboard/internal/domain/teams"
	"github.com/preston-bernstein/esports-dashboard/internal/providers"
)

var roster = []teams.Team{
	{ID: 1, Name: "T1", Acronym: "T1", Location: "KR"},
	{ID: 42, Name: "Gen.G", Acronym: "GEN", Location: "KR"},
	{ID: 7, Name: "G2 Esports", Acronym: "G2", Location: "EU"},
	{ID: 9, Name: "Fnatic", Acronym: "FNC", Location: "EU"},
	{ID: 3, Name: "Team Liquid", Acronym: "TL", Location: "NA"},
	{ID: 12, Name: "Natus Vincere", Acronym: "NAVI", Location: "EU"},
}

// Provider returns a static set of matches and teams useful for local runs and tests.
type Provider struct {
	now func() time.Time
}

var _ providers.DataSource = (*Provider)(nil)

// New creates a fixture provider with a time source.
func New() *Provider {
	return &Provider{
		now: time.Now,
	}
}

// FetchUpcoming returns a deterministic set of scheduled matches relative to now.
func (p *Provider) FetchUpcoming(ctx context.Context, params matches.FilterParams) ([]matches.Match, error) {
	_ = ctx
	start := p.now().UTC().Truncate(time.Hour)
	all := []matches.Match{
		match(1001, "LCK Spring", 1, 42, start.Add(2*time.Hour), matches.StatusUpcoming, "lol", "kr"),
		match(1002, "LEC Winter", 7, 9, start.Add(4*time.Hour), matches.StatusUpcoming, "lol", "eu"),
		match(1003, "IEM Katowice", 3, 12, start.Add(26*time.Hour), matches.StatusUpcoming, "cs-2", "eu"),
	}
	return filter(all, params), nil
}

// FetchLive returns a deterministic set of running matches.
func (p *Provider) FetchLive(ctx context.Context, params matches.FilterParams) ([]matches.Match, error) {
	_ = ctx
	start := p.now().UTC().Truncate(time.Hour)
	all := []matches.Match{
		match(2001, "LTA North", 3, 7, start.Add(-30*time.Minute), matches.StatusLive, "lol", "na"),
	}
	return filter(all, params), nil
}

// SearchTeams matches query against team names and acronyms, case-insensitively.
func (p *Provider) SearchTeams(ctx context.Context, game, query string) ([]teams.Team, error) {
	_ = ctx
	_ = game
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]teams.Team, 0)
	for _, t := range roster {
		if strings.Contains(strings.ToLower(t.Name), q) || strings.Contains(strings.ToLower(t.Acronym), q) {
			out = append(out, t)
		}
	}
	return out, nil
}

// TeamsByIDs returns the known teams among ids in roster order.
func (p *Provider) TeamsByIDs(ctx context.Context, game string, ids []teams.ID) ([]teams.Team, error) {
	_ = ctx
	_ = game
	want := teams.NewIDSet(ids...)
	out := make([]teams.Team, 0, want.Len())
	for _, t := range roster {
		if want.Contains(t.ID) {
			out = append(out, t)
		}
	}
	return out, nil
}

func match(id int64, tournament string, a, b teams.ID, startsAt time.Time, status matches.Status, game, region string) matches.Match {
	return matches.Match{
		ID:             id,
		TournamentName: tournament,
		TeamA:          side(a),
		TeamB:          side(b),
		StartsAt:       startsAt,
		Status:         status,
		Game:           game,
		Region:         region,
	}
}

func side(id teams.ID) matches.Side {
	for _, t := range roster {
		if t.ID == id {
			return matches.Side{ID: t.ID, Name: t.Name, Acronym: t.Acronym, ImageURL: t.ImageURL}
		}
	}
	return matches.Side{ID: id}
}

// filter applies the params the way the backend does server-side.
func filter(all []matches.Match, params matches.FilterParams) []matches.Match {
	out := make([]matches.Match, 0, len(all))
	for _, m := range all {
		if params.Game != "" && !strings.EqualFold(params.Game, m.Game) {
			continue
		}
		if params.Region != "" && !strings.EqualFold(params.Region, m.Region) {
			continue
		}
		if params.OnlyFollowed && !params.Followed.IsEmpty() && !m.Involves(params.Followed) {
			continue
		}
		out = append(out, m)
	}
	return out
}
