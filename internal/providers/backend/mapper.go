package backend

import (
	"strings"

	"github.com/preston-bernstein/esports-dashboard/internal/domain/matches"
	"github.com/preston-bernstein/esports-dashboard/internal/domain/teams"
	"github.com/preston-bernstein/esports-dashboard/internal/timeutil"
)

func mapMatch(m matchResponse, fallback matches.Status) matches.Match {
	teamA, teamB := mapSides(m)
	startsAt, _ := timeutil.ParseTimestamp(firstNonEmpty(m.StartsAt, m.BeginAt, m.ScheduledAt))

	return matches.Match{
		ID:             m.ID,
		Name:           strings.TrimSpace(m.Name),
		TournamentName: tournamentName(m),
		TeamA:          teamA,
		TeamB:          teamB,
		StartsAt:       startsAt,
		Status:         mapStatus(m.Status, fallback),
		Game:           gameSlug(m),
		Region:         region(m),
	}
}

// mapSides prefers the flat schema and falls back to the first two opponents.
func mapSides(m matchResponse) (matches.Side, matches.Side) {
	if m.TeamA != nil || m.TeamB != nil {
		return mapSide(m.TeamA), mapSide(m.TeamB)
	}
	var a, b *sideResponse
	if len(m.Opponents) > 0 {
		a = m.Opponents[0].Opponent
	}
	if len(m.Opponents) > 1 {
		b = m.Opponents[1].Opponent
	}
	return mapSide(a), mapSide(b)
}

func mapSide(s *sideResponse) matches.Side {
	if s == nil {
		return matches.Side{}
	}
	return matches.Side{
		ID:       teams.ID(s.ID),
		Name:     strings.TrimSpace(s.Name),
		Acronym:  strings.TrimSpace(s.Acronym),
		ImageURL: strings.TrimSpace(s.ImageURL),
	}
}

func mapTeam(s sideResponse) teams.Team {
	return teams.Team{
		ID:       teams.ID(s.ID),
		Name:     strings.TrimSpace(s.Name),
		Acronym:  strings.TrimSpace(s.Acronym),
		ImageURL: strings.TrimSpace(s.ImageURL),
		Location: strings.TrimSpace(s.Location),
	}
}

func mapStatus(status string, fallback matches.Status) matches.Status {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "live", "running", "in_progress", "in progress":
		return matches.StatusLive
	case "upcoming", "not_started", "scheduled":
		return matches.StatusUpcoming
	default:
		return fallback
	}
}

func tournamentName(m matchResponse) string {
	var tournament, league string
	if m.Tournament != nil {
		tournament = m.Tournament.Name
	}
	if m.League != nil {
		league = m.League.Name
	}
	return firstNonEmpty(m.TournamentName, tournament, league, m.Name)
}

func gameSlug(m matchResponse) string {
	if m.Game != "" {
		return strings.TrimSpace(m.Game)
	}
	if m.Videogame != nil {
		return strings.TrimSpace(m.Videogame.Slug)
	}
	return ""
}

func region(m matchResponse) string {
	if m.Region != "" {
		return strings.TrimSpace(m.Region)
	}
	if m.League != nil {
		return strings.TrimSpace(m.League.Region)
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
