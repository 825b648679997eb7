package testutil

import (
	"time"

	"github.com/preston-bernstein/esports-dashboard/internal/domain/matches"
	"github.com/preston-bernstein/esports-dashboard/internal/domain/teams"
)

// SampleTeam returns a minimal team fixture with the provided id.
func SampleTeam(id teams.ID, name string) teams.Team {
	return teams.Team{ID: id, Name: name}
}

// SampleMatch returns an upcoming match between teams a and b.
func SampleMatch(id int64, a, b teams.ID) matches.Match {
	return matches.Match{
		ID:             id,
		TournamentName: "Sample Cup",
		TeamA:          matches.Side{ID: a, Name: "Team " + a.String()},
		TeamB:          matches.Side{ID: b, Name: "Team " + b.String()},
		StartsAt:       time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		Status:         matches.StatusUpcoming,
	}
}
