package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/preston-bernstein/esports-dashboard/internal/domain/matches"
	"github.com/preston-bernstein/esports-dashboard/internal/domain/teams"
)

func pair(id int64, a, b teams.ID) matches.Match {
	return matches.Match{ID: id, TeamA: matches.Side{ID: a}, TeamB: matches.Side{ID: b}}
}

func TestApplyFollowFilterKeepsFollowedMatches(t *testing.T) {
	list := []matches.Match{pair(1, 1, 42), pair(2, 7, 8)}

	got := ApplyFollowFilter(list, teams.NewIDSet(42), true)

	assert.Equal(t, []matches.Match{list[0]}, got)
}

func TestApplyFollowFilterIdentityCases(t *testing.T) {
	list := []matches.Match{pair(1, 1, 42), pair(2, 7, 8), pair(3, 42, 9)}

	assert.Equal(t, list, ApplyFollowFilter(list, teams.NewIDSet(42), false))
	assert.Equal(t, list, ApplyFollowFilter(list, teams.NewIDSet(), true))
}

func TestApplyFollowFilterExactMembership(t *testing.T) {
	list := []matches.Match{pair(1, 1, 2), pair(2, 3, 4), pair(3, 5, 1), pair(4, 6, 7)}
	set := teams.NewIDSet(1, 4)

	got := ApplyFollowFilter(list, set, true)

	assert.Equal(t, []matches.Match{list[0], list[1], list[2]}, got)
	for _, m := range got {
		assert.True(t, set.Contains(m.TeamA.ID) || set.Contains(m.TeamB.ID))
	}
}

func TestApplyFollowFilterDoesNotMutateInput(t *testing.T) {
	list := []matches.Match{pair(1, 1, 2), pair(2, 3, 4)}
	snapshot := append([]matches.Match(nil), list...)

	ApplyFollowFilter(list, teams.NewIDSet(3), true)

	assert.Equal(t, snapshot, list)
}

func TestApplyScope(t *testing.T) {
	list := []matches.Match{
		{ID: 1, Game: "lol", Region: "kr"},
		{ID: 2, Game: "LOL", Region: "eu"},
		{ID: 3, Game: "cs-2", Region: "eu"},
		{ID: 4},
	}

	assert.Equal(t, list, ApplyScope(list, "", ""))
	assert.Equal(t, []matches.Match{list[0], list[1], list[3]}, ApplyScope(list, "", "lol"))
	assert.Equal(t, []matches.Match{list[1], list[3]}, ApplyScope(list, "EU", "lol"))
}
