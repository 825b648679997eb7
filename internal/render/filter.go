package render

import (
	"strings"

	"github.com/preston-bernstein/esports-dashboard/internal/domain/matches"
	"github.com/preston-bernstein/esports-dashboard/internal/domain/teams"
)

// ApplyFollowFilter keeps the matches involving a followed team when onlyFollowed is set.
// With onlyFollowed off or an empty set the input is returned unchanged.
func ApplyFollowFilter(list []matches.Match, set teams.IDSet, onlyFollowed bool) []matches.Match {
	if !onlyFollowed || set.IsEmpty() {
		return list
	}
	out := make([]matches.Match, 0, len(list))
	for _, m := range list {
		if m.Involves(set) {
			out = append(out, m)
		}
	}
	return out
}

// ApplyScope drops matches whose game or region is known and differs from the control.
func ApplyScope(list []matches.Match, region, game string) []matches.Match {
	region = strings.TrimSpace(region)
	game = strings.TrimSpace(game)
	if region == "" && game == "" {
		return list
	}
	out := make([]matches.Match, 0, len(list))
	for _, m := range list {
		if mismatch(region, m.Region) || mismatch(game, m.Game) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func mismatch(control, value string) bool {
	return control != "" && value != "" && !strings.EqualFold(control, value)
}
