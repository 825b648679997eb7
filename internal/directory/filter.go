package directory

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/preston-bernstein/esports-dashboard/internal/domain/teams"
)

// FilterTeams returns the teams whose name or acronym contains term, ignoring case.
// An empty term returns a copy of the input. Input order is preserved.
func FilterTeams(list []teams.Team, term string) []teams.Team {
	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(term))

	out := make([]teams.Team, 0, len(list))
	for _, t := range list {
		if needle == "" ||
			strings.Contains(fold.String(t.Name), needle) ||
			strings.Contains(fold.String(t.Acronym), needle) {
			out = append(out, t)
		}
	}
	return out
}
