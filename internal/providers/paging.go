package providers

import (
	"context"
	"strconv"
	"strings"

	"github.com/preston-bernstein/esports-dashboard/internal/domain/teams"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 50
	MaxPageNumber    = 100
)

// Page selects one slice of a team search.
type Page struct {
	Limit  int `json:"limit"`
	Number int `json:"page"`
}

// DefaultPage is the first page at the default size.
func DefaultPage() Page {
	return Page{Limit: DefaultPageLimit, Number: 1}
}

// NewPage clamps limit to [1, MaxPageLimit] and number to [1, MaxPageNumber].
func NewPage(limit, number int) Page {
	return Page{
		Limit:  clamp(limit, 1, MaxPageLimit),
		Number: clamp(number, 1, MaxPageNumber),
	}
}

// ParsePage reads raw limit and page values. Missing or non-numeric values use the
// defaults before clamping.
func ParsePage(rawLimit, rawNumber string) Page {
	return NewPage(
		parseIntOr(rawLimit, DefaultPageLimit),
		parseIntOr(rawNumber, 1),
	)
}

// PagedTeamSource is a TeamSource that can page its search results.
type PagedTeamSource interface {
	SearchTeamsPage(ctx context.Context, game, query string, page Page) ([]teams.Team, error)
}

func parseIntOr(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return def
	}
	return n
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
