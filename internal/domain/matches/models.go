package matches

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/preston-bernstein/esports-dashboard/internal/domain/teams"
)

// Status mirrors the backend lifecycle states the dashboard shows.
type Status string

const (
	StatusUpcoming Status = "upcoming"
	StatusLive     Status = "live"
)

// Side is one team taking part in a match.
type Side struct {
	ID       teams.ID `json:"id"`
	Name     string   `json:"name"`
	Acronym  string   `json:"acronym,omitempty"`
	ImageURL string   `json:"image_url,omitempty"`
}

// Match is the canonical match shape. Values are immutable once fetched.
type Match struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name,omitempty"`
	TournamentName string    `json:"tournamentName"`
	TeamA          Side      `json:"teamA"`
	TeamB          Side      `json:"teamB"`
	StartsAt       time.Time `json:"startsAt"`
	Status         Status    `json:"status"`
	Game           string    `json:"game,omitempty"`
	Region         string    `json:"region,omitempty"`
}

// Involves reports whether either side is in the set.
func (m Match) Involves(set teams.IDSet) bool {
	return set.Contains(m.TeamA.ID) || set.Contains(m.TeamB.ID)
}

// FilterParams is the snapshot of dashboard controls used for one refresh cycle.
type FilterParams struct {
	Region       string      `json:"region"`
	Game         string      `json:"game"`
	Followed     teams.IDSet `json:"followedIds"`
	OnlyFollowed bool        `json:"onlyFollowed"`
}

// Query encodes the params as backend query values. Empty controls are omitted.
func (p FilterParams) Query() url.Values {
	q := url.Values{}
	if v := strings.TrimSpace(p.Region); v != "" {
		q.Set("region", v)
	}
	if v := strings.TrimSpace(p.Game); v != "" {
		q.Set("game", v)
	}
	if ids := p.Followed.IDs(); len(ids) > 0 {
		q.Set("ids", JoinIDs(ids))
	}
	if p.OnlyFollowed {
		q.Set("only_followed", "true")
	}
	return q
}

// JoinIDs renders ids as a comma separated list.
func JoinIDs(ids []teams.ID) string {
	var b strings.Builder
	for i, id := range ids {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatInt(int64(id), 10))
	}
	return b.String()
}
