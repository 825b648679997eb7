package render

import (
	"time"

	"github.com/preston-bernstein/esports-dashboard/internal/domain/teams"
)

const (
	MessageFailed     = "Failed to load data"
	MessageNoUpcoming = "No upcoming matches."
	MessageNoLive     = "No live matches."
)

const (
	defaultUnknownSide = "TBD"
	titleSideSeparator = " vs "
)

// SectionState mirrors the fetch outcome after filtering.
type SectionState string

const (
	SectionLoaded SectionState = "loaded"
	SectionEmpty  SectionState = "empty"
	SectionFailed SectionState = "failed"
)

// Controls are the user-facing dashboard controls.
type Controls struct {
	Region       string `json:"region"`
	Game         string `json:"game"`
	OnlyFollowed bool   `json:"onlyFollowed"`
}

// TeamView is one side of a card, ready for display.
type TeamView struct {
	ID       teams.ID `json:"id"`
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	ImageURL string   `json:"imageUrl,omitempty"`
	Followed bool     `json:"followed"`
}

// Card is the display record for one match.
type Card struct {
	MatchID     int64      `json:"matchId"`
	Title       string     `json:"title"`
	Subtitle    string     `json:"subtitle,omitempty"`
	StartsAt    string     `json:"startsAt"`
	StartsAtISO string     `json:"startsAtIso,omitempty"`
	Status      string     `json:"status"`
	Live        bool       `json:"live"`
	Followed    bool       `json:"followed"`
	Teams       []TeamView `json:"teams"`
}

// Section is one rendered match list.
type Section struct {
	State   SectionState `json:"state"`
	Message string       `json:"message,omitempty"`
	Cards   []Card       `json:"cards"`
}

// View is a complete render of the dashboard. It is rebuilt wholesale every cycle.
type View struct {
	Seq        uint64      `json:"seq"`
	RenderedAt time.Time   `json:"renderedAt"`
	Controls   Controls    `json:"controls"`
	Followed   teams.IDSet `json:"followedIds"`
	Upcoming   Section     `json:"upcoming"`
	Live       Section     `json:"live"`
}
