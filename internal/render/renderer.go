// Package render turns fetched match lists into display-ready views.
package render

import (
	"time"

	"github.com/preston-bernstein/esports-dashboard/internal/domain/matches"
	"github.com/preston-bernstein/esports-dashboard/internal/domain/teams"
	"github.com/preston-bernstein/esports-dashboard/internal/fetcher"
	"github.com/preston-bernstein/esports-dashboard/internal/timeutil"
)

// Renderer projects matches into cards using a display location and layout.
type Renderer struct {
	loc    *time.Location
	layout string
	now    func() time.Time
}

// NewRenderer constructs a Renderer. A nil location means UTC, an empty layout means timeutil.DisplayLayout.
func NewRenderer(loc *time.Location, layout string) *Renderer {
	if loc == nil {
		loc = time.UTC
	}
	if layout == "" {
		layout = timeutil.DisplayLayout
	}
	return &Renderer{loc: loc, layout: layout, now: time.Now}
}

// ToRenderModel maps each match to a card in input order.
func (r *Renderer) ToRenderModel(list []matches.Match, followed teams.IDSet) []Card {
	cards := make([]Card, 0, len(list))
	for _, m := range list {
		cards = append(cards, r.card(m, followed))
	}
	return cards
}

// Build filters both results with params and renders a complete view.
func (r *Renderer) Build(seq uint64, params matches.FilterParams, upcoming, live fetcher.Result) View {
	return View{
		Seq:        seq,
		RenderedAt: r.now().UTC(),
		Controls: Controls{
			Region:       params.Region,
			Game:         params.Game,
			OnlyFollowed: params.OnlyFollowed,
		},
		Followed: params.Followed,
		Upcoming: r.section(upcoming, params, MessageNoUpcoming),
		Live:     r.section(live, params, MessageNoLive),
	}
}

func (r *Renderer) section(res fetcher.Result, params matches.FilterParams, emptyMessage string) Section {
	if res.Outcome() == fetcher.OutcomeFailed {
		return Section{State: SectionFailed, Message: MessageFailed, Cards: []Card{}}
	}
	list := ApplyScope(res.Matches, params.Region, params.Game)
	list = ApplyFollowFilter(list, params.Followed, params.OnlyFollowed)
	if len(list) == 0 {
		return Section{State: SectionEmpty, Message: emptyMessage, Cards: []Card{}}
	}
	return Section{State: SectionLoaded, Cards: r.ToRenderModel(list, params.Followed)}
}

func (r *Renderer) card(m matches.Match, followed teams.IDSet) Card {
	a := teamView(m.TeamA, followed)
	b := teamView(m.TeamB, followed)

	title := m.Name
	if title == "" {
		title = a.Name + titleSideSeparator + b.Name
	}
	subtitle := m.TournamentName
	if subtitle == title {
		subtitle = ""
	}

	return Card{
		MatchID:     m.ID,
		Title:       title,
		Subtitle:    subtitle,
		StartsAt:    timeutil.FormatLocal(m.StartsAt, r.loc, r.layout),
		StartsAtISO: timeutil.FormatISO(m.StartsAt),
		Status:      string(m.Status),
		Live:        m.Status == matches.StatusLive,
		Followed:    a.Followed || b.Followed,
		Teams:       []TeamView{a, b},
	}
}

func teamView(s matches.Side, followed teams.IDSet) TeamView {
	name := s.Name
	if name == "" {
		name = defaultUnknownSide
	}
	label := teams.Team{ID: s.ID, Name: name, Acronym: s.Acronym}.Label()
	return TeamView{
		ID:       s.ID,
		Name:     name,
		Label:    label,
		ImageURL: s.ImageURL,
		Followed: followed.Contains(s.ID),
	}
}
