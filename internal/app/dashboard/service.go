// Package dashboard coordinates the user-facing dashboard operations shared by the
// HTTP and WebSocket surfaces.
package dashboard

import (
	"context"
	"errors"

	"github.com/preston-bernstein/esports-dashboard/internal/directory"
	"github.com/preston-bernstein/esports-dashboard/internal/domain/teams"
	"github.com/preston-bernstein/esports-dashboard/internal/providers"
	"github.com/preston-bernstein/esports-dashboard/internal/refresh"
	"github.com/preston-bernstein/esports-dashboard/internal/render"
)

// ErrInvalidTeamID is returned for non-positive team ids.
var ErrInvalidTeamID = errors.New("invalid team id")

// FollowStore defines the contract for the durable follow set.
type FollowStore interface {
	Current() teams.IDSet
	SaveValues(ctx context.Context, values []any) (teams.IDSet, error)
	Add(ctx context.Context, id teams.ID) (teams.IDSet, error)
	Remove(ctx context.Context, id teams.ID) (teams.IDSet, error)
}

// Directory defines the team directory operations the dashboard uses.
type Directory interface {
	Search(ctx context.Context, game, query string) directory.SearchResult
	SearchPage(ctx context.Context, game, query string, page providers.Page) directory.SearchResult
	Teams() []teams.Team
	Resolve(ctx context.Context, game string, set teams.IDSet) []teams.Team
}

// Refresher is the refresh controller surface.
type Refresher interface {
	Trigger(reason refresh.Reason)
	SetControls(controls render.Controls) render.Controls
	Controls() render.Controls
	Status() refresh.Status
}

// ViewSource exposes the latest published view.
type ViewSource interface {
	Latest() (render.View, bool)
}

// Follows is the follow set with the teams it resolves to.
type Follows struct {
	IDs   []teams.ID   `json:"ids"`
	Teams []teams.Team `json:"teams"`
}

// Service coordinates dashboard operations.
type Service struct {
	follows   FollowStore
	directory Directory
	refresher Refresher
	views     ViewSource
}

// NewService constructs a Service.
func NewService(follows FollowStore, dir Directory, refresher Refresher, views ViewSource) *Service {
	return &Service{
		follows:   follows,
		directory: dir,
		refresher: refresher,
		views:     views,
	}
}

// View returns the latest rendered view, if any.
func (s *Service) View() (render.View, bool) {
	return s.views.Latest()
}

// Status returns the refresh controller status.
func (s *Service) Status() refresh.Status {
	return s.refresher.Status()
}

// Refresh requests a manual cycle and returns the controller status.
func (s *Service) Refresh() refresh.Status {
	s.refresher.Trigger(refresh.ReasonManual)
	return s.refresher.Status()
}

// Follows returns the current follow set and its resolved teams.
func (s *Service) Follows(ctx context.Context) Follows {
	return s.describe(ctx, s.follows.Current())
}

// SetFollows replaces the follow set with loosely typed ids.
func (s *Service) SetFollows(ctx context.Context, values []any) (Follows, error) {
	set, err := s.follows.SaveValues(ctx, values)
	if err != nil {
		return Follows{}, err
	}
	s.refresher.Trigger(refresh.ReasonFollows)
	return s.describe(ctx, set), nil
}

// Follow adds id to the follow set.
func (s *Service) Follow(ctx context.Context, id teams.ID) (Follows, error) {
	if !id.Valid() {
		return Follows{}, ErrInvalidTeamID
	}
	set, err := s.follows.Add(ctx, id)
	if err != nil {
		return Follows{}, err
	}
	s.refresher.Trigger(refresh.ReasonFollows)
	return s.describe(ctx, set), nil
}

// Unfollow removes id from the follow set.
func (s *Service) Unfollow(ctx context.Context, id teams.ID) (Follows, error) {
	if !id.Valid() {
		return Follows{}, ErrInvalidTeamID
	}
	set, err := s.follows.Remove(ctx, id)
	if err != nil {
		return Follows{}, err
	}
	s.refresher.Trigger(refresh.ReasonFollows)
	return s.describe(ctx, set), nil
}

// Controls returns the current dashboard controls.
func (s *Service) Controls() render.Controls {
	return s.refresher.Controls()
}

// SetControls replaces the controls and triggers a refresh.
func (s *Service) SetControls(controls render.Controls) render.Controls {
	return s.refresher.SetControls(controls)
}

// Search runs a directory search, scoped to the current game control when game is empty.
func (s *Service) Search(ctx context.Context, game, query string) directory.SearchResult {
	if game == "" {
		game = s.refresher.Controls().Game
	}
	return s.directory.Search(ctx, game, query)
}

// SearchPage is Search for an explicit result page.
func (s *Service) SearchPage(ctx context.Context, game, query string, page providers.Page) directory.SearchResult {
	if game == "" {
		game = s.refresher.Controls().Game
	}
	return s.directory.SearchPage(ctx, game, query, page)
}

// FilterDirectory filters the cached directory by term.
func (s *Service) FilterDirectory(term string) []teams.Team {
	return directory.FilterTeams(s.directory.Teams(), term)
}

func (s *Service) describe(ctx context.Context, set teams.IDSet) Follows {
	return Follows{
		IDs:   set.IDs(),
		Teams: s.directory.Resolve(ctx, s.refresher.Controls().Game, set),
	}
}
