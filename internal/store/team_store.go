package store

import (
	"sync"

	"github.com/preston-bernstein/esports-dashboard/internal/domain/teams"
)

// TeamStore keeps a thread-safe directory of teams in memory, preserving insertion order.
type TeamStore struct {
	mu    sync.RWMutex
	teams map[teams.ID]teams.Team
	order []teams.ID
}

// NewTeamStore constructs an empty TeamStore.
func NewTeamStore() *TeamStore {
	return &TeamStore{
		teams: make(map[teams.ID]teams.Team),
	}
}

// ListTeams returns a copy of the known teams in insertion order.
func (s *TeamStore) ListTeams() []teams.Team {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]teams.Team, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.teams[id])
	}
	return result
}

// GetTeam retrieves a team by ID.
func (s *TeamStore) GetTeam(id teams.ID) (teams.Team, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.teams[id]
	return t, ok
}

// MergeTeams inserts new teams and updates known ones in place. Invalid IDs are skipped.
func (s *TeamStore) MergeTeams(list []teams.Team) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range list {
		s.put(t)
	}
}

// SetTeams replaces the existing directory with a new snapshot.
func (s *TeamStore) SetTeams(list []teams.Team) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.teams = make(map[teams.ID]teams.Team, len(list))
	s.order = s.order[:0]
	for _, t := range list {
		s.put(t)
	}
}

func (s *TeamStore) put(t teams.Team) {
	if !t.ID.Valid() {
		return
	}
	if _, ok := s.teams[t.ID]; !ok {
		s.order = append(s.order, t.ID)
	}
	s.teams[t.ID] = t
}
