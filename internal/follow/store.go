// Package follow owns the durable set of followed team IDs.
package follow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/preston-bernstein/esports-dashboard/internal/domain/teams"
	"github.com/preston-bernstein/esports-dashboard/internal/kv"
	"github.com/preston-bernstein/esports-dashboard/internal/logging"
	"github.com/preston-bernstein/esports-dashboard/internal/metrics"
)

// DefaultKey is the slot the follow set lives under.
const DefaultKey = "selectedTeamIds"

// Store is the only writer of the persisted follow set. Readers get immutable snapshots.
type Store struct {
	kv      kv.Store
	key     string
	logger  *slog.Logger
	metrics *metrics.Recorder

	mu      sync.Mutex
	current teams.IDSet
	loaded  bool
}

// NewStore constructs a Store over the given kv slot. Call Load to hydrate it.
func NewStore(store kv.Store, key string, logger *slog.Logger, recorder *metrics.Recorder) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{
		kv:      store,
		key:     key,
		logger:  logger,
		metrics: recorder,
	}
}

// Current returns the in-memory snapshot, hydrating it first if Load has not run.
func (s *Store) Current() teams.IDSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(context.Background())
	return s.current
}

// Load reads the persisted set. Missing, corrupt or unreadable state yields the empty set.
func (s *Store) Load(ctx context.Context) teams.IDSet {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = s.read(ctx)
	s.loaded = true
	return s.current
}

// Save normalizes ids, persists the complete set and returns it.
func (s *Store) Save(ctx context.Context, ids []teams.ID) (teams.IDSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persist(ctx, teams.NewIDSet(ids...))
}

// SaveValues is Save for loosely typed input such as decoded JSON.
func (s *Store) SaveValues(ctx context.Context, values []any) (teams.IDSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persist(ctx, NormalizeValues(values))
}

// Add follows id.
func (s *Store) Add(ctx context.Context, id teams.ID) (teams.IDSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	return s.persist(ctx, s.current.With(id))
}

// Remove unfollows id.
func (s *Store) Remove(ctx context.Context, id teams.ID) (teams.IDSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	return s.persist(ctx, s.current.Without(id))
}

// ensureLoaded reads the persisted set once so incremental edits never start from an
// empty snapshot. Callers hold mu.
func (s *Store) ensureLoaded(ctx context.Context) {
	if s.loaded {
		return
	}
	s.current = s.read(ctx)
	s.loaded = true
}

func (s *Store) read(ctx context.Context) teams.IDSet {
	data, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			logging.Warn(s.logger, "follow state unreadable, using empty set", "key", s.key, "error", err)
		}
		return teams.NewIDSet()
	}
	set, ok := decode(data)
	if !ok {
		logging.Warn(s.logger, "follow state corrupt, using empty set", "key", s.key)
		return teams.NewIDSet()
	}
	return set
}

func (s *Store) persist(ctx context.Context, set teams.IDSet) (teams.IDSet, error) {
	data, err := encode(set)
	if err != nil {
		return s.current, err
	}
	if err := s.kv.Put(ctx, s.key, data); err != nil {
		s.metrics.RecordFollowSave(err)
		return s.current, fmt.Errorf("persist follow set: %w", err)
	}
	s.metrics.RecordFollowSave(nil)
	s.current = set
	s.loaded = true
	logging.Info(s.logger, "follow set saved", logging.FieldCount, set.Len())
	return set, nil
}
