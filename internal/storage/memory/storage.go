package memory

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/mcoot/shadowsprint/internal/model"
	"github.com/mcoot/shadowsprint/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.Mutex

	settings map[model.PlayerID]model.PlayerSettings
	progress map[model.PlayerID]model.ProgressRecord
	ghosts   map[model.PlayerID]map[int]model.GhostRecord
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		settings: make(map[model.PlayerID]model.PlayerSettings),
		progress: make(map[model.PlayerID]model.ProgressRecord),
		ghosts:   make(map[model.PlayerID]map[int]model.GhostRecord),
	}
}

// Ensure Storage implements the interface
var _ storage.Store = (*Storage)(nil)

// Settings operations

func (s *Storage) EnsureSettings(ctx context.Context, defaults model.PlayerSettings) (*model.PlayerSettings, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.settings[defaults.PlayerID]; ok {
		return &existing, false, nil
	}
	s.settings[defaults.PlayerID] = defaults
	return &defaults, true, nil
}

func (s *Storage) MergeSettings(ctx context.Context, defaults model.PlayerSettings, patch model.SettingsPatch) (*model.PlayerSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.settings[defaults.PlayerID]
	if !ok {
		current = defaults
	}
	merged := patch.Apply(current)
	s.settings[defaults.PlayerID] = merged
	return &merged, nil
}

// Progress operations

func (s *Storage) EnsureProgress(ctx context.Context, playerID model.PlayerID, now time.Time) (*model.ProgressRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.progress[playerID]; ok {
		return &existing, false, nil
	}
	rec := model.NewProgressRecord(playerID)
	rec.UpdatedAt = now
	s.progress[playerID] = rec
	return &rec, true, nil
}

func (s *Storage) RaiseProgress(ctx context.Context, playerID model.PlayerID, unlockedUpto int, now time.Time) (*model.ProgressRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.progress[playerID]
	if !ok {
		rec = model.NewProgressRecord(playerID)
		rec.UpdatedAt = now
	}
	advanced := unlockedUpto > rec.UnlockedUpto
	if advanced {
		rec.UnlockedUpto = unlockedUpto
		rec.UpdatedAt = now
	}
	s.progress[playerID] = rec
	return &rec, advanced, nil
}

// Ghost operations

func (s *Storage) GetGhost(ctx context.Context, playerID model.PlayerID, level int) (*model.GhostRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ghost, ok := s.ghosts[playerID][level]
	if !ok {
		return nil, nil
	}
	return cloneGhost(ghost), nil
}

func (s *Storage) PutGhostIfFaster(ctx context.Context, ghost *model.GhostRecord) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byLevel, ok := s.ghosts[ghost.PlayerID]
	if !ok {
		byLevel = make(map[int]model.GhostRecord)
		s.ghosts[ghost.PlayerID] = byLevel
	}

	var existing *model.GhostRecord
	if current, ok := byLevel[ghost.Level]; ok {
		existing = &current
	}
	if !ghost.FasterThan(existing) {
		return false, nil
	}
	byLevel[ghost.Level] = *cloneGhost(*ghost)
	return true, nil
}

func (s *Storage) ListGhosts(ctx context.Context, playerID model.PlayerID) ([]*model.GhostRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byLevel := s.ghosts[playerID]
	levels := slices.Sorted(maps.Keys(byLevel))
	ghosts := make([]*model.GhostRecord, 0, len(levels))
	for _, level := range levels {
		ghosts = append(ghosts, cloneGhost(byLevel[level]))
	}
	return ghosts, nil
}

// Ping always succeeds for the in-memory store
func (s *Storage) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op for the in-memory store
func (s *Storage) Close() error {
	return nil
}

// cloneGhost copies the inputs so callers cannot mutate stored state
func cloneGhost(g model.GhostRecord) *model.GhostRecord {
	g.Inputs = slices.Clone(g.Inputs)
	return &g
}
