package storage

import (
	"context"
	"errors"
	"time"

	"github.com/mcoot/shadowsprint/internal/model"
)

// ErrUnavailable marks a failure to reach the backing store. Services answer
// with defaults instead of surfacing it.
var ErrUnavailable = errors.New("store unavailable")

// Store defines the persistence operations the game services need.
// Every conditional write is a single atomic step in the backend.
type Store interface {
	// EnsureSettings returns the player's settings, creating them from defaults if
	// absent. created reports whether this call created the record.
	EnsureSettings(ctx context.Context, defaults model.PlayerSettings) (settings *model.PlayerSettings, created bool, err error)
	// MergeSettings creates the record from defaults if absent, then sets only the
	// fields supplied in patch, and returns the full record.
	MergeSettings(ctx context.Context, defaults model.PlayerSettings, patch model.SettingsPatch) (*model.PlayerSettings, error)

	// EnsureProgress returns the player's progress, creating it at the first level if absent
	EnsureProgress(ctx context.Context, playerID model.PlayerID, now time.Time) (progress *model.ProgressRecord, created bool, err error)
	// RaiseProgress sets unlocked_upto to unlockedUpto if the stored value is lower,
	// creating the record if absent. It returns the resulting record and whether it advanced.
	RaiseProgress(ctx context.Context, playerID model.PlayerID, unlockedUpto int, now time.Time) (progress *model.ProgressRecord, advanced bool, err error)

	// GetGhost returns the stored ghost for the key, or nil if none exists
	GetGhost(ctx context.Context, playerID model.PlayerID, level int) (*model.GhostRecord, error)
	// PutGhostIfFaster stores ghost if no record exists for its key or its time is
	// strictly lower than the stored time. accepted reports whether it was stored.
	PutGhostIfFaster(ctx context.Context, ghost *model.GhostRecord) (accepted bool, err error)
	// ListGhosts returns every stored ghost for the player ordered by level
	ListGhosts(ctx context.Context, playerID model.PlayerID) ([]*model.GhostRecord, error)

	// Ping checks the store is reachable
	Ping(ctx context.Context) error
	// Close releases backend resources
	Close() error
}

// Handle is a store collaborator that may be disconnected
type Handle struct {
	store Store
}

// Connect returns a handle backed by store
func Connect(store Store) Handle {
	return Handle{store: store}
}

// Disconnected returns a handle with no store; every service falls back to defaults
func Disconnected() Handle {
	return Handle{}
}

// Store returns the backing store and whether one is connected
func (h Handle) Store() (Store, bool) {
	return h.store, h.store != nil
}

// Connected reports whether a store is attached
func (h Handle) Connected() bool {
	return h.store != nil
}

// Ping checks reachability; a disconnected handle reports ErrUnavailable
func (h Handle) Ping(ctx context.Context) error {
	if h.store == nil {
		return ErrUnavailable
	}
	return h.store.Ping(ctx)
}

// Close closes the backing store if any
func (h Handle) Close() error {
	if h.store == nil {
		return nil
	}
	return h.store.Close()
}
