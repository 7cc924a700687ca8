package storagetest

import (
	"context"
	"time"

	"github.com/mcoot/shadowsprint/internal/model"
	"github.com/mcoot/shadowsprint/internal/storage"
)

// UnavailableStore fails every operation with storage.ErrUnavailable and counts calls
type UnavailableStore struct {
	Calls int
}

// Ensure UnavailableStore implements the interface
var _ storage.Store = (*UnavailableStore)(nil)

func (u *UnavailableStore) EnsureSettings(context.Context, model.PlayerSettings) (*model.PlayerSettings, bool, error) {
	u.Calls++
	return nil, false, storage.ErrUnavailable
}

func (u *UnavailableStore) MergeSettings(context.Context, model.PlayerSettings, model.SettingsPatch) (*model.PlayerSettings, error) {
	u.Calls++
	return nil, storage.ErrUnavailable
}

func (u *UnavailableStore) EnsureProgress(context.Context, model.PlayerID, time.Time) (*model.ProgressRecord, bool, error) {
	u.Calls++
	return nil, false, storage.ErrUnavailable
}

func (u *UnavailableStore) RaiseProgress(context.Context, model.PlayerID, int, time.Time) (*model.ProgressRecord, bool, error) {
	u.Calls++
	return nil, false, storage.ErrUnavailable
}

func (u *UnavailableStore) GetGhost(context.Context, model.PlayerID, int) (*model.GhostRecord, error) {
	u.Calls++
	return nil, storage.ErrUnavailable
}

func (u *UnavailableStore) PutGhostIfFaster(context.Context, *model.GhostRecord) (bool, error) {
	u.Calls++
	return false, storage.ErrUnavailable
}

func (u *UnavailableStore) ListGhosts(context.Context, model.PlayerID) ([]*model.GhostRecord, error) {
	u.Calls++
	return nil, storage.ErrUnavailable
}

func (u *UnavailableStore) Ping(context.Context) error {
	return storage.ErrUnavailable
}

func (u *UnavailableStore) Close() error {
	return nil
}
