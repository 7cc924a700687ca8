// Package storagetest holds the behavior suite every storage backend must pass.
package storagetest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/shadowsprint/internal/model"
	"github.com/mcoot/shadowsprint/internal/storage"
)

// StoreSuite runs the shared storage behavior tests against NewStore
type StoreSuite struct {
	suite.Suite

	// NewStore returns an empty store; it is called once per test
	NewStore func(t *testing.T) storage.Store

	store storage.Store
	ctx   context.Context
	now   time.Time
}

func (s *StoreSuite) SetupTest() {
	s.store = s.NewStore(s.T())
	s.ctx = context.Background()
	s.now = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

func (s *StoreSuite) TearDownTest() {
	if s.store != nil {
		_ = s.store.Close()
	}
}

func defaultSettings(id model.PlayerID) model.PlayerSettings {
	return model.PlayerSettings{PlayerID: id, Volume: true, Vibration: true, Language: model.LanguageSpanish}
}

func ghost(id model.PlayerID, level, timeMs int) *model.GhostRecord {
	return &model.GhostRecord{
		PlayerID: id,
		Level:    level,
		TimeMs:   timeMs,
		Inputs: []model.InputSegment{
			{StartMs: 0, EndMs: 100, Kind: model.InputTap},
			{StartMs: 200, EndMs: timeMs + 1, Kind: model.InputHold},
		},
	}
}

// Settings tests

func (s *StoreSuite) TestEnsureSettingsCreatesOnce() {
	first, created, err := s.store.EnsureSettings(s.ctx, defaultSettings("p1"))
	s.Require().NoError(err)
	s.True(created)
	s.Equal(defaultSettings("p1"), *first)

	second, created, err := s.store.EnsureSettings(s.ctx, defaultSettings("p1"))
	s.Require().NoError(err)
	s.False(created)
	s.Equal(*first, *second)
}

func (s *StoreSuite) TestEnsureSettingsKeepsStoredValues() {
	lang := model.LanguageEnglish
	_, err := s.store.MergeSettings(s.ctx, defaultSettings("p1"), model.SettingsPatch{Language: &lang})
	s.Require().NoError(err)

	got, created, err := s.store.EnsureSettings(s.ctx, defaultSettings("p1"))
	s.Require().NoError(err)
	s.False(created)
	s.Equal(model.LanguageEnglish, got.Language)
}

func (s *StoreSuite) TestMergeSettingsCreatesFromDefaults() {
	off := false
	got, err := s.store.MergeSettings(s.ctx, defaultSettings("p1"), model.SettingsPatch{Volume: &off})
	s.Require().NoError(err)

	s.Equal(model.PlayerSettings{PlayerID: "p1", Volume: false, Vibration: true, Language: model.LanguageSpanish}, *got)
}

func (s *StoreSuite) TestMergeSettingsOnlyChangesSuppliedFields() {
	off := false
	_, err := s.store.MergeSettings(s.ctx, defaultSettings("p1"), model.SettingsPatch{Volume: &off, Vibration: &off})
	s.Require().NoError(err)

	lang := model.LanguageEnglish
	got, err := s.store.MergeSettings(s.ctx, defaultSettings("p1"), model.SettingsPatch{Language: &lang})
	s.Require().NoError(err)

	s.False(got.Volume)
	s.False(got.Vibration)
	s.Equal(model.LanguageEnglish, got.Language)
}

func (s *StoreSuite) TestMergeSettingsEmptyPatchMaterializesDefaults() {
	got, err := s.store.MergeSettings(s.ctx, defaultSettings("p1"), model.SettingsPatch{})
	s.Require().NoError(err)
	s.Equal(defaultSettings("p1"), *got)

	_, created, err := s.store.EnsureSettings(s.ctx, defaultSettings("p1"))
	s.Require().NoError(err)
	s.False(created)
}

func (s *StoreSuite) TestSettingsArePerPlayer() {
	off := false
	_, err := s.store.MergeSettings(s.ctx, defaultSettings("p1"), model.SettingsPatch{Volume: &off})
	s.Require().NoError(err)

	got, _, err := s.store.EnsureSettings(s.ctx, defaultSettings("p2"))
	s.Require().NoError(err)
	s.True(got.Volume)
}

// Progress tests

func (s *StoreSuite) TestEnsureProgressStartsAtFirstLevel() {
	got, created, err := s.store.EnsureProgress(s.ctx, "p1", s.now)
	s.Require().NoError(err)
	s.True(created)
	s.Equal(model.PlayerID("p1"), got.PlayerID)
	s.Equal(1, got.UnlockedUpto)

	_, created, err = s.store.EnsureProgress(s.ctx, "p1", s.now)
	s.Require().NoError(err)
	s.False(created)
}

func (s *StoreSuite) TestRaiseProgressCreatesIfAbsent() {
	got, advanced, err := s.store.RaiseProgress(s.ctx, "p1", 4, s.now)
	s.Require().NoError(err)
	s.True(advanced)
	s.Equal(4, got.UnlockedUpto)

	stored, created, err := s.store.EnsureProgress(s.ctx, "p1", s.now)
	s.Require().NoError(err)
	s.False(created)
	s.Equal(4, stored.UnlockedUpto)
}

func (s *StoreSuite) TestRaiseProgressNeverRegresses() {
	_, _, err := s.store.RaiseProgress(s.ctx, "p1", 6, s.now)
	s.Require().NoError(err)

	got, advanced, err := s.store.RaiseProgress(s.ctx, "p1", 4, s.now.Add(time.Minute))
	s.Require().NoError(err)
	s.False(advanced)
	s.Equal(6, got.UnlockedUpto)

	got, advanced, err = s.store.RaiseProgress(s.ctx, "p1", 6, s.now.Add(time.Minute))
	s.Require().NoError(err)
	s.False(advanced)
	s.Equal(6, got.UnlockedUpto)
}

func (s *StoreSuite) TestRaiseProgressConcurrent() {
	var wg sync.WaitGroup
	for level := 2; level <= 15; level++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			_, _, err := s.store.RaiseProgress(s.ctx, "p1", v, s.now)
			s.NoError(err)
		}(level)
	}
	wg.Wait()

	got, _, err := s.store.EnsureProgress(s.ctx, "p1", s.now)
	s.Require().NoError(err)
	s.Equal(15, got.UnlockedUpto)
}

// Ghost tests

func (s *StoreSuite) TestGetGhostAbsent() {
	got, err := s.store.GetGhost(s.ctx, "p1", 3)
	s.Require().NoError(err)
	s.Nil(got)
}

func (s *StoreSuite) TestPutGhostIfFasterFirstSubmissionWins() {
	g := ghost("p1", 3, 9000)
	g.RecordedAt = s.now

	accepted, err := s.store.PutGhostIfFaster(s.ctx, g)
	s.Require().NoError(err)
	s.True(accepted)

	got, err := s.store.GetGhost(s.ctx, "p1", 3)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal(9000, got.TimeMs)
	s.Equal(g.Inputs, got.Inputs)
	s.True(s.now.Equal(got.RecordedAt), "recorded_at round trips")
}

func (s *StoreSuite) TestPutGhostIfFasterKeepsMinimum() {
	for _, tc := range []struct {
		timeMs   int
		accepted bool
	}{
		{9000, true},
		{7000, true},
		{7500, false},
		{7000, false}, // ties keep the existing record
	} {
		accepted, err := s.store.PutGhostIfFaster(s.ctx, ghost("p1", 3, tc.timeMs))
		s.Require().NoError(err)
		s.Equal(tc.accepted, accepted, "time %d", tc.timeMs)
	}

	got, err := s.store.GetGhost(s.ctx, "p1", 3)
	s.Require().NoError(err)
	s.Equal(7000, got.TimeMs)
}

func (s *StoreSuite) TestPutGhostIfFasterReplacesInputs() {
	_, err := s.store.PutGhostIfFaster(s.ctx, ghost("p1", 1, 9000))
	s.Require().NoError(err)

	faster := &model.GhostRecord{PlayerID: "p1", Level: 1, TimeMs: 0, Inputs: []model.InputSegment{}}
	accepted, err := s.store.PutGhostIfFaster(s.ctx, faster)
	s.Require().NoError(err)
	s.True(accepted)

	got, err := s.store.GetGhost(s.ctx, "p1", 1)
	s.Require().NoError(err)
	s.Equal(0, got.TimeMs)
	s.Empty(got.Inputs)
}

func (s *StoreSuite) TestPutGhostIfFasterConcurrent() {
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(timeMs int) {
			defer wg.Done()
			_, err := s.store.PutGhostIfFaster(s.ctx, ghost("p1", 2, timeMs))
			s.NoError(err)
		}(5000 + (i*7919)%2000)
	}
	wg.Wait()

	got, err := s.store.GetGhost(s.ctx, "p1", 2)
	s.Require().NoError(err)
	s.Equal(5000, got.TimeMs)
}

func (s *StoreSuite) TestStoredGhostIsNotAliased() {
	g := ghost("p1", 1, 9000)
	_, err := s.store.PutGhostIfFaster(s.ctx, g)
	s.Require().NoError(err)
	g.Inputs[0].Kind = model.InputHold

	got, err := s.store.GetGhost(s.ctx, "p1", 1)
	s.Require().NoError(err)
	s.Equal(model.InputTap, got.Inputs[0].Kind)
}

func (s *StoreSuite) TestListGhostsOrderedByLevel() {
	for _, level := range []int{7, 2, 12} {
		_, err := s.store.PutGhostIfFaster(s.ctx, ghost("p1", level, 6000+level))
		s.Require().NoError(err)
	}
	_, err := s.store.PutGhostIfFaster(s.ctx, ghost("p2", 5, 4000))
	s.Require().NoError(err)

	ghosts, err := s.store.ListGhosts(s.ctx, "p1")
	s.Require().NoError(err)
	s.Require().Len(ghosts, 3)
	s.Equal(2, ghosts[0].Level)
	s.Equal(7, ghosts[1].Level)
	s.Equal(12, ghosts[2].Level)
	s.Equal(6012, ghosts[2].TimeMs)
}

func (s *StoreSuite) TestListGhostsEmpty() {
	ghosts, err := s.store.ListGhosts(s.ctx, "nobody")
	s.Require().NoError(err)
	s.Empty(ghosts)
}

func (s *StoreSuite) TestPing() {
	s.NoError(s.store.Ping(s.ctx))
}
