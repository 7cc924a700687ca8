package factory

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/shadowsprint/internal/config"
	"github.com/mcoot/shadowsprint/internal/model"
	redisstorage "github.com/mcoot/shadowsprint/internal/storage/redis"
	"github.com/mcoot/shadowsprint/internal/storage/storagetest"
	"github.com/mcoot/shadowsprint/internal/testutil"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

// Test: a new player plays through the first levels and earns a tier
func (s *IntegrationSuite) TestPlayerJourney() {
	const player = model.PlayerID("p1")

	// Step 1: first launch materializes defaults
	set, err := s.app.SettingsService.Get(s.ctx, player)
	s.Require().NoError(err)
	s.Equal(model.SourceCreated, set.Source)
	s.Equal(model.Language("es"), set.Value.Language)

	prog, err := s.app.ProgressService.Get(s.ctx, player)
	s.Require().NoError(err)
	s.Equal(1, prog.Value.UnlockedUpto)

	// Step 2: no ghost yet, so the fallback is served and the tier is Bronze
	g, err := s.app.GhostService.Get(s.ctx, player, 1)
	s.Require().NoError(err)
	s.Equal(model.SourceDefault, g.Source)
	s.Equal(8000, g.Value.TimeMs)

	tier, err := s.app.ClassificationService.Classify(s.ctx, player)
	s.Require().NoError(err)
	s.Equal(model.TierBronze, tier)

	// Step 3: win levels 1 and 2 with fast runs
	for level, timeMs := range map[int]int{1: 5000, 2: 5200} {
		accepted, err := s.app.GhostService.Submit(s.ctx, model.GhostRecord{
			PlayerID: player,
			Level:    level,
			TimeMs:   timeMs,
			Inputs:   []model.InputSegment{{StartMs: 0, EndMs: 100, Kind: model.InputTap}},
		})
		s.Require().NoError(err)
		s.True(accepted)

		_, err = s.app.ProgressService.ReportWin(s.ctx, player, level)
		s.Require().NoError(err)
		s.app.MockClock.Advance(time.Minute)
	}

	prog, err = s.app.ProgressService.Get(s.ctx, player)
	s.Require().NoError(err)
	s.Equal(model.SourceStored, prog.Source)
	s.Equal(3, prog.Value.UnlockedUpto)

	tier, err = s.app.ClassificationService.Classify(s.ctx, player)
	s.Require().NoError(err)
	s.Equal(model.TierGold, tier)

	// Step 4: change language, rest untouched
	lang := model.Language("en")
	set, err = s.app.SettingsService.Update(s.ctx, player, model.SettingsPatch{Language: &lang})
	s.Require().NoError(err)
	s.Equal(model.PlayerSettings{PlayerID: player, Volume: true, Vibration: true, Language: "en"}, set.Value)
}

// Test: a store that fails mid-session degrades every service to defaults
func (s *IntegrationSuite) TestUnavailableStoreDegradesEverything() {
	store := &storagetest.UnavailableStore{}
	app := NewTestAppWithStore(store)

	set, err := app.SettingsService.Get(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal(model.SourceDefault, set.Source)

	prog, err := app.ProgressService.Get(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal(1, prog.Value.UnlockedUpto)

	_, err = app.ProgressService.ReportWin(s.ctx, "p1", 3)
	s.Require().NoError(err)

	accepted, err := app.GhostService.Submit(s.ctx, model.GhostRecord{PlayerID: "p1", Level: 1, TimeMs: 100})
	s.Require().NoError(err)
	s.False(accepted)

	tier, err := app.ClassificationService.Classify(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal(model.TierBronze, tier)

	s.Positive(store.Calls)
}

func TestNewDefaultsToMemory(t *testing.T) {
	app, err := New(Config{})
	require.NoError(t, err)
	defer app.Close()

	assert.True(t, app.Store.Connected())
	assert.Equal(t, config.DefaultGame(), app.Game)
}

func TestNewWithNoStoreIsDisconnected(t *testing.T) {
	app, err := New(Config{StorageType: config.StorageTypeNone, Logger: testutil.NopLogger()})
	require.NoError(t, err)

	assert.False(t, app.Store.Connected())
	res, err := app.SettingsService.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, model.SourceDefault, res.Source)
}

func TestNewWithUnreachableRedisIsDisconnected(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	redisCfg := redisstorage.DefaultConfig()
	redisCfg.URL = "redis://" + addr
	redisCfg.ConnectTimeout = 500 * time.Millisecond

	app, err := New(Config{StorageType: config.StorageTypeRedis, RedisConfig: &redisCfg})
	require.NoError(t, err)
	assert.False(t, app.Store.Connected())
}

func TestNewWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := config.Server{StorageType: config.StorageTypeRedis, RedisURL: "redis://" + mr.Addr(), Game: config.DefaultGame()}
	app, err := New(FromServer(cfg, testutil.NopLogger()))
	require.NoError(t, err)
	defer app.Close()

	require.True(t, app.Store.Connected())
	_, err = app.ProgressService.ReportWin(context.Background(), "p1", 4)
	require.NoError(t, err)

	prog, err := app.ProgressService.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 5, prog.Value.UnlockedUpto)
}

func TestNewWithSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.db")

	app, err := New(Config{StorageType: config.StorageTypeSQLite, SQLitePath: path})
	require.NoError(t, err)
	require.True(t, app.Store.Connected())

	accepted, err := app.GhostService.Submit(context.Background(), model.GhostRecord{PlayerID: "p1", Level: 2, TimeMs: 6100})
	require.NoError(t, err)
	assert.True(t, accepted)
	require.NoError(t, app.Close())

	// Reopening sees the same data
	app, err = New(Config{StorageType: config.StorageTypeSQLite, SQLitePath: path})
	require.NoError(t, err)
	defer app.Close()

	g, err := app.GhostService.Get(context.Background(), "p1", 2)
	require.NoError(t, err)
	assert.Equal(t, model.SourceStored, g.Source)
	assert.Equal(t, 6100, g.Value.TimeMs)
}

func TestNewRejectsMisconfiguration(t *testing.T) {
	_, err := New(Config{StorageType: "mongo"})
	assert.Error(t, err)

	_, err = New(Config{StorageType: config.StorageTypeRedis})
	assert.Error(t, err)

	_, err = New(Config{StorageType: config.StorageTypeSQLite})
	assert.Error(t, err)

	game := config.DefaultGame()
	game.DefaultLanguage = "fr"
	_, err = New(Config{Game: game})
	assert.Error(t, err)
}
