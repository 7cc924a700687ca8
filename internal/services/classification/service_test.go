package classification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/shadowsprint/internal/config"
	"github.com/mcoot/shadowsprint/internal/dependencies/mocks"
	"github.com/mcoot/shadowsprint/internal/model"
	"github.com/mcoot/shadowsprint/internal/services/ghost"
	"github.com/mcoot/shadowsprint/internal/storage"
	"github.com/mcoot/shadowsprint/internal/storage/memory"
	"github.com/mcoot/shadowsprint/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	ghosts  *ghost.Service
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	logger := testutil.NopLogger()
	clk := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.ghosts = ghost.New(storage.Connect(memory.New()), config.DefaultGame(), clk, logger)
	s.service = New(s.ghosts, config.DefaultGame(), logger)
	s.ctx = context.Background()
}

func (s *ServiceSuite) record(id model.PlayerID, level, timeMs int) {
	_, err := s.ghosts.Submit(s.ctx, model.GhostRecord{PlayerID: id, Level: level, TimeMs: timeMs})
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestNoRecordsIsBronze() {
	tier, err := s.service.Classify(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal(model.TierBronze, tier)
}

func (s *ServiceSuite) TestFallbackGhostsDoNotCount() {
	// Reading a level serves the 8000ms fallback but must not feed the average
	_, err := s.ghosts.Get(s.ctx, "p1", 1)
	s.Require().NoError(err)
	s.record("p1", 2, 5000)

	summary, err := s.service.Summary(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal(1, summary.LevelsPlayed)
	s.Equal(model.TierGold, summary.Tier)
}

func (s *ServiceSuite) TestAverageOverPlayedLevels() {
	tests := []struct {
		name  string
		times []int
		tier  model.Tier
		mean  float64
	}{
		{"gold", []int{4000, 6000}, model.TierGold, 5000},
		{"silver", []int{6000, 7000}, model.TierSilver, 6500},
		{"bronze", []int{8000}, model.TierBronze, 8000},
		{"silver lower bound", []int{5500}, model.TierSilver, 5500},
		{"bronze lower bound", []int{7000, 8000}, model.TierBronze, 7500},
		{"just under gold", []int{5499, 5500}, model.TierGold, 5499.5},
	}

	for i, tc := range tests {
		s.Run(tc.name, func() {
			id := model.PlayerID(tc.name)
			for level, t := range tc.times {
				s.record(id, level+1, t)
			}

			summary, err := s.service.Summary(s.ctx, id)
			s.Require().NoError(err, "case %d", i)
			s.Equal(tc.tier, summary.Tier)
			s.InDelta(tc.mean, summary.AverageMs, 0.001)
			s.Equal(len(tc.times), summary.LevelsPlayed)
		})
	}
}

func (s *ServiceSuite) TestUsesBestTimePerLevel() {
	s.record("p1", 1, 9000)
	s.record("p1", 1, 5000)
	s.record("p1", 2, 6000)

	summary, err := s.service.Summary(s.ctx, "p1")
	s.Require().NoError(err)
	s.InDelta(5500, summary.AverageMs, 0.001)
	s.Equal(model.TierSilver, summary.Tier)
}

func (s *ServiceSuite) TestDisconnectedIsBronze() {
	logger := testutil.NopLogger()
	clk := mocks.NewMockClock(time.Now())
	ghosts := ghost.New(storage.Disconnected(), config.DefaultGame(), clk, logger)
	service := New(ghosts, config.DefaultGame(), logger)

	tier, err := service.Classify(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal(model.TierBronze, tier)
}

type failingLister struct{ err error }

func (f failingLister) List(context.Context, model.PlayerID) ([]model.GhostRecord, error) {
	return nil, f.err
}

func (s *ServiceSuite) TestListErrorPropagates() {
	boom := errors.New("boom")
	service := New(failingLister{err: boom}, config.DefaultGame(), testutil.NopLogger())

	_, err := service.Classify(s.ctx, "p1")
	s.ErrorIs(err, boom)
}

func TestTierForCustomThresholds(t *testing.T) {
	game := config.DefaultGame()
	game.GoldBelowMs = 3000
	game.SilverBelowMs = 4000

	assert.Equal(t, model.TierGold, TierFor(2999, game))
	assert.Equal(t, model.TierSilver, TierFor(3000, game))
	assert.Equal(t, model.TierBronze, TierFor(4000, game))
}
