package ghost

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/shadowsprint/internal/config"
	"github.com/mcoot/shadowsprint/internal/dependencies/mocks"
	"github.com/mcoot/shadowsprint/internal/model"
	"github.com/mcoot/shadowsprint/internal/storage"
	"github.com/mcoot/shadowsprint/internal/storage/memory"
	"github.com/mcoot/shadowsprint/internal/storage/storagetest"
	"github.com/mcoot/shadowsprint/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(storage.Connect(s.storage), config.DefaultGame(), s.clock, testutil.NopLogger())
	s.ctx = context.Background()
}

func run(id model.PlayerID, level, timeMs int) model.GhostRecord {
	return model.GhostRecord{
		PlayerID: id,
		Level:    level,
		TimeMs:   timeMs,
		Inputs: []model.InputSegment{
			{StartMs: 0, EndMs: 150, Kind: model.InputTap},
			{StartMs: 400, EndMs: 1200, Kind: model.InputHold},
		},
	}
}

func (s *ServiceSuite) submit(g model.GhostRecord) bool {
	accepted, err := s.service.Submit(s.ctx, g)
	s.Require().NoError(err)
	return accepted
}

// Get tests

func (s *ServiceSuite) TestGetFallbackBeforeAnySubmission() {
	got, err := s.service.Get(s.ctx, "p1", 4)
	s.Require().NoError(err)

	s.Equal(model.SourceDefault, got.Source)
	s.Equal(model.PlayerID("p1"), got.Value.PlayerID)
	s.Equal(4, got.Value.Level)
	s.Equal(8000, got.Value.TimeMs)
	s.Require().Len(got.Value.Inputs, 10)
	for i, seg := range got.Value.Inputs {
		s.Equal(700*i, seg.StartMs)
		s.Equal(700*i+120, seg.EndMs)
		s.Equal(model.InputTap, seg.Kind)
	}
}

func (s *ServiceSuite) TestGetFallbackIsNotPersisted() {
	_, err := s.service.Get(s.ctx, "p1", 4)
	s.Require().NoError(err)

	ghosts, err := s.service.List(s.ctx, "p1")
	s.Require().NoError(err)
	s.Empty(ghosts)
}

func (s *ServiceSuite) TestGetReturnsStoredGhost() {
	s.True(s.submit(run("p1", 2, 6400)))

	got, err := s.service.Get(s.ctx, "p1", 2)
	s.Require().NoError(err)
	s.Equal(model.SourceStored, got.Source)
	s.Equal(6400, got.Value.TimeMs)
	s.Len(got.Value.Inputs, 2)
	s.Equal(s.clock.Now(), got.Value.RecordedAt)
}

func (s *ServiceSuite) TestGetRejectsLevelOutOfRange() {
	for _, level := range []int{0, 16, -1} {
		_, err := s.service.Get(s.ctx, "p1", level)
		s.ErrorIs(err, model.ErrInvalidLevel, "level %d", level)
	}
}

// Submit tests

func (s *ServiceSuite) TestSubmitBestTimeWins() {
	s.True(s.submit(run("p1", 3, 9000)))
	s.True(s.submit(run("p1", 3, 7000)))
	s.False(s.submit(run("p1", 3, 7500)))

	got, err := s.service.Get(s.ctx, "p1", 3)
	s.Require().NoError(err)
	s.Equal(7000, got.Value.TimeMs)
}

func (s *ServiceSuite) TestSubmitStoredTimeIsMinimumOfSequence() {
	times := []int{8200, 8900, 6100, 6100, 7300, 5900, 12000, 5950}
	for _, t := range times {
		s.submit(run("p1", 9, t))
	}

	got, err := s.service.Get(s.ctx, "p1", 9)
	s.Require().NoError(err)
	s.Equal(5900, got.Value.TimeMs)
}

func (s *ServiceSuite) TestSubmitTieKeepsOriginalRecord() {
	first := run("p1", 1, 6000)
	s.True(s.submit(first))

	s.clock.Advance(time.Hour)
	tie := run("p1", 1, 6000)
	tie.Inputs = nil
	s.False(s.submit(tie))

	got, err := s.service.Get(s.ctx, "p1", 1)
	s.Require().NoError(err)
	s.Len(got.Value.Inputs, 2)
}

func (s *ServiceSuite) TestSubmitAcceptsEmptyInputsAndZeroTime() {
	s.True(s.submit(model.GhostRecord{PlayerID: "p1", Level: 15, TimeMs: 0}))
}

func (s *ServiceSuite) TestSubmitValidation() {
	tests := []struct {
		name  string
		ghost model.GhostRecord
		err   error
	}{
		{"missing player", run("", 1, 100), model.ErrMissingPlayerID},
		{"level zero", run("p1", 0, 100), model.ErrInvalidLevel},
		{"level sixteen", run("p1", 16, 100), model.ErrInvalidLevel},
		{"negative time", run("p1", 1, -1), model.ErrInvalidTime},
		{"bad kind", model.GhostRecord{PlayerID: "p1", Level: 1, Inputs: []model.InputSegment{{StartMs: 0, EndMs: 10, Kind: "swipe"}}}, model.ErrInvalidInputKind},
		{"inverted segment", model.GhostRecord{PlayerID: "p1", Level: 1, Inputs: []model.InputSegment{{StartMs: 50, EndMs: 50, Kind: model.InputTap}}}, model.ErrInvalidSegment},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			_, err := s.service.Submit(s.ctx, tc.ghost)
			s.ErrorIs(err, tc.err)
		})
	}

	ghosts, err := s.service.List(s.ctx, "p1")
	s.Require().NoError(err)
	s.Empty(ghosts)
}

// List tests

func (s *ServiceSuite) TestListOnlyPlayersRecords() {
	s.submit(run("p1", 5, 6000))
	s.submit(run("p1", 1, 5000))
	s.submit(run("p2", 1, 4000))

	ghosts, err := s.service.List(s.ctx, "p1")
	s.Require().NoError(err)
	s.Require().Len(ghosts, 2)
	s.Equal(1, ghosts[0].Level)
	s.Equal(5, ghosts[1].Level)
}

// Degraded mode tests

func (s *ServiceSuite) TestDisconnectedServesFallback() {
	service := New(storage.Disconnected(), config.DefaultGame(), s.clock, testutil.NopLogger())

	got, err := service.Get(s.ctx, "p1", 3)
	s.Require().NoError(err)
	s.Equal(model.SourceDefault, got.Source)
	s.Equal(8000, got.Value.TimeMs)

	accepted, err := service.Submit(s.ctx, run("p1", 3, 100))
	s.Require().NoError(err)
	s.False(accepted)

	ghosts, err := service.List(s.ctx, "p1")
	s.Require().NoError(err)
	s.Empty(ghosts)
}

func (s *ServiceSuite) TestUnavailableStoreServesFallback() {
	service := New(storage.Connect(&storagetest.UnavailableStore{}), config.DefaultGame(), s.clock, testutil.NopLogger())

	got, err := service.Get(s.ctx, "p1", 3)
	s.Require().NoError(err)
	s.Equal(model.SourceDefault, got.Source)

	accepted, err := service.Submit(s.ctx, run("p1", 3, 100))
	s.Require().NoError(err)
	s.False(accepted)

	ghosts, err := service.List(s.ctx, "p1")
	s.Require().NoError(err)
	s.Empty(ghosts)
}
