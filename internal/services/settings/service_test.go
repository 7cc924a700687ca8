package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/shadowsprint/internal/config"
	"github.com/mcoot/shadowsprint/internal/model"
	"github.com/mcoot/shadowsprint/internal/storage"
	"github.com/mcoot/shadowsprint/internal/storage/memory"
	"github.com/mcoot/shadowsprint/internal/storage/storagetest"
	"github.com/mcoot/shadowsprint/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.service = New(storage.Connect(s.storage), config.DefaultGame(), testutil.NopLogger())
	s.ctx = context.Background()
}

func ptr[T any](v T) *T {
	return &v
}

// Get tests

func (s *ServiceSuite) TestGetCreatesDefaults() {
	got, err := s.service.Get(s.ctx, "p1")
	s.Require().NoError(err)

	s.Equal(model.SourceCreated, got.Source)
	s.Equal(model.PlayerSettings{PlayerID: "p1", Volume: true, Vibration: true, Language: model.LanguageSpanish}, got.Value)
}

func (s *ServiceSuite) TestGetSecondReadIsStored() {
	_, err := s.service.Get(s.ctx, "p1")
	s.Require().NoError(err)

	got, err := s.service.Get(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal(model.SourceStored, got.Source)
}

func (s *ServiceSuite) TestGetRequiresPlayerID() {
	_, err := s.service.Get(s.ctx, "")
	s.ErrorIs(err, model.ErrMissingPlayerID)
}

func (s *ServiceSuite) TestGetUsesConfiguredDefaults() {
	game := config.DefaultGame()
	game.DefaultLanguage = model.LanguageEnglish
	game.DefaultVibration = false
	service := New(storage.Connect(memory.New()), game, testutil.NopLogger())

	got, err := service.Get(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal(model.LanguageEnglish, got.Value.Language)
	s.False(got.Value.Vibration)
}

// Update tests

func (s *ServiceSuite) TestUpdateOnlyChangesSuppliedFields() {
	_, err := s.service.Update(s.ctx, "p1", model.SettingsPatch{Volume: ptr(false), Vibration: ptr(false)})
	s.Require().NoError(err)

	got, err := s.service.Update(s.ctx, "p1", model.SettingsPatch{Language: ptr(model.LanguageEnglish)})
	s.Require().NoError(err)

	s.Equal(model.SourceStored, got.Source)
	s.Equal(model.PlayerSettings{PlayerID: "p1", Volume: false, Vibration: false, Language: model.LanguageEnglish}, got.Value)
}

func (s *ServiceSuite) TestUpdateCreatesIfAbsent() {
	got, err := s.service.Update(s.ctx, "p1", model.SettingsPatch{Vibration: ptr(false)})
	s.Require().NoError(err)

	s.True(got.Value.Volume)
	s.False(got.Value.Vibration)
	s.Equal(model.LanguageSpanish, got.Value.Language)

	read, err := s.service.Get(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal(model.SourceStored, read.Source)
	s.Equal(got.Value, read.Value)
}

func (s *ServiceSuite) TestUpdateRejectsInvalidLanguageWithoutWriting() {
	_, err := s.service.Update(s.ctx, "p1", model.SettingsPatch{Volume: ptr(false), Language: ptr(model.Language("fr"))})
	s.ErrorIs(err, model.ErrInvalidLanguage)

	got, err := s.service.Get(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal(model.SourceCreated, got.Source)
	s.True(got.Value.Volume)
}

// Degraded mode tests

func (s *ServiceSuite) TestDisconnectedServesDefaults() {
	service := New(storage.Disconnected(), config.DefaultGame(), testutil.NopLogger())

	got, err := service.Get(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal(model.SourceDefault, got.Source)
	s.Equal(config.DefaultGame().DefaultSettings("p1"), got.Value)

	updated, err := service.Update(s.ctx, "p1", model.SettingsPatch{Language: ptr(model.LanguageEnglish)})
	s.Require().NoError(err)
	s.Equal(model.SourceDefault, updated.Source)
	s.Equal(model.LanguageEnglish, updated.Value.Language)
	s.True(updated.Value.Volume)
}

func (s *ServiceSuite) TestDisconnectedStillValidates() {
	service := New(storage.Disconnected(), config.DefaultGame(), testutil.NopLogger())

	_, err := service.Update(s.ctx, "p1", model.SettingsPatch{Language: ptr(model.Language("de"))})
	s.ErrorIs(err, model.ErrInvalidLanguage)
}

func (s *ServiceSuite) TestUnavailableStoreServesDefaults() {
	unavailable := &storagetest.UnavailableStore{}
	service := New(storage.Connect(unavailable), config.DefaultGame(), testutil.NopLogger())

	got, err := service.Get(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal(model.SourceDefault, got.Source)

	updated, err := service.Update(s.ctx, "p1", model.SettingsPatch{Volume: ptr(false)})
	s.Require().NoError(err)
	s.False(updated.Value.Volume)
	s.Equal(2, unavailable.Calls)
}
