package settings

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mcoot/shadowsprint/internal/config"
	"github.com/mcoot/shadowsprint/internal/metrics"
	"github.com/mcoot/shadowsprint/internal/model"
	"github.com/mcoot/shadowsprint/internal/storage"
)

// Service reads and updates player settings, materializing defaults on first use
type Service struct {
	handle storage.Handle
	game   config.Game
	logger *slog.Logger
}

// New creates a new settings Service
func New(handle storage.Handle, game config.Game, logger *slog.Logger) *Service {
	return &Service{
		handle: handle,
		game:   game,
		logger: logger.With(slog.String("component", "settings-service")),
	}
}

// Get returns the player's settings, creating them from defaults if absent
func (s *Service) Get(ctx context.Context, playerID model.PlayerID) (model.Resolved[model.PlayerSettings], error) {
	if err := playerID.Validate(); err != nil {
		return model.Resolved[model.PlayerSettings]{}, err
	}

	defaults := s.game.DefaultSettings(playerID)
	store, ok := s.handle.Store()
	if !ok {
		return s.degraded("settings.get", defaults), nil
	}

	settings, created, err := store.EnsureSettings(ctx, defaults)
	if err != nil {
		if errors.Is(err, storage.ErrUnavailable) {
			s.logger.Warn("store unavailable, serving default settings",
				slog.String("player_id", string(playerID)),
				slog.String("error", err.Error()),
			)
			return s.degraded("settings.get", defaults), nil
		}
		return model.Resolved[model.PlayerSettings]{}, err
	}

	result := model.Persisted(*settings, created)
	metrics.Materialized.WithLabelValues("settings", result.Source.String()).Inc()
	if created {
		s.logger.Info("settings created",
			slog.String("player_id", string(playerID)),
		)
	}
	return result, nil
}

// Update applies a partial update; fields left nil in patch are unchanged
func (s *Service) Update(ctx context.Context, playerID model.PlayerID, patch model.SettingsPatch) (model.Resolved[model.PlayerSettings], error) {
	if err := playerID.Validate(); err != nil {
		return model.Resolved[model.PlayerSettings]{}, err
	}
	if err := patch.Validate(); err != nil {
		return model.Resolved[model.PlayerSettings]{}, err
	}

	defaults := s.game.DefaultSettings(playerID)
	store, ok := s.handle.Store()
	if !ok {
		return s.degraded("settings.update", patch.Apply(defaults)), nil
	}

	settings, err := store.MergeSettings(ctx, defaults, patch)
	if err != nil {
		if errors.Is(err, storage.ErrUnavailable) {
			s.logger.Warn("store unavailable, settings update not persisted",
				slog.String("player_id", string(playerID)),
				slog.String("error", err.Error()),
			)
			return s.degraded("settings.update", patch.Apply(defaults)), nil
		}
		return model.Resolved[model.PlayerSettings]{}, err
	}

	s.logger.Debug("settings updated",
		slog.String("player_id", string(playerID)),
		slog.String("language", string(settings.Language)),
	)
	return model.Persisted(*settings, false), nil
}

func (s *Service) degraded(operation string, settings model.PlayerSettings) model.Resolved[model.PlayerSettings] {
	metrics.Degraded.WithLabelValues(operation).Inc()
	metrics.Materialized.WithLabelValues("settings", model.SourceDefault.String()).Inc()
	return model.Defaulted(settings)
}
