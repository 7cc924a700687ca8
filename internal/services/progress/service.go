package progress

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mcoot/shadowsprint/internal/config"
	"github.com/mcoot/shadowsprint/internal/dependencies/clock"
	"github.com/mcoot/shadowsprint/internal/metrics"
	"github.com/mcoot/shadowsprint/internal/model"
	"github.com/mcoot/shadowsprint/internal/storage"
)

// WinOutcome describes the effect of a reported win
type WinOutcome struct {
	// Progress is the player's progress after the report; zero when Ignored
	Progress model.ProgressRecord
	// Advanced is true when unlocked_upto moved forward
	Advanced bool
	// Ignored is true when the won level unlocks nothing (out of range or the last level)
	Ignored bool
}

// Service tracks which levels each player has unlocked
type Service struct {
	handle storage.Handle
	game   config.Game
	clock  clock.Clock
	logger *slog.Logger
}

// New creates a new progress Service
func New(handle storage.Handle, game config.Game, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		handle: handle,
		game:   game,
		clock:  clk,
		logger: logger.With(slog.String("component", "progress-service")),
	}
}

// Levels returns every playable level
func (s *Service) Levels() []int {
	return s.game.Levels()
}

// Get returns the player's progress, creating it at the first level if absent
func (s *Service) Get(ctx context.Context, playerID model.PlayerID) (model.Resolved[model.ProgressRecord], error) {
	if err := playerID.Validate(); err != nil {
		return model.Resolved[model.ProgressRecord]{}, err
	}

	store, ok := s.handle.Store()
	if !ok {
		return s.degraded("progress.get", playerID), nil
	}

	rec, created, err := store.EnsureProgress(ctx, playerID, s.clock.Now())
	if err != nil {
		if errors.Is(err, storage.ErrUnavailable) {
			s.logger.Warn("store unavailable, serving default progress",
				slog.String("player_id", string(playerID)),
				slog.String("error", err.Error()),
			)
			return s.degraded("progress.get", playerID), nil
		}
		return model.Resolved[model.ProgressRecord]{}, err
	}

	result := model.Persisted(*rec, created)
	metrics.Materialized.WithLabelValues("progress", result.Source.String()).Inc()
	return result, nil
}

// ReportWin applies the unlock rule: winning level n unlocks n+1 unless a later
// level is already unlocked. Wins below the first level or at or beyond the last
// level are accepted and ignored, since clients report boundary wins.
func (s *Service) ReportWin(ctx context.Context, playerID model.PlayerID, wonLevel int) (WinOutcome, error) {
	// Boundary wins succeed without touching the store, even for an empty player id
	if wonLevel < model.FirstLevel || wonLevel >= s.game.MaxLevels {
		metrics.WinReports.WithLabelValues(metrics.OutcomeIgnored).Inc()
		s.logger.Debug("win report ignored",
			slog.String("player_id", string(playerID)),
			slog.Int("won_level", wonLevel),
		)
		return WinOutcome{Ignored: true}, nil
	}

	if err := playerID.Validate(); err != nil {
		return WinOutcome{}, err
	}

	store, ok := s.handle.Store()
	if !ok {
		return WinOutcome{Progress: s.degraded("progress.unlock", playerID).Value}, nil
	}

	rec, advanced, err := store.RaiseProgress(ctx, playerID, wonLevel+1, s.clock.Now())
	if err != nil {
		if errors.Is(err, storage.ErrUnavailable) {
			s.logger.Warn("store unavailable, win report dropped",
				slog.String("player_id", string(playerID)),
				slog.Int("won_level", wonLevel),
				slog.String("error", err.Error()),
			)
			return WinOutcome{Progress: s.degraded("progress.unlock", playerID).Value}, nil
		}
		return WinOutcome{}, err
	}

	if advanced {
		metrics.WinReports.WithLabelValues(metrics.OutcomeAdvanced).Inc()
		s.logger.Info("level unlocked",
			slog.String("player_id", string(playerID)),
			slog.Int("won_level", wonLevel),
			slog.Int("unlocked_upto", rec.UnlockedUpto),
		)
	} else {
		metrics.WinReports.WithLabelValues(metrics.OutcomeUnchanged).Inc()
	}

	return WinOutcome{Progress: *rec, Advanced: advanced}, nil
}

func (s *Service) degraded(operation string, playerID model.PlayerID) model.Resolved[model.ProgressRecord] {
	metrics.Degraded.WithLabelValues(operation).Inc()
	return model.Defaulted(model.NewProgressRecord(playerID))
}
