package ghost

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

// Service keeps each player's best run per level
type Service struct {
	handle storage.Handle
	game   config.Game
	clock  clock.Clock
	logger *slog.Logger
}

// New creates a new ghost Service
func New(handle storage.Handle, game config.Game, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		handle: handle,
		game:   game,
		clock:  clk,
		logger: logger.With(slog.String("component", "ghost-service")),
	}
}

// Get returns the player's ghost for a level, or the generic fallback ghost
// (not persisted) when none has been recorded
func (s *Service) Get(ctx context.Context, playerID model.PlayerID, level int) (model.Resolved[model.GhostRecord], error) {
	if err := playerID.Validate(); err != nil {
		return model.Resolved[model.GhostRecord]{}, err
	}
	if err := model.ValidateLevel(level, s.game.MaxLevels); err != nil {
		return model.Resolved[model.GhostRecord]{}, err
	}

	fallback := func(operation string) model.Resolved[model.GhostRecord] {
		if operation != "" {
			metrics.Degraded.WithLabelValues(operation).Inc()
		}
		metrics.Materialized.WithLabelValues("ghost", model.SourceDefault.String()).Inc()
		return model.Defaulted(s.game.FallbackGhost(playerID, level))
	}

	store, ok := s.handle.Store()
	if !ok {
		return fallback("ghost.get"), nil
	}

	ghost, err := store.GetGhost(ctx, playerID, level)
	if err != nil {
		if errors.Is(err, storage.ErrUnavailable) {
			s.logger.Warn("store unavailable, serving fallback ghost",
				slog.String("player_id", string(playerID)),
				slog.Int("level", level),
				slog.String("error", err.Error()),
			)
			return fallback("ghost.get"), nil
		}
		return model.Resolved[model.GhostRecord]{}, err
	}
	if ghost == nil {
		return fallback(""), nil
	}

	metrics.Materialized.WithLabelValues("ghost", model.SourceStored.String()).Inc()
	return model.Persisted(*ghost, false), nil
}

// Submit records a run if it beats the player's stored time for the level.
// Slower or equal runs are discarded without error.
func (s *Service) Submit(ctx context.Context, ghost model.GhostRecord) (bool, error) {
	if err := ghost.Validate(s.game.MaxLevels); err != nil {
		return false, err
	}

	store, ok := s.handle.Store()
	if !ok {
		metrics.Degraded.WithLabelValues("ghost.submit").Inc()
		return false, nil
	}

	ghost.RecordedAt = s.clock.Now()
	accepted, err := store.PutGhostIfFaster(ctx, &ghost)
	if err != nil {
		if errors.Is(err, storage.ErrUnavailable) {
			s.logger.Warn("store unavailable, ghost submission dropped",
				slog.String("player_id", string(ghost.PlayerID)),
				slog.Int("level", ghost.Level),
				slog.String("error", err.Error()),
			)
			metrics.Degraded.WithLabelValues("ghost.submit").Inc()
			return false, nil
		}
		return false, err
	}

	if accepted {
		metrics.GhostSubmissions.WithLabelValues(metrics.OutcomeAccepted).Inc()
		s.logger.Info("ghost recorded",
			slog.String("player_id", string(ghost.PlayerID)),
			slog.Int("level", ghost.Level),
			slog.Int("time_ms", ghost.TimeMs),
			slog.Int("inputs", len(ghost.Inputs)),
		)
	} else {
		metrics.GhostSubmissions.WithLabelValues(metrics.OutcomeDiscarded).Inc()
	}
	return accepted, nil
}

// List returns the player's recorded ghosts ordered by level. Fallback ghosts
// are never included; a missing store yields an empty list.
func (s *Service) List(ctx context.Context, playerID model.PlayerID) ([]model.GhostRecord, error) {
	if err := playerID.Validate(); err != nil {
		return nil, err
	}

	store, ok := s.handle.Store()
	if !ok {
		metrics.Degraded.WithLabelValues("ghost.list").Inc()
		return []model.GhostRecord{}, nil
	}

	stored, err := store.ListGhosts(ctx, playerID)
	if err != nil {
		if errors.Is(err, storage.ErrUnavailable) {
			s.logger.Warn("store unavailable, listing no ghosts",
				slog.String("player_id", string(playerID)),
				slog.String("error", err.Error()),
			)
			metrics.Degraded.WithLabelValues("ghost.list").Inc()
			return []model.GhostRecord{}, nil
		}
		return nil, err
	}

	ghosts := make([]model.GhostRecord, len(stored))
	for i, g := range stored {
		ghosts[i] = *g
	}
	return ghosts, nil
}
