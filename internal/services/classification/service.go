package classification

import (
	"context"
	"log/slog"

	"github.com/mcoot/shadowsprint/internal/config"
	"github.com/mcoot/shadowsprint/internal/metrics"
	"github.com/mcoot/shadowsprint/internal/model"
)

// GhostLister provides a player's recorded ghosts
type GhostLister interface {
	List(ctx context.Context, playerID model.PlayerID) ([]model.GhostRecord, error)
}

// Summary is a tier together with the figures it was derived from
type Summary struct {
	Tier         model.Tier
	LevelsPlayed int
	AverageMs    float64 // zero when LevelsPlayed is zero
}

// Service derives a skill tier from a player's best times
type Service struct {
	ghosts GhostLister
	game   config.Game
	logger *slog.Logger
}

// New creates a new classification Service
func New(ghosts GhostLister, game config.Game, logger *slog.Logger) *Service {
	return &Service{
		ghosts: ghosts,
		game:   game,
		logger: logger.With(slog.String("component", "classification-service")),
	}
}

// Classify returns the player's tier
func (s *Service) Classify(ctx context.Context, playerID model.PlayerID) (model.Tier, error) {
	summary, err := s.Summary(ctx, playerID)
	if err != nil {
		return "", err
	}
	return summary.Tier, nil
}

// Summary averages the player's per-level best times over the levels they have
// recorded and buckets the mean. No records is Bronze.
func (s *Service) Summary(ctx context.Context, playerID model.PlayerID) (Summary, error) {
	ghosts, err := s.ghosts.List(ctx, playerID)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{Tier: model.TierBronze, LevelsPlayed: len(ghosts)}
	if len(ghosts) > 0 {
		var total int64
		for _, g := range ghosts {
			total += int64(g.TimeMs)
		}
		summary.AverageMs = float64(total) / float64(len(ghosts))
		summary.Tier = TierFor(summary.AverageMs, s.game)
	}

	metrics.Classifications.WithLabelValues(string(summary.Tier)).Inc()
	s.logger.Debug("player classified",
		slog.String("player_id", string(playerID)),
		slog.String("tier", string(summary.Tier)),
		slog.Int("levels_played", summary.LevelsPlayed),
		slog.Float64("average_ms", summary.AverageMs),
	)
	return summary, nil
}

// TierFor buckets a mean best time using the configured thresholds
func TierFor(meanMs float64, game config.Game) model.Tier {
	switch {
	case meanMs < game.GoldBelowMs:
		return model.TierGold
	case meanMs < game.SilverBelowMs:
		return model.TierSilver
	default:
		return model.TierBronze
	}
}
