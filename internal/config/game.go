package config

import (
	"fmt"

	"github.com/mcoot/shadowsprint/internal/model"
)

// Game holds the game-tuning constants the services depend on
type Game struct {
	// MaxLevels is the number of playable levels
	MaxLevels int `env:"MAX_LEVELS" envDefault:"15"`

	// Defaults applied to a player with no stored settings
	DefaultVolume    bool           `env:"DEFAULT_VOLUME" envDefault:"true"`
	DefaultVibration bool           `env:"DEFAULT_VIBRATION" envDefault:"true"`
	DefaultLanguage  model.Language `env:"DEFAULT_LANGUAGE" envDefault:"es"`

	// Fallback ghost served for levels with no recorded run
	FallbackTimeMs     int `env:"FALLBACK_GHOST_TIME_MS" envDefault:"8000"`
	FallbackTaps       int `env:"FALLBACK_GHOST_TAPS" envDefault:"10"`
	FallbackTapSpacing int `env:"FALLBACK_GHOST_TAP_SPACING_MS" envDefault:"700"`
	FallbackTapLength  int `env:"FALLBACK_GHOST_TAP_LENGTH_MS" envDefault:"120"`

	// Tier thresholds on the mean best time; below Gold is Gold, below Silver is Silver
	GoldBelowMs   float64 `env:"TIER_GOLD_BELOW_MS" envDefault:"5500"`
	SilverBelowMs float64 `env:"TIER_SILVER_BELOW_MS" envDefault:"7500"`
}

// DefaultGame returns the shipped tuning values
func DefaultGame() Game {
	return Game{
		MaxLevels:          15,
		DefaultVolume:      true,
		DefaultVibration:   true,
		DefaultLanguage:    model.LanguageSpanish,
		FallbackTimeMs:     8000,
		FallbackTaps:       10,
		FallbackTapSpacing: 700,
		FallbackTapLength:  120,
		GoldBelowMs:        5500,
		SilverBelowMs:      7500,
	}
}

// Validate checks that the tuning values are usable
func (g Game) Validate() error {
	if g.MaxLevels < model.FirstLevel {
		return fmt.Errorf("MAX_LEVELS must be at least %d, got %d", model.FirstLevel, g.MaxLevels)
	}
	if err := g.DefaultLanguage.Validate(); err != nil {
		return fmt.Errorf("DEFAULT_LANGUAGE %q: %w", g.DefaultLanguage, err)
	}
	if g.FallbackTimeMs < 0 || g.FallbackTaps < 0 || g.FallbackTapLength <= 0 {
		return fmt.Errorf("fallback ghost values must be non-negative with a positive tap length")
	}
	if g.GoldBelowMs > g.SilverBelowMs {
		return fmt.Errorf("TIER_GOLD_BELOW_MS (%v) must not exceed TIER_SILVER_BELOW_MS (%v)", g.GoldBelowMs, g.SilverBelowMs)
	}
	return nil
}

// DefaultSettings returns the settings a player starts with
func (g Game) DefaultSettings(playerID model.PlayerID) model.PlayerSettings {
	return model.PlayerSettings{
		PlayerID:  playerID,
		Volume:    g.DefaultVolume,
		Vibration: g.DefaultVibration,
		Language:  g.DefaultLanguage,
	}
}

// FallbackGhost returns the generic ghost for a level nobody has recorded yet
func (g Game) FallbackGhost(playerID model.PlayerID, level int) model.GhostRecord {
	inputs := make([]model.InputSegment, g.FallbackTaps)
	for i := range inputs {
		start := i * g.FallbackTapSpacing
		inputs[i] = model.InputSegment{
			StartMs: start,
			EndMs:   start + g.FallbackTapLength,
			Kind:    model.InputTap,
		}
	}
	return model.GhostRecord{
		PlayerID: playerID,
		Level:    level,
		TimeMs:   g.FallbackTimeMs,
		Inputs:   inputs,
	}
}

// Levels returns every playable level index in order
func (g Game) Levels() []int {
	levels := make([]int, g.MaxLevels)
	for i := range levels {
		levels[i] = model.FirstLevel + i
	}
	return levels
}
