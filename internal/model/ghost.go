package model

import (
	"fmt"
	"time"
)

// InputKind distinguishes a short tap from a held press
type InputKind string

const (
	InputTap  InputKind = "tap"
	InputHold InputKind = "hold"
)

// InputSegment is one press in a recorded run, relative to the run start
type InputSegment struct {
	StartMs int
	EndMs   int
	Kind    InputKind
}

// Validate checks the segment's kind and ordering
func (s InputSegment) Validate() error {
	switch s.Kind {
	case InputTap, InputHold:
	default:
		return ErrInvalidInputKind
	}
	if s.StartMs >= s.EndMs {
		return ErrInvalidSegment
	}
	return nil
}

// GhostRecord is the input trace of a player's best run on a level
type GhostRecord struct {
	PlayerID   PlayerID
	Level      int
	TimeMs     int
	Inputs     []InputSegment // chronological
	RecordedAt time.Time      // zero for fallback ghosts
}

// Validate checks a submission against the level range and input rules
func (g GhostRecord) Validate(maxLevels int) error {
	if err := g.PlayerID.Validate(); err != nil {
		return err
	}
	if err := ValidateLevel(g.Level, maxLevels); err != nil {
		return err
	}
	if g.TimeMs < 0 {
		return ErrInvalidTime
	}
	for i, seg := range g.Inputs {
		if err := seg.Validate(); err != nil {
			return fmt.Errorf("input %d: %w", i, err)
		}
	}
	return nil
}

// FasterThan reports whether g should replace existing under best-time-wins.
// A missing record always loses; equal times keep the existing record.
func (g GhostRecord) FasterThan(existing *GhostRecord) bool {
	return existing == nil || g.TimeMs < existing.TimeMs
}

// ValidateLevel checks that level is a playable level index
func ValidateLevel(level, maxLevels int) error {
	if level < FirstLevel || level > maxLevels {
		return ErrInvalidLevel
	}
	return nil
}
