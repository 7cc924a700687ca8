package model

import "time"

// ProgressRecord tracks the highest level a player may currently attempt.
// UnlockedUpto never decreases over the lifetime of the record.
type ProgressRecord struct {
	PlayerID     PlayerID
	UnlockedUpto int
	UpdatedAt    time.Time
}

// FirstLevel is always unlocked
const FirstLevel = 1

// NewProgressRecord returns the starting progress for a player
func NewProgressRecord(playerID PlayerID) ProgressRecord {
	return ProgressRecord{
		PlayerID:     playerID,
		UnlockedUpto: FirstLevel,
	}
}
