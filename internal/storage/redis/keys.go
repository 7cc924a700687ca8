package redis

import (
	"fmt"

	"github.com/mcoot/shadowsprint/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "ssprint"

// Settings and progress hash field names
const (
	fieldVolume       = "volume"
	fieldVibration    = "vibration"
	fieldLanguage     = "language"
	fieldUnlockedUpto = "unlocked_upto"
	fieldUpdatedAt    = "updated_at"
)

// settingsKey returns the Redis HASH key for a player's settings
func settingsKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:settings:%s", keyPrefix, id)
}

// progressKey returns the Redis HASH key for a player's progress
func progressKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:progress:%s", keyPrefix, id)
}

// ghostsKey returns the Redis HASH of level -> ghost JSON for a player
func ghostsKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:ghosts:%s", keyPrefix, id)
}

// ghostTimesKey returns the Redis HASH of level -> time_ms for a player.
// Kept beside ghostsKey so the best-time comparison needs no JSON decoding.
func ghostTimesKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:ghost_times:%s", keyPrefix, id)
}

// levelField returns the hash field for a level
func levelField(level int) string {
	return fmt.Sprintf("%d", level)
}
