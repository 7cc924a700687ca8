package response

import (
	"github.com/mcoot/shadowsprint/internal/api/request"
	"github.com/mcoot/shadowsprint/internal/model"
	"github.com/mcoot/shadowsprint/internal/services/classification"
)

// Settings is a player's settings
type Settings struct {
	PlayerID  string `json:"player_id"`
	Volume    bool   `json:"volume"`
	Vibration bool   `json:"vibration"`
	Language  string `json:"language"`
}

// FromSettings converts model settings to a response
func FromSettings(s model.PlayerSettings) Settings {
	return Settings{
		PlayerID:  string(s.PlayerID),
		Volume:    s.Volume,
		Vibration: s.Vibration,
		Language:  string(s.Language),
	}
}

// Levels lists the playable levels
type Levels struct {
	Levels []int `json:"levels"`
}

// Progress is a player's unlock progress
type Progress struct {
	PlayerID     string `json:"player_id"`
	UnlockedUpto int    `json:"unlocked_upto"`
}

// FromProgress converts a progress record to a response
func FromProgress(p model.ProgressRecord) Progress {
	return Progress{PlayerID: string(p.PlayerID), UnlockedUpto: p.UnlockedUpto}
}

// Ghost is the replay for a level
type Ghost struct {
	PlayerID string                 `json:"player_id"`
	Level    int                    `json:"level"`
	TimeMs   int                    `json:"time_ms"`
	Inputs   []request.InputSegment `json:"inputs"`
}

// FromGhost converts a ghost record to a response. Inputs is never null.
func FromGhost(g model.GhostRecord) Ghost {
	inputs := make([]request.InputSegment, len(g.Inputs))
	for i, in := range g.Inputs {
		inputs[i] = request.InputSegment{StartMs: in.StartMs, EndMs: in.EndMs, Kind: string(in.Kind)}
	}
	return Ghost{
		PlayerID: string(g.PlayerID),
		Level:    g.Level,
		TimeMs:   g.TimeMs,
		Inputs:   inputs,
	}
}

// Classification is a player's tier. The figures are present only when the
// player has recorded at least one level.
type Classification struct {
	Tier         string   `json:"tier"`
	LevelsPlayed *int     `json:"levels_played,omitempty"`
	AverageMs    *float64 `json:"average_ms,omitempty"`
}

// FromSummary converts a classification summary to a response
func FromSummary(s classification.Summary) Classification {
	resp := Classification{Tier: string(s.Tier)}
	if s.LevelsPlayed > 0 {
		played, avg := s.LevelsPlayed, s.AverageMs
		resp.LevelsPlayed = &played
		resp.AverageMs = &avg
	}
	return resp
}

// Status is the acknowledgement for write endpoints
type Status struct {
	Status string `json:"status"`
}

// OK is the standard write acknowledgement
var OK = Status{Status: "ok"}

// Root identifies the service
type Root struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

// Database states reported by the health endpoint
const (
	DatabaseConnected   = "connected"
	DatabaseUnavailable = "unavailable"
)

// Health reports process and store status
type Health struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}
