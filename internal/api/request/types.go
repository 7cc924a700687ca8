package request

import (
	"github.com/mcoot/shadowsprint/internal/model"
)

// UpdateSettingsRequest is the request body for a partial settings update.
// Omitted fields are left unchanged.
type UpdateSettingsRequest struct {
	Volume    *bool   `json:"volume,omitempty"`
	Vibration *bool   `json:"vibration,omitempty"`
	Language  *string `json:"language,omitempty"`
}

// Patch converts the request to a settings patch
func (r UpdateSettingsRequest) Patch() model.SettingsPatch {
	patch := model.SettingsPatch{Volume: r.Volume, Vibration: r.Vibration}
	if r.Language != nil {
		lang := model.Language(*r.Language)
		patch.Language = &lang
	}
	return patch
}

// UnlockRequest is the request body for reporting a won level
type UnlockRequest struct {
	PlayerID string `json:"player_id"`
	WonLevel *int   `json:"won_level"`
}

// InputSegment is one recorded press
type InputSegment struct {
	StartMs int    `json:"start_ms"`
	EndMs   int    `json:"end_ms"`
	Kind    string `json:"kind"`
}

// SubmitGhostRequest is the request body for submitting a run
type SubmitGhostRequest struct {
	PlayerID string         `json:"player_id"`
	Level    *int           `json:"level"`
	TimeMs   *int           `json:"time_ms"`
	Inputs   []InputSegment `json:"inputs"`
}

// Ghost converts the request to a ghost record. Level and TimeMs must be set.
func (r SubmitGhostRequest) Ghost() model.GhostRecord {
	inputs := make([]model.InputSegment, len(r.Inputs))
	for i, in := range r.Inputs {
		inputs[i] = model.InputSegment{StartMs: in.StartMs, EndMs: in.EndMs, Kind: model.InputKind(in.Kind)}
	}
	return model.GhostRecord{
		PlayerID: model.PlayerID(r.PlayerID),
		Level:    *r.Level,
		TimeMs:   *r.TimeMs,
		Inputs:   inputs,
	}
}
