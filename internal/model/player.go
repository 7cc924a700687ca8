package model

// PlayerID is the opaque identifier a game client generates and keeps locally
type PlayerID string

// Validate checks that the player id is present
func (id PlayerID) Validate() error {
	if id == "" {
		return ErrMissingPlayerID
	}
	return nil
}
