package model

// Tier is a coarse skill bucket derived from average best times
type Tier string

const (
	TierBronze Tier = "Bronze"
	TierSilver Tier = "Silver"
	TierGold   Tier = "Gold"
)
