// Package progression implements the gamified progression layer for field
// operations: an XP tier ladder, daily/weekly/seasonal missions, idempotent
// reward claiming, reset-window countdowns, leaderboard ranking, and a
// reconciling engine that merges remote CRM snapshots over a local cache.
package progression

import "fmt"

// Reward is the cosmetic or perk granted by reaching a tier.
type Reward struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Tier is one rung of the season ladder. Levels are unique and monotonic;
// XPRequired is the cumulative XP threshold to reach the tier.
type Tier struct {
	Level      int    `json:"level"`
	XPRequired int    `json:"xpRequired"`
	Reward     Reward `json:"reward"`
}

// ResolveLevel returns the highest tier level whose threshold has been
// reached, or 1 when xp is below every explicit threshold. Tiers must be
// sorted ascending by XPRequired. Pure and total: no error cases, and the
// same xp always resolves to the same level.
func ResolveLevel(xp int, tiers []Tier) int {
	level := 1
	for _, t := range tiers {
		if t.XPRequired <= xp {
			level = t.Level
		}
	}
	return level
}

// TierForReward returns the tier granting rewardID, or ok=false when no tier
// in the ladder lists it.
func TierForReward(rewardID string, tiers []Tier) (Tier, bool) {
	for _, t := range tiers {
		if t.Reward.ID == rewardID {
			return t, true
		}
	}
	return Tier{}, false
}

// ValidateLadder checks the ladder invariants: at least one tier, levels
// numbered 1..n, thresholds strictly increasing, and the first threshold at 0.
func ValidateLadder(tiers []Tier) error {
	if len(tiers) == 0 {
		return fmt.Errorf("empty tier ladder")
	}
	if tiers[0].XPRequired != 0 {
		return fmt.Errorf("first tier threshold must be 0, got %d", tiers[0].XPRequired)
	}
	for i, t := range tiers {
		if t.Level != i+1 {
			return fmt.Errorf("tier %d: level = %d, want %d", i, t.Level, i+1)
		}
		if i > 0 && t.XPRequired <= tiers[i-1].XPRequired {
			return fmt.Errorf("tier %d: threshold %d not greater than %d", i, t.XPRequired, tiers[i-1].XPRequired)
		}
	}
	return nil
}

// DefaultLadder returns the season ladder used when no remote ladder is
// available. Tier 1 is the entry tier with no reward.
func DefaultLadder() []Tier {
	return []Tier{
		{Level: 1, XPRequired: 0, Reward: Reward{}},
		{Level: 2, XPRequired: 100, Reward: Reward{ID: "bronze_pin", Name: "Bronze Pin"}},
		{Level: 3, XPRequired: 250, Reward: Reward{ID: "door_magnet", Name: "Door Magnet"}},
		{Level: 4, XPRequired: 500, Reward: Reward{ID: "branded_polo", Name: "Branded Polo"}},
		{Level: 5, XPRequired: 1000, Reward: Reward{ID: "silver_pin", Name: "Silver Pin"}},
		{Level: 6, XPRequired: 1750, Reward: Reward{ID: "field_tumbler", Name: "Field Tumbler"}},
		{Level: 7, XPRequired: 2750, Reward: Reward{ID: "gold_pin", Name: "Gold Pin"}},
		{Level: 8, XPRequired: 4000, Reward: Reward{ID: "reserved_parking", Name: "Reserved Parking"}},
		{Level: 9, XPRequired: 5500, Reward: Reward{ID: "team_dinner", Name: "Team Dinner"}},
		{Level: 10, XPRequired: 7500, Reward: Reward{ID: "closer_jacket", Name: "Closer Jacket"}},
	}
}
