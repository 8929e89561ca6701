package progression

// Cadence is the reset cycle a mission belongs to.
type Cadence string

const (
	CadenceDaily    Cadence = "daily"
	CadenceWeekly   Cadence = "weekly"
	CadenceSeasonal Cadence = "seasonal"
)

// Rarity affects display weight only; it never changes mission mechanics.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Status is the derived lifecycle state of a mission.
type Status string

const (
	StatusLocked     Status = "locked"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusClaimed    Status = "claimed"
	StatusExpired    Status = "expired"
)

// Mission is a bounded task with a progress counter and a completion target.
// Locked and Expired are explicit flags set by remote mission feeds; seeded
// missions leave both false.
type Mission struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Rarity      Rarity  `json:"rarity"`
	Cadence     Cadence `json:"cadence"`
	Progress    int     `json:"progress"`
	Target      int     `json:"target"`
	XPReward    int     `json:"xpReward"`
	Locked      bool    `json:"locked,omitempty"`
	Expired     bool    `json:"expired,omitempty"`
}

// DefaultStep is the increment used when Advance receives no explicit step:
// max(1, ceil(target/4)), so four default advances complete an average
// mission. Seeded demo data depends on this exact policy.
func DefaultStep(target int) int {
	step := (target + 3) / 4
	if step < 1 {
		step = 1
	}
	return step
}

// Advance increments progress by step, clamped to the target. A step <= 0
// requests the default increment. Locked and expired missions do not advance.
func (m *Mission) Advance(step int) {
	if m.Locked || m.Expired {
		return
	}
	if step <= 0 {
		step = DefaultStep(m.Target)
	}
	m.Progress += step
	if m.Progress > m.Target {
		m.Progress = m.Target
	}
}

// Complete reports whether the progress counter has reached the target.
func (m *Mission) Complete() bool {
	return m.Progress >= m.Target
}

// Status derives the display state. claimed holds the completed-mission
// ledger; membership wins over the progress counter so a re-hydrated mission
// definition still renders as claimed.
func (m *Mission) Status(claimed map[string]bool) Status {
	switch {
	case m.Expired:
		return StatusExpired
	case m.Locked:
		return StatusLocked
	case claimed[m.ID]:
		return StatusClaimed
	case m.Complete():
		return StatusCompleted
	default:
		return StatusInProgress
	}
}

// ReplaceMissions swaps missions of the given cadence for fresh definitions.
// A mission with a matching ID is fully replaced, not merged; missions of
// other cadences are kept untouched in their original order.
func ReplaceMissions(current []Mission, cadence Cadence, fresh []Mission) []Mission {
	out := make([]Mission, 0, len(current)+len(fresh))
	for _, m := range current {
		if m.Cadence != cadence {
			out = append(out, m)
		}
	}
	return append(out, fresh...)
}

// SeedMissions returns the client-seeded mission catalog used when the CRM
// has not supplied one. Seasonal missions are always client-seeded; they are
// never remote-sourced.
func SeedMissions() []Mission {
	return []Mission{
		{
			ID: "daily_doors_25", Title: "Pavement Pounder",
			Description: "Knock 25 doors today",
			Rarity:      RarityCommon, Cadence: CadenceDaily,
			Target: 25, XPReward: 50,
		},
		{
			ID: "daily_appointments_3", Title: "Calendar Filler",
			Description: "Set 3 inspection appointments",
			Rarity:      RarityUncommon, Cadence: CadenceDaily,
			Target: 3, XPReward: 75,
		},
		{
			ID: "daily_notes_10", Title: "Paper Trail",
			Description: "Log notes on 10 contacts",
			Rarity:      RarityCommon, Cadence: CadenceDaily,
			Target: 10, XPReward: 40,
		},
		{
			ID: "weekly_claims_5", Title: "Closer",
			Description: "Close 5 claims this week",
			Rarity:      RarityRare, Cadence: CadenceWeekly,
			Target: 5, XPReward: 250,
		},
		{
			ID: "weekly_inspections_8", Title: "Ladder Legs",
			Description: "Complete 8 roof inspections this week",
			Rarity:      RarityUncommon, Cadence: CadenceWeekly,
			Target: 8, XPReward: 150,
		},
		{
			ID: "weekly_referrals_2", Title: "Word of Mouth",
			Description: "Collect 2 homeowner referrals",
			Rarity:      RarityEpic, Cadence: CadenceWeekly,
			Target: 2, XPReward: 200,
		},
		{
			ID: "season_claims_50", Title: "Storm Chaser",
			Description: "Close 50 claims this season",
			Rarity:      RarityLegendary, Cadence: CadenceSeasonal,
			Target: 50, XPReward: 1500,
		},
		{
			ID: "season_doors_1000", Title: "Thousand Doors",
			Description: "Knock 1,000 doors this season",
			Rarity:      RarityEpic, Cadence: CadenceSeasonal,
			Target: 1000, XPReward: 1000,
		},
	}
}
