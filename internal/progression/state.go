package progression

import "time"

// State is the durable progression aggregate. CurrentLevel is derived from
// CurrentXP via ResolveLevel and cached; the engine re-derives it after every
// mutation. The two ledgers are append-only and record when each entry was
// inserted.
type State struct {
	CurrentXP         int                  `json:"currentXp"`
	CurrentLevel      int                  `json:"currentLevel"`
	ClaimedRewards    map[string]time.Time `json:"claimedRewards"`
	CompletedMissions map[string]time.Time `json:"completedMissions"`
}

// NewState returns a zero-progress State with initialized ledgers.
func NewState() *State {
	return &State{
		CurrentLevel:      1,
		ClaimedRewards:    make(map[string]time.Time),
		CompletedMissions: make(map[string]time.Time),
	}
}

// initMaps ensures the ledger maps are non-nil after deserialization.
func (s *State) initMaps() {
	if s.ClaimedRewards == nil {
		s.ClaimedRewards = make(map[string]time.Time)
	}
	if s.CompletedMissions == nil {
		s.CompletedMissions = make(map[string]time.Time)
	}
}

// clone returns a deep copy of the state with both ledgers duplicated.
func (s *State) clone() *State {
	cp := *s
	cp.ClaimedRewards = make(map[string]time.Time, len(s.ClaimedRewards))
	for k, v := range s.ClaimedRewards {
		cp.ClaimedRewards[k] = v
	}
	cp.CompletedMissions = make(map[string]time.Time, len(s.CompletedMissions))
	for k, v := range s.CompletedMissions {
		cp.CompletedMissions[k] = v
	}
	return &cp
}

// completedSet returns the completed-mission ledger as a membership set for
// Mission.Status.
func (s *State) completedSet() map[string]bool {
	set := make(map[string]bool, len(s.CompletedMissions))
	for id := range s.CompletedMissions {
		set[id] = true
	}
	return set
}
