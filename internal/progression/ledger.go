package progression

import (
	"fmt"
	"time"
)

// claimReward records rewardID in the claimed-reward ledger. It is idempotent
// by construction: a second call with the same ID returns ErrAlreadyClaimed
// and performs no mutation. The ledger does not verify the caller has reached
// the reward's tier; that gate belongs to the engine.
func (s *State) claimReward(rewardID string, now time.Time) error {
	if _, done := s.ClaimedRewards[rewardID]; done {
		return fmt.Errorf("%w: reward %s", ErrAlreadyClaimed, rewardID)
	}
	s.ClaimedRewards[rewardID] = now.UTC()
	return nil
}

// claimMission records missionID as completed. Legal only when the mission
// has reached its target and has not been claimed before; otherwise
// ErrNotEligible is returned and nothing changes.
func (s *State) claimMission(m *Mission, now time.Time) error {
	if _, done := s.CompletedMissions[m.ID]; done {
		return fmt.Errorf("%w: mission %s already claimed", ErrNotEligible, m.ID)
	}
	if !m.Complete() {
		return fmt.Errorf("%w: mission %s not complete yet (%d/%d)", ErrNotEligible, m.ID, m.Progress, m.Target)
	}
	s.CompletedMissions[m.ID] = now.UTC()
	return nil
}
