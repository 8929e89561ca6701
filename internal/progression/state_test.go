package progression

import (
	"errors"
	"testing"
	"time"
)

// --- claimReward ---

func TestClaimReward_LedgerIdempotent(t *testing.T) {
	s := NewState()
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	if err := s.claimReward("bronze_pin", now); err != nil {
		t.Fatalf("first claim: %v", err)
	}
	err := s.claimReward("bronze_pin", now.Add(time.Hour))
	if !errors.Is(err, ErrAlreadyClaimed) {
		t.Fatalf("second claim error = %v, want ErrAlreadyClaimed", err)
	}
	if len(s.ClaimedRewards) != 1 {
		t.Errorf("ledger size = %d, want 1", len(s.ClaimedRewards))
	}
	// The original claim timestamp stands.
	if at := s.ClaimedRewards["bronze_pin"]; !at.Equal(now) {
		t.Errorf("claim time = %v, want %v", at, now)
	}
}

// --- claimMission ---

func TestClaimMission_RequiresCompletion(t *testing.T) {
	s := NewState()
	m := &Mission{ID: "m1", Target: 4, Progress: 3}

	err := s.claimMission(m, time.Now())
	if !errors.Is(err, ErrNotEligible) {
		t.Fatalf("error = %v, want ErrNotEligible", err)
	}
	if len(s.CompletedMissions) != 0 {
		t.Error("gated claim must not touch the ledger")
	}

	m.Progress = 4
	if err := s.claimMission(m, time.Now()); err != nil {
		t.Fatalf("claim after completion: %v", err)
	}
	if err := s.claimMission(m, time.Now()); !errors.Is(err, ErrNotEligible) {
		t.Errorf("repeat claim error = %v, want ErrNotEligible", err)
	}
}

// --- clone ---

func TestClone_Independent(t *testing.T) {
	s := NewState()
	s.CurrentXP = 10
	s.ClaimedRewards["r"] = time.Now()

	cp := s.clone()
	cp.CurrentXP = 99
	cp.ClaimedRewards["other"] = time.Now()
	delete(cp.CompletedMissions, "nothing")

	if s.CurrentXP != 10 {
		t.Errorf("CurrentXP = %d, want 10", s.CurrentXP)
	}
	if len(s.ClaimedRewards) != 1 {
		t.Errorf("ClaimedRewards leaked: %v", s.ClaimedRewards)
	}
}
