// Package crm talks to the field-operations CRM backend: REST fetches for
// hydration and a WebSocket feed of field action events. Wire types mirror
// the backend contract and tolerate both historical field spellings; the
// normalizers here are the only place that knows about them.
package crm

import (
	"time"

	"github.com/fieldpass/fieldpass/internal/progression"
)

// rawMission accepts either naming variant the CRM has shipped. Pointer
// fields distinguish absent from zero so defaults only apply when a field is
// truly missing.
type rawMission struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Rarity      string `json:"rarity"`
	Type        string `json:"type"`

	CurrentProgress *int `json:"current_progress"`
	Progress        *int `json:"progress"`
	TargetValue     *int `json:"target_value"`
	Target          *int `json:"target"`
	XPReward        *int `json:"xp_reward"`
	XP              *int `json:"xp"`
}

// normalizeMission maps a raw row to the canonical mission type.
//
// Field priority:
//
//	title:    name, title
//	progress: current_progress, progress, default 0
//	target:   target_value, target, default 1
//	xp:       xp_reward, xp, default 100
func normalizeMission(r rawMission, cadence progression.Cadence) progression.Mission {
	title := r.Name
	if title == "" {
		title = r.Title
	}
	rarity := progression.Rarity(r.Rarity)
	if rarity == "" {
		rarity = progression.RarityCommon
	}
	target := firstInt(1, r.TargetValue, r.Target)
	if target <= 0 {
		target = 1
	}
	return progression.Mission{
		ID:          r.ID,
		Title:       title,
		Description: r.Description,
		Rarity:      rarity,
		Cadence:     cadence,
		Progress:    firstInt(0, r.CurrentProgress, r.Progress),
		Target:      target,
		XPReward:    firstInt(100, r.XPReward, r.XP),
	}
}

// rawEntry accepts either naming variant of a leaderboard row.
type rawEntry struct {
	UserID   string `json:"user_id"`
	ID       string `json:"id"`
	UserName string `json:"user_name"`
	Name     string `json:"name"`
	TierInfo struct {
		RewardName string `json:"reward_name"`
	} `json:"tier_info"`
	Title             string `json:"title"`
	AvatarURL         string `json:"avatar_url"`
	CurrentXP         int    `json:"current_xp"`
	CurrentTier       int    `json:"current_tier"`
	MissionsCompleted int    `json:"missions_completed"`
	RewardsClaimed    int    `json:"rewards_claimed"`
	StreakDaily       int    `json:"streak_daily"`
	StreakWeekly      int    `json:"streak_weekly"`
	RankDelta         int    `json:"rank_delta"`
}

// normalizeEntry maps a raw row to the canonical leaderboard entry.
//
// Field priority:
//
//	id:    user_id, id
//	name:  user_name, name
//	title: tier_info.reward_name, title
func normalizeEntry(r rawEntry) progression.Entry {
	id := r.UserID
	if id == "" {
		id = r.ID
	}
	name := r.UserName
	if name == "" {
		name = r.Name
	}
	title := r.TierInfo.RewardName
	if title == "" {
		title = r.Title
	}
	return progression.Entry{
		ID:                id,
		Name:              name,
		Title:             title,
		AvatarURL:         r.AvatarURL,
		TotalXP:           r.CurrentXP,
		TierLevel:         r.CurrentTier,
		MissionsCompleted: r.MissionsCompleted,
		RewardsClaimed:    r.RewardsClaimed,
		StreakDaily:       r.StreakDaily,
		StreakWeekly:      r.StreakWeekly,
		Change:            r.RankDelta,
	}
}

// progressPayload mirrors GET /api/v1/progress.
type progressPayload struct {
	CurrentXP      int   `json:"current_xp"`
	CurrentTier    int   `json:"current_tier"`
	ClaimedRewards []int `json:"claimed_rewards"`
	Season         struct {
		EndDate string `json:"end_date"`
	} `json:"season"`
}

func (p progressPayload) snapshot() *progression.ProgressSnapshot {
	snap := &progression.ProgressSnapshot{
		CurrentXP:    p.CurrentXP,
		CurrentTier:  p.CurrentTier,
		ClaimedTiers: p.ClaimedRewards,
	}
	// A malformed end date keeps the prior season end rather than zeroing it.
	if t, err := time.Parse(time.RFC3339, p.Season.EndDate); err == nil {
		snap.SeasonEndsAt = t
	}
	return snap
}

// missionsPayload mirrors GET /api/v1/missions. Seasonal missions are never
// remote-sourced, so the payload carries only the two recurring lists.
type missionsPayload struct {
	DailyMissions  []rawMission `json:"daily_missions"`
	WeeklyMissions []rawMission `json:"weekly_missions"`
}

func (p missionsPayload) catalog() *progression.MissionCatalog {
	cat := &progression.MissionCatalog{}
	for _, r := range p.DailyMissions {
		cat.Daily = append(cat.Daily, normalizeMission(r, progression.CadenceDaily))
	}
	for _, r := range p.WeeklyMissions {
		cat.Weekly = append(cat.Weekly, normalizeMission(r, progression.CadenceWeekly))
	}
	return cat
}

// leaderboardPayload mirrors GET /api/v1/leaderboard.
type leaderboardPayload struct {
	Leaderboard []rawEntry `json:"leaderboard"`
}

// firstInt returns the first non-nil value, or def when all are nil.
func firstInt(def int, candidates ...*int) int {
	for _, c := range candidates {
		if c != nil {
			return *c
		}
	}
	return def
}
