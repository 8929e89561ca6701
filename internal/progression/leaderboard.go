package progression

import "sort"

// Entry is the canonical leaderboard row. Entries are read-only and replaced
// wholesale on each successful fetch.
type Entry struct {
	Rank              int    `json:"rank"`
	ID                string `json:"id"`
	Name              string `json:"name"`
	Title             string `json:"title"`
	AvatarURL         string `json:"avatarUrl"`
	TotalXP           int    `json:"totalXp"`
	TierLevel         int    `json:"tierLevel"`
	MissionsCompleted int    `json:"missionsCompleted"`
	RewardsClaimed    int    `json:"rewardsClaimed"`
	StreakDaily       int    `json:"streakDaily"`
	StreakWeekly      int    `json:"streakWeekly"`
	Change            int    `json:"change"`
}

// Rank sorts entries by total XP descending and assigns ranks 1..n. The sort
// is stable so ties keep feed order. The input slice is not modified.
func Rank(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalXP > out[j].TotalXP
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
