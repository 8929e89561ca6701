package progression

import (
	"testing"
	"time"
)

// --- NextReset ---

func TestNextReset_Daily(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	want := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	if got := NextReset(CadenceDaily, now, time.Time{}); !got.Equal(want) {
		t.Errorf("NextReset(daily) = %v, want %v", got, want)
	}
}

func TestNextReset_Weekly(t *testing.T) {
	// 2026-03-09 is a Monday.
	cases := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			"mid-week",
			time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC), // Wednesday
			time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC),
		},
		{
			"sunday evening",
			time.Date(2026, 3, 15, 23, 0, 0, 0, time.UTC),
			time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC),
		},
		{
			"exactly monday midnight rolls a full week",
			time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NextReset(CadenceWeekly, tc.now, time.Time{}); !got.Equal(tc.want) {
				t.Errorf("NextReset(weekly, %v) = %v, want %v", tc.now, got, tc.want)
			}
		})
	}
}

func TestNextReset_SeasonalVerbatim(t *testing.T) {
	now := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	if got := NextReset(CadenceSeasonal, now, end); !got.Equal(end) {
		t.Errorf("NextReset(seasonal) = %v, want %v", got, end)
	}
}

// --- TimeRemaining ---

func TestTimeRemaining_Formats(t *testing.T) {
	seasonEnd := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name    string
		cadence Cadence
		now     time.Time
		want    string
	}{
		{
			"daily one minute before midnight",
			CadenceDaily,
			time.Date(2026, 3, 14, 23, 59, 0, 0, time.UTC),
			"0h 1m",
		},
		{
			"daily morning",
			CadenceDaily,
			time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
			"14h 30m",
		},
		{
			"weekly at monday midnight is a full week",
			CadenceWeekly,
			time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
			"7d 0h",
		},
		{
			"weekly wednesday",
			CadenceWeekly,
			time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC),
			"4d 14h",
		},
		{
			"hours-mode just under a day",
			CadenceWeekly,
			time.Date(2026, 3, 15, 0, 30, 0, 0, time.UTC), // Sunday
			"23h 30m",
		},
		{
			"days-mode exactly at the 24h boundary",
			CadenceWeekly,
			time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
			"1d 0h",
		},
		{
			"seasonal long range",
			CadenceSeasonal,
			time.Date(2026, 5, 30, 12, 0, 0, 0, time.UTC),
			"1d 12h",
		},
		{
			"seasonal elapsed clamps to zero",
			CadenceSeasonal,
			time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
			"0h 0m",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := TimeRemaining(tc.cadence, tc.now, seasonEnd); got != tc.want {
				t.Errorf("TimeRemaining(%s, %v) = %q, want %q", tc.cadence, tc.now, got, tc.want)
			}
		})
	}
}
