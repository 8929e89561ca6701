package progression

import (
	"fmt"
	"time"
)

// NextReset returns the instant the given cadence window closes, in now's
// location. Daily resets at the next local midnight, weekly at the next
// Monday 00:00 local time, and seasonal at seasonEnd verbatim.
func NextReset(cadence Cadence, now, seasonEnd time.Time) time.Time {
	switch cadence {
	case CadenceDaily:
		y, m, d := now.Date()
		return time.Date(y, m, d+1, 0, 0, 0, 0, now.Location())
	case CadenceWeekly:
		// Days until Monday, with a full week at the boundary itself:
		// at Monday 00:00 the window is 7 days out, never 0.
		days := (8 - int(now.Weekday())) % 7
		if days == 0 {
			days = 7
		}
		y, m, d := now.Date()
		return time.Date(y, m, d+days, 0, 0, 0, 0, now.Location())
	default:
		return seasonEnd
	}
}

// TimeRemaining renders the countdown to the cadence's reset as a display
// string. Elapsed windows clamp to zero. Past the 24h boundary the format is
// "{days}d {hours}h"; under it, "{hours}h {minutes}m". The UI depends on
// this exact formatting.
func TimeRemaining(cadence Cadence, now, seasonEnd time.Time) string {
	remaining := NextReset(cadence, now, seasonEnd).Sub(now)
	if remaining < 0 {
		remaining = 0
	}
	if remaining >= 24*time.Hour {
		days := int(remaining.Hours()) / 24
		hours := int(remaining.Hours()) % 24
		return fmt.Sprintf("%dd %dh", days, hours)
	}
	hours := int(remaining.Hours())
	minutes := int(remaining.Minutes()) % 60
	return fmt.Sprintf("%dh %dm", hours, minutes)
}
