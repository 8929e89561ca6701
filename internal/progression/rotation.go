package progression

import "time"

// dayStart returns midnight of t's calendar day in t's location.
func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// weekStart returns Monday 00:00 of the week containing t, in t's location.
func weekStart(t time.Time) time.Time {
	back := (int(t.Weekday()) + 6) % 7 // days since Monday
	y, m, d := t.Date()
	return time.Date(y, m, d-back, 0, 0, 0, 0, t.Location())
}

// rotateLocked resets mission progress for cadences whose window has rolled
// over since the last rotation. The first call in a fresh state only records
// the current window. Rotation clears the affected missions from the
// completed ledger so the new window's missions are claimable again;
// seasonal missions and claimed tier rewards are never touched. Callers
// hold the lock.
func (e *Engine) rotateLocked(now time.Time) bool {
	rotated := false

	ds := dayStart(now)
	switch {
	case e.dailyMark.IsZero():
		e.dailyMark = ds
	case ds.After(e.dailyMark):
		e.resetCadenceLocked(CadenceDaily)
		e.dailyMark = ds
		rotated = true
	}

	ws := weekStart(now)
	switch {
	case e.weeklyMark.IsZero():
		e.weeklyMark = ws
	case ws.After(e.weeklyMark):
		e.resetCadenceLocked(CadenceWeekly)
		e.weeklyMark = ws
		rotated = true
	}

	return rotated
}

func (e *Engine) resetCadenceLocked(cadence Cadence) {
	for i := range e.missions {
		if e.missions[i].Cadence != cadence {
			continue
		}
		e.missions[i].Progress = 0
		delete(e.state.CompletedMissions, e.missions[i].ID)
	}
}
