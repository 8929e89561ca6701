// Package mock generates synthetic field action events so the engine can run
// with no CRM backend at all. Used by the -mock flag for demos and for
// exercising the simulated-XP path.
package mock

import (
	"context"
	"math/rand"
	"time"

	"github.com/fieldpass/fieldpass/internal/progression"
)

// mockAction is one entry in the weighted action table.
type mockAction struct {
	action    string
	weight    int
	xp        int
	missionID string // mission advanced by this action, if any
}

// Generator emits a plausible canvassing day: frequent door knocks, the
// occasional appointment, rare claim closings.
type Generator struct {
	events  chan progression.ActionEvent
	actions []mockAction
	total   int
	tick    time.Duration
}

// NewGenerator creates a generator ticking at the given interval.
func NewGenerator(tick time.Duration) *Generator {
	actions := []mockAction{
		{action: "door_knocked", weight: 60, xp: 10, missionID: "daily_doors_25"},
		{action: "note_logged", weight: 20, xp: 5, missionID: "daily_notes_10"},
		{action: "appointment_set", weight: 10, xp: 25, missionID: "daily_appointments_3"},
		{action: "inspection_done", weight: 7, xp: 40, missionID: "weekly_inspections_8"},
		{action: "claim_closed", weight: 3, xp: 100, missionID: "weekly_claims_5"},
	}
	total := 0
	for _, a := range actions {
		total += a.weight
	}
	return &Generator{
		events:  make(chan progression.ActionEvent, 16),
		actions: actions,
		total:   total,
		tick:    tick,
	}
}

// Events returns the channel synthetic events are delivered on. It is closed
// when Start's context is cancelled.
func (g *Generator) Events() <-chan progression.ActionEvent {
	return g.events
}

// Start begins emitting events until ctx is cancelled.
func (g *Generator) Start(ctx context.Context) {
	go g.run(ctx)
}

func (g *Generator) run(ctx context.Context) {
	defer close(g.events)

	ticker := time.NewTicker(g.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ev := g.pick()
			select {
			case g.events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}
}

// pick draws from the weighted action table. Every mission-advancing event
// moves its mission by a single real-world unit, not the default step.
func (g *Generator) pick() progression.ActionEvent {
	n := rand.Intn(g.total)
	for _, a := range g.actions {
		if n < a.weight {
			return progression.ActionEvent{
				Type:      a.action,
				MissionID: a.missionID,
				Steps:     1,
				XP:        a.xp,
			}
		}
		n -= a.weight
	}
	last := g.actions[len(g.actions)-1]
	return progression.ActionEvent{Type: last.action, XP: last.xp, MissionID: last.missionID, Steps: 1}
}
