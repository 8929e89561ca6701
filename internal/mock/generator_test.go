package mock

import (
	"context"
	"testing"
	"time"
)

func TestGenerator_EmitsEvents(t *testing.T) {
	g := NewGenerator(time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	g.Start(ctx)

	var count int
	timeout := time.After(2 * time.Second)
	for count < 10 {
		select {
		case ev := <-g.Events():
			if ev.Type == "" {
				t.Fatal("event missing action type")
			}
			if ev.XP <= 0 {
				t.Errorf("%s: XP = %d, want > 0", ev.Type, ev.XP)
			}
			if ev.MissionID != "" && ev.Steps != 1 {
				t.Errorf("%s: Steps = %d, want 1 per real-world unit", ev.Type, ev.Steps)
			}
			count++
		case <-timeout:
			t.Fatalf("timed out after %d events", count)
		}
	}

	cancel()
	// The events channel closes once the generator winds down.
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-g.Events():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("events channel not closed after cancel")
		}
	}
}

func TestGenerator_PickCoversTable(t *testing.T) {
	g := NewGenerator(time.Second)
	seen := make(map[string]bool)
	for i := 0; i < 2000; i++ {
		seen[g.pick().Type] = true
	}
	for _, a := range g.actions {
		if !seen[a.action] {
			t.Errorf("action %q never drawn in 2000 picks", a.action)
		}
	}
}
