package crm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// feedServer upgrades one connection and writes the given frames.
func feedServer(t *testing.T, frames []string) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		for _, f := range frames {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(f)); err != nil {
				return
			}
		}
		// Keep the connection open until the client hangs up so the feed
		// does not enter its reconnect loop mid-test.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				conn.Close()
				return
			}
		}
	}))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestFeed_DeliversActionEvents(t *testing.T) {
	srv := feedServer(t, []string{
		`{"type": "action", "seq": 1, "payload": {"type": "door_knocked", "missionId": "daily_doors_25", "steps": 1, "xp": 10}}`,
		`{"type": "heartbeat", "seq": 2, "payload": {}}`,
		`{"type": "action", "seq": 3, "payload": {"type": "claim_closed", "xp": 100}}`,
	})
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f := NewFeed(wsURL(srv), "")
	go f.Run(ctx)

	var got []string
	timeout := time.After(3 * time.Second)
	for len(got) < 2 {
		select {
		case ev := <-f.Events():
			got = append(got, ev.Type)
		case <-timeout:
			t.Fatalf("timed out, received %v", got)
		}
	}

	if got[0] != "door_knocked" || got[1] != "claim_closed" {
		t.Errorf("events = %v, want non-action frames skipped", got)
	}
	if f.Seq() < 3 {
		t.Errorf("Seq() = %d, want >= 3", f.Seq())
	}
}

func TestFeed_MalformedFramesSkipped(t *testing.T) {
	srv := feedServer(t, []string{
		`not json at all`,
		`{"type": "action", "seq": 1, "payload": {"type": "inspection_done", "xp": 40}}`,
	})
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f := NewFeed(wsURL(srv), "")
	go f.Run(ctx)

	select {
	case ev := <-f.Events():
		if ev.Type != "inspection_done" {
			t.Errorf("event = %+v", ev)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for the valid frame after a malformed one")
	}
}
