package crm

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/fieldpass/fieldpass/internal/progression"
)

const (
	reconnectBaseDelay = 1 * time.Second
	reconnectMaxDelay  = 30 * time.Second
	writeTimeout       = 10 * time.Second
	pongTimeout        = 60 * time.Second
	pingInterval       = 30 * time.Second
)

// feedMessage is the envelope for all feed messages.
type feedMessage struct {
	Type    string          `json:"type"`
	Seq     uint64          `json:"seq"`
	Payload json.RawMessage `json:"payload"`
}

// Feed maintains the WebSocket connection to the CRM action-event stream.
// Decoded events are delivered on Events; the connection reconnects with
// exponential backoff and a ping/pong keepalive.
type Feed struct {
	url   string
	token string

	mu      sync.Mutex
	writeMu sync.Mutex // serialises all conn writes (ping, auth)
	conn    *websocket.Conn
	seq     uint64

	events chan progression.ActionEvent
}

// NewFeed creates a feed that connects to the given WebSocket URL.
func NewFeed(url, token string) *Feed {
	return &Feed{
		url:    url,
		token:  token,
		events: make(chan progression.ActionEvent, 64),
	}
}

// Events returns the channel the feed delivers action events on. It is
// closed when Run returns.
func (f *Feed) Events() <-chan progression.ActionEvent {
	return f.events
}

// Run dials, reads, and reconnects until ctx is cancelled.
func (f *Feed) Run(ctx context.Context) {
	defer close(f.events)

	delay := reconnectBaseDelay
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		conn, _, err := websocket.DefaultDialer.DialContext(ctx, f.url, nil)
		if err != nil {
			log.Printf("feed dial error: %v (retry in %v)", err, delay)
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}
			delay = min(delay*2, reconnectMaxDelay)
			continue
		}
		delay = reconnectBaseDelay

		// Authenticate if a token is set. No write mutex needed here because
		// the connection isn't shared yet.
		if f.token != "" {
			auth := map[string]string{"type": "auth", "token": f.token}
			if err := conn.WriteJSON(auth); err != nil {
				conn.Close()
				continue
			}
		}

		f.mu.Lock()
		f.conn = conn
		f.seq = 0
		f.mu.Unlock()

		connCtx, connCancel := context.WithCancel(ctx)
		go f.pingLoop(connCtx, conn)
		go func() {
			// Unblocks the read loop when the session ends.
			<-connCtx.Done()
			conn.Close()
		}()
		f.readLoop(ctx, conn)
		connCancel()
	}
}

// Seq returns the last seen sequence number.
func (f *Feed) Seq() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seq
}

// readLoop consumes messages from conn until it fails or ctx is cancelled.
func (f *Feed) readLoop(ctx context.Context, conn *websocket.Conn) {
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongTimeout))
		return nil
	})
	conn.SetReadDeadline(time.Now().Add(pongTimeout))

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			f.mu.Lock()
			if f.conn == conn {
				f.conn = nil
			}
			f.mu.Unlock()
			conn.Close()
			if ctx.Err() == nil {
				log.Printf("feed read error: %v", err)
			}
			return
		}

		var msg feedMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}

		f.mu.Lock()
		f.seq = msg.Seq
		f.mu.Unlock()

		if msg.Type != "action" {
			continue
		}
		var ev progression.ActionEvent
		if err := json.Unmarshal(msg.Payload, &ev); err != nil {
			continue
		}
		select {
		case f.events <- ev:
		case <-ctx.Done():
			return
		}
	}
}

// pingLoop sends periodic pings on the given connection. It exits when the
// context is cancelled or the connection changes.
func (f *Feed) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			f.mu.Lock()
			cc := f.conn
			f.mu.Unlock()
			if cc != conn {
				return
			}
			f.writeMu.Lock()
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			err := conn.WriteMessage(websocket.PingMessage, nil)
			f.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}
