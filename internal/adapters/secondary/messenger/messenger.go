package messenger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/arthurdotwork/board/internal/domain"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// PongWait is the time allowed to read the next pong message from the
	// peer. The gateway uses it for its read deadlines.
	PongWait = 60 * time.Second

	// Send pings to the peer with this period. Must be less than PongWait.
	pingPeriod = (PongWait * 9) / 10

	// Capacity of the per-connection send queue. A recipient that falls
	// this far behind starts losing events rather than stalling senders.
	sendQueueSize = 256
)

var (
	ErrSendQueueFull = errors.New("send queue full")
	ErrClosed        = errors.New("messenger is closed")
)

const (
	typeDrawingData   = "drawing-data"
	typeCanvasData    = "canvas-data"
	typeClearCanvas   = "clear-canvas"
	typeServerClosing = "server-closing"
)

type wireMessage struct {
	Type     string `json:"type"`
	RoomCode string `json:"roomCode,omitempty"`
	*domain.Stroke
	ImageData string `json:"imageData,omitempty"`
	Version   uint64 `json:"version,omitempty"`
	Message   string `json:"message,omitempty"`
}

// Messenger owns all writes to one websocket connection. Callers enqueue
// without blocking; the Run pump drains the queue and keeps the
// connection alive with pings.
type Messenger struct {
	conn *websocket.Conn
	send chan []byte

	mu     sync.Mutex
	closed bool
}

func New(conn *websocket.Conn) *Messenger {
	return &Messenger{
		conn: conn,
		send: make(chan []byte, sendQueueSize),
	}
}

// Run pumps queued messages to the websocket until the messenger is
// closed or a write fails. It must run in its own goroutine, started
// before anything is enqueued for longer than the queue capacity.
func (m *Messenger) Run(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = m.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-m.send:
			_ = m.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = m.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}

			if err := m.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				slog.DebugContext(ctx, "write failed, dropping connection", "error", err)
				return
			}
		case <-ticker.C:
			_ = m.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := m.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// Close stops the write pump after the queue drains. Safe to call more
// than once.
func (m *Messenger) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}

	m.closed = true
	close(m.send)
}

func (m *Messenger) Send(ctx context.Context, event domain.Event) error {
	msg, err := encode(event)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	return m.enqueue(msg)
}

func (m *Messenger) SendSnapshot(ctx context.Context, snapshot domain.Snapshot) error {
	msg, err := json.Marshal(encodeSnapshot(snapshot))
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	return m.enqueue(msg)
}

func (m *Messenger) SendServerClosingNotification(ctx context.Context) error {
	msg, err := json.Marshal(wireMessage{Type: typeServerClosing, Message: "server is closing"})
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	return m.enqueue(msg)
}

func (m *Messenger) enqueue(msg []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	select {
	case m.send <- msg:
		return nil
	default:
		return ErrSendQueueFull
	}
}

func encode(event domain.Event) ([]byte, error) {
	var msg wireMessage

	switch event.Kind {
	case domain.EventDraw:
		msg = wireMessage{Type: typeDrawingData, RoomCode: event.Room, Stroke: event.Stroke}
	case domain.EventCanvas:
		msg = wireMessage{Type: typeCanvasData, RoomCode: event.Room, ImageData: event.Canvas}
	case domain.EventClear:
		msg = wireMessage{Type: typeClearCanvas, RoomCode: event.Room}
	default:
		return nil, fmt.Errorf("unknown event kind: %q", event.Kind)
	}

	return json.Marshal(msg)
}

// encodeSnapshot maps a blank snapshot to a clear-canvas instruction so
// the client resets instead of painting nothing.
func encodeSnapshot(snapshot domain.Snapshot) wireMessage {
	if snapshot.Blank() {
		return wireMessage{Type: typeClearCanvas, RoomCode: snapshot.Room}
	}

	return wireMessage{Type: typeCanvasData, RoomCode: snapshot.Room, ImageData: snapshot.Data, Version: snapshot.Version}
}
