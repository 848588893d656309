package ws_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/arthurdotwork/board/internal/adapters/primary/ws"
	"github.com/arthurdotwork/board/internal/adapters/secondary/store"
	"github.com/arthurdotwork/board/internal/domain"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

// loopbackBroadcaster short-circuits the pub/sub hop: published events go
// straight back into the local fan-out, the way a single-node deployment
// behaves.
type loopbackBroadcaster struct {
	service *domain.BoardService
}

func (b *loopbackBroadcaster) Broadcast(ctx context.Context, channel string, event domain.Event) error {
	return b.service.Broadcast(ctx, event)
}

type memorySnapshotStore struct {
	mu        sync.Mutex
	snapshots map[string]string
}

func newMemorySnapshotStore() *memorySnapshotStore {
	return &memorySnapshotStore{snapshots: map[string]string{}}
}

func (s *memorySnapshotStore) Save(ctx context.Context, room string, data string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshots[room] = data
	return nil
}

func (s *memorySnapshotStore) Load(ctx context.Context, room string) (domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return domain.Snapshot{Room: room, Data: s.snapshots[room]}, nil
}

func (s *memorySnapshotStore) Clear(ctx context.Context, room string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshots[room] = ""
	return nil
}

type staticRoomVerifier struct{}

func (staticRoomVerifier) Exists(ctx context.Context, room string) (bool, error) {
	return room != "ZZZ999", nil
}

type staticIdentity struct{}

func (staticIdentity) FromCredential(credential string) (string, error) {
	if credential == "" || credential == "expired" {
		return "", errors.New("invalid credential")
	}

	return "user-" + credential, nil
}

type wireMessage struct {
	Type      string  `json:"type"`
	RoomCode  string  `json:"roomCode"`
	PrevX     float64 `json:"prevX"`
	PrevY     float64 `json:"prevY"`
	CurrX     float64 `json:"currX"`
	CurrY     float64 `json:"currY"`
	Color     string  `json:"color"`
	Size      float64 `json:"size"`
	Tool      string  `json:"tool"`
	ImageData string  `json:"imageData"`
}

func gateway(t *testing.T) (*httptest.Server, *memorySnapshotStore) {
	t.Helper()

	snapshots := newMemorySnapshotStore()
	bus := &loopbackBroadcaster{}
	boardService := domain.NewBoardService(store.NewRegistry(), store.NewDirectory(), snapshots, staticRoomVerifier{}, bus)
	bus.service = boardService

	srv := httptest.NewServer(ws.NewServer(boardService, staticIdentity{}).Router())
	t.Cleanup(srv.Close)

	return srv, snapshots
}

func dial(t *testing.T, srv *httptest.Server, token string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + token

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

func send(t *testing.T, conn *websocket.Conn, msg wireMessage) {
	t.Helper()

	raw, err := json.Marshal(msg)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, raw))
}

func recv(t *testing.T, conn *websocket.Conn) wireMessage {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg wireMessage
	require.NoError(t, json.Unmarshal(raw, &msg))

	return msg
}

func recvNothing(t *testing.T, conn *websocket.Conn) {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))

	_, _, err := conn.ReadMessage()
	require.Error(t, err)
}

func join(t *testing.T, conn *websocket.Conn, room string) wireMessage {
	t.Helper()

	send(t, conn, wireMessage{Type: "join-room", RoomCode: room})
	return recv(t, conn)
}

func TestGateway(t *testing.T) {
	t.Run("it should reject a handshake without a valid credential", func(t *testing.T) {
		srv, _ := gateway(t)

		url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

		_, resp, err := websocket.DefaultDialer.Dial(url, nil)
		require.Error(t, err)
		require.NotNil(t, resp)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("it should reply to a join with the blank snapshot", func(t *testing.T) {
		srv, _ := gateway(t)

		conn := dial(t, srv, "alice")

		reply := join(t, conn, "room01")
		require.Equal(t, "clear-canvas", reply.Type)
		require.Equal(t, "ROOM01", reply.RoomCode)
	})

	t.Run("it should relay strokes to the other members and not the sender", func(t *testing.T) {
		srv, _ := gateway(t)

		alice := dial(t, srv, "alice")
		bob := dial(t, srv, "bob")

		join(t, alice, "ROOM01")
		join(t, bob, "ROOM01")

		stroke := wireMessage{
			Type: "drawing-data", RoomCode: "ROOM01",
			PrevX: 1, PrevY: 2, CurrX: 3, CurrY: 4,
			Color: "#bada55", Size: 4, Tool: "pen",
		}
		send(t, alice, stroke)

		got := recv(t, bob)
		require.Equal(t, "drawing-data", got.Type)
		require.Equal(t, "ROOM01", got.RoomCode)
		require.Equal(t, stroke.PrevX, got.PrevX)
		require.Equal(t, stroke.PrevY, got.PrevY)
		require.Equal(t, stroke.CurrX, got.CurrX)
		require.Equal(t, stroke.CurrY, got.CurrY)
		require.Equal(t, stroke.Color, got.Color)
		require.Equal(t, stroke.Size, got.Size)
		require.Equal(t, stroke.Tool, got.Tool)

		recvNothing(t, alice)
	})

	t.Run("it should relay one sender's strokes in the order they were sent", func(t *testing.T) {
		srv, _ := gateway(t)

		alice := dial(t, srv, "alice")
		bob := dial(t, srv, "bob")

		join(t, alice, "ROOM01")
		join(t, bob, "ROOM01")

		const strokes = 25
		for i := 0; i < strokes; i++ {
			send(t, alice, wireMessage{
				Type: "drawing-data", RoomCode: "ROOM01",
				PrevX: float64(i), CurrX: float64(i + 1), CurrY: 1,
				Color: "#000000", Size: 2, Tool: "pen",
			})
		}

		for i := 0; i < strokes; i++ {
			got := recv(t, bob)
			require.Equal(t, "drawing-data", got.Type)
			require.Equal(t, float64(i), got.PrevX)
		}
	})

	t.Run("it should not relay across rooms", func(t *testing.T) {
		srv, _ := gateway(t)

		alice := dial(t, srv, "alice")
		carol := dial(t, srv, "carol")

		join(t, alice, "ROOM01")
		join(t, carol, "ROOM02")

		send(t, alice, wireMessage{
			Type: "drawing-data", RoomCode: "ROOM01",
			CurrX: 1, CurrY: 1, Color: "#000000", Size: 2, Tool: "pen",
		})

		recvNothing(t, carol)
	})

	t.Run("it should hand the saved canvas to late joiners", func(t *testing.T) {
		srv, _ := gateway(t)

		alice := dial(t, srv, "alice")
		bob := dial(t, srv, "bob")

		join(t, alice, "ROOM01")
		join(t, bob, "ROOM01")

		send(t, alice, wireMessage{Type: "canvas-data", RoomCode: "ROOM01", ImageData: "data:image/png;base64,R1"})

		got := recv(t, bob)
		require.Equal(t, "canvas-data", got.Type)
		require.Equal(t, "data:image/png;base64,R1", got.ImageData)

		carol := dial(t, srv, "carol")

		reply := join(t, carol, "ROOM01")
		require.Equal(t, "canvas-data", reply.Type)
		require.Equal(t, "data:image/png;base64,R1", reply.ImageData)
	})

	t.Run("it should reset late joiners after a clear", func(t *testing.T) {
		srv, _ := gateway(t)

		alice := dial(t, srv, "alice")
		bob := dial(t, srv, "bob")

		join(t, alice, "ROOM01")
		join(t, bob, "ROOM01")

		send(t, alice, wireMessage{Type: "canvas-data", RoomCode: "ROOM01", ImageData: "data:image/png;base64,R1"})
		recv(t, bob)

		send(t, alice, wireMessage{Type: "clear-canvas", RoomCode: "ROOM01"})

		got := recv(t, bob)
		require.Equal(t, "clear-canvas", got.Type)

		carol := dial(t, srv, "carol")

		reply := join(t, carol, "ROOM01")
		require.Equal(t, "clear-canvas", reply.Type)
	})

	t.Run("it should drop a join for a room that does not exist and keep the connection", func(t *testing.T) {
		srv, _ := gateway(t)

		conn := dial(t, srv, "alice")

		send(t, conn, wireMessage{Type: "join-room", RoomCode: "ZZZ999"})

		// Messages are dispatched in order, so the first reply belongs to
		// the second join: the rejected one produced none.
		reply := join(t, conn, "ROOM01")
		require.Equal(t, "clear-canvas", reply.Type)
		require.Equal(t, "ROOM01", reply.RoomCode)
	})

	t.Run("it should drop malformed and unknown messages and keep the connection", func(t *testing.T) {
		srv, _ := gateway(t)

		conn := dial(t, srv, "alice")

		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
		send(t, conn, wireMessage{Type: "presence-ping"})

		reply := join(t, conn, "ROOM01")
		require.Equal(t, "clear-canvas", reply.Type)
	})

	t.Run("it should move a connection that joins another room", func(t *testing.T) {
		srv, _ := gateway(t)

		alice := dial(t, srv, "alice")
		bob := dial(t, srv, "bob")

		join(t, alice, "ROOM01")
		join(t, bob, "ROOM01")

		join(t, bob, "ROOM02")

		send(t, alice, wireMessage{
			Type: "drawing-data", RoomCode: "ROOM01",
			CurrX: 1, CurrY: 1, Color: "#000000", Size: 2, Tool: "pen",
		})

		recvNothing(t, bob)
	})

	t.Run("it should stop relaying to a member that disconnected", func(t *testing.T) {
		srv, _ := gateway(t)

		alice := dial(t, srv, "alice")
		bob := dial(t, srv, "bob")

		join(t, alice, "ROOM01")
		join(t, bob, "ROOM01")

		require.NoError(t, bob.Close())

		// Give the gateway a beat to observe the close.
		time.Sleep(100 * time.Millisecond)

		send(t, alice, wireMessage{
			Type: "drawing-data", RoomCode: "ROOM01",
			CurrX: 1, CurrY: 1, Color: "#000000", Size: 2, Tool: "pen",
		})

		recvNothing(t, alice)
	})

	t.Run("it should persist saved canvases through the snapshot store", func(t *testing.T) {
		srv, snapshots := gateway(t)

		alice := dial(t, srv, "alice")

		join(t, alice, "ROOM01")
		send(t, alice, wireMessage{Type: "canvas-data", RoomCode: "ROOM01", ImageData: "data:image/png;base64,R1"})

		require.Eventually(t, func() bool {
			snapshot, err := snapshots.Load(context.Background(), "ROOM01")
			return err == nil && snapshot.Data == "data:image/png;base64,R1"
		}, 2*time.Second, 10*time.Millisecond)
	})
}
