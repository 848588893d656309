package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/arthurdotwork/board/internal/adapters/secondary/messenger"
	"github.com/arthurdotwork/board/internal/domain"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

// Canvas rasters travel as data URLs, so inbound frames can be large.
const maxMessageSize = 1 << 20

type BoardService interface {
	Connect(ctx context.Context, member domain.Member) error
	Join(ctx context.Context, memberID uuid.UUID, room string) (domain.Snapshot, error)
	Draw(ctx context.Context, senderID uuid.UUID, room string, stroke domain.Stroke) error
	SaveCanvas(ctx context.Context, senderID uuid.UUID, room string, data string) error
	ClearCanvas(ctx context.Context, senderID uuid.UUID, room string) error
	Disconnect(ctx context.Context, memberID uuid.UUID) error
}

// Identity is the auth collaborator: it resolves the bearer credential
// issued at login into a user id.
type Identity interface {
	FromCredential(credential string) (string, error)
}

type clientMessage struct {
	Type     string `json:"type"`
	RoomCode string `json:"roomCode"`
	domain.Stroke
	ImageData string `json:"imageData"`
}

type Server struct {
	boardService BoardService
	identity     Identity
	upgrader     websocket.Upgrader
}

func NewServer(boardService BoardService, identity Identity) *Server {
	return &Server{
		boardService: boardService,
		identity:     identity,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The HTTP collaborator fronts this endpoint; origin policy
			// lives there.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/ws", s.handle)

	return router
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := s.identity.FromCredential(credential(r))
	if err != nil {
		http.Error(w, "invalid credential", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.WarnContext(ctx, "upgrade failed", "error", err)
		return
	}

	messageManager := messenger.New(conn)
	member := domain.Member{ID: uuid.New(), UserID: userID, Messenger: messageManager}

	if err := s.boardService.Connect(ctx, member); err != nil {
		slog.ErrorContext(ctx, "error registering connection", "error", err)
		_ = conn.Close()
		return
	}

	slog.DebugContext(ctx, "client connected", "connection", member.ID.String(), "user", userID)

	// The pump outlives the request context so queued messages still
	// drain during teardown.
	go messageManager.Run(context.WithoutCancel(ctx))

	s.readLoop(ctx, conn, member)

	if err := s.boardService.Disconnect(context.WithoutCancel(ctx), member.ID); err != nil {
		slog.ErrorContext(ctx, "error disconnecting", "error", err)
	}

	messageManager.Close()

	slog.DebugContext(ctx, "client disconnected", "connection", member.ID.String())
}

func (s *Server) readLoop(ctx context.Context, conn *websocket.Conn, member domain.Member) {
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(messenger.PongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(messenger.PongWait))
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.DebugContext(ctx, "connection closed unexpectedly", "connection", member.ID.String(), "error", err)
			}

			return
		}

		var msg clientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			slog.WarnContext(ctx, "dropping malformed message", "connection", member.ID.String(), "error", err)
			continue
		}

		s.dispatch(ctx, member, msg)
	}
}

// dispatch routes one client message. Protocol errors drop the message
// with a warning and keep the connection.
func (s *Server) dispatch(ctx context.Context, member domain.Member, msg clientMessage) {
	switch msg.Type {
	case "join-room":
		snapshot, err := s.boardService.Join(ctx, member.ID, msg.RoomCode)
		if err != nil {
			s.drop(ctx, member, msg.Type, err)
			return
		}

		// The snapshot goes to the joining connection only.
		if err := member.Messenger.SendSnapshot(ctx, snapshot); err != nil {
			slog.WarnContext(ctx, "could not send the snapshot", "connection", member.ID.String(), "error", err)
		}
	case "drawing-data":
		if err := s.boardService.Draw(ctx, member.ID, msg.RoomCode, msg.Stroke); err != nil {
			s.drop(ctx, member, msg.Type, err)
		}
	case "canvas-data":
		if err := s.boardService.SaveCanvas(ctx, member.ID, msg.RoomCode, msg.ImageData); err != nil {
			s.drop(ctx, member, msg.Type, err)
		}
	case "clear-canvas":
		if err := s.boardService.ClearCanvas(ctx, member.ID, msg.RoomCode); err != nil {
			s.drop(ctx, member, msg.Type, err)
		}
	default:
		slog.WarnContext(ctx, "dropping message of unknown type", "type", msg.Type, "connection", member.ID.String())
	}
}

func (s *Server) drop(ctx context.Context, member domain.Member, msgType string, err error) {
	slog.WarnContext(ctx, "dropping message", "type", msgType, "connection", member.ID.String(), "error", err)
}

func credential(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}

	if after, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return after
	}

	return ""
}
