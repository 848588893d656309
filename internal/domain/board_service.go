package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

var (
	ErrRoomNotFound      = errors.New("room not found")
	ErrNotInRoom         = errors.New("connection is not a member of the room")
	ErrUnknownConnection = errors.New("unknown connection")
)

type BoardService struct {
	registry    ConnectionRegistry
	directory   RoomDirectory
	snapshots   SnapshotStore
	rooms       RoomVerifier
	broadcaster Broadcaster
}

func NewBoardService(
	registry ConnectionRegistry,
	directory RoomDirectory,
	snapshots SnapshotStore,
	rooms RoomVerifier,
	broadcaster Broadcaster,
) *BoardService {
	return &BoardService{
		registry:    registry,
		directory:   directory,
		snapshots:   snapshots,
		rooms:       rooms,
		broadcaster: broadcaster,
	}
}

func (s *BoardService) Connect(ctx context.Context, member Member) error {
	if err := s.registry.Register(ctx, member); err != nil {
		return fmt.Errorf("registry.Register: %w", err)
	}

	return nil
}

// Join binds the connection to the room and returns the snapshot the
// caller should render immediately. Room existence is re-verified against
// the room-management collaborator here; relay of later events trusts the
// established membership.
func (s *BoardService) Join(ctx context.Context, memberID uuid.UUID, room string) (Snapshot, error) {
	code, err := NormalizeRoomCode(room)
	if err != nil {
		return Snapshot{}, err
	}

	member, err := s.registry.Lookup(ctx, memberID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("registry.Lookup: %w", err)
	}

	exists, err := s.rooms.Exists(ctx, code)
	if err != nil {
		return Snapshot{}, fmt.Errorf("rooms.Exists: %w", err)
	}

	if !exists {
		return Snapshot{}, ErrRoomNotFound
	}

	// A connection belongs to at most one room: joining another room
	// leaves the previous one first.
	if member.Room != "" && member.Room != code {
		if _, err := s.directory.Leave(ctx, member.Room, memberID); err != nil {
			return Snapshot{}, fmt.Errorf("directory.Leave: %w", err)
		}
	}

	snapshot, seeded, err := s.directory.Join(ctx, code, memberID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("directory.Join: %w", err)
	}

	if err := s.registry.Bind(ctx, memberID, code); err != nil {
		return Snapshot{}, fmt.Errorf("registry.Bind: %w", err)
	}

	if seeded {
		return snapshot, nil
	}

	// An unseeded cache means the stored snapshot has not landed yet.
	// Every joiner in that window loads and seeds; the first seed wins.

	stored, err := s.snapshots.Load(ctx, code)
	if err != nil {
		slog.WarnContext(ctx, "could not load the stored snapshot, starting from a blank canvas", "room", code, "error", err)
		stored = Snapshot{Room: code}
	}

	if err := s.directory.SeedSnapshot(ctx, code, stored); err != nil {
		return Snapshot{}, fmt.Errorf("directory.SeedSnapshot: %w", err)
	}

	// Re-read after seeding: a canvas update may have landed while the
	// stored snapshot was loading, and it wins.
	snapshot, err = s.directory.Snapshot(ctx, code)
	if err != nil {
		return Snapshot{}, fmt.Errorf("directory.Snapshot: %w", err)
	}

	return snapshot, nil
}

func (s *BoardService) Draw(ctx context.Context, senderID uuid.UUID, room string, stroke Stroke) error {
	code, err := s.memberRoom(ctx, senderID, room)
	if err != nil {
		return err
	}

	if err := stroke.Validate(); err != nil {
		return err
	}

	event := Event{
		ID:     uuid.New(),
		Kind:   EventDraw,
		Room:   code,
		Sender: senderID,
		Stroke: &stroke,
	}

	if err := s.broadcaster.Broadcast(ctx, EventsChannel, event); err != nil {
		return fmt.Errorf("broadcaster.Broadcast: %w", err)
	}

	return nil
}

// SaveCanvas relays the full raster over the bus; the snapshot cache is
// updated when the event comes back through Broadcast so every node
// applies it. Persistence is queued, not awaited: a drawing session never
// blocks on storage.
func (s *BoardService) SaveCanvas(ctx context.Context, senderID uuid.UUID, room string, data string) error {
	code, err := s.memberRoom(ctx, senderID, room)
	if err != nil {
		return err
	}

	event := Event{
		ID:     uuid.New(),
		Kind:   EventCanvas,
		Room:   code,
		Sender: senderID,
		Canvas: data,
	}

	if err := s.broadcaster.Broadcast(ctx, EventsChannel, event); err != nil {
		return fmt.Errorf("broadcaster.Broadcast: %w", err)
	}

	if err := s.snapshots.Save(ctx, code, data); err != nil {
		slog.ErrorContext(ctx, "could not queue snapshot persistence", "room", code, "error", err)
	}

	return nil
}

func (s *BoardService) ClearCanvas(ctx context.Context, senderID uuid.UUID, room string) error {
	code, err := s.memberRoom(ctx, senderID, room)
	if err != nil {
		return err
	}

	event := Event{
		ID:     uuid.New(),
		Kind:   EventClear,
		Room:   code,
		Sender: senderID,
	}

	if err := s.broadcaster.Broadcast(ctx, EventsChannel, event); err != nil {
		return fmt.Errorf("broadcaster.Broadcast: %w", err)
	}

	if err := s.snapshots.Clear(ctx, code); err != nil {
		slog.ErrorContext(ctx, "could not clear the stored snapshot", "room", code, "error", err)
	}

	return nil
}

// Broadcast fans an event out to the current members of its room, sender
// excluded. Delivery is best-effort: a recipient whose send queue is full
// loses this event, the others are unaffected.
//
// Canvas and clear events also land in the local snapshot cache here,
// not at their origin, so every node subscribed to the bus converges on
// the same snapshot in the same order.
func (s *BoardService) Broadcast(ctx context.Context, event Event) error {
	switch event.Kind {
	case EventCanvas:
		if err := s.directory.SetSnapshot(ctx, event.Room, event.Canvas); err != nil {
			return fmt.Errorf("directory.SetSnapshot: %w", err)
		}
	case EventClear:
		if err := s.directory.ClearSnapshot(ctx, event.Room); err != nil {
			return fmt.Errorf("directory.ClearSnapshot: %w", err)
		}
	}

	members, err := s.directory.Members(ctx, event.Room)
	if err != nil {
		return fmt.Errorf("directory.Members: %w", err)
	}

	for _, memberID := range members {
		if memberID == event.Sender {
			continue
		}

		member, err := s.registry.Lookup(ctx, memberID)
		if err != nil {
			// The connection left between the membership read and now.
			continue
		}

		if err := member.Messenger.Send(ctx, event); err != nil {
			slog.WarnContext(ctx, "dropping event for recipient", "room", event.Room, "recipient", memberID.String(), "error", err)
		}
	}

	return nil
}

func (s *BoardService) Disconnect(ctx context.Context, memberID uuid.UUID) error {
	member, err := s.registry.Deregister(ctx, memberID)
	if err != nil {
		return fmt.Errorf("registry.Deregister: %w", err)
	}

	if member.Room == "" {
		return nil
	}

	if _, err := s.directory.Leave(ctx, member.Room, memberID); err != nil {
		return fmt.Errorf("directory.Leave: %w", err)
	}

	return nil
}

func (s *BoardService) Close(ctx context.Context, done chan struct{}) error {
	defer close(done)

	members, err := s.registry.Members(ctx)
	if err != nil {
		return fmt.Errorf("registry.Members: %w", err)
	}

	for _, member := range members {
		if err := member.Messenger.SendServerClosingNotification(ctx); err != nil {
			slog.ErrorContext(ctx, "error notifying client of shutdown", "connection", member.ID.String(), "error", err)
		}
	}

	return nil
}

func (s *BoardService) memberRoom(ctx context.Context, memberID uuid.UUID, room string) (string, error) {
	code, err := NormalizeRoomCode(room)
	if err != nil {
		return "", err
	}

	member, err := s.registry.Lookup(ctx, memberID)
	if err != nil {
		if errors.Is(err, ErrUnknownConnection) {
			return "", ErrNotInRoom
		}

		return "", fmt.Errorf("registry.Lookup: %w", err)
	}

	if member.Room != code {
		return "", ErrNotInRoom
	}

	return code, nil
}
