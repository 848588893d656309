package domain

import (
	"context"

	"github.com/google/uuid"
)

type ConnectionRegistry interface {
	Register(ctx context.Context, member Member) error
	Deregister(ctx context.Context, memberID uuid.UUID) (Member, error)
	Lookup(ctx context.Context, memberID uuid.UUID) (Member, error)
	Bind(ctx context.Context, memberID uuid.UUID, room string) error
	Members(ctx context.Context) ([]Member, error)
}

type RoomDirectory interface {
	Join(ctx context.Context, room string, memberID uuid.UUID) (Snapshot, bool, error)
	Leave(ctx context.Context, room string, memberID uuid.UUID) (bool, error)
	Members(ctx context.Context, room string) ([]uuid.UUID, error)
	Snapshot(ctx context.Context, room string) (Snapshot, error)
	SetSnapshot(ctx context.Context, room string, data string) error
	SeedSnapshot(ctx context.Context, room string, snapshot Snapshot) error
	ClearSnapshot(ctx context.Context, room string) error
}

// SnapshotStore persists full-canvas rasters. Save is asynchronous and
// best-effort: failures are logged, never retried, never surfaced to the
// sender.
type SnapshotStore interface {
	Save(ctx context.Context, room string, data string) error
	Load(ctx context.Context, room string) (Snapshot, error)
	Clear(ctx context.Context, room string) error
}

// RoomVerifier is the room-management collaborator: it answers whether a
// code refers to an existing room.
type RoomVerifier interface {
	Exists(ctx context.Context, room string) (bool, error)
}

type Broadcaster interface {
	Broadcast(ctx context.Context, channel string, event Event) error
}

type Messenger interface {
	Send(ctx context.Context, event Event) error
	SendSnapshot(ctx context.Context, snapshot Snapshot) error
	SendServerClosingNotification(ctx context.Context) error
}
