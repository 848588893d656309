package store

import (
	"context"
	"sync"

	"github.com/arthurdotwork/board/internal/domain"
	"github.com/google/uuid"
)

type roomState struct {
	mu       sync.RWMutex
	members  map[uuid.UUID]struct{}
	snapshot string
	version  uint64
	seeded   bool
}

// Directory maps a room code to its live state: the member set and the
// cached latest snapshot. Entries are lazily materialized on first join
// and evicted when the member set empties. Read paths (fan-out, snapshot
// reads) lock only the room they touch, so unrelated rooms never
// serialize against each other.
type Directory struct {
	rooms map[string]*roomState
	sync.RWMutex
}

func NewDirectory() *Directory {
	return &Directory{
		rooms: make(map[string]*roomState),
	}
}

// Join adds the connection to the room's member set, materializing the
// room on first join. It reports whether the snapshot cache is seeded:
// every joiner that sees an unseeded cache loads from longer-term
// storage, and the first seed wins. Joining twice is a no-op.
func (d *Directory) Join(ctx context.Context, room string, memberID uuid.UUID) (domain.Snapshot, bool, error) {
	d.Lock()
	defer d.Unlock()

	state, ok := d.rooms[room]
	if !ok {
		state = &roomState{members: make(map[uuid.UUID]struct{})}
		d.rooms[room] = state
	}

	state.mu.Lock()
	defer state.mu.Unlock()

	state.members[memberID] = struct{}{}

	return domain.Snapshot{Room: room, Data: state.snapshot, Version: state.version}, state.seeded, nil
}

// Leave removes the connection from the member set and evicts the room
// once it is empty. It reports whether the room was evicted.
func (d *Directory) Leave(ctx context.Context, room string, memberID uuid.UUID) (bool, error) {
	d.Lock()
	defer d.Unlock()

	state, ok := d.rooms[room]
	if !ok {
		return false, nil
	}

	state.mu.Lock()
	defer state.mu.Unlock()

	delete(state.members, memberID)

	if len(state.members) == 0 {
		delete(d.rooms, room)
		return true, nil
	}

	return false, nil
}

// Members returns a consistent copy of the member set: a Leave that has
// returned is never reflected, a Join that has returned always is.
func (d *Directory) Members(ctx context.Context, room string) ([]uuid.UUID, error) {
	state, ok := d.room(room)
	if !ok {
		return nil, nil
	}

	state.mu.RLock()
	defer state.mu.RUnlock()

	members := make([]uuid.UUID, 0, len(state.members))
	for memberID := range state.members {
		members = append(members, memberID)
	}

	return members, nil
}

func (d *Directory) Snapshot(ctx context.Context, room string) (domain.Snapshot, error) {
	state, ok := d.room(room)
	if !ok {
		return domain.Snapshot{Room: room}, nil
	}

	state.mu.RLock()
	defer state.mu.RUnlock()

	return domain.Snapshot{Room: room, Data: state.snapshot, Version: state.version}, nil
}

// SetSnapshot replaces the cached snapshot, last-write-wins. Setting the
// snapshot of an evicted room is a no-op.
func (d *Directory) SetSnapshot(ctx context.Context, room string, data string) error {
	state, ok := d.room(room)
	if !ok {
		return nil
	}

	state.mu.Lock()
	defer state.mu.Unlock()

	state.snapshot = data
	state.version++
	state.seeded = true
	return nil
}

// SeedSnapshot installs the stored snapshot on an unseeded room. The
// first seed wins, and so does a canvas update that arrived while the
// stored snapshot was being loaded.
func (d *Directory) SeedSnapshot(ctx context.Context, room string, snapshot domain.Snapshot) error {
	state, ok := d.room(room)
	if !ok {
		return nil
	}

	state.mu.Lock()
	defer state.mu.Unlock()

	if state.seeded {
		return nil
	}

	state.snapshot = snapshot.Data
	state.version = snapshot.Version
	state.seeded = true
	return nil
}

func (d *Directory) ClearSnapshot(ctx context.Context, room string) error {
	state, ok := d.room(room)
	if !ok {
		return nil
	}

	state.mu.Lock()
	defer state.mu.Unlock()

	state.snapshot = ""
	state.version++
	state.seeded = true
	return nil
}

func (d *Directory) room(room string) (*roomState, bool) {
	d.RLock()
	defer d.RUnlock()

	state, ok := d.rooms[room]
	return state, ok
}
