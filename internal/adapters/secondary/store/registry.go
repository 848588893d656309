package store

import (
	"context"
	"sync"

	"github.com/arthurdotwork/board/internal/domain"
	"github.com/google/uuid"
)

// Registry owns the live connection records. Room membership references
// these records by id only.
type Registry struct {
	members map[uuid.UUID]domain.Member
	sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{
		members: make(map[uuid.UUID]domain.Member),
	}
}

func (r *Registry) Register(ctx context.Context, member domain.Member) error {
	r.Lock()
	defer r.Unlock()

	if _, ok := r.members[member.ID]; ok {
		return nil
	}

	r.members[member.ID] = member
	return nil
}

// Deregister is idempotent: deregistering an unknown connection returns a
// zero member and no error.
func (r *Registry) Deregister(ctx context.Context, memberID uuid.UUID) (domain.Member, error) {
	r.Lock()
	defer r.Unlock()

	member, ok := r.members[memberID]
	if !ok {
		return domain.Member{}, nil
	}

	delete(r.members, memberID)
	return member, nil
}

func (r *Registry) Lookup(ctx context.Context, memberID uuid.UUID) (domain.Member, error) {
	r.RLock()
	defer r.RUnlock()

	member, ok := r.members[memberID]
	if !ok {
		return domain.Member{}, domain.ErrUnknownConnection
	}

	return member, nil
}

func (r *Registry) Bind(ctx context.Context, memberID uuid.UUID, room string) error {
	r.Lock()
	defer r.Unlock()

	member, ok := r.members[memberID]
	if !ok {
		return domain.ErrUnknownConnection
	}

	member.Room = room
	r.members[memberID] = member
	return nil
}

func (r *Registry) Members(ctx context.Context) ([]domain.Member, error) {
	r.RLock()
	defer r.RUnlock()

	members := make([]domain.Member, 0, len(r.members))
	for _, member := range r.members {
		members = append(members, member)
	}

	return members, nil
}
