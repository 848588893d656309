package domain

import "github.com/google/uuid"

// Member is one live connection. The ConnectionRegistry owns the record;
// the RoomDirectory references it by ID only.
type Member struct {
	ID        uuid.UUID
	UserID    string
	Room      string
	Messenger Messenger
}
