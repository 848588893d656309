package rooms

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Room mirrors the rooms table owned by the room-management service. The
// sync core only ever reads it to answer existence checks.
type Room struct {
	ID        uint      `gorm:"primaryKey"`
	Code      string    `gorm:"size:6;uniqueIndex"`
	Name      string    `gorm:"column:room_name"`
	CreatorID uint      `gorm:"column:creator_id"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (Room) TableName() string {
	return "rooms"
}

// Verifier answers the room-existence check against the rooms table.
type Verifier struct {
	db *gorm.DB
}

func NewVerifier(db *gorm.DB) *Verifier {
	return &Verifier{db: db}
}

func (v *Verifier) Exists(ctx context.Context, room string) (bool, error) {
	var count int64
	if err := v.db.WithContext(ctx).Model(&Room{}).Where("code = ?", room).Count(&count).Error; err != nil {
		return false, fmt.Errorf("db.Count: %w", err)
	}

	return count > 0, nil
}
