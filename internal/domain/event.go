package domain

import (
	"errors"
	"math"
	"strings"

	"github.com/google/uuid"
)

// EventsChannel is the pub/sub channel every node subscribes to for relay.
const EventsChannel = "board-events"

// RoomCodeLength is fixed by the room-management service that mints codes.
const RoomCodeLength = 6

var (
	ErrInvalidRoomCode = errors.New("invalid room code")
	ErrInvalidStroke   = errors.New("invalid stroke")
)

// NormalizeRoomCode uppercases a client-supplied room code and rejects
// anything that is not exactly RoomCodeLength characters of [A-Z0-9].
func NormalizeRoomCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != RoomCodeLength {
		return "", ErrInvalidRoomCode
	}

	for _, r := range code {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return "", ErrInvalidRoomCode
		}
	}

	return code, nil
}

type Tool string

const (
	ToolPen    Tool = "pen"
	ToolEraser Tool = "eraser"
)

// Stroke is one drawing segment. It is transient: it exists only for the
// duration of relay and is never stored.
type Stroke struct {
	PrevX float64 `json:"prevX"`
	PrevY float64 `json:"prevY"`
	CurrX float64 `json:"currX"`
	CurrY float64 `json:"currY"`
	Color string  `json:"color"`
	Size  float64 `json:"size"`
	Tool  Tool    `json:"tool"`
}

func (s Stroke) Validate() error {
	for _, c := range []float64{s.PrevX, s.PrevY, s.CurrX, s.CurrY} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return ErrInvalidStroke
		}
	}

	if s.Size <= 0 || s.Size > 100 {
		return ErrInvalidStroke
	}

	if s.Color == "" || len(s.Color) > 32 {
		return ErrInvalidStroke
	}

	switch s.Tool {
	case ToolPen, ToolEraser:
	default:
		return ErrInvalidStroke
	}

	return nil
}

type EventKind string

const (
	EventDraw   EventKind = "draw"
	EventCanvas EventKind = "canvas"
	EventClear  EventKind = "clear"
)

// Event is the envelope relayed between room members. Sender identifies
// the originating connection so fan-out can exclude it; it is never
// persisted.
type Event struct {
	ID     uuid.UUID `json:"id"`
	Kind   EventKind `json:"kind"`
	Room   string    `json:"room"`
	Sender uuid.UUID `json:"sender"`
	Stroke *Stroke   `json:"stroke,omitempty"`
	Canvas string    `json:"canvas,omitempty"`
}

// Snapshot is the latest full-canvas raster for a room. Empty Data is the
// blank-canvas sentinel. Writes are last-write-wins by arrival; there is
// no merging of concurrent saves.
type Snapshot struct {
	Room    string `json:"room"`
	Data    string `json:"data"`
	Version uint64 `json:"version"`
}

func (s Snapshot) Blank() bool {
	return s.Data == ""
}
