package shared

import (
	"time"

	"github.com/google/uuid"
)

type NotificationJob struct {
	ID       uuid.UUID
	Kind     string
	Topic    string
	Payload  []byte
	RunAt    time.Time
	Attempts int
}

const (
	IdempotencyStatusProcessing = "processing"
	IdempotencyStatusCompleted  = "completed"
)

type IdempotencyRecord struct {
	Key         uuid.UUID  `json:"key"`
	UserID      uuid.UUID  `json:"user_id"`
	Status      string     `json:"status"`
	RequestHash string     `json:"request_hash"`
	BookingID   *uuid.UUID `json:"booking_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Notification kinds, also used as routing keys on the events exchange.
const (
	TopicBookingCreated      = "booking.created"
	TopicBookingPlayerJoined = "booking.player_joined"
	TopicBookingFilled       = "booking.filled"
	TopicBookingDeleted      = "booking.deleted"
)

// BookingEvent is the payload stored in a notification job and published as-is.
type BookingEvent struct {
	BookingID  uuid.UUID  `json:"booking_id"`
	UserID     uuid.UUID  `json:"user_id"`
	CourtID    uuid.UUID  `json:"court_id"`
	Status     string     `json:"status"`
	PlayerID   *uuid.UUID `json:"player_id,omitempty"`
	Players    int        `json:"players"`
	MaxPlayers int        `json:"max_players"`
	StartTime  time.Time  `json:"start_time"`
	EndTime    time.Time  `json:"end_time"`
	OccurredAt time.Time  `json:"occurred_at"`
}
