package rabbitmq

import (
	"time"

	"github.com/google/uuid"
)

// ListingEventDTO - тело сообщения о жизненном цикле объявления
type ListingEventDTO struct {
	EventID      uuid.UUID `json:"event_id"`
	EventType    string    `json:"event_type"`
	OccurredAt   time.Time `json:"occurred_at"`
	ListingID    uuid.UUID `json:"listing_id"`
	UserID       uuid.UUID `json:"user_id"`
	Title        string    `json:"title,omitempty"`
	PropertyType string    `json:"property_type,omitempty"`
	TotalArea    float64   `json:"total_area,omitempty"`
}
