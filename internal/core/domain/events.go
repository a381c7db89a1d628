package domain

import (
	"time"

	"github.com/google/uuid"
)

// ListingEventType - тип события жизненного цикла объявления
type ListingEventType string

const (
	ListingCreated ListingEventType = "created"
	ListingUpdated ListingEventType = "updated"
	ListingDeleted ListingEventType = "deleted"
)

// ListingEvent публикуется после успешного изменения объявления
type ListingEvent struct {
	Type         ListingEventType
	ListingID    uuid.UUID
	UserID       uuid.UUID
	Title        string
	PropertyType string
	TotalArea    float64
	OccurredAt   time.Time
}

// NewListingEvent собирает событие по текущему состоянию объявления
func NewListingEvent(eventType ListingEventType, l *Listing) ListingEvent {
	return ListingEvent{
		Type:         eventType,
		ListingID:    l.ID,
		UserID:       l.UserID,
		Title:        l.Title,
		PropertyType: l.PropertyType,
		TotalArea:    l.TotalArea,
		OccurredAt:   time.Now().UTC(),
	}
}
