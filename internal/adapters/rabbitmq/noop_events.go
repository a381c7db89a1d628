package rabbitmq

import (
	"context"

	"listings-service/internal/contextkeys"
	"listings-service/internal/core/domain"
	"listings-service/internal/core/port"
)

// NoopListingEventsAdapter используется, когда RABBITMQ_ENABLED=false
type NoopListingEventsAdapter struct{}

func NewNoopListingEventsAdapter() *NoopListingEventsAdapter {
	return &NoopListingEventsAdapter{}
}

func (a *NoopListingEventsAdapter) PublishListingEvent(ctx context.Context, event domain.ListingEvent) error {
	contextkeys.LoggerFromContext(ctx).Debug("Event publishing disabled, dropping listing event", port.Fields{
		"event_type": string(event.Type),
		"listing_id": event.ListingID.String(),
	})
	return nil
}
